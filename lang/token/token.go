// Package token defines the lexical units of the coral language and the
// cursor used to walk them.
package token

import (
	"strconv"
	"strings"
)

// Kind classifies a [Token].
type Kind uint8

const (
	Operator    Kind = iota // operator
	Identifier              // identifier
	Value                   // value
	ControlFlow             // control
	Keyword                 // keyword
	Symbol                  // symbol
	Grouping                // grouping
	Separator               // separator
)

var kindName = [...]string{
	Operator:    "operator",
	Identifier:  "identifier",
	Value:       "value",
	ControlFlow: "control",
	Keyword:     "keyword",
	Symbol:      "symbol",
	Grouping:    "grouping",
	Separator:   "separator",
}

func (k Kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Tag identifies the literal type of a [Value] token.
type Tag uint8

const (
	TagNone Tag = iota
	TagInteger
	TagFloat
	TagString
	TagBoolean
	TagNull
)

var tagName = [...]string{
	TagNone:    "",
	TagInteger: "integer",
	TagFloat:   "float",
	TagString:  "string",
	TagBoolean: "boolean",
	TagNull:    "null",
}

func (t Tag) String() string {
	if int(t) < len(tagName) {
		return tagName[t]
	}

	return "Tag(" + strconv.Itoa(int(t)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Position is a location in source text. Offset is a 0-based byte offset;
// Line and Column are 1-based, with Column counted in runes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether p refers to a location in source.
func (p Position) IsValid() bool { return p.Line > 0 }

// Token is a classified lexical unit.
//
// Lexeme is the exact source text of the token. String literals keep their
// quotes and escapes; use [Unquote] to decode them.
type Token struct {
	Lexeme string   `json:"lexeme"        yaml:"lexeme"`
	Pos    Position `json:"pos"           yaml:"pos"`
	Kind   Kind     `json:"kind"          yaml:"kind"`
	Tag    Tag      `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Is reports whether t has the given kind and lexeme.
func (t Token) Is(kind Kind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

// End returns the position immediately following t.
func (t Token) End() Position {
	end := t.Pos
	end.Offset += len(t.Lexeme)

	for _, r := range t.Lexeme {
		if r == '\n' {
			end.Line++
			end.Column = 1
		} else {
			end.Column++
		}
	}

	return end
}

func (t Token) String() string {
	if t.Tag != TagNone {
		return t.Kind.String() + "(" + t.Tag.String() + ") " + strconv.Quote(t.Lexeme)
	}

	return t.Kind.String() + " " + strconv.Quote(t.Lexeme)
}

// Join returns the lexemes of toks separated by single spaces.
func Join(toks []Token) string {
	var sb strings.Builder

	for i, t := range toks {
		if i > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(t.Lexeme)
	}

	return sb.String()
}

// Unquote decodes the lexeme of a string literal. The surrounding quotes are
// removed, and a backslash before the literal's own quote character or before
// another backslash yields that character. Any other backslash is kept.
func Unquote(lexeme string) string {
	if len(lexeme) < 2 {
		return lexeme
	}

	quote := rune(lexeme[0])
	body := lexeme[1 : len(lexeme)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var sb strings.Builder

	sb.Grow(len(body))

	escaped := false

	for _, r := range body {
		if escaped {
			escaped = false

			if r != quote && r != '\\' {
				sb.WriteByte('\\')
			}
		} else if r == '\\' {
			escaped = true

			continue
		}

		sb.WriteRune(r)
	}

	return sb.String()
}
