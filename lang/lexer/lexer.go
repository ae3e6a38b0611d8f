// Package lexer converts coral source text into tokens.
//
// Tokenizing is a single forward pass. At each position the lexer skips
// whitespace and comments, then tries the fixed token table longest first,
// then string, number and identifier literals. Word-like fixed tokens such as
// keywords are only recognized when the next character cannot continue an
// identifier, so "iffy" is an identifier and not "if" followed by "fy".
package lexer

import (
	"iter"
	"log/slog"
	"strconv"
	"unicode"

	"github.com/ardnew/coral/lang/token"
	"github.com/ardnew/coral/pkg"
)

// ErrLexical is the sentinel for every tokenizing failure.
var ErrLexical = pkg.NewError("lexical error")

// Lexer produces tokens from source text on demand.
type Lexer struct {
	scan *Scanner
}

// New returns a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{scan: NewScanner(src)}
}

// Tokenize returns all tokens of src, or the first lexical error.
func Tokenize(src string) ([]token.Token, error) {
	var toks []token.Token

	for tok, err := range New(src).All() {
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

// All returns an iterator over the remaining tokens. Iteration stops after
// the first error.
func (l *Lexer) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, ok, err := l.Next()
			if err != nil {
				yield(tok, err)

				return
			}

			if !ok || !yield(tok, nil) {
				return
			}
		}
	}
}

// Next returns the next token. It reports ok=false at the end of input.
func (l *Lexer) Next() (tok token.Token, ok bool, err error) {
	l.skipSpace()

	if l.scan.Done() {
		return token.Token{}, false, nil
	}

	start := l.scan.Pos()

	if f, found := l.fixed(); found {
		l.scan.Skip(len(f.Text))

		return token.Token{
			Kind:   f.Kind,
			Lexeme: f.Text,
			Tag:    f.Tag,
			Pos:    start,
		}, true, nil
	}

	switch r := l.scan.Peek(); {
	case r == '"' || r == '\'':
		return l.string(start)

	case isDigit(r):
		return l.number(start), true, nil

	case token.IsIdentStart(r):
		for token.IsIdent(l.scan.Peek()) && !l.scan.Done() {
			l.scan.Next()
		}

		return token.Token{
			Kind:   token.Identifier,
			Lexeme: l.scan.Since(start),
			Pos:    start,
		}, true, nil

	default:
		return token.Token{}, false, ErrLexical.
			At(start.Line, start.Column).
			Wrapf("improper token %s", strconv.QuoteRune(r)).
			With(slog.Int("offset", start.Offset))
	}
}

// fixed returns the longest fixed token at the cursor.
func (l *Lexer) fixed() (token.Fixed, bool) {
	for _, f := range token.Table() {
		if !l.scan.HasPrefix(f.Text) {
			continue
		}

		if f.Word() && token.IsIdent(l.scan.PeekAt(len(f.Text))) {
			continue
		}

		return f, true
	}

	return token.Fixed{}, false
}

// skipSpace skips whitespace and line comments introduced by '#'.
func (l *Lexer) skipSpace() {
	for !l.scan.Done() {
		switch r := l.scan.Peek(); {
		case r == '#':
			for !l.scan.Done() && l.scan.Peek() != '\n' {
				l.scan.Next()
			}

		case unicode.IsSpace(r):
			l.scan.Next()

		default:
			return
		}
	}
}

func (l *Lexer) string(start token.Position) (token.Token, bool, error) {
	quote := l.scan.Next()

	for !l.scan.Done() {
		switch l.scan.Next() {
		case '\\':
			l.scan.Next()

		case quote:
			return token.Token{
				Kind:   token.Value,
				Lexeme: l.scan.Since(start),
				Tag:    token.TagString,
				Pos:    start,
			}, true, nil
		}
	}

	return token.Token{}, false, ErrLexical.
		At(start.Line, start.Column).
		Wrapf("unterminated string").
		With(slog.Int("offset", start.Offset))
}

func (l *Lexer) number(start token.Position) token.Token {
	tag := token.TagInteger

	for !l.scan.Done() {
		r := l.scan.Peek()

		if r == '.' && tag == token.TagInteger && isDigit(l.scan.PeekAt(1)) {
			tag = token.TagFloat
		} else if !isDigit(r) {
			break
		}

		l.scan.Next()
	}

	return token.Token{
		Kind:   token.Value,
		Lexeme: l.scan.Since(start),
		Tag:    tag,
		Pos:    start,
	}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
