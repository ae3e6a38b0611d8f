package token

import (
	"cmp"
	"slices"
	"sync"
	"unicode/utf8"
)

// Fixed is an entry of the fixed token table: a token whose text is known in
// advance, such as an operator, keyword or bracket.
type Fixed struct {
	Text string
	Kind Kind
	Tag  Tag
}

// Word reports whether f is spelled like an identifier. Word tokens are only
// recognized when not immediately followed by an identifier character.
func (f Fixed) Word() bool {
	r, _ := utf8.DecodeRuneInString(f.Text)

	return IsIdentStart(r)
}

var fixed = []Fixed{
	{"if", ControlFlow, TagNone},
	{"elif", ControlFlow, TagNone},
	{"else", ControlFlow, TagNone},
	{"while", ControlFlow, TagNone},
	{"for", ControlFlow, TagNone},
	{"do", ControlFlow, TagNone},

	{"func", Keyword, TagNone},
	{"return", Keyword, TagNone},
	{"print", Keyword, TagNone},

	{"true", Value, TagBoolean},
	{"false", Value, TagBoolean},
	{"null", Value, TagNull},

	{"+", Operator, TagNone},
	{"-", Operator, TagNone},
	{"*", Operator, TagNone},
	{"/", Operator, TagNone},
	{"%", Operator, TagNone},
	{"**", Operator, TagNone},
	{"@", Operator, TagNone},
	{"&", Operator, TagNone},
	{"|", Operator, TagNone},
	{"^", Operator, TagNone},
	{"<<", Operator, TagNone},
	{">>", Operator, TagNone},
	{"&&", Operator, TagNone},
	{"||", Operator, TagNone},
	{"^^", Operator, TagNone},
	{"!", Operator, TagNone},
	{":>", Operator, TagNone},
	{"<", Operator, TagNone},
	{">", Operator, TagNone},
	{"<=", Operator, TagNone},
	{">=", Operator, TagNone},
	{"==", Operator, TagNone},
	{"!=", Operator, TagNone},
	{"===", Operator, TagNone},
	{"!==", Operator, TagNone},

	{"=", Symbol, TagNone},
	{":", Symbol, TagNone},
	{"=>", Symbol, TagNone},
	{"+=", Symbol, TagNone},
	{"-=", Symbol, TagNone},
	{"*=", Symbol, TagNone},
	{"/=", Symbol, TagNone},
	{"%=", Symbol, TagNone},
	{"**=", Symbol, TagNone},
	{"@=", Symbol, TagNone},
	{"&=", Symbol, TagNone},
	{"|=", Symbol, TagNone},
	{"^=", Symbol, TagNone},
	{"<<=", Symbol, TagNone},
	{">>=", Symbol, TagNone},

	{"(", Grouping, TagNone},
	{")", Grouping, TagNone},
	{"{", Grouping, TagNone},
	{"}", Grouping, TagNone},
	{";", Grouping, TagNone},

	{",", Separator, TagNone},
}

// Table returns the fixed token table ordered by descending text length, so
// that the first entry matching a prefix of the input is the longest one.
var Table = sync.OnceValue(func() []Fixed {
	t := slices.Clone(fixed)
	slices.SortStableFunc(t, func(a, b Fixed) int {
		return cmp.Compare(len(b.Text), len(a.Text))
	})

	return t
})

// Compound maps each compound assignment symbol to its binary operator.
var Compound = map[string]string{
	"+=":  "+",
	"-=":  "-",
	"*=":  "*",
	"/=":  "/",
	"%=":  "%",
	"**=": "**",
	"@=":  "@",
	"&=":  "&",
	"|=":  "|",
	"^=":  "^",
	"<<=": "<<",
	">>=": ">>",
}

// CompoundSymbols returns the compound assignment symbols in table order.
func CompoundSymbols() []string {
	var out []string

	for _, f := range fixed {
		if _, ok := Compound[f.Text]; ok {
			out = append(out, f.Text)
		}
	}

	return out
}

// Words returns the text of every word-like fixed token.
func Words() []string {
	var out []string

	for _, f := range fixed {
		if f.Word() {
			out = append(out, f.Text)
		}
	}

	return out
}

// IsIdentStart reports whether r may begin an identifier. Identifiers are
// ASCII only.
func IsIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// IsIdent reports whether r may continue an identifier.
func IsIdent(r rune) bool {
	return IsIdentStart(r) || ('0' <= r && r <= '9')
}
