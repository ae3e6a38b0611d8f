package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/coral/lang/lexer"
)

// render prints x fully parenthesized.
func render(x Expression) string {
	switch n := x.(type) {
	case *Literal:
		if s, ok := n.Value.(String); ok {
			return `"` + string(s) + `"`
		}

		return n.Value.Display()

	case *ObjectLookup:
		return n.Name

	case *Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = render(a)
		}

		return n.Name + "(" + strings.Join(args, ", ") + ")"

	case *UnaryOp:
		return "(" + n.Op + render(n.X) + ")"

	case *BinaryOp:
		return "(" + render(n.Left) + " " + n.Op + " " + render(n.Right) + ")"
	}

	return "?"
}

func parseExprSource(t *testing.T, src string) (Expression, error) {
	t.Helper()

	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}

	return ParseExpr(toks)
}

func TestParseExpr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "1"},
		{"1.5", "1.5"},
		{`"hi"`, `"hi"`},
		{"true", "true"},
		{"null", "null"},
		{"x", "x"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"a || b && c", "(a || (b && c))"},
		{"a ^^ b || c", "((a ^^ b) || c)"},
		{"a == b && c < d", "((a == b) && (c < d))"},
		{"a | b ^ c & d", "(a | (b ^ (c & d)))"},
		{"1 << 2 + 3", "(1 << (2 + 3))"},
		{"a % b * c", "((a % b) * c)"},
		{`"a" :> s`, `("a" :> s)`},
		{"-x", "(-x)"},
		{"-2 ** 2", "(-(2 ** 2))"},
		{"-a + b", "((-a) + b)"},
		{"!a && b", "((!a) && b)"},
		{"- - x", "(-(-x))"},
		{"f()", "f()"},
		{"f(1)", "f(1)"},
		{"f(1, g(2, 3), (4 + 5))", "f(1, g(2, 3), (4 + 5))"},
		{"f(a) + f(b) * 2", "(f(a) + (f(b) * 2))"},
		{"((x))", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			x, err := parseExprSource(t, tt.input)
			if err != nil {
				t.Fatalf("ParseExpr(%q): %v", tt.input, err)
			}

			if got := render(x); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseExpr_Errors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"", "expected expression"},
		{"1 +", "unexpected end of expression"},
		{"()", "expected expression"},
		{"f(1,)", "expected expression"},
		{"f(,1)", "expected expression"},
		{"(1 + 2", "unbalanced bracketed expression"},
		{"1 2", "after expression"},
		{"* 2", "unexpected"},
		{"x = 1", "after expression"},
		{"99999999999999999999", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseExprSource(t, tt.input)
			if err == nil {
				t.Fatalf("ParseExpr(%q): expected error", tt.input)
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("got %v, want ErrSyntax", err)
			}

			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("got %q, want message containing %q", err, tt.message)
			}
		})
	}
}
