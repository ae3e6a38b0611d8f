package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/coral/lang"
	"github.com/ardnew/coral/lang/token"
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before the cursor.
// String literals are skipped so that parentheses and commas inside them
// are not counted.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	type frame struct {
		name string
		args int
	}

	var (
		stack  []frame
		quoted rune
		prev   string
	)

	for i := 0; i < cursor; {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch {
		case quoted != 0:
			if r == '\\' {
				i += size
				_, size = utf8.DecodeRuneInString(input[i:])
			} else if r == quoted {
				quoted = 0
			}

		case r == '"' || r == '\'':
			quoted = r

		case token.IsIdentStart(r):
			word, _, end := wordBounds(input, i)
			prev = word
			if slices.Contains(token.Words(), word) {
				prev = ""
			}

			i = end

			continue

		case r == '(':
			stack = append(stack, frame{name: prev})

		case r == ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case r == ',':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}

		if r != ' ' && r != '\t' {
			prev = ""
		}

		i += size
	}

	if len(stack) == 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]
	if top.name == "" {
		return functionCall{}
	}

	return functionCall{name: top.name, argIndex: top.args, inCall: true}
}

// signature formats f as "name(p1, p2)".
func signature(f *lang.Func) string {
	return f.Name + "(" + strings.Join(f.Params, ", ") + ")"
}

// lookupFunc returns the function bound to name in ns.
func lookupFunc(ns *lang.Namespace, name string) (*lang.Func, bool) {
	v, ok := ns.Lookup(name)
	if !ok {
		return nil, false
	}

	f, ok := v.(*lang.Func)

	return f, ok
}

// renderSignatureHint renders the signature of f with the parameter at
// argIndex highlighted. Arguments beyond the declared parameters are
// flagged as surplus.
func renderSignatureHint(f *lang.Func, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(f.Name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range f.Params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if argIndex >= len(f.Params) && (argIndex > 0 || len(f.Params) > 0) {
		b.WriteString(errorStyle.Render("  too many arguments"))
	}

	return b.String()
}
