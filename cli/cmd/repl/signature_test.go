package repl

import (
	"regexp"
	"strings"
	"testing"

	"github.com/ardnew/coral/lang"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansi.ReplaceAllString(s, "") }

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no_call", "greeting", 8, "", 0, false},
		{"open_paren", "add(", 4, "add", 0, true},
		{"first_arg", "add(1", 5, "add", 0, true},
		{"second_arg", "add(1,", 6, "add", 1, true},
		{"second_arg_value", "add(1, 2", 8, "add", 1, true},
		{"closed", "add(1, 2)", 9, "", 0, false},
		{"space_before_paren", "add (1", 6, "add", 0, true},
		{"nested_inner", "outer(1, inner(2", 16, "inner", 0, true},
		{"nested_back_to_outer", "outer(1, inner(2), ", 19, "outer", 2, true},
		{"cursor_inside", "add(1, 2)", 5, "add", 0, true},
		{"grouping_paren", "x = (1, ", 8, "", 0, false},
		{"keyword_paren", "while (x", 8, "", 0, false},
		{"string_comma", `say("a,b", `, 11, "say", 1, true},
		{"string_paren", `say("(", `, 9, "say", 1, true},
		{"escaped_quote", `say("\"", x`, 11, "say", 1, true},
		{"single_quote", `say(',', `, 9, "say", 1, true},
		{"operator_before_paren", "a + (b", 6, "", 0, false},
		{"in_assignment", "y = f(g", 7, "f", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			want := functionCall{name: tt.wantName, argIndex: tt.wantIndex, inCall: tt.wantInCall}

			if got != want {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want %+v",
					tt.input, tt.cursor, got, want)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		f    *lang.Func
		want string
	}{
		{&lang.Func{Name: "now"}, "now()"},
		{&lang.Func{Name: "id", Params: []string{"x"}}, "id(x)"},
		{&lang.Func{Name: "clamp", Params: []string{"v", "lo", "hi"}}, "clamp(v, lo, hi)"},
	}

	for _, tt := range tests {
		if got := signature(tt.f); got != tt.want {
			t.Errorf("signature() = %q, want %q", got, tt.want)
		}
	}
}

func TestLookupFunc(t *testing.T) {
	ns := lang.NewRootNamespace()
	ns.Define("add", &lang.Func{Name: "add", Params: []string{"a", "b"}})
	ns.Define("n", lang.Integer(1))

	if f, ok := lookupFunc(ns, "add"); !ok || f.Name != "add" {
		t.Errorf("lookupFunc(add) = %v, %v", f, ok)
	}

	if _, ok := lookupFunc(ns, "n"); ok {
		t.Error("lookupFunc(n) found a non-function")
	}

	if _, ok := lookupFunc(ns, "missing"); ok {
		t.Error("lookupFunc(missing) found a binding")
	}

	if !isFunction(ns, "add") || isFunction(ns, "n") {
		t.Error("isFunction disagrees with lookupFunc")
	}
}

func TestRenderSignatureHint(t *testing.T) {
	f := &lang.Func{Name: "add", Params: []string{"a", "b"}}

	tests := []struct {
		argIndex int
		want     string
	}{
		{0, "add(a, b)"},
		{1, "add(a, b)"},
		{2, "add(a, b)  too many arguments"},
	}

	for _, tt := range tests {
		if got := stripANSI(renderSignatureHint(f, tt.argIndex)); got != tt.want {
			t.Errorf("renderSignatureHint(%d) = %q, want %q", tt.argIndex, got, tt.want)
		}
	}

	none := &lang.Func{Name: "now"}
	if got := stripANSI(renderSignatureHint(none, 0)); got != "now()" {
		t.Errorf("nullary hint = %q", got)
	}

	if got := stripANSI(renderSignatureHint(none, 1)); !strings.HasSuffix(got, "too many arguments") {
		t.Errorf("nullary surplus hint = %q", got)
	}
}
