package repl

import (
	"errors"
	"testing"

	"github.com/ardnew/coral/lang"
	"github.com/ardnew/coral/log"
)

func TestTerminate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"  ", ""},
		{"x = 1", "x = 1;"},
		{"x = 1;", "x = 1;"},
		{"if (x) { print x; }", "if (x) { print x; }"},
		{"  y  ", "y;"},
	}

	for _, tt := range tests {
		if got := terminate(tt.in); got != tt.want {
			t.Errorf("terminate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSession_Eval(t *testing.T) {
	s := NewSession(nil, log.Logger{}, 0)

	steps := []struct {
		input string
		want  string
	}{
		{"x = 20", ""},
		{"x + 22", "42\n"},
		{`print "hi"`, "hi\n"},
		{"func twice(n) { return n * 2; }", ""},
		{"twice(x)", "40\n"},
		{"null", ""},
		{"x += 1; print x", "21\n"},
	}

	for _, step := range steps {
		got, err := s.Eval(t.Context(), step.input)
		if err != nil {
			t.Fatalf("Eval(%q): %v", step.input, err)
		}

		if got != step.want {
			t.Errorf("Eval(%q) = %q, want %q", step.input, got, step.want)
		}
	}

	if v, _ := s.Namespace().Lookup("x"); v != lang.Integer(21) {
		t.Errorf("x = %v, want 21", v)
	}

	want := "x = 20;\nx + 22;\nprint \"hi\";\nfunc twice(n) { return n * 2; }\ntwice(x);\nnull;\nx += 1; print x;\n"
	if got := s.Source(); got != want {
		t.Errorf("Source() = %q, want %q", got, want)
	}
}

func TestSession_EvalError(t *testing.T) {
	s := NewSession(nil, log.Logger{}, 0)

	if _, err := s.Eval(t.Context(), "x = (1"); !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("got %v, want ErrSyntax", err)
	}

	if _, err := s.Eval(t.Context(), "undefined + 1"); !errors.Is(err, lang.ErrName) {
		t.Errorf("got %v, want ErrName", err)
	}

	if got := s.Source(); got != "" {
		t.Errorf("failed input recorded in source: %q", got)
	}
}

func TestSession_Replace(t *testing.T) {
	s := NewSession(nil, log.Logger{}, 0)

	if _, err := s.Eval(t.Context(), "old = 1"); err != nil {
		t.Fatal(err)
	}

	before := s.Namespace()

	out, err := s.Replace(t.Context(), "fresh = 2;\nprint fresh;\n")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if out != "2\n" {
		t.Errorf("Replace output = %q", out)
	}

	if _, ok := s.Namespace().Lookup("old"); ok {
		t.Error("old binding survived Replace")
	}

	if got := s.Source(); got != "fresh = 2;\nprint fresh;\n" {
		t.Errorf("Source() = %q", got)
	}

	replaced := s.Namespace()

	if _, err := s.Replace(t.Context(), "print missing;"); err == nil {
		t.Fatal("Replace of a failing script succeeded")
	}

	if s.Namespace() != replaced || s.Namespace() == before {
		t.Error("failed Replace changed the session namespace")
	}
}
