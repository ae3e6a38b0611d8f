package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// run compiles and runs src in a new root namespace, returning everything it
// printed.
func run(t *testing.T, src string, opts ...Option) (string, *Namespace, error) {
	t.Helper()

	var out bytes.Buffer

	opts = append([]Option{WithOutput(&out), WithCache(false)}, opts...)

	prog, err := Compile(t.Context(), src, opts...)
	if err != nil {
		return "", nil, err
	}

	ns := NewRootNamespace()
	err = prog.Run(t.Context(), ns)

	return out.String(), ns, err
}

func mustRun(t *testing.T, src string, opts ...Option) string {
	t.Helper()

	var out bytes.Buffer

	opts = append([]Option{WithOutput(&out), WithCache(false)}, opts...)

	prog, err := Compile(t.Context(), src, opts...)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}

	if err := prog.Run(t.Context(), nil); err != nil {
		t.Fatalf("Run(%q): %v", src, err)
	}

	return out.String()
}

func TestRun_Output(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"sum", "x = 1 + 2; print x;", "3\n"},
		{"true division", "print 7 / 2;", "3.5\n"},
		{"exact division", "print 6 / 3;", "2.0\n"},
		{"precedence", "print 1 + 2 * 3;", "7\n"},
		{"right associative power", "print 2 ** 3 ** 2;", "512\n"},
		{"parentheses", "print (1 + 2) * 3;", "9\n"},
		{"negative power", "print 2 ** -1;", "0.5\n"},
		{"modulo sign", "print (-7) % 3; print 7 % -3; print -7 % 3;", "2\n-2\n-1\n"},
		{"float modulo", "print 7.5 % 2;", "1.5\n"},
		{"mixed arithmetic", "print 1 + 0.5;", "1.5\n"},
		{"unary minus", "x = 4; print -x;", "-4\n"},
		{"logical not", "print !0; print !\"a\";", "true\nfalse\n"},
		{"strings", `print "hello";`, "hello\n"},
		{"escaped quote", `print "say \"hi\"";`, "say \"hi\"\n"},
		{"other backslashes kept", `print "a\nb"; print 'C:\dir';`, "a\\nb\nC:\\dir\n"},
		{"largest integer", "print 9223372036854775807; print 2 ** 62 + (2 ** 62 - 1);", "9223372036854775807\n9223372036854775807\n"},
		{"smallest integer", "print (-2) ** 63; print -9223372036854775807 - 1;", "-9223372036854775808\n-9223372036854775808\n"},
		{"null", "print null;", "null\n"},
		{"booleans", "print true; print false;", "true\nfalse\n"},
		{"comparison", "print 1 < 2; print 2 <= 1; print 1 == 1.0;", "true\nfalse\ntrue\n"},
		{"string comparison", `print "a" < "b";`, "true\n"},
		{"identity", "print 1 === 1.0; print 1 !== 1.0; print 1 === 1;", "false\ntrue\ntrue\n"},
		{"membership", `print "ell" :> "hello"; print "z" :> "hello";`, "true\nfalse\n"},
		{"bitwise", "print 6 & 3; print 6 | 3; print 6 ^ 3; print 1 << 4; print 256 >> 2;", "2\n7\n5\n16\n64\n"},
		{"boolean bitwise", "print true & false; print true | false; print true ^ true;", "false\ntrue\nfalse\n"},
		{"logical", "print 1 && 0; print 0 || \"x\"; print true ^^ true;", "false\ntrue\nfalse\n"},
		{"compound", "x = 2; x += 3; x *= 4; x -= 1; print x;", "19\n"},
		{"compound power", "x = 3; x **= 2; print x;", "9\n"},
		{"comment", "# leading comment\nprint 1; # trailing\n", "1\n"},
		{
			"while",
			"i = 0; s = 0; while (i < 5) { i = i + 1; s = s + i; } print s;",
			"15\n",
		},
		{
			"function",
			"func add(a, b) { return a + b ; } print add(2, 3) ;",
			"5\n",
		},
		{
			"recursion",
			"func fact(n) { if (n <= 1) { return 1; } return n * fact(n - 1); } print fact(10);",
			"3628800\n",
		},
		{
			"implicit null return",
			"func f() { x = 1; } print f();",
			"null\n",
		},
		{
			"empty return",
			"func f() { return; print 1; } print f();",
			"null\n",
		},
		{
			"return from loop",
			"func first(n) { i = 0; while (true) { if (i * i >= n) { return i; } i += 1; } } print first(50);",
			"8\n",
		},
		{
			"function value",
			"func f() { return 1; } g = f; print g();",
			"1\n",
		},
		{
			"func display",
			"func f() { } print f;",
			"<func f>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_Scoping(t *testing.T) {
	src := `
		x = 1;
		if (true) { x = 2; y = 3; }
		while (x < 3) { x = x + 1; z = 4; }
		print x;
	`

	out, ns, err := run(t, src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out != "3\n" {
		t.Errorf("got %q, want %q", out, "3\n")
	}

	for _, name := range []string{"y", "z"} {
		if _, ok := ns.Lookup(name); ok {
			t.Errorf("%s leaked out of its block", name)
		}
	}

	_, _, err = run(t, "if (true) { y = 3; } print y;")
	if !errors.Is(err, ErrName) {
		t.Errorf("got %v, want ErrName", err)
	}
}

func TestRun_ClosureReference(t *testing.T) {
	src := `
		a = 1;
		func get() { return a; }
		func set(v) { a = v; }
		a = 2;
		print get();
		set(5);
		print a;
	`

	if got, want := mustRun(t, src), "2\n5\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRun_ClosureOverCallScope(t *testing.T) {
	src := `
		func counter() {
			n = 0;
			func next() { n = n + 1; return n; }
			return next;
		}
		c = counter();
		c();
		c();
		print c();
	`

	if got, want := mustRun(t, src), "3\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRun_ConditionalShortCircuit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"else only",
			`if (false) { print "if"; } elif (false) { print "elif"; } else { print "else"; }`,
			"else\n",
		},
		{
			"first truthy",
			`if (true) { print "if"; } elif (true) { print "elif"; }`,
			"if\n",
		},
		{
			"guard not evaluated",
			`if (true) { print 1; } elif (missing) { print 2; }`,
			"1\n",
		},
		{
			"middle branch",
			`x = 2; if (x == 1) { print 1; } elif (x == 2) { print 2; } elif (x == 2) { print 3; } else { print 4; }`,
			"2\n",
		},
		{
			"and short circuit",
			`print false && missing;`,
			"false\n",
		},
		{
			"or short circuit",
			`print 1 || missing;`,
			"true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		target  error
		message string
		output  string
	}{
		{"unbound", "y = y + 1 ;", ErrName, `name "y" is not defined`, ""},
		{"unbound call", "f();", ErrName, `name "f" is not defined`, ""},
		{"unbound compound", "y += 1;", ErrName, `name "y" is not defined`, ""},
		{
			"arity",
			"func add(a, b) { return a + b; } print add(1);",
			ErrArity, "add() takes 2 arguments but 1 were given", "",
		},
		{"not callable", "x = 1; x();", ErrType, "not callable", ""},
		{"string plus", `print "a" + "b";`, ErrType, "unsupported operand types for +", ""},
		{"matmul", "print 1 @ 2;", ErrType, "unsupported operand types for @", ""},
		{"negate string", `print -"a";`, ErrType, "bad operand type", ""},
		{"compare mixed", `print 1 < "a";`, ErrType, "unsupported operand", ""},
		{"negative shift", "print 1 << -1;", ErrType, "negative shift", ""},
		{"divide by zero", "print 1 / 0;", ErrZeroDivision, "", ""},
		{"modulo by zero", "print 1 % 0;", ErrZeroDivision, "", ""},
		{"power overflow", "print 2 ** 62; print 2 ** 64;", ErrOverflow, "2 ** 64", "4611686018427387904\n"},
		{"power overflow at 63", "print 2 ** 63;", ErrOverflow, "integer overflow", ""},
		{"add overflow", "print 9223372036854775807 + 1;", ErrOverflow, "9223372036854775807 + 1", ""},
		{"subtract overflow", "x = -9223372036854775807 - 1; print x - 1;", ErrOverflow, "", ""},
		{"multiply overflow", "print 4294967296 * 4294967296;", ErrOverflow, "", ""},
		{"negate overflow", "x = -9223372036854775807 - 1; print -x;", ErrOverflow, "", ""},
		{"shift overflow", "print 1 << 63;", ErrOverflow, "1 << 63", ""},
		{"compound overflow", "x = 9223372036854775807; x += 1;", ErrOverflow, "", ""},
		{"return at module", "print 1; return 2; print 3;", ErrReturnOutsideFunction, "", "1\n"},
		{"return in block", "if (true) { return; }", ErrReturnOutsideFunction, "", ""},
		{"fatal stops run", "print 1; print x; print 2;", ErrName, "", "1\n"},
		{"lexical", "x = 1 $ 2;", ErrLexical, "improper token", ""},
		{"syntax", "x = (1 + 2 ;", ErrSyntax, "unbalanced bracketed expression", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.input)
			if !errors.Is(err, tt.target) {
				t.Fatalf("got %v, want %v", err, tt.target)
			}

			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("got %q, want message containing %q", err, tt.message)
			}

			if out != tt.output {
				t.Errorf("output: got %q, want %q", out, tt.output)
			}
		})
	}
}

func TestRun_ErrorPosition(t *testing.T) {
	_, _, err := run(t, "x = 1;\nprint x + y;")
	if !errors.Is(err, ErrName) {
		t.Fatalf("got %v, want ErrName", err)
	}

	if !strings.HasPrefix(err.Error(), "line 2, column 11") {
		t.Errorf("got %q, want position line 2, column 11", err)
	}
}

func TestRun_MaxDepth(t *testing.T) {
	src := "func down(n) { return down(n + 1); } down(0);"

	_, _, err := run(t, src, WithMaxDepth(50))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("got %v, want ErrMaxDepthExceeded", err)
	}

	src = "func down(n) { if (n == 0) { return 0; } return down(n - 1); } print down(49);"

	out, _, err := run(t, src, WithMaxDepth(50))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out != "0\n" {
		t.Errorf("got %q, want %q", out, "0\n")
	}
}

func TestRun_Canceled(t *testing.T) {
	prog, err := Compile(t.Context(), "print 1;", WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ctx, cancel := context.WithCancelCause(t.Context())
	cause := errors.New("interrupted")
	cancel(cause)

	if err := prog.Run(ctx, nil); !errors.Is(err, cause) {
		t.Errorf("got %v, want %v", err, cause)
	}
}

func TestRun_SharedNamespace(t *testing.T) {
	ns := NewRootNamespace()

	var out bytes.Buffer

	for _, src := range []string{"x = 1;", "func inc() { x += 1; }", "inc(); inc();", "print x;"} {
		prog, err := Compile(t.Context(), src, WithOutput(&out))
		if err != nil {
			t.Fatalf("Compile(%q): %v", src, err)
		}

		if err := prog.Run(t.Context(), ns); err != nil {
			t.Fatalf("Run(%q): %v", src, err)
		}
	}

	if out.String() != "3\n" {
		t.Errorf("got %q, want %q", out.String(), "3\n")
	}
}

func TestExecAndEval(t *testing.T) {
	ns := NewRootNamespace()
	ns.Define("x", Integer(4))

	stmts, err := parseSource(t, "func sq(n) { return n * n; } return sq(x);")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for _, stmt := range stmts[:1] {
		if _, err := Exec(t.Context(), stmt, ns); err != nil {
			t.Fatalf("Exec: %v", err)
		}
	}

	c, err := Exec(t.Context(), stmts[1], ns)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}

	if !c.Returned || c.Value != Integer(16) {
		t.Errorf("got %+v, want Returned(16)", c)
	}

	x, err := parseExprSource(t, "sq(x) + 1")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}

	v, err := Eval(t.Context(), x, ns)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	if v != Integer(17) {
		t.Errorf("got %v, want 17", v)
	}
}
