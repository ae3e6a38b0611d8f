package lang

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestValue_Display(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Integer(-42), "-42"},
		{Float(3.5), "3.5"},
		{Float(2), "2.0"},
		{Float(1e21), "1e+21"},
		{Float(math.Inf(1)), "inf"},
		{Float(math.Inf(-1)), "-inf"},
		{Float(math.NaN()), "nan"},
		{String("a b"), "a b"},
		{Boolean(true), "true"},
		{Null{}, "null"},
		{&Func{Name: "f"}, "<func f>"},
	}

	for _, tt := range tests {
		if got := tt.value.Display(); got != tt.want {
			t.Errorf("%#v.Display() = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		value Value
		want  bool
	}{
		{Integer(0), false},
		{Integer(-1), true},
		{Float(0), false},
		{Float(0.1), true},
		{String(""), false},
		{String("0"), true},
		{Boolean(false), false},
		{Boolean(true), true},
		{Null{}, false},
		{nil, false},
		{&Func{}, true},
	}

	for _, tt := range tests {
		if got := Truthy(tt.value); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestNamespace(t *testing.T) {
	root := NewRootNamespace()
	root.Define("a", Integer(1))

	child := root.Child()
	if child.Parent() != root {
		t.Fatal("Child().Parent() is not the enclosing namespace")
	}

	child.Assign("a", Integer(2))
	child.Assign("b", Integer(3))

	if v, _ := root.Lookup("a"); v != Integer(2) {
		t.Errorf("Assign did not write through: root a = %v", v)
	}

	if root.Local("b") || !child.Local("b") {
		t.Error("Assign of an unbound name must bind in the current namespace")
	}

	child.Define("a", String("shadow"))

	if v, _ := child.Lookup("a"); v != String("shadow") {
		t.Errorf("child a = %v, want shadow", v)
	}

	if v, _ := root.Lookup("a"); v != Integer(2) {
		t.Errorf("Define leaked to parent: root a = %v", v)
	}

	if _, ok := root.Lookup("b"); ok {
		t.Error("child binding visible from parent")
	}

	if got, want := child.Names(), []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	for name, v := range child.All() {
		if name == "a" && v != String("shadow") {
			t.Errorf("All() yielded shadowed binding a = %v", v)
		}
	}
}

func TestFunc_Arity(t *testing.T) {
	f := &Func{Params: []string{"a", "b"}}
	if f.Arity() != 2 {
		t.Errorf("Arity() = %d, want 2", f.Arity())
	}
}

func TestBindingPower(t *testing.T) {
	tests := []struct {
		op   string
		want int
	}{
		{"||", 10},
		{"^^", 20},
		{"&&", 30},
		{"===", 40},
		{":>", 40},
		{"|", 50},
		{"^", 60},
		{"&", 70},
		{">>", 80},
		{"-", 90},
		{"@", 100},
		{"**", 110},
	}

	for _, tt := range tests {
		got, ok := BindingPower(tt.op)
		if !ok || got != tt.want {
			t.Errorf("BindingPower(%q) = %d, %v; want %d", tt.op, got, ok, tt.want)
		}
	}

	if _, ok := BindingPower("!"); ok {
		t.Error(`BindingPower("!") reported a binary operator`)
	}
}

func TestBinary_IntegerPower(t *testing.T) {
	tests := []struct {
		base, exp Integer
		want      Value
	}{
		{2, 10, Integer(1024)},
		{-3, 3, Integer(-27)},
		{5, 0, Integer(1)},
		{2, -2, Float(0.25)},
		{-2, 63, Integer(math.MinInt64)},
		{3, 39, Integer(4052555153018976267)},
		{1, 1 << 62, Integer(1)},
		{-1, 1<<62 + 1, Integer(-1)},
	}

	for _, tt := range tests {
		got, err := binary("**", tt.base, tt.exp)
		if err != nil {
			t.Fatalf("%d ** %d: %v", tt.base, tt.exp, err)
		}

		if got != tt.want {
			t.Errorf("%d ** %d = %#v, want %#v", tt.base, tt.exp, got, tt.want)
		}
	}
}

func TestBinary_IntegerOverflow(t *testing.T) {
	tests := []struct {
		op   string
		l, r Integer
		want Value
	}{
		{"+", math.MaxInt64, 1, nil},
		{"+", math.MinInt64, -1, nil},
		{"+", math.MaxInt64, math.MinInt64, Integer(-1)},
		{"-", math.MinInt64, 1, nil},
		{"-", 0, math.MinInt64, nil},
		{"-", -1, math.MinInt64, Integer(math.MaxInt64)},
		{"*", math.MinInt64, -1, nil},
		{"*", math.MinInt64, 1, Integer(math.MinInt64)},
		{"*", -(1 << 31), 1 << 32, Integer(math.MinInt64)},
		{"*", 1 << 32, 1 << 31, nil},
		{"**", 3, 40, nil},
		{"<<", 1, 62, Integer(1 << 62)},
		{"<<", -1, 63, Integer(math.MinInt64)},
		{"<<", 3, 62, nil},
		{"<<", 0, 100, Integer(0)},
	}

	for _, tt := range tests {
		got, err := binary(tt.op, tt.l, tt.r)

		if tt.want == nil {
			if !errors.Is(err, ErrOverflow) {
				t.Errorf("%d %s %d = %v, %v; want ErrOverflow", tt.l, tt.op, tt.r, got, err)
			}

			continue
		}

		if err != nil || got != tt.want {
			t.Errorf("%d %s %d = %v, %v; want %v", tt.l, tt.op, tt.r, got, err, tt.want)
		}
	}
}
