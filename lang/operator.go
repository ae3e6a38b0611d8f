package lang

import (
	"math"
	"math/bits"
	"strings"

	"github.com/ardnew/coral/pkg"
)

// precedence lists the binary operators from the weakest binding tier to the
// strongest. An operator's binding power is (tier+1)*10.
var precedence = [][]string{
	{"||"},
	{"^^"},
	{"&&"},
	{":>", "<", ">", "<=", ">=", "!=", "==", "===", "!=="},
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "@", "%"},
	{"**"},
}

var bindingPowers = func() map[string]int {
	bp := make(map[string]int)

	for tier, ops := range precedence {
		for _, op := range ops {
			bp[op] = (tier + 1) * 10
		}
	}

	return bp
}()

// BindingPower returns the binding power of a binary operator.
func BindingPower(op string) (int, bool) {
	bp, ok := bindingPowers[op]

	return bp, ok
}

// rightAssociative reports whether a chain of op groups from the right.
func rightAssociative(op string) bool { return op == "**" }

// unaryPower is the binding power used to parse the operand of a prefix
// operator, the tier of binary + and -.
var unaryPower = bindingPowers["+"]

func isUnary(op string) bool { return op == "-" || op == "!" }

func typeError(format string, args ...any) *pkg.Error {
	return ErrType.Wrapf(format, args...)
}

func unsupported(op string, l, r Value) *pkg.Error {
	return typeError("unsupported operand types for %s: %s and %s",
		op, l.Type(), r.Type())
}

// unary applies a prefix operator.
func unary(op string, x Value) (Value, *pkg.Error) {
	switch op {
	case "!":
		return Boolean(!Truthy(x)), nil

	case "-":
		switch x := x.(type) {
		case Integer:
			if x == math.MinInt64 {
				return nil, ErrOverflow.Wrapf("-(%d)", x)
			}

			return -x, nil
		case Float:
			return -x, nil
		}

		return nil, typeError("bad operand type for unary -: %s", x.Type())
	}

	return nil, typeError("unknown unary operator %s", op)
}

// binary applies an infix operator. The logical operators && and || are
// evaluated eagerly here; short-circuiting happens in the evaluator.
func binary(op string, l, r Value) (Value, *pkg.Error) {
	switch op {
	case "+", "-", "*", "/", "%", "**":
		return arithmetic(op, l, r)

	case "@":
		return nil, unsupported(op, l, r)

	case "&", "|", "^", "<<", ">>":
		return bitwise(op, l, r)

	case "&&":
		return Boolean(Truthy(l) && Truthy(r)), nil

	case "||":
		return Boolean(Truthy(l) || Truthy(r)), nil

	case "^^":
		return Boolean(Truthy(l) != Truthy(r)), nil

	case "==":
		return Boolean(equal(l, r)), nil

	case "!=":
		return Boolean(!equal(l, r)), nil

	case "===":
		return Boolean(l.Type() == r.Type() && equal(l, r)), nil

	case "!==":
		return Boolean(l.Type() != r.Type() || !equal(l, r)), nil

	case "<", ">", "<=", ">=":
		return compare(op, l, r)

	case ":>":
		needle, ok1 := l.(String)
		haystack, ok2 := r.(String)

		if !ok1 || !ok2 {
			return nil, unsupported(op, l, r)
		}

		return Boolean(strings.Contains(string(haystack), string(needle))), nil
	}

	return nil, typeError("unknown binary operator %s", op)
}

// number extracts a numeric operand.
func number(v Value) (i int64, f float64, isInt, ok bool) {
	switch v := v.(type) {
	case Integer:
		return int64(v), float64(v), true, true
	case Float:
		return 0, float64(v), false, true
	}

	return 0, 0, false, false
}

func arithmetic(op string, l, r Value) (Value, *pkg.Error) {
	li, lf, lint, lok := number(l)
	ri, rf, rint, rok := number(r)

	if !lok || !rok {
		return nil, unsupported(op, l, r)
	}

	if op == "/" {
		if rf == 0 {
			return nil, ErrZeroDivision.Wrapf("%s / %s", l.Display(), r.Display())
		}

		return Float(lf / rf), nil
	}

	if lint && rint {
		switch op {
		case "+":
			return checked(op, li, ri, addInt)
		case "-":
			return checked(op, li, ri, subInt)
		case "*":
			return checked(op, li, ri, mulInt)
		case "%":
			if ri == 0 {
				return nil, ErrZeroDivision.Wrapf("%d %% %d", li, ri)
			}

			m := li % ri
			if m != 0 && (m < 0) != (ri < 0) {
				m += ri
			}

			return Integer(m), nil
		case "**":
			if ri >= 0 {
				return checked(op, li, ri, ipow)
			}

			return Float(math.Pow(lf, rf)), nil
		}
	}

	switch op {
	case "+":
		return Float(lf + rf), nil
	case "-":
		return Float(lf - rf), nil
	case "*":
		return Float(lf * rf), nil
	case "%":
		if rf == 0 {
			return nil, ErrZeroDivision.Wrapf("%s %% %s", l.Display(), r.Display())
		}

		m := math.Mod(lf, rf)
		if m != 0 && (m < 0) != (rf < 0) {
			m += rf
		}

		return Float(m), nil
	case "**":
		return Float(math.Pow(lf, rf)), nil
	}

	return nil, unsupported(op, l, r)
}

// checked applies an integer operation that reports false when the result
// does not fit in an Integer.
func checked(
	op string, l, r int64, fn func(int64, int64) (int64, bool),
) (Value, *pkg.Error) {
	v, ok := fn(l, r)
	if !ok {
		return nil, ErrOverflow.Wrapf("%d %s %d", l, op, r)
	}

	return Integer(v), nil
}

func addInt(a, b int64) (int64, bool) {
	s := a + b

	return s, (a >= 0) != (b >= 0) || (s >= 0) == (a >= 0)
}

func subInt(a, b int64) (int64, bool) {
	d := a - b

	return d, (a >= 0) == (b >= 0) || (d >= 0) == (a >= 0)
}

func mulInt(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(magnitude(a), magnitude(b))
	if hi != 0 {
		return 0, false
	}

	if (a < 0) != (b < 0) {
		return int64(-lo), lo <= 1<<63
	}

	return int64(lo), lo <= math.MaxInt64
}

func magnitude(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}

	return uint64(n)
}

func ipow(base, exp int64) (int64, bool) {
	result := int64(1)

	for ok := true; exp > 0; {
		if exp&1 == 1 {
			if result, ok = mulInt(result, base); !ok {
				return 0, false
			}
		}

		if exp >>= 1; exp > 0 {
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}

	return result, true
}

func bitwise(op string, l, r Value) (Value, *pkg.Error) {
	if lb, ok := l.(Boolean); ok {
		if rb, ok := r.(Boolean); ok {
			switch op {
			case "&":
				return lb && rb, nil
			case "|":
				return lb || rb, nil
			case "^":
				return Boolean(lb != rb), nil
			}
		}
	}

	li, lok := l.(Integer)
	ri, rok := r.(Integer)

	if !lok || !rok {
		return nil, unsupported(op, l, r)
	}

	switch op {
	case "&":
		return li & ri, nil
	case "|":
		return li | ri, nil
	case "^":
		return li ^ ri, nil
	}

	if ri < 0 {
		return nil, typeError("negative shift count %d", ri)
	}

	if op == "<<" {
		shifted := li << uint64(ri)
		if shifted>>uint64(ri) != li {
			return nil, ErrOverflow.Wrapf("%d << %d", li, ri)
		}

		return shifted, nil
	}

	return li >> uint64(ri), nil
}

func compare(op string, l, r Value) (Value, *pkg.Error) {
	var c int

	ls, lstr := l.(String)
	rs, rstr := r.(String)

	_, lf, _, lnum := number(l)
	_, rf, _, rnum := number(r)

	switch {
	case lstr && rstr:
		c = strings.Compare(string(ls), string(rs))

	case lnum && rnum:
		switch {
		case lf < rf:
			c = -1
		case lf > rf:
			c = 1
		}

	default:
		return nil, unsupported(op, l, r)
	}

	switch op {
	case "<":
		return Boolean(c < 0), nil
	case ">":
		return Boolean(c > 0), nil
	case "<=":
		return Boolean(c <= 0), nil
	default:
		return Boolean(c >= 0), nil
	}
}

// equal reports value equality. Integers and floats compare numerically;
// functions are equal only to themselves.
func equal(l, r Value) bool {
	if li, _, lint, lok := number(l); lok {
		ri, _, rint, rok := number(r)
		if !rok {
			return false
		}

		if lint && rint {
			return li == ri
		}

		_, lf, _, _ := number(l)
		_, rf, _, _ := number(r)

		return lf == rf
	}

	switch l := l.(type) {
	case String:
		r, ok := r.(String)

		return ok && l == r
	case Boolean:
		r, ok := r.(Boolean)

		return ok && l == r
	case Null:
		_, ok := r.(Null)

		return ok
	case *Func:
		r, ok := r.(*Func)

		return ok && l == r
	}

	return false
}
