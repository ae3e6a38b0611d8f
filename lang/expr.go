package lang

import (
	"strconv"

	"github.com/ardnew/coral/lang/token"
)

// ParseExpr parses a complete expression from toks.
func ParseExpr(toks []token.Token) (Expression, error) {
	return parseExpr(toks, token.Position{})
}

// parseExpr parses toks as one expression. The position at is reported when
// toks is empty.
func parseExpr(toks []token.Token, at token.Position) (Expression, error) {
	if len(toks) == 0 {
		return nil, errorAt(ErrSyntax, at).Wrapf("expected expression")
	}

	p := exprParser{s: token.NewStream(toks)}

	x, err := p.parse(0)
	if err != nil {
		return nil, err
	}

	if t, ok := p.s.Peek(0); ok {
		return nil, errorAt(ErrSyntax, t.Pos).
			Wrapf("unexpected %s after expression", t)
	}

	return x, nil
}

// exprParser is a precedence climbing parser over a bounded token run.
type exprParser struct {
	s *token.Stream
}

func (p *exprParser) parse(minPower int) (Expression, error) {
	left, err := p.nud()
	if err != nil {
		return nil, err
	}

	for {
		t, ok := p.s.Peek(0)
		if !ok || t.Kind != token.Operator {
			return left, nil
		}

		power, ok := BindingPower(t.Lexeme)
		if !ok || power <= minPower {
			return left, nil
		}

		p.s.Consume(1)

		next := power
		if rightAssociative(t.Lexeme) {
			next--
		}

		right, err := p.parse(next)
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{Op: t.Lexeme, Left: left, Right: right, At: t.Pos}
	}
}

func (p *exprParser) nud() (Expression, error) {
	t, ok := p.s.Peek(0)
	if !ok {
		return nil, errorAt(ErrSyntax, p.s.Pos()).
			Wrapf("unexpected end of expression")
	}

	switch {
	case t.Kind == token.Value:
		p.s.Consume(1)

		return literal(t)

	case t.Kind == token.Identifier:
		if next, ok := p.s.Peek(1); ok && next.Is(token.Grouping, "(") {
			p.s.Consume(1)

			return p.call(t)
		}

		p.s.Consume(1)

		return &ObjectLookup{Name: t.Lexeme, At: t.Pos}, nil

	case t.Kind == token.Operator && isUnary(t.Lexeme):
		p.s.Consume(1)

		x, err := p.parse(unaryPower)
		if err != nil {
			return nil, err
		}

		return &UnaryOp{Op: t.Lexeme, X: x, At: t.Pos}, nil

	case t.Is(token.Grouping, "("):
		caps, _, err := parens.Match(p.s)
		if err != nil {
			return nil, err
		}

		return parseExpr(caps[0], t.Pos)
	}

	return nil, errorAt(ErrSyntax, t.Pos).Wrapf("unexpected %s", t)
}

// call parses the parenthesized argument list following a function name.
func (p *exprParser) call(name token.Token) (Expression, error) {
	open, _ := p.s.Peek(0)

	caps, _, err := parens.Match(p.s)
	if err != nil {
		return nil, err
	}

	var args []Expression

	for _, arg := range splitArgs(caps[0], open) {
		x, err := parseExpr(arg.toks, arg.at)
		if err != nil {
			return nil, err
		}

		args = append(args, x)
	}

	return &Call{Name: name.Lexeme, Args: args, At: name.Pos}, nil
}

type argument struct {
	toks []token.Token
	at   token.Position
}

// splitArgs splits the interior of an argument list at commas that are not
// nested inside parentheses.
func splitArgs(toks []token.Token, open token.Token) []argument {
	if len(toks) == 0 {
		return nil
	}

	var (
		args  []argument
		depth int
		start int
	)

	at := open.End()

	for i, t := range toks {
		switch {
		case t.Is(token.Grouping, "("):
			depth++

		case t.Is(token.Grouping, ")"):
			depth--

		case t.Kind == token.Separator && t.Lexeme == "," && depth == 0:
			args = append(args, argument{toks: toks[start:i], at: at})
			start = i + 1
			at = t.End()
		}
	}

	return append(args, argument{toks: toks[start:], at: at})
}

func literal(t token.Token) (Expression, error) {
	var v Value

	switch t.Tag {
	case token.TagInteger:
		n, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			return nil, errorAt(ErrSyntax, t.Pos).
				Wrapf("integer literal %s out of range", t.Lexeme)
		}

		v = Integer(n)

	case token.TagFloat:
		f, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, errorAt(ErrSyntax, t.Pos).
				Wrapf("invalid float literal %s", t.Lexeme)
		}

		v = Float(f)

	case token.TagString:
		v = String(token.Unquote(t.Lexeme))

	case token.TagBoolean:
		v = Boolean(t.Lexeme == "true")

	case token.TagNull:
		v = Null{}

	default:
		return nil, errorAt(ErrSyntax, t.Pos).Wrapf("untyped value %s", t)
	}

	return &Literal{Value: v, At: t.Pos}, nil
}
