package lang

import (
	"log/slog"
	"slices"

	"github.com/ardnew/coral/lang/pattern"
	"github.com/ardnew/coral/lang/token"
)

var (
	semi   = pattern.Lit(token.Grouping, ";")
	comma  = pattern.Lit(token.Separator, ",")
	parens = pattern.Bracketed("(", ")")
	braces = pattern.Bracketed("{", "}")

	elifClause = pattern.Combined(
		pattern.Sequence(pattern.Lit(token.ControlFlow, "elif")),
		parens,
		braces,
	)
	elseClause = pattern.Combined(
		pattern.Sequence(pattern.Lit(token.ControlFlow, "else")),
		braces,
	)
)

// rule pairs a statement pattern with the builder that turns its captures
// into a node. The builder also receives the stream so that it can try
// optional trailing clauses.
type rule struct {
	pattern pattern.Pattern
	build   func(s *token.Stream, at token.Position, caps pattern.Captures) (Statement, error)
}

// parser recognizes statements by trying its rules in order.
type parser struct {
	rules []rule
}

func newParser() *parser {
	p := new(parser)

	p.rules = []rule{
		{
			pattern.Combined(
				pattern.Sequence(
					pattern.Any(token.Identifier),
					pattern.Lit(token.Symbol, "="),
				),
				pattern.Terminating(semi),
			),
			p.assignment,
		},
		{
			pattern.Combined(
				pattern.Sequence(
					pattern.Any(token.Identifier),
					pattern.OneOf(token.Symbol, token.CompoundSymbols()...),
				),
				pattern.Terminating(semi),
			),
			p.compound,
		},
		{
			pattern.Combined(
				pattern.Sequence(pattern.Lit(token.ControlFlow, "while")),
				parens,
				braces,
			),
			p.while,
		},
		{
			pattern.Combined(
				pattern.Sequence(pattern.Lit(token.ControlFlow, "if")),
				parens,
				braces,
			),
			p.conditional,
		},
		{
			pattern.Combined(
				pattern.Sequence(
					pattern.Lit(token.Keyword, "func"),
					pattern.Any(token.Identifier),
					pattern.Lit(token.Grouping, "("),
				),
				pattern.Delimited(comma, pattern.Any(token.Identifier)),
				pattern.Sequence(pattern.Lit(token.Grouping, ")")),
				braces,
			),
			p.funcDef,
		},
		{
			pattern.Combined(
				pattern.Sequence(pattern.Lit(token.Keyword, "return")),
				pattern.Terminating(semi),
			),
			p.ret,
		},
		{
			pattern.Combined(
				pattern.Sequence(pattern.Lit(token.Keyword, "print")),
				pattern.Terminating(semi),
			),
			p.output,
		},
		{
			pattern.Terminating(semi),
			p.exprStatement,
		},
	}

	return p
}

// Parse parses every statement remaining in s.
func Parse(s *token.Stream) ([]Statement, error) {
	return newParser().statements(s)
}

func (p *parser) statements(s *token.Stream) ([]Statement, error) {
	var out []Statement

	for !s.Empty() {
		stmt, err := p.statement(s)
		if err != nil {
			return nil, err
		}

		out = append(out, stmt)
	}

	return out, nil
}

func (p *parser) statement(s *token.Stream) (Statement, error) {
	at := s.Pos()

	for _, r := range p.rules {
		caps, ok, err := r.pattern.Match(s)
		if err != nil {
			return nil, err
		}

		if ok {
			return r.build(s, at, caps)
		}
	}

	t, _ := s.Peek(0)

	return nil, errorAt(ErrSyntax, at).
		Wrapf("no statement begins with %s", t).
		With(slog.String("lexeme", t.Lexeme))
}

func (p *parser) block(c pattern.Capture) ([]Statement, error) {
	return p.statements(token.NewStream(c))
}

func (p *parser) assignment(
	_ *token.Stream, at token.Position, caps pattern.Captures,
) (Statement, error) {
	value, err := parseExpr(caps[1], at)
	if err != nil {
		return nil, err
	}

	return &Assignment{Name: caps[0][0].Lexeme, Value: value, At: at}, nil
}

func (p *parser) compound(
	_ *token.Stream, at token.Position, caps pattern.Captures,
) (Statement, error) {
	value, err := parseExpr(caps[2], caps[1][0].Pos)
	if err != nil {
		return nil, err
	}

	return &Assignment{
		Name:  caps[0][0].Lexeme,
		Op:    token.Compound[caps[1][0].Lexeme],
		Value: value,
		At:    at,
	}, nil
}

func (p *parser) while(
	_ *token.Stream, at token.Position, caps pattern.Captures,
) (Statement, error) {
	cond, err := parseExpr(caps[0], at)
	if err != nil {
		return nil, err
	}

	body, err := p.block(caps[1])
	if err != nil {
		return nil, err
	}

	return &While{Cond: cond, Body: body, At: at}, nil
}

func (p *parser) guarded(
	at token.Position, caps pattern.Captures,
) (*Conditional, error) {
	cond, err := parseExpr(caps[0], at)
	if err != nil {
		return nil, err
	}

	body, err := p.block(caps[1])
	if err != nil {
		return nil, err
	}

	return &Conditional{Cond: cond, Body: body, At: at}, nil
}

func (p *parser) conditional(
	s *token.Stream, at token.Position, caps pattern.Captures,
) (Statement, error) {
	head, err := p.guarded(at, caps)
	if err != nil {
		return nil, err
	}

	tail := head

	for {
		pos := s.Pos()

		caps, ok, err := elifClause.Match(s)
		if err != nil {
			return nil, err
		}

		if !ok {
			break
		}

		next, err := p.guarded(pos, caps)
		if err != nil {
			return nil, err
		}

		tail.Next = next
		tail = next
	}

	pos := s.Pos()

	caps, ok, err := elseClause.Match(s)
	if err != nil {
		return nil, err
	}

	if ok {
		body, err := p.block(caps[0])
		if err != nil {
			return nil, err
		}

		tail.Next = &Conditional{
			Cond: &Literal{Value: Boolean(true), At: pos},
			Body: body,
			At:   pos,
		}
	}

	return head, nil
}

func (p *parser) funcDef(
	_ *token.Stream, at token.Position, caps pattern.Captures,
) (Statement, error) {
	name := caps[0][0].Lexeme
	params := make([]string, 0, len(caps)-2)

	for _, c := range caps[1 : len(caps)-1] {
		if slices.Contains(params, c[0].Lexeme) {
			return nil, errorAt(ErrSyntax, c[0].Pos).
				Wrapf("duplicate parameter %q in func %s", c[0].Lexeme, name)
		}

		params = append(params, c[0].Lexeme)
	}

	body, err := p.block(caps[len(caps)-1])
	if err != nil {
		return nil, err
	}

	return &FuncDef{Name: name, Params: params, Body: body, At: at}, nil
}

func (p *parser) ret(
	_ *token.Stream, at token.Position, caps pattern.Captures,
) (Statement, error) {
	if len(caps[0]) == 0 {
		return &Return{Value: &Literal{Value: Null{}, At: at}, At: at}, nil
	}

	value, err := parseExpr(caps[0], at)
	if err != nil {
		return nil, err
	}

	return &Return{Value: value, At: at}, nil
}

func (p *parser) output(
	_ *token.Stream, at token.Position, caps pattern.Captures,
) (Statement, error) {
	value, err := parseExpr(caps[0], at)
	if err != nil {
		return nil, err
	}

	return &Output{Value: value, At: at}, nil
}

func (p *parser) exprStatement(
	_ *token.Stream, at token.Position, caps pattern.Captures,
) (Statement, error) {
	x, err := parseExpr(caps[0], at)
	if err != nil {
		return nil, err
	}

	return &ExprStatement{X: x, At: at}, nil
}
