package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/coral/lang/token"
	"github.com/ardnew/coral/log"
	"github.com/ardnew/coral/pkg"
)

// Completion is the outcome of executing a statement: either it completed
// normally, or a return statement produced a value that unwinds to the
// innermost function call.
type Completion struct {
	Value    Value
	Returned bool

	at token.Position
}

// Completed is the normal completion of a statement.
var Completed = Completion{}

// Returned reports a return with value v.
func Returned(v Value) Completion {
	return Completion{Value: v, Returned: true}
}

// Exec executes stmt in ns. A [*Module] runs its whole body, and a return
// that reaches it is an error.
func Exec(
	ctx context.Context,
	stmt Statement,
	ns *Namespace,
	opts ...Option,
) (Completion, error) {
	return newProgram(opts...).evaluator(ctx).exec(stmt, ns)
}

// Eval evaluates x in ns.
func Eval(
	ctx context.Context,
	x Expression,
	ns *Namespace,
	opts ...Option,
) (Value, error) {
	return newProgram(opts...).evaluator(ctx).eval(x, ns)
}

// evaluator holds the state of one execution.
type evaluator struct {
	ctx      context.Context
	out      io.Writer
	logger   log.Logger
	maxDepth int
	depth    int
}

// located attaches pos to an operator error.
func located(err *pkg.Error, pos token.Position) error {
	if !pos.IsValid() {
		return err
	}

	return err.At(pos.Line, pos.Column)
}

func (e *evaluator) module(m *Module, ns *Namespace) (Completion, error) {
	for _, stmt := range m.Body {
		if err := e.ctx.Err(); err != nil {
			return Completed, context.Cause(e.ctx)
		}

		c, err := e.exec(stmt, ns)
		if err != nil {
			return Completed, err
		}

		if c.Returned {
			return Completed, errorAt(ErrReturnOutsideFunction, c.at).
				With(slog.String("module", m.Name))
		}
	}

	return Completed, nil
}

func (e *evaluator) block(body []Statement, ns *Namespace) (Completion, error) {
	for _, stmt := range body {
		c, err := e.exec(stmt, ns)
		if err != nil || c.Returned {
			return c, err
		}
	}

	return Completed, nil
}

func (e *evaluator) exec(stmt Statement, ns *Namespace) (Completion, error) {
	switch n := stmt.(type) {
	case *Module:
		return e.module(n, ns)

	case *Assignment:
		return Completed, e.assign(n, ns)

	case *FuncDef:
		ns.Define(n.Name, &Func{
			Scope:  ns,
			Name:   n.Name,
			Params: n.Params,
			Body:   n.Body,
		})

		return Completed, nil

	case *Output:
		v, err := e.eval(n.Value, ns)
		if err != nil {
			return Completed, err
		}

		if _, err := fmt.Fprintln(e.out, v.Display()); err != nil {
			return Completed, errorAt(ErrWriteOutput, n.At).Wrap(err)
		}

		return Completed, nil

	case *Return:
		v, err := e.eval(n.Value, ns)
		if err != nil {
			return Completed, err
		}

		c := Returned(v)
		c.at = n.At

		return c, nil

	case *Conditional:
		for branch := n; branch != nil; branch = branch.Next {
			v, err := e.eval(branch.Cond, ns)
			if err != nil {
				return Completed, err
			}

			if Truthy(v) {
				return e.block(branch.Body, ns.Child())
			}
		}

		return Completed, nil

	case *While:
		for {
			v, err := e.eval(n.Cond, ns)
			if err != nil {
				return Completed, err
			}

			if !Truthy(v) {
				return Completed, nil
			}

			c, err := e.block(n.Body, ns.Child())
			if err != nil || c.Returned {
				return c, err
			}
		}

	case *ExprStatement:
		_, err := e.eval(n.X, ns)

		return Completed, err
	}

	return Completed, errorAt(ErrSyntax, stmt.Pos()).
		Wrapf("cannot execute %T", stmt)
}

func (e *evaluator) assign(n *Assignment, ns *Namespace) error {
	v, err := e.eval(n.Value, ns)
	if err != nil {
		return err
	}

	if n.Op != "" {
		cur, ok := ns.Lookup(n.Name)
		if !ok {
			return errorAt(ErrName, n.At).
				Wrapf("name %q is not defined", n.Name)
		}

		var opErr *pkg.Error
		if v, opErr = binary(n.Op, cur, v); opErr != nil {
			return located(opErr, n.At)
		}
	}

	ns.Assign(n.Name, v)

	return nil
}

func (e *evaluator) eval(x Expression, ns *Namespace) (Value, error) {
	switch n := x.(type) {
	case *Literal:
		return n.Value, nil

	case *ObjectLookup:
		v, ok := ns.Lookup(n.Name)
		if !ok {
			return nil, errorAt(ErrName, n.At).
				Wrapf("name %q is not defined", n.Name)
		}

		return v, nil

	case *UnaryOp:
		v, err := e.eval(n.X, ns)
		if err != nil {
			return nil, err
		}

		r, opErr := unary(n.Op, v)
		if opErr != nil {
			return nil, located(opErr, n.At)
		}

		return r, nil

	case *BinaryOp:
		return e.binary(n, ns)

	case *Call:
		return e.call(n, ns)
	}

	return nil, errorAt(ErrSyntax, x.Pos()).Wrapf("cannot evaluate %T", x)
}

func (e *evaluator) binary(n *BinaryOp, ns *Namespace) (Value, error) {
	l, err := e.eval(n.Left, ns)
	if err != nil {
		return nil, err
	}

	switch {
	case n.Op == "&&" && !Truthy(l):
		return Boolean(false), nil
	case n.Op == "||" && Truthy(l):
		return Boolean(true), nil
	}

	r, err := e.eval(n.Right, ns)
	if err != nil {
		return nil, err
	}

	v, opErr := binary(n.Op, l, r)
	if opErr != nil {
		return nil, located(opErr, n.At)
	}

	return v, nil
}

func (e *evaluator) call(n *Call, ns *Namespace) (Value, error) {
	callee, ok := ns.Lookup(n.Name)
	if !ok {
		return nil, errorAt(ErrName, n.At).
			Wrapf("name %q is not defined", n.Name)
	}

	f, ok := callee.(*Func)
	if !ok {
		return nil, errorAt(ErrType, n.At).
			Wrapf("%s value %q is not callable", callee.Type(), n.Name)
	}

	args := make([]Value, len(n.Args))

	for i, arg := range n.Args {
		v, err := e.eval(arg, ns)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	if len(args) != f.Arity() {
		return nil, errorAt(ErrArity, n.At).
			Wrapf("%s() takes %d arguments but %d were given",
				f.Name, f.Arity(), len(args)).
			With(slog.Int("expected", f.Arity()), slog.Int("got", len(args)))
	}

	if e.maxDepth > 0 && e.depth >= e.maxDepth {
		return nil, errorAt(ErrMaxDepthExceeded, n.At).
			With(
				slog.String("func", f.Name),
				slog.Int("depth", e.depth),
				slog.Int("max_depth", e.maxDepth),
			)
	}

	e.depth++
	defer func() { e.depth-- }()

	e.logger.TraceContext(e.ctx, "call",
		slog.String("func", f.Name),
		slog.Int("argc", len(args)),
		slog.Int("depth", e.depth),
	)

	scope := f.Scope.Child()
	for i, param := range f.Params {
		scope.Define(param, args[i])
	}

	c, err := e.block(f.Body, scope)
	if err != nil {
		return nil, err
	}

	if c.Returned {
		return c.Value, nil
	}

	return Null{}, nil
}
