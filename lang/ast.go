package lang

import "github.com/ardnew/coral/lang/token"

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() token.Position
}

// Statement is a node executed for its effect.
type Statement interface {
	Node
	statement()
}

// Expression is a node evaluated to a [Value].
type Expression interface {
	Node
	expression()
}

// Module is the root of a parsed program. Executing a Module runs its body
// in the given namespace.
type Module struct {
	Name string
	Body []Statement
}

// Pos returns the position of the first statement.
func (m *Module) Pos() token.Position {
	if len(m.Body) > 0 {
		return m.Body[0].Pos()
	}

	return token.Position{Line: 1, Column: 1}
}

// Assignment binds the value of an expression to a name. A non-empty Op
// makes it a compound assignment: Name = Name Op Value.
type Assignment struct {
	Value Expression
	Name  string
	Op    string
	At    token.Position
}

// FuncDef binds a new [Func] to a name in the current namespace.
type FuncDef struct {
	Name   string
	Params []string
	Body   []Statement
	At     token.Position
}

// Output prints the display form of a value.
type Output struct {
	Value Expression
	At    token.Position
}

// Return leaves the innermost function call with a value.
type Return struct {
	Value Expression
	At    token.Position
}

// Conditional is one guarded branch of an if/elif/else chain. The else
// branch is a Conditional whose guard is the literal true.
type Conditional struct {
	Cond Expression
	Next *Conditional
	Body []Statement
	At   token.Position
}

// While repeats its body while the guard is truthy.
type While struct {
	Cond Expression
	Body []Statement
	At   token.Position
}

// ExprStatement evaluates an expression and discards the result.
type ExprStatement struct {
	X  Expression
	At token.Position
}

// Call invokes the function bound to Name.
type Call struct {
	Name string
	Args []Expression
	At   token.Position
}

// ObjectLookup reads the value bound to Name.
type ObjectLookup struct {
	Name string
	At   token.Position
}

// Literal is a constant value written in source.
type Literal struct {
	Value Value
	At    token.Position
}

// UnaryOp applies a prefix operator.
type UnaryOp struct {
	X  Expression
	Op string
	At token.Position
}

// BinaryOp applies an infix operator.
type BinaryOp struct {
	Left  Expression
	Right Expression
	Op    string
	At    token.Position
}

func (n *Assignment) Pos() token.Position    { return n.At }
func (n *FuncDef) Pos() token.Position       { return n.At }
func (n *Output) Pos() token.Position        { return n.At }
func (n *Return) Pos() token.Position        { return n.At }
func (n *Conditional) Pos() token.Position   { return n.At }
func (n *While) Pos() token.Position         { return n.At }
func (n *ExprStatement) Pos() token.Position { return n.At }
func (n *Call) Pos() token.Position          { return n.At }
func (n *ObjectLookup) Pos() token.Position  { return n.At }
func (n *Literal) Pos() token.Position       { return n.At }
func (n *UnaryOp) Pos() token.Position       { return n.At }
func (n *BinaryOp) Pos() token.Position      { return n.At }

func (*Module) statement()        {}
func (*Assignment) statement()    {}
func (*FuncDef) statement()       {}
func (*Output) statement()        {}
func (*Return) statement()        {}
func (*Conditional) statement()   {}
func (*While) statement()         {}
func (*ExprStatement) statement() {}

func (*Call) expression()         {}
func (*ObjectLookup) expression() {}
func (*Literal) expression()      {}
func (*UnaryOp) expression()      {}
func (*BinaryOp) expression()     {}
