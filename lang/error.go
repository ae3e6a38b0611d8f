package lang

import (
	"github.com/ardnew/coral/lang/lexer"
	"github.com/ardnew/coral/lang/pattern"
	"github.com/ardnew/coral/lang/token"
	"github.com/ardnew/coral/pkg"
)

// Predefined errors (sentinel values). Every error returned by this package
// satisfies errors.Is for exactly one of these.
var (
	ErrLexical               = lexer.ErrLexical
	ErrSyntax                = pattern.ErrSyntax
	ErrName                  = pkg.NewError("name error")
	ErrArity                 = pkg.NewError("arity error")
	ErrType                  = pkg.NewError("type error")
	ErrZeroDivision          = pkg.NewError("division by zero")
	ErrOverflow              = pkg.NewError("integer overflow")
	ErrReturnOutsideFunction = pkg.NewError("return outside function")
	ErrMaxDepthExceeded      = pkg.NewError("maximum call depth exceeded")
	ErrReadInput             = pkg.NewError("failed to read input")
	ErrWriteOutput           = pkg.NewError("failed to write output")
	ErrDefine                = pkg.NewError("invalid definition")
)

func errorAt(base *pkg.Error, pos token.Position) *pkg.Error {
	if !pos.IsValid() {
		return base
	}

	return base.At(pos.Line, pos.Column)
}
