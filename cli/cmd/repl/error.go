package repl

import "github.com/ardnew/coral/pkg"

var (
	ErrOutOfBounds  = pkg.NewError("history index out of range")
	ErrEditDeclined = pkg.NewError("edit declined")
	ErrEditor       = pkg.NewError("editor failed")
)
