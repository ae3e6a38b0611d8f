package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Error is an error with a source location and structured logging attributes.
//
// Errors are created once as package-level sentinels with [NewError] and then
// specialized with [Error.With], [Error.At], [Error.Wrap] and [Error.Wrapf].
// Every specialized copy remembers the sentinel it was derived from, so
// errors.Is(err, sentinel) holds for all of them.
type Error struct {
	msg   string
	err   error
	base  *Error
	line  int
	col   int
	attrs []slog.Attr
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// AsError returns err as an [*Error] if one is found in its chain, or wraps it
// in an Error without a message.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "line L, column C: <msg>: <cause>", where each
// part is omitted when unset.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.line > 0 {
		part = append(part,
			"line "+strconv.Itoa(e.line)+", column "+strconv.Itoa(e.col))
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from the sentinel target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.base != nil && e.base == t.root())
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.line > 0 {
		attrs = append(attrs, slog.Int("line", e.line), slog.Int("column", e.col))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Line returns the 1-based source line of the error, or 0 if unknown.
func (e *Error) Line() int { return e.line }

// Column returns the 1-based source column of the error, or 0 if unknown.
func (e *Error) Column() int { return e.col }

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// Wrapf returns a copy of e wrapping a formatted error.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// At returns a copy of e located at the given line and column.
func (e *Error) At(line, col int) *Error {
	c := e.derive()
	c.line, c.col = line, col

	return c
}

// With returns a copy of e with attrs appended for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

func (e *Error) derive() *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		base:  e.root(),
		line:  e.line,
		col:   e.col,
		attrs: e.attrs,
	}
}
