package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/coral/lang/token"
)

// Scanner is a forward-only character cursor over source text that tracks
// line and column.
type Scanner struct {
	src  string
	off  int
	line int
	col  int
}

// NewScanner returns a Scanner positioned at the start of src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1, col: 1}
}

// Done reports whether all input has been read.
func (s *Scanner) Done() bool { return s.off >= len(s.src) }

// Peek returns the next rune without advancing, or utf8.RuneError at the end
// of input.
func (s *Scanner) Peek() rune {
	r, _ := utf8.DecodeRuneInString(s.src[s.off:])

	return r
}

// PeekAt returns the rune starting n bytes ahead of the cursor.
func (s *Scanner) PeekAt(n int) rune {
	if s.off+n >= len(s.src) {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(s.src[s.off+n:])

	return r
}

// HasPrefix reports whether the unread input begins with p.
func (s *Scanner) HasPrefix(p string) bool {
	return strings.HasPrefix(s.src[s.off:], p)
}

// Next consumes and returns one rune.
func (s *Scanner) Next() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.off:])
	if size == 0 {
		return utf8.RuneError
	}

	s.off += size

	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	return r
}

// Skip consumes n bytes of input, which must end on a rune boundary.
func (s *Scanner) Skip(n int) {
	end := min(s.off+n, len(s.src))
	for s.off < end {
		s.Next()
	}
}

// Pos returns the current position.
func (s *Scanner) Pos() token.Position {
	return token.Position{Offset: s.off, Line: s.line, Column: s.col}
}

// Since returns the source text between pos and the cursor.
func (s *Scanner) Since(pos token.Position) string {
	return s.src[pos.Offset:s.off]
}
