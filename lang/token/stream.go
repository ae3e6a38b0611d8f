package token

// Stream is a read-only cursor over a token slice.
//
// The cursor only moves forward. Patterns inspect upcoming tokens with
// [Stream.Peek] and advance with [Stream.Consume] once they have matched.
type Stream struct {
	toks []Token
	pos  int
}

// NewStream returns a Stream positioned at the first of toks.
func NewStream(toks []Token) *Stream {
	return &Stream{toks: toks}
}

// Len returns the number of unread tokens.
func (s *Stream) Len() int { return len(s.toks) - s.pos }

// Empty reports whether all tokens have been read.
func (s *Stream) Empty() bool { return s.Len() == 0 }

// Peek returns the i-th unread token without advancing.
func (s *Stream) Peek(i int) (Token, bool) {
	if i < 0 || s.pos+i >= len(s.toks) {
		return Token{}, false
	}

	return s.toks[s.pos+i], true
}

// Consume advances past n tokens. It reports false and leaves the cursor
// unchanged if fewer than n tokens remain.
func (s *Stream) Consume(n int) bool {
	if n < 0 || n > s.Len() {
		return false
	}

	s.pos += n

	return true
}

// Take returns the next n tokens and advances past them. It returns nil if
// fewer than n tokens remain.
func (s *Stream) Take(n int) []Token {
	if n < 0 || n > s.Len() {
		return nil
	}

	out := s.toks[s.pos : s.pos+n : s.pos+n]
	s.pos += n

	return out
}

// Rest returns the unread tokens without advancing.
func (s *Stream) Rest() []Token { return s.toks[s.pos:] }

// Pos returns the position of the next unread token, or the position just
// past the last token if the stream is empty.
func (s *Stream) Pos() Position {
	if t, ok := s.Peek(0); ok {
		return t.Pos
	}

	if len(s.toks) > 0 {
		return s.toks[len(s.toks)-1].End()
	}

	return Position{Line: 1, Column: 1}
}
