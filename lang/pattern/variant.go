package pattern

import (
	"log/slog"
	"strings"

	"github.com/ardnew/coral/lang/token"
)

type sequence []Item

// Sequence matches its items against consecutive tokens. Items created with
// [Any] or [OneOf] each contribute a one-token capture.
func Sequence(items ...Item) Pattern { return sequence(items) }

func (p sequence) Match(s *token.Stream) (Captures, bool, error) {
	var caps Captures

	for i, item := range p {
		t, ok := s.Peek(i)
		if !ok || !item.Matches(t) {
			return nil, false, nil
		}

		if item.capture {
			caps = append(caps, Capture{t})
		}
	}

	s.Consume(len(p))

	return caps, true, nil
}

func (p sequence) String() string {
	part := make([]string, len(p))
	for i, item := range p {
		part[i] = item.String()
	}

	return strings.Join(part, " ")
}

type terminating struct{ term Item }

// Terminating captures every token before the first token matching term and
// consumes term as well. Running out of tokens first is an error.
func Terminating(term Item) Pattern { return terminating{term: term} }

func (p terminating) Match(s *token.Stream) (Captures, bool, error) {
	start := s.Pos()

	for i := 0; ; i++ {
		t, ok := s.Peek(i)
		if !ok {
			return nil, false, failAt(start).
				Wrapf("incomplete statement: expected %s", p.term).
				With(slog.String("pattern", p.String()))
		}

		if p.term.Matches(t) {
			body := s.Take(i)
			s.Consume(1)

			return Captures{body}, true, nil
		}
	}
}

func (p terminating) String() string { return "... " + p.term.String() }

type bracketed struct{ open, close string }

// Bracketed matches a balanced span of grouping tokens that starts at the
// cursor with open, capturing the tokens between the outermost brackets. A
// span that never closes is an error.
func Bracketed(open, close string) Pattern {
	return bracketed{open: open, close: close}
}

func (p bracketed) Match(s *token.Stream) (Captures, bool, error) {
	first, ok := s.Peek(0)
	if !ok || !first.Is(token.Grouping, p.open) {
		return nil, false, nil
	}

	depth := 0

	for i := 0; ; i++ {
		t, ok := s.Peek(i)
		if !ok {
			return nil, false, failAt(first.Pos).
				Wrapf("unbalanced bracketed expression: missing %q", p.close).
				With(slog.String("pattern", p.String()))
		}

		switch {
		case t.Is(token.Grouping, p.open):
			depth++

		case t.Is(token.Grouping, p.close):
			depth--

			if depth == 0 {
				span := s.Take(i + 1)

				return Captures{Capture(span[1:i:i])}, true, nil
			}
		}
	}
}

func (p bracketed) String() string {
	return `"` + p.open + `" ... "` + p.close + `"`
}

type delimited struct{ delim, elem Item }

// Delimited greedily captures elements separated by delim, each as its own
// capture. It always matches, possibly capturing nothing. A trailing
// delimiter that is not followed by an element is left unread.
func Delimited(delim, elem Item) Pattern {
	return delimited{delim: delim, elem: elem}
}

func (p delimited) Match(s *token.Stream) (Captures, bool, error) {
	t, ok := s.Peek(0)
	if !ok || !p.elem.Matches(t) {
		return nil, true, nil
	}

	caps := Captures{{t}}
	n := 1

	for {
		d, ok := s.Peek(n)
		if !ok || !p.delim.Matches(d) {
			break
		}

		e, ok := s.Peek(n + 1)
		if !ok || !p.elem.Matches(e) {
			break
		}

		caps = append(caps, Capture{e})
		n += 2
	}

	s.Consume(n)

	return caps, true, nil
}

func (p delimited) String() string {
	return "[" + p.elem.String() + " [" + p.delim.String() + " " +
		p.elem.String() + "]...]"
}

type combined []Pattern

// Combined matches its patterns in order and concatenates their captures.
//
// If the first pattern fails softly, so does the combination. Once the first
// pattern has matched the combination is committed: a later soft failure is
// an error naming the pattern that was expected.
func Combined(ps ...Pattern) Pattern { return combined(ps) }

func (p combined) Match(s *token.Stream) (Captures, bool, error) {
	var caps Captures

	for i, sub := range p {
		got, ok, err := sub.Match(s)
		if err != nil {
			return nil, false, err
		}

		if !ok {
			if i == 0 {
				return nil, false, nil
			}

			found := "end of input"
			if t, ok := s.Peek(0); ok {
				found = t.String()
			}

			return nil, false, failAt(s.Pos()).
				Wrapf("expected %s, found %s", sub, found).
				With(slog.String("pattern", p.String()))
		}

		caps = append(caps, got...)
	}

	return caps, true, nil
}

func (p combined) String() string {
	part := make([]string, len(p))
	for i, sub := range p {
		part[i] = sub.String()
	}

	return strings.Join(part, " ")
}
