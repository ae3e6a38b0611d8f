// Package pattern implements composable matchers over a [token.Stream].
//
// A [Pattern] either matches at the cursor, consuming the tokens it spans and
// returning what it captured, or fails softly without moving the cursor. Some
// failures cannot be recovered from, such as a missing statement terminator or
// a broken commitment in a [Combined] pattern. Those are reported as errors
// wrapping [ErrSyntax].
package pattern

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/coral/lang/token"
	"github.com/ardnew/coral/pkg"
)

// ErrSyntax is the sentinel for every parse failure.
var ErrSyntax = pkg.NewError("syntax error")

// Capture is a run of tokens captured by a pattern.
type Capture []token.Token

// Captures is the ordered list of captures produced by a match.
type Captures []Capture

// Pattern matches a shape of tokens at the cursor of a stream.
//
// On success the cursor advances past the matched tokens. A soft failure
// returns ok=false with a nil error and leaves the cursor unchanged.
type Pattern interface {
	Match(s *token.Stream) (caps Captures, ok bool, err error)
	String() string
}

// Item matches a single token, either by exact text or by kind alone.
type Item struct {
	texts   []string
	kind    token.Kind
	capture bool
}

// Lit matches exactly one token of the given kind and text. It is not
// captured.
func Lit(kind token.Kind, text string) Item {
	return Item{kind: kind, texts: []string{text}}
}

// Any matches and captures any token of the given kind.
func Any(kind token.Kind) Item {
	return Item{kind: kind, capture: true}
}

// OneOf matches and captures a token of the given kind whose text is one of
// texts.
func OneOf(kind token.Kind, texts ...string) Item {
	return Item{kind: kind, texts: texts, capture: true}
}

// Matches reports whether t satisfies the item.
func (i Item) Matches(t token.Token) bool {
	return t.Kind == i.kind &&
		(len(i.texts) == 0 || slices.Contains(i.texts, t.Lexeme))
}

func (i Item) String() string {
	switch len(i.texts) {
	case 0:
		return "<" + i.kind.String() + ">"

	case 1:
		return strconv.Quote(i.texts[0])

	default:
		q := make([]string, len(i.texts))
		for n, t := range i.texts {
			q[n] = strconv.Quote(t)
		}

		return "(" + strings.Join(q, "|") + ")"
	}
}

func failAt(pos token.Position) *pkg.Error {
	return ErrSyntax.At(pos.Line, pos.Column)
}
