package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/coral/lang"
	"github.com/ardnew/coral/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// wordBounds returns the identifier at the cursor and its byte boundaries
// within input. The word is empty when the cursor is not adjacent to an
// identifier character.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !token.IsIdent(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !token.IsIdent(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completion candidates in eval mode: the names
// bound in ns followed by the reserved words of the language.
func candidates(ns *lang.Namespace) []string {
	names := ns.Names()

	words := token.Words()
	slices.Sort(words)

	for _, w := range slices.Compact(words) {
		if !slices.Contains(names, w) {
			names = append(names, w)
		}
	}

	return names
}

// computeMatches ranks the candidates for the word at the cursor, best
// first. An empty word has no matches so the input hint stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, wordStart, wordEnd := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	list := ctrlCommands
	if m.mode == modeEval {
		list = candidates(m.session.Namespace())
	}

	return fuzzy.Find(word, list), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	ns *lang.Namespace,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, isFunction(ns, match.Str), tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		need := used + w
		if i < len(matches)-1 {
			need += reserve
		}

		if i > 0 && need > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted. Functions carry a "()" suffix.
func renderCandidate(match fuzzy.Match, function, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if function {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

func isFunction(ns *lang.Namespace, name string) bool {
	v, ok := ns.Lookup(name)
	if !ok {
		return false
	}

	_, ok = v.(*lang.Func)

	return ok
}

// preview is the one-line description of a binding shown by list.
func preview(v lang.Value) string {
	if f, ok := v.(*lang.Func); ok {
		return signature(f)
	}

	text := v.Display()
	if s, ok := v.(lang.String); ok {
		text = `"` + string(s) + `"`
	}

	if utf8.RuneCountInString(text) > 40 {
		text = string([]rune(text)[:37]) + "..."
	}

	return v.Type() + " " + text
}
