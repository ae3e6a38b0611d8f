package repl

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/coral/lang"
	"github.com/ardnew/coral/log"
)

func testModel(t *testing.T) model {
	t.Helper()

	ns := lang.NewRootNamespace()
	ns.Define("counter", lang.Integer(0))
	ns.Define("compute", &lang.Func{Name: "compute", Params: []string{"a", "b"}})

	return newModel(t.Context(), NewSession(ns, log.Logger{}, 0), NewHistory(""), log.Logger{})
}

func press(t *testing.T, m model, msgs ...tea.KeyMsg) model {
	t.Helper()

	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func typeText(s string) []tea.KeyMsg {
	var msgs []tea.KeyMsg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return msgs
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestModel_TabCycle(t *testing.T) {
	m := press(t, testModel(t), typeText("cou")...)

	if len(m.matches) != 2 {
		t.Fatalf("matches = %v, want counter and compute", m.matches)
	}

	first, second := m.matches[0].Str, m.matches[1].Str

	m = press(t, m, key(tea.KeyTab))
	if got := m.input.Value(); got != first || !m.tabActive {
		t.Errorf("after Tab: %q (active %v), want %q", got, m.tabActive, first)
	}

	m = press(t, m, key(tea.KeyTab))
	if got := m.input.Value(); got != second {
		t.Errorf("after second Tab: %q, want %q", got, second)
	}

	m = press(t, m, key(tea.KeyShiftTab))
	if got := m.input.Value(); got != first {
		t.Errorf("after Shift-Tab: %q, want %q", got, first)
	}

	m = press(t, m, key(tea.KeyEsc))
	if got := m.input.Value(); got != "cou" || m.tabActive || m.mode != modeEval {
		t.Errorf("after Esc: %q (active %v, mode %v), want cou", got, m.tabActive, m.mode)
	}
}

func TestModel_SingleCandidateCompletes(t *testing.T) {
	m := press(t, testModel(t), typeText("x = counte")...)
	m = press(t, m, key(tea.KeyTab))

	if got := m.input.Value(); got != "x = counter" {
		t.Errorf("got %q, want %q", got, "x = counter")
	}

	if m.matches != nil || m.tabActive {
		t.Error("single completion left the candidate bar active")
	}
}

func TestModel_SubmitEval(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("counter = 7")

	m = press(t, m, key(tea.KeyEnter))

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	if v, _ := m.session.Namespace().Lookup("counter"); v != lang.Integer(7) {
		t.Errorf("counter = %v, want 7", v)
	}

	if e, err := m.history.Entry(0); err != nil || e != (HistoryEntry{"counter = 7", modeEval}) {
		t.Errorf("history entry = %v, %v", e, err)
	}
}

func TestModel_ModeToggleKeepsInput(t *testing.T) {
	m := press(t, testModel(t), typeText("1 +")...)
	m = press(t, m, key(tea.KeyEsc))

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode %v with input %q, want empty command line", m.mode, m.input.Value())
	}

	m = press(t, m, typeText("li")...)
	m = press(t, m, key(tea.KeyEsc))

	if m.mode != modeEval || m.input.Value() != "1 +" {
		t.Errorf("mode %v with input %q, want eval with %q", m.mode, m.input.Value(), "1 +")
	}

	m = press(t, m, key(tea.KeyEsc))
	if m.input.Value() != "li" {
		t.Errorf("command line = %q, want li", m.input.Value())
	}
}

func TestModel_History(t *testing.T) {
	m := testModel(t)
	_ = m.history.Add("a = 1", modeEval)
	_ = m.history.Add("list", modeCtrl)
	_ = m.history.Add("b = 2", modeEval)
	m.histIdx = m.history.Len()

	steps := []struct {
		k    tea.KeyType
		text string
		mode inputMode
	}{
		{tea.KeyUp, "b = 2", modeEval},
		{tea.KeyUp, "list", modeCtrl},
		{tea.KeyUp, "a = 1", modeEval},
		{tea.KeyUp, "a = 1", modeEval},
		{tea.KeyDown, "list", modeCtrl},
		{tea.KeyShiftDown, "", modeCtrl},
		{tea.KeyShiftUp, "list", modeCtrl},
	}

	for i, step := range steps {
		m = press(t, m, key(step.k))

		if m.input.Value() != step.text || m.mode != step.mode {
			t.Errorf("step %d: got %q in mode %v, want %q in mode %v",
				i, m.input.Value(), m.mode, step.text, step.mode)
		}
	}
}

func TestModel_AltHistory(t *testing.T) {
	m := testModel(t)
	_ = m.history.Add("help", modeCtrl)
	_ = m.history.Add("a = 1", modeEval)
	m.histIdx = m.history.Len()

	m = press(t, m, typeText("draft")...)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	if m.mode != modeCtrl || m.input.Value() != "help" {
		t.Fatalf("got %q in mode %v, want help in command mode", m.input.Value(), m.mode)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown, Alt: true})
	if m.mode != modeEval || m.input.Value() != "draft" || m.altNav {
		t.Errorf("got %q in mode %v, want draft restored in eval mode", m.input.Value(), m.mode)
	}
}

func TestModel_Commands(t *testing.T) {
	m := press(t, testModel(t), key(tea.KeyEsc))
	m.input.SetValue("quit")

	m = press(t, m, key(tea.KeyEnter))
	if !m.quitting {
		t.Error("quit did not stop the program")
	}

	if m.View() != "" {
		t.Errorf("View() after quit = %q", m.View())
	}

	list := stripANSI(testModel(t).list())
	if list != "  compute compute(a, b)\n  counter integer 0" {
		t.Errorf("list() = %q", list)
	}
}

func TestModel_CtrlC(t *testing.T) {
	m := press(t, testModel(t), typeText("abc")...)

	m = press(t, m, key(tea.KeyCtrlC))
	if m.quitting || m.input.Value() != "" {
		t.Fatalf("Ctrl+C on input: quitting %v, input %q", m.quitting, m.input.Value())
	}

	m = press(t, m, key(tea.KeyCtrlC))
	if !m.quitting {
		t.Error("Ctrl+C on empty line did not quit")
	}
}

func TestModel_SignatureHint(t *testing.T) {
	m := press(t, testModel(t), typeText("compute(1, ")...)

	if got := stripANSI(m.hintLine()); got != "compute(a, b)" {
		t.Errorf("hintLine() = %q, want signature", got)
	}
}
