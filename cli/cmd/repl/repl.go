package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/coral/log"
)

const (
	evalPrompt = "» "
	ctrlPrompt = " :"

	defaultWidth = 80
	charLimit    = 4096
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Show this message
  list     List bindings in the session namespace
  edit     Edit the session source in $EDITOR and replay it
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement to run it; a lone expression prints its value
  A trailing ";" is added when missing
  Tab / Shift-Tab cycles through completion candidates
  Space accepts the current candidate
  Up/Down walks history (mode follows the entry)
  Shift+Up/Shift+Down walks history of the current mode only
  Alt+Up/Alt+Down walks command history
  Ctrl+C on an empty line or Ctrl+D exits
`

// inputMode selects how a submitted line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	outputStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = suggestionStyle.Bold(true).Underline(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true).Underline(true)

	signatureStyle     = hintStyle
	signatureNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).Underline(true)
)

type (
	editDoneMsg     struct{ output string }
	editEmptyMsg    struct{}
	editDeclinedMsg struct{}
	editErrorMsg    struct{ err error }
)

// savedInput is the text and cursor of an input line set aside while
// another one is shown.
type savedInput struct {
	text   string
	cursor int
}

type model struct {
	ctxFunc func() context.Context
	input   textinput.Model
	session *Session
	logger  log.Logger
	history *History
	histIdx int
	width   int
	mode    inputMode
	saved   [2]savedInput // per mode

	matches   fuzzy.Matches
	wordStart int
	wordEnd   int
	suggIdx   int
	tabActive bool
	preTab    savedInput

	altNav     bool
	altNavMode inputMode
	altNavText savedInput

	quitting bool
}

// Run starts an interactive session. History is persisted at historyPath
// unless it is empty.
func Run(
	ctx context.Context,
	session *Session,
	historyPath string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath), slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Int("history_count", history.Len()),
		slog.Int("binding_count", len(session.Namespace().Names())),
	)

	p := tea.NewProgram(newModel(ctx, session, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return context.Cause(ctx)
	}

	return err
}

func newModel(ctx context.Context, session *Session, history *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.CharLimit = charLimit
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctxFunc: func() context.Context { return ctx },
		input:   ti,
		session: session,
		logger:  logger,
		history: history,
		histIdx: history.Len(),
		width:   defaultWidth,
		suggIdx: -1,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		m.refresh(false)

		cmds := []tea.Cmd{}
		if out := strings.TrimRight(msg.output, "\n"); out != "" {
			cmds = append(cmds, tea.Println(outputStyle.Render(out)))
		}

		cmds = append(cmds, tea.Println(resultStyle.Render("✔ session replaced")))

		return m, tea.Sequence(cmds...)

	case editEmptyMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hintLine() + "\n"
}

// hintLine is the line below the input: a history position, a usage hint,
// a signature, or completion candidates.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.histIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.histIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a statement or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (Esc to return)")
	}

	ns := m.session.Namespace()

	if m.mode == modeEval && !m.tabActive {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if f, ok := lookupFunc(ns, call.name); ok {
				return renderSignatureHint(f, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, ns, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive, m.altNav = false, false
		m.histIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNav = false

		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refresh(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.altStep(-1), nil
		}

		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.altStep(+1), nil
		}

		return m.historyStep(+1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(+1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.restore(m.preTab)
			m.refresh(false)

			return m, nil
		}

		m.altNav = false

		return m.switchMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.histIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refresh(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive, m.altNav = false, false
	m.histIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(false)

	return m, cmd
}

// cycle moves the candidate selection by dir, starting a tab cycle when
// one is not active. A single candidate is completed immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	default:
		m.tabActive = true
		m.preTab = savedInput{m.input.Value(), m.input.Position()}

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

func (m *model) replaceWord(s string) {
	input := m.input.Value()
	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refresh recomputes completion matches. With autoConfirm, a word that
// already equals its sole candidate is accepted and the bar is cleared.
func (m *model) refresh(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m *model) restore(s savedInput) {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
}

func (m *model) show(e HistoryEntry) {
	m.input.SetValue(e.Line)
	m.input.SetCursor(len(e.Line))
	m.refresh(false)
}

// historyStep moves through history by dir. With sameMode only entries of
// the current mode are visited; otherwise the mode follows each entry.
// Stepping past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.histIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		e, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && e.Mode != m.mode {
			continue
		}

		if e.Mode != m.mode {
			m = m.switchMode(e.Mode)
		}

		m.histIdx = i
		m.show(e)

		return m
	}

	if dir > 0 && m.histIdx < m.history.Len() {
		m.histIdx = m.history.Len()
		m.input.SetValue("")
		m.refresh(false)
	}

	return m
}

// altStep walks command history from either mode. Running off either end
// restores the line and mode that were active before the walk began.
func (m model) altStep(dir int) model {
	if !m.altNav {
		m.altNav = true
		m.altNavMode = m.mode
		m.altNavText = savedInput{m.input.Value(), m.input.Position()}

		if m.mode != modeCtrl {
			m = m.switchMode(modeCtrl)
		}
	}

	for i := m.histIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if e, err := m.history.Entry(i); err == nil && e.Mode == modeCtrl {
			m.histIdx = i
			m.show(e)

			return m
		}
	}

	m.altNav = false
	if m.altNavMode != m.mode {
		m = m.switchMode(m.altNavMode)
	}

	m.restore(m.altNavText)
	m.histIdx = m.history.Len()
	m.refresh(false)

	return m
}

// switchMode changes the input mode, keeping each mode's pending line.
func (m model) switchMode(mode inputMode) model {
	m.saved[m.mode] = savedInput{m.input.Value(), m.input.Position()}
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.restore(m.saved[mode])
	m.refresh(false)

	return m
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]savedInput{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.histIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.command(input)
	}

	return m, m.eval(input)
}

func (m model) eval(input string) tea.Cmd {
	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	out, err := m.session.Eval(m.ctxFunc(), input)

	cmds := []tea.Cmd{echo}
	if out = strings.TrimRight(out, "\n"); out != "" {
		cmds = append(cmds, tea.Println(outputStyle.Render(out)))
	}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return tea.Sequence(cmds...)
}

func (m model) command(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.Any("args", fields))

	switch fields[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Printf("%s", helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.list()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(errorStyle.Render("unknown command: " + fields[0] + " (try help)"))
	}
}

func (m model) list() string {
	var b strings.Builder

	for name, v := range m.session.Namespace().All() {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(v)))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !cmd.replaced:
			return editEmptyMsg{}
		}

		return editDoneMsg{output: cmd.output}
	})
}
