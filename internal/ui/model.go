package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"calc/internal/app"
	"calc/internal/domain"
	"calc/internal/services/calculator"
	"calc/internal/services/plot"
)

type mode int

const (
	modeLoading mode = iota
	modeCalc
	modeHistory
	modeGraph
)

// keypad maps keys that are not typed literally onto calculator tokens.
var keypad = map[string]string{
	"s":         "sin(",
	"c":         "cos(",
	"t":         "tan(",
	"r":         "sqrt(",
	"l":         "log(",
	"n":         "ln(",
	"p":         "π",
	"e":         "e",
	"x":         "×",
	"enter":     calculator.KeyEquals,
	"=":         calculator.KeyEquals,
	"backspace": calculator.KeyDelete,
	"esc":       calculator.KeyClear,
	"C":         calculator.KeyClear,
}

// literal keys are passed to the calculator unchanged.
const literal = "0123456789.+-*/%^()"

// loadedMsg carries the persisted state read at startup.
type loadedMsg struct {
	pre app.Preloaded
	err error
}

// evaluatedMsg is the display after an evaluation and its history write.
type evaluatedMsg struct {
	display domain.Display
}

// historyMsg is the list after a remove or clear has been persisted.
type historyMsg struct {
	entries []domain.HistoryEntry
	err     error
}

// themeMsg is the theme after a toggle has been persisted.
type themeMsg struct {
	theme domain.Theme
}

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	wire *app.Wire
	log  *zap.Logger

	mode    mode
	width   int
	height  int
	styles  Styles
	display domain.Display
	status  string

	history  []domain.HistoryEntry
	selected int

	// busy is set while a command that writes to storage is in flight.
	// Keypad tokens typed meanwhile wait in pending and are replayed in
	// order once it finishes.
	busy    bool
	pending []string

	graph  textinput.Model
	series domain.Series
}

// New returns a Model over w. Nothing is read from storage until the
// command returned by Init runs.
func New(ctx context.Context, w *app.Wire) Model {
	ti := textinput.New()
	ti.Placeholder = plot.DefaultExpression
	ti.Prompt = "f(" + variable(w) + ") = "
	ti.CharLimit = 128

	return Model{
		ctx:    ctx,
		wire:   w,
		log:    w.Log.Named("ui"),
		mode:   modeLoading,
		styles: NewStyles(ThemeFor(w.Theme.Current())),
		graph:  ti,
		width:  80,
		height: 24,
	}
}

// Init starts loading history and theme.
func (m Model) Init() tea.Cmd {
	ctx, w := m.ctx, m.wire
	return func() tea.Msg {
		pre, err := w.Preload(ctx)
		return loadedMsg{pre: pre, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.log.Warn("Preload interrupted", zap.Error(msg.err))
		}
		m.history = msg.pre.History
		if msg.pre.Theme != "" {
			m.styles = NewStyles(ThemeFor(msg.pre.Theme))
		}
		m.display = m.wire.Calculator.Display()
		m.mode = modeCalc
		return m, nil

	case evaluatedMsg:
		m.display = msg.display
		m.busy = false
		return m.drain()

	case historyMsg:
		m.busy = false
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		m.history = msg.entries
		if m.selected >= len(m.history) {
			m.selected = max(len(m.history)-1, 0)
		}
		return m, nil

	case themeMsg:
		m.styles = NewStyles(ThemeFor(msg.theme))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeCalc:
			return m.updateCalc(msg)
		case modeHistory:
			return m.updateHistory(msg)
		case modeGraph:
			return m.updateGraph(msg)
		}
	}
	return m, nil
}

func (m Model) updateCalc(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	token, isToken := keypad[k]
	if !isToken && len(k) == 1 && strings.Contains(literal, k) {
		token, isToken = k, true
	}
	if m.busy {
		if isToken {
			m.pending = append(m.pending, token)
		}
		return m, nil
	}

	m.status = ""
	switch k {
	case "q":
		return m, tea.Quit
	case "h":
		m.history = m.wire.History.Entries()
		m.selected = 0
		m.mode = modeHistory
		return m, nil
	case "g":
		m.mode = modeGraph
		m.sample()
		cmd := m.graph.Focus()
		return m, cmd
	case "T":
		return m, m.toggleTheme()
	}

	if !isToken {
		return m, nil
	}
	return m.press(token)
}

// press hands token to the calculator. Evaluation writes history, so it
// runs as a command and blocks further tokens until it reports back.
func (m Model) press(token string) (Model, tea.Cmd) {
	if token != calculator.KeyEquals {
		m.display = m.wire.Calculator.Press(m.ctx, token)
		return m, nil
	}
	m.busy = true
	ctx, calc := m.ctx, m.wire.Calculator
	return m, func() tea.Msg {
		return evaluatedMsg{display: calc.Evaluate(ctx)}
	}
}

// drain replays pending tokens until one starts another evaluation.
func (m Model) drain() (Model, tea.Cmd) {
	for len(m.pending) > 0 && !m.busy {
		token := m.pending[0]
		m.pending = m.pending[1:]
		var cmd tea.Cmd
		if m, cmd = m.press(token); cmd != nil {
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) toggleTheme() tea.Cmd {
	ctx, svc := m.ctx, m.wire.Theme
	return func() tea.Msg {
		return themeMsg{theme: svc.Toggle(ctx)}
	}
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	ctx, hist := m.ctx, m.wire.History
	switch msg.String() {
	case "esc", "h", "q":
		m.mode = modeCalc
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.history)-1 {
			m.selected++
		}
	case "enter":
		d, err := m.wire.Calculator.SelectHistory(m.ctx, m.selected, false)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.display = d
		m.mode = modeCalc
	case "d", "delete":
		if len(m.history) == 0 {
			return m, nil
		}
		m.busy = true
		index := m.selected
		return m, func() tea.Msg {
			err := hist.Remove(ctx, index)
			return historyMsg{entries: hist.Entries(), err: err}
		}
	case "x":
		m.busy = true
		return m, func() tea.Msg {
			hist.Clear(ctx)
			return historyMsg{entries: hist.Entries()}
		}
	}
	return m, nil
}

func (m Model) updateGraph(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.graph.Blur()
		m.mode = modeCalc
		return m, nil
	case "enter":
		m.sample()
		return m, nil
	}
	var cmd tea.Cmd
	m.graph, cmd = m.graph.Update(msg)
	return m, cmd
}

func (m *Model) sample() {
	m.series = m.wire.Plot.Sample(m.graph.Value(), variable(m.wire))
	m.status = ""
	if m.series.Failed > 0 {
		m.status = fmt.Sprintf("%d of %d points could not be evaluated", m.series.Failed, len(m.series.Points))
	}
}

// View renders the current screen.
func (m Model) View() string {
	var body, help string
	switch m.mode {
	case modeLoading:
		return m.styles.App.Render(m.styles.Muted.Render("Loading…"))
	case modeCalc:
		body = m.viewCalc()
		help = "0-9 + - * / % ^ ( ) • s c t r l n functions • p π • e • enter = • ⌫ del • esc clear • h history • g graph • T theme • q quit"
	case modeHistory:
		body = m.viewHistory()
		help = "↑/↓ move • enter use • d delete • x clear all • esc back"
	case modeGraph:
		body = m.viewGraph()
		help = "enter plot • esc back"
	}

	parts := []string{m.styles.Header.Render("calc"), body}
	if m.status != "" {
		parts = append(parts, m.styles.Error.Render(m.status))
	}
	parts = append(parts, m.styles.Footer.Render(help))
	return m.styles.App.Render(strings.Join(parts, "\n"))
}

func (m Model) viewCalc() string {
	result := m.styles.Result.Render(m.display.Result)
	if m.display.Failed() {
		result = m.styles.Error.Render(m.display.Result)
	}
	w := max(m.width-8, 20)
	return m.styles.Display.Width(w).Render(m.styles.Input.Render(m.display.Expression) + "\n" + result)
}

func (m Model) viewHistory() string {
	if len(m.history) == 0 {
		return m.styles.Muted.Render("No history yet.")
	}
	lines := make([]string, len(m.history))
	for i, e := range m.history {
		line := fmt.Sprintf("%2d  %s", i, e.String())
		if i == m.selected {
			lines[i] = m.styles.Selected.Render("> " + line)
		} else {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewGraph() string {
	chart := RenderChart(m.series, max(m.width-16, 20), max(m.height-12, 6))
	return m.graph.View() + "\n\n" + m.styles.Chart.Render(chart)
}

func variable(w *app.Wire) string {
	if w.PlotVariable != "" {
		return w.PlotVariable
	}
	return plot.DefaultVariable
}

// Run starts the interactive calculator and blocks until it exits.
func Run(ctx context.Context, w *app.Wire) error {
	p := tea.NewProgram(New(ctx, w), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
