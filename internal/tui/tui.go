// Package tui is a hot-seat terminal front end for a single local table.
// Everyone shares one screen; the acting player's hole cards are shown on
// their turn.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/pokertables/internal/game"
	"github.com/lox/pokertables/poker"
)

// ErrUnknownCommand is returned for input that is not a table command.
var ErrUnknownCommand = errors.New("unknown command")

const helpText = "Commands: start, fold, check, call, raise N, help, quit"

type logEntry struct {
	text  string
	style lipgloss.Style
}

// Model is the bubbletea model for a hot-seat table.
type Model struct {
	table  *game.Table
	logger *log.Logger

	logViewport viewport.Model
	actionInput textinput.Model

	gameLog  []logEntry
	quitting bool

	width       int
	height      int
	initialized bool
}

// NewModel seats the named players at table, in order, and returns a model
// ready to run. Names double as identities so they must be unique.
func NewModel(table *game.Table, names []string, logger *log.Logger) (*Model, error) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			return nil, fmt.Errorf("player names must be unique and non-empty: %q", name)
		}
		seen[name] = true
		if _, err := table.AddPlayer(name, name); err != nil {
			return nil, fmt.Errorf("seat %s: %w", name, err)
		}
	}

	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "start, fold, check, call, raise 10, quit"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	m := &Model{
		table:       table,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
	}
	m.addLog(helpText, InfoStyle)
	return m, nil
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			input := m.actionInput.Value()
			m.actionInput.SetValue("")
			if err := m.Execute(input); err != nil {
				m.addLog(err.Error(), ErrorStyle)
			}
			if m.quitting {
				return m, tea.Quit
			}
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Execute runs one typed command against the table.
func (m *Model) Execute(input string) error {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "quit", "exit", "q":
		m.quitting = true
		return nil
	case "help", "?":
		m.addLog(helpText, InfoStyle)
		return nil
	case "start", "deal":
		return m.startHand()
	}

	kind, err := game.ParseActionKind(fields[0])
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
	action := game.Action{Kind: kind}
	if kind == game.Raise {
		if len(fields) != 2 {
			return fmt.Errorf("usage: raise N")
		}
		action.Amount, err = strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("raise amount must be a number: %q", fields[1])
		}
	}
	return m.act(action)
}

// Quitting reports whether the user asked to leave.
func (m *Model) Quitting() bool { return m.quitting }

// Log returns the plain text of every log line.
func (m *Model) Log() []string {
	lines := make([]string, len(m.gameLog))
	for i, e := range m.gameLog {
		lines[i] = e.text
	}
	return lines
}

func (m *Model) startHand() error {
	if err := m.table.StartNewGame(); err != nil {
		return err
	}
	button := m.table.Seat(m.table.Button())
	m.addLog(fmt.Sprintf("*** HAND #%d *** (button: %s)", m.table.HandNumber(), button.Name), HeaderStyle)
	for _, p := range m.table.Players() {
		if p != nil && p.CurrentBet > 0 {
			m.addLog(fmt.Sprintf("%s posts blind $%d", p.Name, p.CurrentBet), InfoStyle)
		}
	}
	m.logger.Debug("Hand started", "hand", m.table.HandNumber())
	return nil
}

func (m *Model) act(action game.Action) error {
	if !m.table.Running() {
		return game.ErrHandNotRunning
	}
	seat := m.table.ActingSeat()
	player := m.table.Seat(seat)
	street := m.table.Street()

	if err := m.table.ProcessAction(action); err != nil {
		return err
	}
	m.addLog(fmt.Sprintf("%s: %s", player.Name, action), lipgloss.NewStyle())

	if !m.table.Running() {
		m.logResult(m.table.LastResult())
		return nil
	}
	if next := m.table.Street(); next != street {
		m.addLog(fmt.Sprintf("*** %s *** %s", strings.ToUpper(next.String()), cardsText(m.table.Board())), WarningStyle)
	}
	return nil
}

func (m *Model) logResult(result *game.HandResult) {
	if result == nil {
		return
	}
	if !result.Uncontested {
		m.addLog(fmt.Sprintf("*** SHOWDOWN *** %s", cardsText(result.Board)), WarningStyle)
		for i, p := range m.table.Players() {
			if p == nil || p.Folded || len(p.HoleCards) != 2 {
				continue
			}
			hand, _ := m.table.BestHand(i)
			m.addLog(fmt.Sprintf("%s shows %s: %s", p.Name, cardsText(p.HoleCards), hand), lipgloss.NewStyle())
		}
	}
	for _, w := range result.Winners {
		m.addLog(fmt.Sprintf("%s wins $%d", w.Name, w.Amount), SuccessStyle)
	}
}

func (m *Model) addLog(text string, style lipgloss.Style) {
	m.gameLog = append(m.gameLog, logEntry{text: text, style: style})
	m.logViewport.SetContent(m.renderLog())
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	inputPane := paneStyle.
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Render(m.actionInput.View())
	inputHeight := lipgloss.Height(inputPane)

	sidebar := m.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebar), 28)
	paneHeight := max(m.height-inputHeight-2, 1)
	sidebarPane := paneStyle.Width(sidebarWidth).Height(paneHeight).Render(sidebar)

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(m.renderLog())
	if !m.initialized && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := paneStyle.Width(m.logViewport.Width).Height(paneHeight).Render(m.logViewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, top, inputPane)
}

func (m *Model) renderLog() string {
	lines := make([]string, len(m.gameLog))
	for i, e := range m.gameLog {
		lines[i] = e.style.Render(e.text)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSidebar() string {
	t := m.table
	var b strings.Builder

	settings := t.Settings()
	b.WriteString(HeaderStyle.Render(fmt.Sprintf(" %s ", settings.Name)))
	b.WriteString("\n")
	if t.HandNumber() > 0 {
		fmt.Fprintf(&b, "Hand #%d  %s\n", t.HandNumber(), t.Street())
	}
	if board := t.Board(); len(board) > 0 {
		fmt.Fprintf(&b, "Board: %s\n", FormatCards(board))
	}
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: $%d  Bet: $%d", t.Pot(), t.RequiredBet())))
	b.WriteString("\n\n")

	for i, p := range t.Players() {
		if p == nil {
			continue
		}
		marker := "  "
		switch {
		case t.Running() && i == t.ActingSeat():
			marker = "> "
		case i == t.Button():
			marker = "D "
		}
		line := fmt.Sprintf("%s%d %-10s $%d", marker, i, p.Name, p.Chips)
		if p.CurrentBet > 0 {
			line += fmt.Sprintf(" (bet $%d)", p.CurrentBet)
		}
		switch {
		case p.Folded:
			line = FoldedStyle.Render(line)
		case t.Running() && i == t.ActingSeat():
			line = ActingStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if t.Running() {
		seat := t.ActingSeat()
		if p := t.Seat(seat); p != nil {
			fmt.Fprintf(&b, "\n%s to act, owes $%d\n", p.Name, t.RequiredBet()-p.CurrentBet)
			fmt.Fprintf(&b, "Hand: %s\n", FormatCards(p.HoleCards))
			if t.Revealed() == 0 {
				fmt.Fprintf(&b, "Preflop: %s\n", poker.RateHoleCards(p.HoleCards))
			}
			if t.Revealed() == 5 {
				if hand, ok := t.BestHand(seat); ok {
					fmt.Fprintf(&b, "Best: %s\n", FormatHand(hand))
				}
			}
		}
	}
	return b.String()
}

func cardsText(cards []poker.Card) string {
	return "[" + poker.FormatCards(cards) + "]"
}
