// Package tui is an interactive terminal blackjack table built on Bubble Tea.
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

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Model is the Bubble Tea model for a single player table. The round itself
// lives in state; the model turns key presses into round operations and
// keeps a log of what happened.
type Model struct {
	state  game.RoundState
	rng    deck.Source
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	betInput    textinput.Model

	gameLog  []string
	status   string
	rounds   int
	balance  game.Chip // Player balance before the current bet
	quitting bool

	// Dimensions
	width  int
	height int
}

// New creates a model waiting for the first bet. rng shuffles the shoe each
// time the cut card comes out.
func New(bet *game.BetState, rng deck.Source, logger *log.Logger) *Model {
	// Sized properly when WindowSizeMsg arrives. Scrolling keys are handled
	// in Update since the default bindings clash with the action keys.
	vp := viewport.New(10, 5)
	vp.KeyMap = viewport.KeyMap{}

	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("at least %d", max(bet.Rules().MinBet, 1))
	ti.CharLimit = 12
	ti.Width = 20
	ti.Prompt = "Bet > "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Focus()

	m := &Model{
		state:       bet,
		rng:         rng,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		betInput:    ti,
	}
	rules := bet.Rules()
	m.addLog(HeaderStyle.Render("Blackjack"))
	m.addLog(InfoStyle.Render(fmt.Sprintf("Blackjack pays %s, insurance pays %s", rules.BlackjackPayout, rules.InsurancePayout)))
	return m
}

// State returns the current round state
func (m *Model) State() game.RoundState {
	return m.state
}

// Status returns the message shown for the last rejected input
func (m *Model) Status() string {
	return m.status
}

// Log returns a copy of the round log
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
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
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "up":
			m.logViewport.ScrollUp(1)
			return m, nil
		case "down":
			m.logViewport.ScrollDown(1)
			return m, nil
		case "pgup":
			m.logViewport.HalfPageUp()
			return m, nil
		case "pgdown":
			m.logViewport.HalfPageDown()
			return m, nil
		}
		if cmd, handled := m.handleKey(msg.String()); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if _, ok := m.state.(*game.BetState); ok {
		m.betInput, cmd = m.betInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey applies a key to the current phase. Keys not handled while
// betting go to the bet input.
func (m *Model) handleKey(key string) (tea.Cmd, bool) {
	switch s := m.state.(type) {
	case *game.BetState:
		switch key {
		case "enter":
			m.submitBet(s)
			return nil, true
		case "q":
			if m.betInput.Value() == "" {
				return m.quit(), true
			}
		}
		return nil, false

	case *game.InsuranceState:
		switch key {
		case "i":
			m.insure(s, s.MaxInsurance())
		case "n":
			m.insure(s, 0)
		case "q":
			return m.quit(), true
		}
		return nil, true

	case *game.PlayerTurnState:
		if key == "q" {
			return m.quit(), true
		}
		for action, k := range actionKeys {
			if k == key {
				m.act(s, action)
				break
			}
		}
		return nil, true

	case *game.EndState:
		switch key {
		case "enter":
			m.advance(s.PlayAgain())
		case "q":
			return m.quit(), true
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.logger.Info("Leaving table", "rounds", m.rounds, "balance", m.state.Table().Player().Balance())
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

func (m *Model) submitBet(s *game.BetState) {
	value := strings.TrimSpace(m.betInput.Value())
	amount, err := strconv.ParseUint(value, 10, 64)
	if err != nil || amount == 0 {
		m.status = fmt.Sprintf("%q is not a bet", value)
		return
	}

	if s.NeedsReshuffle() {
		s = s.Reshuffle(m.rng)
		m.state = s
		m.addLog(InfoStyle.Render("Shuffling the shoe"))
		m.logger.Info("Reshuffled shoe", "cards", s.Table().Shoe().Remaining())
	}

	before := s.Table().Player().Balance()
	next, err := s.PlaceBet(game.Chip(amount))
	if err != nil {
		m.reject(err)
		return
	}

	m.rounds++
	m.balance = before
	m.logger.Debug("Bet placed", "round", m.rounds, "bet", amount)

	t := next.Table()
	m.addLog("")
	m.addLog(HandInfoStyle.Render(fmt.Sprintf("Round %d: bet %d", m.rounds, amount)))
	if up, ok := t.Dealer().UpCard(); ok {
		m.addLog("Dealer shows " + formatCard(deck.Up(up)))
	}
	m.addLog("You have " + formatHand(t.Player().Hands()[0]))
	m.advance(next)
}

func (m *Model) insure(s *game.InsuranceState, amount game.Chip) {
	next, err := s.BuyInsurance(amount)
	if err != nil {
		m.reject(err)
		return
	}
	if amount > 0 {
		m.addLog(fmt.Sprintf("You insure for %d", amount))
	} else {
		m.addLog("You decline insurance")
	}
	if _, ok := next.(*game.PlayerTurnState); ok {
		m.addLog(InfoStyle.Render("Dealer does not have blackjack"))
	}
	m.advance(next)
}

func (m *Model) act(s *game.PlayerTurnState, action game.Action) {
	index := s.HandIndex()
	next, err := s.Apply(action)
	if errors.Is(err, game.ErrEmptyShoe) {
		s = s.Reshuffle(m.rng)
		m.addLog(InfoStyle.Render("Shuffling the discards back into the shoe"))
		m.logger.Debug("Reshuffled mid-round", "round", m.rounds)
		next, err = s.Apply(action)
	}
	if err != nil {
		m.reject(err)
		return
	}

	hands := next.Table().Player().Hands()
	switch action {
	case game.Split:
		m.addLog(fmt.Sprintf("You split hand %d", index+1))
		m.addLog(fmt.Sprintf("  %d: %s", index+1, formatHand(hands[index])))
		m.addLog(fmt.Sprintf("  %d: %s", index+2, formatHand(hands[index+1])))
	case game.Surrender:
		m.addLog("You surrender half your bet")
	default:
		line := fmt.Sprintf("You %s: %s", action, formatHand(hands[index]))
		if len(hands) > 1 {
			line = fmt.Sprintf("Hand %d, you %s: %s", index+1, action, formatHand(hands[index]))
		}
		m.addLog(line)
	}
	m.logger.Debug("Action", "round", m.rounds, "hand", index, "action", action)
	m.advance(next)
}

// advance moves to next and logs anything the new phase needs to announce
func (m *Model) advance(next game.RoundState) {
	m.state = next
	m.status = ""

	switch s := next.(type) {
	case *game.BetState:
		m.betInput.Focus()
		if p := s.Table().Player(); p.Balance() < max(s.Rules().MinBet, 1) {
			m.status = "You're out of chips. Press q to leave the table."
		}

	case *game.InsuranceState:
		m.betInput.Blur()
		m.addLog(WarningStyle.Render(fmt.Sprintf("Insurance? Up to %d (i to insure, n to decline)", s.MaxInsurance())))

	case *game.PlayerTurnState:
		m.betInput.Blur()

	case *game.EndState:
		m.betInput.Blur()
		m.logResult(s)
	}
}

func (m *Model) logResult(s *game.EndState) {
	t := s.Table()
	m.addLog("Dealer has " + formatHand(t.Dealer().Hand()))

	hands := t.Player().Hands()
	if len(hands) > 1 {
		for i, h := range hands {
			m.addLog(fmt.Sprintf("  Hand %d: %s", i+1, outcomeStyle(h.Outcome()).Render(h.Outcome().String())))
		}
	}

	balance := t.Player().Balance()
	net := int64(balance) - int64(m.balance)
	m.addLog(outcomeStyle(s.Outcome()).Render(fmt.Sprintf("Result: %s %+d, balance %d", s.Outcome(), net, balance)))
	m.logger.Info("Round complete", "round", m.rounds, "outcome", s.Outcome(), "net", net, "balance", balance)
}

func (m *Model) reject(err error) {
	m.status = Describe(err)
	m.logger.Debug("Rejected input", "phase", m.state.Phase(), "error", err)
}

// addLog appends an entry to the round log and scrolls to it
func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := focusPaneStyle.
		Width(max(m.width-2, 1)).
		Render(actionContent)

	// Table pane (right of the log, same height)
	tableContent := m.renderTablePane()
	tableWidth := max(lipgloss.Width(tableContent), 32)
	paneHeight := max(m.height-actionHeight-4, 1)
	tablePane := paneStyle.
		Width(tableWidth).
		Height(paneHeight).
		Render(tableContent)

	// Log pane (fills the remaining width)
	logWidth := max(m.width-tableWidth-4, 1)
	if m.logViewport.Width != logWidth || m.logViewport.Height != paneHeight {
		m.logViewport.Width = logWidth
		m.logViewport.Height = paneHeight
		m.logViewport.GotoBottom()
	}
	logPane := paneStyle.
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, tablePane)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, actionPane)
}

// renderTablePane shows the dealer, the player's hands and the banks
func (m *Model) renderTablePane() string {
	t := m.state.Table()
	var content strings.Builder

	content.WriteString(HandInfoStyle.Render("Dealer"))
	content.WriteString("\n")
	if dealer := t.Dealer().Hand(); dealer.Len() > 0 {
		content.WriteString("  " + formatHand(dealer))
	}
	content.WriteString("\n\n")

	content.WriteString(HandInfoStyle.Render("You"))
	content.WriteString("\n")
	active := -1
	if s, ok := m.state.(*game.PlayerTurnState); ok {
		active = s.HandIndex()
	}
	content.WriteString(renderHands(t.Player().Hands(), active))
	content.WriteString("\n")

	content.WriteString(WarningStyle.Render(fmt.Sprintf("Balance: %d", t.Player().Balance())))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("House: %d", t.Dealer().Balance())))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Shoe: %d  Discards: %d", t.Shoe().Remaining(), len(t.Discard()))))
	return content.String()
}

// renderActionPane shows the keys that apply to the current phase
func (m *Model) renderActionPane() string {
	var content strings.Builder

	if m.status != "" {
		content.WriteString(ErrorStyle.Render(m.status))
		content.WriteString("\n")
	}

	var keys []string
	switch s := m.state.(type) {
	case *game.BetState:
		content.WriteString(m.betInput.View())
		content.WriteString("\n")
		keys = append(keys, keyHelp("enter", "deal"), keyHelp("q", "quit"))
	case *game.InsuranceState:
		keys = append(keys, keyHelp("i", fmt.Sprintf("insure %d", s.MaxInsurance())), keyHelp("n", "no insurance"))
	case *game.PlayerTurnState:
		for _, a := range s.Actions() {
			keys = append(keys, keyHelp(actionKeys[a], a.String()))
		}
	case *game.EndState:
		keys = append(keys, keyHelp("enter", "next round"), keyHelp("q", "quit"))
	}
	content.WriteString(strings.Join(keys, "  "))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("↑↓ scroll log • PgUp/PgDn half page • Ctrl+C to quit"))
	return content.String()
}

func keyHelp(k, help string) string {
	return KeyStyle.Render("["+k+"]") + " " + help
}
