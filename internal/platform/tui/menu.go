package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/natari/internal/registry"
)

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	GameID  string
	Title   string
	Players int
}

// MenuModel is the Bubble Tea model for the game picker menu.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	renderer       *lipgloss.Renderer
	quitting       bool
	selected       *MenuItem // Set when user selects a game
	openScoreboard bool      // True if user pressed Tab for scoreboard
	embedded       bool      // Selections are reported as messages instead of quitting
	online         bool      // Two-player games can be played online
}

// MenuSelectedMsg is emitted by an embedded menu when a game is chosen.
type MenuSelectedMsg struct {
	Item MenuItem
}

// ScoreboardRequestedMsg is emitted by an embedded menu when Tab is pressed.
type ScoreboardRequestedMsg struct{}

// NewMenuModel creates a menu listing every registered game.
func NewMenuModel(width, height int) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title, Players: g.Players})
	}

	return MenuModel{
		items:  items,
		width:  width,
		height: height,
	}
}

// Embedded returns a copy of the menu that reports selections as messages
// and draws with r. Used by SSH sessions.
func (m MenuModel) Embedded(r *lipgloss.Renderer) MenuModel {
	m.embedded = true
	m.renderer = r
	return m
}

// WithOnline returns a copy of an embedded menu that offers online play
// for two-player games.
func (m MenuModel) WithOnline() MenuModel {
	m.online = true
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		selected := m.items[m.cursor]
		m.selected = &selected
		if m.embedded {
			return m, func() tea.Msg { return MenuSelectedMsg{Item: selected} }
		}
		return m, tea.Quit

	case MenuActionOnline:
		if !m.embedded || !m.online || len(m.items) == 0 {
			return m, nil
		}
		item := m.items[m.cursor]
		if item.Players < 2 {
			return m, nil
		}
		return m, func() tea.Msg { return OnlineRequestedMsg{Item: item} }

	case MenuActionScoreboard:
		m.openScoreboard = true
		if m.embedded {
			return m, func() tea.Msg { return ScoreboardRequestedMsg{} }
		}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	r := m.renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	activeStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle := r.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  N A T A R I  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a game", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if item.Players > 1 {
			line += " (2P)"
		}
		if i == m.cursor {
			line = activeStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	if m.online {
		controls = "Up/Down: Navigate  |  Enter: Select  |  O: Online (2P)  |  Tab: Scores  |  Q: Quit"
	}
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (int, int) {
	return m.width, m.height
}

// centerText centers text within given width, measuring printable cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Width, Height   int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(width, height int) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Width: width, Height: height}, fmt.Errorf("tui: menu: %w", err)
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Width: width, Height: height, Quit: true}, nil
	}

	result := MenuResult{}
	result.Width, result.Height = m.Size()

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting():
		result.Quit = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result, nil
}
