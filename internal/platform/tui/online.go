package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/engine"
	"github.com/vovakirdan/natari/internal/multiplayer"
)

// OnlineState is the step of the online flow a session is in.
type OnlineState int

const (
	OnlineChooseMode    OnlineState = iota // Host or join
	OnlineHostWaiting                      // Lobby open, waiting for a joiner
	OnlineJoinEnterCode                    // Typing a join code
	OnlineJoinWaiting                      // Join sent, waiting for the match
	OnlineInMatch                          // Playing
	OnlineMatchEnded                       // Showing the result
)

// LobbyClient sends requests to the match coordinator.
// *multiplayer.Coordinator implements it.
type LobbyClient interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// OnlineRequestedMsg is emitted by an embedded menu when a two-player game
// is picked for online play.
type OnlineRequestedMsg struct {
	Item MenuItem
}

// sessionEventMsg carries one coordinator event into the Bubble Tea loop.
type sessionEventMsg struct {
	Event multiplayer.SessionEvent
}

// waitSessionEvent blocks until the coordinator sends an event or the
// session ends. The session model re-issues it after every event.
func waitSessionEvent(events <-chan multiplayer.SessionEvent, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-events:
			return sessionEventMsg{Event: evt}
		case <-done:
			return nil
		}
	}
}

// OnlineModel hosts or joins a lobby and then plays the match. Frames come
// from the coordinator instead of a local driver.
type OnlineModel struct {
	state    OnlineState
	item     MenuItem
	session  multiplayer.SessionID
	lobby    LobbyClient
	renderer *lipgloss.Renderer
	logger   *log.Logger
	keys     KeyMap

	code  string // hosted lobby code
	input string // typed join code
	err   string

	matchID  multiplayer.MatchID
	side     core.PlayerID
	frame    engine.Frame
	hasFrame bool
	result   multiplayer.MatchEndedEvent

	width    int
	height   int
	quitting bool
}

// NewOnlineModel creates the online flow for a two-player game.
func NewOnlineModel(item MenuItem, session multiplayer.SessionID, lobby LobbyClient, r *lipgloss.Renderer, logger *log.Logger) OnlineModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return OnlineModel{
		item:     item,
		session:  session,
		lobby:    lobby,
		renderer: r,
		logger:   logger,
		keys:     KeyMapFor(item.GameID),
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Init initializes the model. Events are pumped by the owning session.
func (m OnlineModel) Init() tea.Cmd {
	return nil
}

// Update handles keys and coordinator events.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case sessionEventMsg:
		m.handleEvent(msg.Event)
	}
	return m, nil
}

func (m *OnlineModel) handleEvent(evt multiplayer.SessionEvent) {
	switch e := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.code = e.Code
		m.state = OnlineHostWaiting
	case multiplayer.LobbyErrorEvent:
		m.err = e.Message
		switch m.state {
		case OnlineJoinWaiting:
			m.state = OnlineJoinEnterCode
		case OnlineHostWaiting:
			m.state = OnlineChooseMode
			m.code = ""
		}
	case multiplayer.MatchStartedEvent:
		m.matchID = e.MatchID
		m.side = e.Side
		m.hasFrame = false
		m.err = ""
		m.state = OnlineInMatch
		m.logger.Info("online match started", "match", e.MatchID, "game", e.GameID, "side", int(e.Side)+1)
	case multiplayer.FrameEvent:
		if m.state == OnlineInMatch && e.MatchID == m.matchID {
			m.frame = e.Frame
			m.hasFrame = true
		}
	case multiplayer.MatchEndedEvent:
		if e.MatchID == m.matchID && m.state == OnlineInMatch {
			m.result = e
			m.state = OnlineMatchEnded
		}
	}
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return m.leave(true)
	}

	switch m.state {
	case OnlineChooseMode:
		switch k {
		case "h", "H", "1":
			m.err = ""
			m.lobby.Send(multiplayer.CreateLobbyMsg{SessionID: m.session, GameID: m.item.GameID})
		case "j", "J", "2":
			m.state = OnlineJoinEnterCode
			m.input, m.err = "", ""
		case "esc", "b":
			return m.leave(false)
		case "q":
			return m.leave(true)
		}

	case OnlineHostWaiting:
		switch k {
		case "esc", "b":
			return m.leave(false)
		case "q":
			return m.leave(true)
		}

	case OnlineJoinEnterCode:
		switch k {
		case "esc":
			m.state = OnlineChooseMode
		case "enter":
			if m.input != "" {
				m.state = OnlineJoinWaiting
				m.err = ""
				m.lobby.Send(multiplayer.JoinLobbyMsg{SessionID: m.session, Code: m.input})
			}
		case "backspace":
			if m.input != "" {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if len(k) == 1 && len(m.input) < 6 {
				c := strings.ToUpper(k)[0]
				if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
					m.input += string(c)
				}
			}
		}

	case OnlineJoinWaiting:
		if k == "esc" || k == "b" {
			m.lobby.Send(multiplayer.LeaveMsg{SessionID: m.session})
			m.state = OnlineJoinEnterCode
		}

	case OnlineInMatch:
		switch {
		case k == "q":
			return m.leave(true)
		case k == "esc" || k == "b":
			return m.leave(false)
		}
		// Either player's keys steer this session's side.
		if evt, ok := m.keys.Map(msg); ok {
			m.lobby.Send(multiplayer.InputMsg{SessionID: m.session, Action: evt.Action})
		}

	case OnlineMatchEnded:
		switch k {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "enter", "esc", "b", " ":
			return m, func() tea.Msg { return BackToMenuMsg{} }
		}
	}
	return m, nil
}

// leave abandons any lobby or match, then quits or returns to the menu.
func (m OnlineModel) leave(quit bool) (tea.Model, tea.Cmd) {
	if m.state != OnlineChooseMode && m.state != OnlineMatchEnded {
		m.lobby.Send(multiplayer.LeaveMsg{SessionID: m.session})
	}
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, func() tea.Msg { return BackToMenuMsg{} }
}

// View renders the current step.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}
	if m.state == OnlineInMatch {
		return m.viewMatch()
	}

	r := m.renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	codeStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle := r.NewStyle().Foreground(lipgloss.Color("241"))

	var title, hint string
	var lines []string
	switch m.state {
	case OnlineChooseMode:
		title = "ONLINE " + strings.ToUpper(m.item.Title)
		lines = []string{"[H] Host a game", "[J] Join a game"}
		hint = "Esc: Back  |  Q: Quit"
	case OnlineHostWaiting:
		title = "HOSTING GAME"
		lines = []string{
			"Share this code with your opponent:",
			"",
			codeStyle.Render("[ " + m.code + " ]"),
			"",
			"Waiting for player to join...",
		}
		hint = "Esc: Cancel  |  Q: Quit"
	case OnlineJoinEnterCode:
		title = "JOIN GAME"
		code := m.input
		if len(code) < 6 {
			code += "_" + strings.Repeat(" ", 5-len(m.input))
		}
		lines = []string{"Enter the game code:", "", codeStyle.Render("[ " + code + " ]")}
		hint = "Enter: Connect  |  Esc: Back"
	case OnlineJoinWaiting:
		title = "CONNECTING"
		lines = []string{"Joining game: " + m.input, "", "Please wait..."}
		hint = "Esc: Cancel"
	case OnlineMatchEnded:
		title = "MATCH OVER"
		lines = []string{
			m.outcome(),
			"",
			fmt.Sprintf("P1 %d : %d P2", m.result.Scores[0], m.result.Scores[1]),
			m.result.Reason.String(),
		}
		hint = "Enter: Menu  |  Q: Quit"
	}
	if m.err != "" {
		lines = append(lines, "", "Error: "+m.err)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(hint), m.width))
	return b.String()
}

// viewMatch draws the shared frame with this session's side in the HUD.
func (m OnlineModel) viewMatch() string {
	r := m.renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	statusStyle := r.NewStyle().Foreground(lipgloss.Color("212"))
	helpStyle := r.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.item.Title))
	fmt.Fprintf(&b, "  You: P%d  ", int(m.side)+1)
	b.WriteString(scoreLine(m.frame.State, 2))
	if m.frame.State.Status != "" {
		b.WriteString("  ")
		b.WriteString(statusStyle.Render(m.frame.State.Status))
	}
	b.WriteString("\n")

	if m.hasFrame {
		rows := max(m.height-chromeLines, 1)
		b.WriteString(RenderFrame(r, m.frame.Buffer, m.frame.Display, m.width, rows))
	} else {
		b.WriteString("Waiting for the first frame...")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc: leave match  q: quit"))
	return b.String()
}

// outcome phrases the result from this session's point of view.
func (m OnlineModel) outcome() string {
	switch m.result.Winner {
	case 0:
		return "DRAW"
	case int(m.side) + 1:
		return "YOU WIN"
	default:
		return "YOU LOSE"
	}
}

// State returns the current step of the flow.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// Code returns the hosted lobby code.
func (m OnlineModel) Code() string {
	return m.code
}

// Side returns the side this session plays once a match started.
func (m OnlineModel) Side() core.PlayerID {
	return m.side
}

// IsQuitting reports whether the player quit.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}
