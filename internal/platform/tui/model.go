package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/engine"
	"github.com/vovakirdan/natari/internal/registry"
	"github.com/vovakirdan/natari/internal/storage"
)

// Lines reserved around the playground: title, scores, help.
const chromeLines = 3

// Default terminal size until the first resize message arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// BackToMenuMsg is emitted by an embedded game model when the player leaves.
type BackToMenuMsg struct{}

// Options configures a game model.
type Options struct {
	Context  context.Context // parent of the driver's lifetime; nil means background
	Store    *storage.Store
	Logger   *log.Logger
	Renderer *lipgloss.Renderer
	Config   core.RuntimeConfig
	Mode     string // recorded with two-player matches, e.g. "local" or "ssh"
	Embedded bool   // leaving returns BackToMenuMsg instead of quitting
}

// Model is the Bubble Tea model that displays one running game.
// The game itself runs on the driver goroutine; the model only pushes input
// and draws frames.
type Model struct {
	game     registry.Game
	driver   *engine.Driver
	mailbox  *engine.Mailbox
	run      func() error
	cancel   context.CancelFunc
	done     <-chan struct{}
	store    *storage.Store
	logger   *log.Logger
	renderer *lipgloss.Renderer
	mode     string
	embedded bool

	keys KeyMap
	help help.Model

	frame    engine.Frame
	hasFrame bool
	started  time.Time
	recorded bool
	width    int
	height   int
	quitting bool
}

// NewModel creates a model and a driver for game. The driver starts when the
// program calls Init.
func NewModel(game registry.Game, opts Options) Model {
	cfg := opts.Config
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mode := opts.Mode
	if mode == "" {
		mode = "local"
	}

	mailbox := engine.NewMailbox()
	driver := engine.NewDriver(game, mailbox, cfg, engine.WithLogger(logger))
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	h := help.New()
	h.ShowAll = false

	return Model{
		game:     game,
		driver:   driver,
		mailbox:  mailbox,
		run:      func() error { return driver.Run(ctx) },
		cancel:   cancel,
		done:     ctx.Done(),
		store:    opts.Store,
		logger:   logger,
		renderer: opts.Renderer,
		mode:     mode,
		embedded: opts.Embedded,
		keys:     KeyMapFor(game.ID()),
		help:     h,
		started:  time.Now(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Init starts the driver and waits for its first frame.
func (m Model) Init() tea.Cmd {
	run := m.run
	return tea.Batch(
		func() tea.Msg {
			if err := run(); err != nil {
				m.logger.Error("game loop failed", "game", m.game.ID(), "error", err)
			}
			return loopStoppedMsg{}
		},
		waitFrame(m.mailbox.Frames(), m.done),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		return m.handleFrame(msg.Frame)
	}

	return m, nil
}

// handleKey pushes game input or leaves the game.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.leave(true)
	case key.Matches(msg, m.keys.Back):
		return m.leave(!m.embedded)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	ev, ok := m.keys.Map(msg)
	if !ok {
		return m, nil
	}
	if ev.Action == core.ActionRestart {
		// An abandoned two-player round still counts as a match.
		m.record()
		m.started = time.Now()
	}
	m.driver.Push(ev)
	return m, nil
}

// leave stops the driver, records the round, and quits or returns to the
// menu.
func (m Model) leave(quit bool) (tea.Model, tea.Cmd) {
	m.cancel()
	m.record()
	m.quitting = true
	if quit || !m.embedded {
		return m, tea.Quit
	}
	return m, func() tea.Msg { return BackToMenuMsg{} }
}

// handleFrame stores the newest frame and records finished rounds once.
// A frame of a running round re-arms recording after a restart.
func (m Model) handleFrame(f engine.Frame) (tea.Model, tea.Cmd) {
	m.frame = f
	m.hasFrame = true

	if f.State.GameOver {
		m.record()
	} else {
		m.recorded = false
	}
	if m.quitting {
		return m, nil
	}
	return m, waitFrame(m.mailbox.Frames(), m.done)
}

// record stores the current round unless it was already stored.
func (m *Model) record() {
	if m.recorded || !m.hasFrame || m.store == nil {
		return
	}
	// Unfinished single-player rounds are not scores.
	if m.game.Players() < 2 && !m.frame.State.GameOver {
		return
	}
	m.recorded = true

	id, err := m.store.Record(storage.Round{
		GameID:   m.game.ID(),
		Players:  m.game.Players(),
		Mode:     m.mode,
		State:    m.frame.State,
		Ticks:    m.frame.Tick,
		Duration: time.Since(m.started),
	})
	if err != nil {
		m.logger.Warn("could not record round", "game", m.game.ID(), "error", err)
		return
	}
	m.logger.Debug("round recorded", "game", m.game.ID(), "match", id, "scores", m.frame.State.Scores)
}

// View renders the HUD, the playground, and the help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	r := m.renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	statusStyle := r.NewStyle().Foreground(lipgloss.Color("212"))
	helpStyle := r.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.game.Title()))
	b.WriteString("  ")
	b.WriteString(scoreLine(m.frame.State, m.game.Players()))
	if m.frame.State.Status != "" {
		b.WriteString("  ")
		b.WriteString(statusStyle.Render(m.frame.State.Status))
	}
	b.WriteString("\n")

	if m.hasFrame {
		rows := max(m.height-chromeLines, 1)
		b.WriteString(RenderFrame(r, m.frame.Buffer, m.frame.Display, m.width, rows))
	} else {
		b.WriteString("Starting...")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// scoreLine formats the scores of one or two players.
func scoreLine(s core.GameState, players int) string {
	if players < 2 {
		return fmt.Sprintf("Score: %d", s.Score(core.Player1))
	}
	return fmt.Sprintf("P1 %d : %d P2", s.Score(core.Player1), s.Score(core.Player2))
}

// IsQuitting reports whether the player left the game.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts a Bubble Tea program for game and blocks until it exits.
func Run(game registry.Game, opts Options) error {
	model := NewModel(game, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.cancel()
	} else {
		model.cancel()
	}
	return err
}
