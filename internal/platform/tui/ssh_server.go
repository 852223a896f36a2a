package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/multiplayer"
	"github.com/vovakirdan/natari/internal/registry"
	"github.com/vovakirdan/natari/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.natari/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Seed fixes the seed of every session's games; 0 seeds from the clock.
	Seed int64

	// LobbyTimeout is how long an online lobby waits for its second player.
	LobbyTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":23234",
		DBPath:       "~/.natari/scores.db",
		IdleTimeout:  30 * time.Minute,
		LobbyTimeout: multiplayer.DefaultConfig().LobbyTimeout,
	}
}

// SSHServer wraps a Wish SSH server that hands every session a game picker.
// Sessions can pair up for online matches through a shared coordinator.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	logger   *log.Logger
	sessions *multiplayer.SessionRegistry
	coord    *multiplayer.Coordinator
}

// NewSSHServer creates a new SSH server with the given configuration.
// A nil logger logs to stderr.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "natari-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".natari", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server

	mcfg := multiplayer.DefaultConfig()
	mcfg.Seed = cfg.Seed
	if cfg.LobbyTimeout > 0 {
		mcfg.LobbyTimeout = cfg.LobbyTimeout
	}
	srv.sessions = multiplayer.NewSessionRegistry()
	srv.coord = multiplayer.NewCoordinator(mcfg, nil, srv.sessions)
	srv.coord.SetLogger(logger.With("component", "lobby"))
	if store != nil {
		srv.coord.SetMatchSaver(store)
	}
	srv.coord.Start()
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	id := multiplayer.SessionID(uuid.NewString())
	handle := multiplayer.NewChannelSession(id, 64)
	s.sessions.Register(handle)
	go func() {
		<-sess.Context().Done()
		s.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		s.sessions.Unregister(id)
		handle.Close()
	}()

	model := NewSessionModel(SessionOptions{
		Context:  sess.Context(),
		Store:    s.store,
		Logger:   s.logger.With("user", sess.User()),
		Renderer: bubbletea.MakeRenderer(sess),
		Seed:     s.config.Seed,
		Width:    pty.Window.Width,
		Height:   pty.Window.Height,
		Lobby:    s.coord,
		Online:   handle,
	})

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
	case err := <-errc:
		s.logger.Error("server error", "error", err)
		s.coord.Stop()
		s.closeStore()
		return fmt.Errorf("tui: ssh server: %w", err)
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coord.Stop()
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Context  context.Context // ends the session's games when closed
	Store    *storage.Store
	Logger   *log.Logger
	Renderer *lipgloss.Renderer
	Seed     int64
	Width    int
	Height   int

	// Lobby and Online enable online play; both nil disables it.
	Lobby  LobbyClient
	Online *multiplayer.ChannelSession
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
	screenOnline
)

// SessionModel manages one remote session: menu -> game -> menu, with the
// scoreboard and online play reachable from the menu.
type SessionModel struct {
	opts   SessionOptions
	screen sessionScreen
	menu   MenuModel
	game   Model
	scores ScoreboardModel
	online OnlineModel
	games  int // games started, mixed into fixed seeds
}

// NewSessionModel creates a new session model showing the menu.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Width == 0 {
		opts.Width, opts.Height = defaultWidth, defaultHeight
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	m := SessionModel{opts: opts}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) onlineEnabled() bool {
	return m.opts.Lobby != nil && m.opts.Online != nil
}

func (m SessionModel) newMenu() MenuModel {
	menu := NewMenuModel(m.opts.Width, m.opts.Height).Embedded(m.opts.Renderer)
	if m.onlineEnabled() {
		menu = menu.WithOnline()
	}
	return menu
}

// pump waits for the next coordinator event for this session.
func (m SessionModel) pump() tea.Cmd {
	if !m.onlineEnabled() {
		return nil
	}
	return waitSessionEvent(m.opts.Online.Events(), m.opts.Online.Done())
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), m.pump())
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.opts.Width, m.opts.Height = msg.Width, msg.Height

	case MenuSelectedMsg:
		return m.startGame(msg.Item)

	case ScoreboardRequestedMsg:
		m.scores = NewScoreboardModel(m.opts.Store, m.opts.Width, m.opts.Height).Embedded(m.opts.Renderer)
		m.screen = screenScores
		return m, m.scores.Init()

	case OnlineRequestedMsg:
		if !m.onlineEnabled() {
			return m, nil
		}
		m.online = NewOnlineModel(msg.Item, m.opts.Online.ID(), m.opts.Lobby, m.opts.Renderer, m.opts.Logger)
		next, _ := m.online.Update(tea.WindowSizeMsg{Width: m.opts.Width, Height: m.opts.Height})
		m.online = next.(OnlineModel)
		m.screen = screenOnline
		return m, m.online.Init()

	case sessionEventMsg:
		// Events outside the online screen are stale frames or results.
		if m.screen == screenOnline {
			next, _ := m.online.Update(msg)
			m.online = next.(OnlineModel)
		}
		return m, m.pump()

	case BackToMenuMsg:
		m.menu = m.newMenu()
		m.screen = screenMenu
		return m, m.menu.Init()
	}

	var cmd tea.Cmd
	var next tea.Model
	switch m.screen {
	case screenGame:
		next, cmd = m.game.Update(msg)
		if gm, ok := next.(Model); ok {
			m.game = gm
		}
	case screenScores:
		next, cmd = m.scores.Update(msg)
		if sm, ok := next.(ScoreboardModel); ok {
			m.scores = sm
		}
	case screenOnline:
		next, cmd = m.online.Update(msg)
		if om, ok := next.(OnlineModel); ok {
			m.online = om
		}
	default:
		next, cmd = m.menu.Update(msg)
		if mm, ok := next.(MenuModel); ok {
			m.menu = mm
		}
	}
	return m, cmd
}

// startGame creates the selected game and switches to it.
func (m SessionModel) startGame(item MenuItem) (tea.Model, tea.Cmd) {
	game, err := registry.Create(item.GameID)
	if err != nil {
		m.opts.Logger.Error("could not create game", "game", item.GameID, "error", err)
		return m, nil
	}

	cfg := core.DefaultConfig()
	if m.opts.Seed != 0 {
		cfg.Seed = m.opts.Seed + int64(m.games)
	}
	m.games++

	m.game = NewModel(game, Options{
		Context:  m.opts.Context,
		Store:    m.opts.Store,
		Logger:   m.opts.Logger,
		Renderer: m.opts.Renderer,
		Config:   cfg,
		Mode:     "ssh",
		Embedded: true,
	})
	next, _ := m.game.Update(tea.WindowSizeMsg{Width: m.opts.Width, Height: m.opts.Height})
	m.game = next.(Model)
	m.screen = screenGame

	m.opts.Logger.Info("game started", "game", item.GameID)
	return m, m.game.Init()
}

// View renders the current screen.
func (m SessionModel) View() string {
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	case screenOnline:
		return m.online.View()
	default:
		return strings.TrimRight(m.menu.View(), "\n")
	}
}
