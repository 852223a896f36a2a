package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/registry"
	"github.com/vovakirdan/natari/internal/storage"
)

// codeLength is the number of characters in a join code.
const codeLength = 6

// Lobby is a hosted game waiting for its second player.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	CreatedAt time.Time

	game registry.Game
}

// Config holds coordinator settings.
type Config struct {
	LobbyTimeout  time.Duration // How long an unanswered lobby stays open
	CleanupPeriod time.Duration // How often expired lobbies are swept
	Seed          int64         // Fixed match seed; 0 seeds from the clock
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates a game instance for a lobby.
type GameFactory func(gameID string) (registry.Game, error)

// MatchSaver persists finished matches. *storage.Store implements it.
type MatchSaver interface {
	SaveMatch(result storage.MatchResult) (string, error)
}

// Coordinator owns lobbies and running matches. Sessions talk to it with
// Send; it answers through each session's handle.
type Coordinator struct {
	config   Config
	factory  GameFactory
	sessions *SessionRegistry
	saver    MatchSaver
	logger   *log.Logger

	mu           sync.Mutex
	lobbies      map[string]*Lobby
	matches      map[MatchID]*OnlineMatch
	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID
	stopped      bool
	running      sync.WaitGroup

	msgs     chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a coordinator. A nil factory uses registry.Create.
func NewCoordinator(cfg Config, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	if factory == nil {
		factory = registry.Create
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultConfig().CleanupPeriod
	}
	return &Coordinator{
		config:       cfg,
		factory:      factory,
		sessions:     sessions,
		logger:       log.New(io.Discard),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgs:         make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetMatchSaver sets where finished matches are stored. Optional.
func (c *Coordinator) SetMatchSaver(s MatchSaver) {
	c.saver = s
}

// SetLogger sets the logger for lobby and match events.
func (c *Coordinator) SetLogger(l *log.Logger) {
	c.logger = l
}

// Start begins background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop ends every match and stops background processing.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})

	c.mu.Lock()
	c.stopped = true
	for _, m := range c.matches {
		m.Stop()
	}
	c.mu.Unlock()
	c.running.Wait()
}

// Send queues a message for the coordinator.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgs <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgs:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case LeaveMsg:
		c.handleLeave(m.SessionID)
	case SessionDisconnectedMsg:
		c.handleLeave(m.SessionID)
	case InputMsg:
		c.handleInput(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	game, err := c.factory(msg.GameID)
	if err != nil {
		session.Send(LobbyErrorEvent{Message: "Unknown game"})
		return
	}
	if game.Players() < 2 {
		session.Send(LobbyErrorEvent{Message: "Not a two-player game"})
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Server stopping"})
		return
	}
	if c.busy(msg.SessionID) {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Host:      session,
		CreatedAt: time.Now(),
		game:      game,
	}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", code, "game", msg.GameID, "host", msg.SessionID)
	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		session.Send(LobbyErrorEvent{Message: "Server stopping"})
		return
	}
	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	c.startMatch(lobby, session)
}

// busy reports whether a session already sits in a lobby or match.
// Must be called with the lock held.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

// startMatch turns a lobby into a running match. Must be called with the
// lock held and the coordinator not stopped, so Stop sees every match.
func (c *Coordinator) startMatch(lobby *Lobby, joiner SessionHandle) {
	cfg := core.DefaultConfig()
	cfg.Seed = c.config.Seed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	id := MatchID(uuid.NewString())
	match := NewOnlineMatch(id, lobby.Code, lobby.game, lobby.Host, joiner, cfg, c.logger.With("match", id))

	hostID, joinerID := lobby.Host.ID(), joiner.ID()
	c.matches[id] = match
	delete(c.lobbies, lobby.Code)
	delete(c.sessionLobby, hostID)
	c.sessionMatch[hostID] = id
	c.sessionMatch[joinerID] = id

	c.logger.Info("match started", "match", id, "game", lobby.GameID, "host", hostID, "joiner", joinerID)

	lobby.Host.Send(MatchStartedEvent{MatchID: id, GameID: lobby.GameID, Code: lobby.Code, Side: Player1})
	joiner.Send(MatchStartedEvent{MatchID: id, GameID: lobby.GameID, Code: lobby.Code, Side: Player2})

	c.running.Add(1)
	go func() {
		defer c.running.Done()
		match.Run(func(res Result) {
			c.handleMatchEnded(match, res)
		})
	}()
}

// handleMatchEnded stores the result and tells both players.
func (c *Coordinator) handleMatchEnded(match *OnlineMatch, res Result) {
	c.mu.Lock()
	delete(c.matches, match.ID())
	for _, p := range match.players {
		delete(c.sessionMatch, p.ID())
	}
	c.mu.Unlock()
	c.logger.Info("match over", "match", res.MatchID, "code", match.Code(), "winner", res.Winner)

	if c.saver != nil {
		_, err := c.saver.SaveMatch(storage.MatchResult{
			MatchID:   string(res.MatchID),
			GameID:    res.GameID,
			Mode:      "online",
			Score1:    res.Scores[0],
			Score2:    res.Scores[1],
			Winner:    res.Winner,
			EndReason: res.Reason.storageReason(),
			Ticks:     res.Ticks,
			Duration:  int(res.Duration.Seconds()),
		})
		if err != nil {
			c.logger.Warn("could not save match", "match", res.MatchID, "error", err)
		}
	}

	evt := MatchEndedEvent{
		MatchID: res.MatchID,
		Reason:  res.Reason,
		Winner:  res.Winner,
		Scores:  res.Scores,
	}
	for _, p := range match.players {
		p.Send(evt)
	}
}

// handleLeave removes a session from its lobby or ends its match.
func (c *Coordinator) handleLeave(id SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, ok := c.sessionLobby[id]; ok {
		delete(c.lobbies, code)
		delete(c.sessionLobby, id)
		c.logger.Info("lobby closed", "code", code)
	}

	if matchID, ok := c.sessionMatch[id]; ok {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerLeft(id)
		}
	}
}

func (c *Coordinator) handleInput(msg InputMsg) {
	c.mu.Lock()
	match, ok := c.matches[c.sessionMatch[msg.SessionID]]
	c.mu.Unlock()
	if !ok {
		return
	}

	if side, ok := match.Side(msg.SessionID); ok {
		match.SendInput(side, msg.Action)
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a short uppercase code from the base32 alphabet.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:codeLength]
}

// Lobby returns a lobby by code.
func (c *Coordinator) Lobby(code string) (*Lobby, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// MatchOf returns the match a session plays in.
func (c *Coordinator) MatchOf(id SessionID) (*OnlineMatch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.matches[c.sessionMatch[id]]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.matches)
}
