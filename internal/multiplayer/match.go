package multiplayer

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/engine"
	"github.com/vovakirdan/natari/internal/registry"
)

// Result is the outcome of a finished match.
type Result struct {
	MatchID  MatchID
	GameID   string
	Reason   EndReason
	Winner   int // 1-based, 0 for none
	Scores   [2]int
	Ticks    uint64
	Duration time.Duration
}

// OnlineMatch runs one game for two sessions. The host steers Player1 and
// the joiner Player2; both receive every frame.
type OnlineMatch struct {
	id      MatchID
	code    string
	game    registry.Game
	driver  *engine.Driver
	players [2]SessionHandle
	logger  *log.Logger

	mu      sync.Mutex
	last    engine.Frame
	started time.Time

	over     chan struct{}
	overOnce sync.Once
	leave    chan SessionID
	stop     chan struct{}
	stopOnce sync.Once
}

// NewOnlineMatch resets game with cfg and prepares a match between host and
// joiner. Call Run to start it.
func NewOnlineMatch(id MatchID, code string, game registry.Game, host, joiner SessionHandle, cfg core.RuntimeConfig, logger *log.Logger) *OnlineMatch {
	m := &OnlineMatch{
		id:      id,
		code:    code,
		game:    game,
		players: [2]SessionHandle{host, joiner},
		logger:  logger,
		over:    make(chan struct{}),
		leave:   make(chan SessionID, 2),
		stop:    make(chan struct{}),
	}
	m.driver = engine.NewDriver(game, engine.SinkFunc(m.publish), cfg, engine.WithLogger(logger))
	return m
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code the match was created from.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID returns the game identifier.
func (m *OnlineMatch) GameID() string {
	return m.game.ID()
}

// Side returns the player a session controls.
func (m *OnlineMatch) Side(id SessionID) (PlayerID, bool) {
	for i, p := range m.players {
		if p.ID() == id {
			return PlayerID(i), true
		}
	}
	return 0, false
}

// SendInput queues an action for side. Restart and quit are reserved for
// the match itself and are ignored.
func (m *OnlineMatch) SendInput(side PlayerID, a core.Action) {
	if a == core.ActionRestart || a == core.ActionQuit || a == core.ActionNone {
		return
	}
	m.driver.Push(core.Press(side, a))
}

// PlayerLeft signals that a session left the match.
func (m *OnlineMatch) PlayerLeft(id SessionID) {
	select {
	case m.leave <- id:
	default:
	}
}

// Stop ends the match without a winner.
func (m *OnlineMatch) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

// publish fans a frame out to both players and watches for game over.
// It runs on the driver goroutine.
func (m *OnlineMatch) publish(f engine.Frame) {
	m.mu.Lock()
	m.last = f
	m.mu.Unlock()

	evt := FrameEvent{MatchID: m.id, Frame: f}
	for _, p := range m.players {
		p.Send(evt)
	}

	if f.State.GameOver {
		m.overOnce.Do(func() {
			close(m.over)
		})
	}
}

// Run drives the game until it is over, a player leaves, or Stop is called,
// then reports the result to onComplete.
func (m *OnlineMatch) Run(onComplete func(Result)) {
	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})

	m.mu.Lock()
	m.started = time.Now()
	m.mu.Unlock()

	go func() {
		defer close(loopDone)
		if err := m.driver.Run(ctx); err != nil {
			m.logger.Error("match loop failed", "match", m.id, "error", err)
		}
	}()

	reason, leaver := EndCompleted, SessionID("")
	select {
	case <-m.over:
	case leaver = <-m.leave:
		reason = EndDisconnect
	case <-m.players[0].Done():
		reason, leaver = EndDisconnect, m.players[0].ID()
	case <-m.players[1].Done():
		reason, leaver = EndDisconnect, m.players[1].ID()
	case <-m.stop:
		reason = EndStopped
	}

	cancel()
	<-loopDone

	res := m.result(reason, leaver)
	m.logger.Info("match ended", "match", m.id, "game", res.GameID, "reason", reason, "scores", res.Scores)
	if onComplete != nil {
		onComplete(res)
	}
}

// result summarizes the last frame.
func (m *OnlineMatch) result(reason EndReason, leaver SessionID) Result {
	m.mu.Lock()
	last, started := m.last, m.started
	m.mu.Unlock()

	s := last.State
	res := Result{
		MatchID:  m.id,
		GameID:   m.game.ID(),
		Reason:   reason,
		Scores:   [2]int{s.Score(Player1), s.Score(Player2)},
		Ticks:    last.Tick,
		Duration: time.Since(started),
	}

	switch reason {
	case EndCompleted:
		res.Winner = s.Winner
		if res.Winner == 0 {
			switch {
			case res.Scores[0] > res.Scores[1]:
				res.Winner = 1
			case res.Scores[1] > res.Scores[0]:
				res.Winner = 2
			}
		}
	case EndDisconnect:
		// The player who stayed wins.
		if side, ok := m.Side(leaver); ok {
			res.Winner = 2 - int(side)
		}
	}
	return res
}
