package multiplayer

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/registry"
	"github.com/vovakirdan/natari/internal/storage"
)

// raceGame awards a point per Up press; the first to three wins.
type raceGame struct {
	players int
	scores  [2]int
	winner  int
	ticks   int
}

func (g *raceGame) ID() string                { return "race" }
func (g *raceGame) Title() string             { return "Race" }
func (g *raceGame) Players() int              { return g.players }
func (g *raceGame) Size() (int, int, int)     { return 2, 2, 1 }
func (g *raceGame) FrameDelay() time.Duration { return time.Millisecond }
func (g *raceGame) Display() core.Display     { return core.Display{ContrastMax: 1} }
func (g *raceGame) Render(dst *core.Buffer)   { dst.Fill(0) }

func (g *raceGame) Reset(core.RuntimeConfig) {
	g.scores, g.winner, g.ticks = [2]int{}, 0, 0
}

func (g *raceGame) Step(events []core.InputEvent) core.StepResult {
	g.ticks++
	for _, e := range events {
		if g.winner == 0 && e.Action == core.ActionUp {
			g.scores[e.Player]++
			if g.scores[e.Player] >= 3 {
				g.winner = int(e.Player) + 1
			}
		}
	}
	return core.StepResult{State: g.State()}
}

func (g *raceGame) State() core.GameState {
	return core.GameState{
		Scores:   []int{g.scores[0], g.scores[1]},
		GameOver: g.winner != 0,
		Winner:   g.winner,
	}
}

func raceFactory(gameID string) (registry.Game, error) {
	switch gameID {
	case "race":
		return &raceGame{players: 2}, nil
	case "solo":
		return &raceGame{players: 1}, nil
	}
	return nil, fmt.Errorf("unknown game %q", gameID)
}

type memorySaver struct {
	mu      sync.Mutex
	results []storage.MatchResult
}

func (s *memorySaver) SaveMatch(r storage.MatchResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return r.MatchID, nil
}

func (s *memorySaver) saved() []storage.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.MatchResult(nil), s.results...)
}

type fixture struct {
	coord  *Coordinator
	saver  *memorySaver
	host   *ChannelSession
	joiner *ChannelSession
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	sessions := NewSessionRegistry()
	f := fixture{
		coord:  NewCoordinator(Config{LobbyTimeout: time.Minute, Seed: 5}, raceFactory, sessions),
		saver:  &memorySaver{},
		host:   NewChannelSession("host", 64),
		joiner: NewChannelSession("joiner", 64),
	}
	f.coord.SetMatchSaver(f.saver)
	sessions.Register(f.host)
	sessions.Register(f.joiner)
	t.Cleanup(f.coord.Stop)
	return f
}

// next waits for the first event of type T, skipping frames and others.
func next[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if v, ok := evt.(T); ok {
				return v
			}
		case <-timeout:
			var zero T
			t.Fatalf("timed out waiting for %T on %s", zero, s.ID())
			return zero
		}
	}
}

// startMatch hosts a race lobby and joins it.
func (f fixture) startMatch(t *testing.T) MatchID {
	t.Helper()
	f.coord.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "race"})
	created := next[LobbyCreatedEvent](t, f.host)
	require.Len(t, created.Code, codeLength)

	f.coord.handleMessage(JoinLobbyMsg{SessionID: "joiner", Code: created.Code})
	hostStart := next[MatchStartedEvent](t, f.host)
	joinStart := next[MatchStartedEvent](t, f.joiner)
	require.Equal(t, hostStart.MatchID, joinStart.MatchID)
	assert.Equal(t, Player1, hostStart.Side)
	assert.Equal(t, Player2, joinStart.Side)

	match, ok := f.coord.MatchOf("joiner")
	require.True(t, ok)
	assert.Equal(t, created.Code, match.Code())
	return hostStart.MatchID
}

func TestMatchPlaysToCompletion(t *testing.T) {
	f := newFixture(t)
	id := f.startMatch(t)
	assert.Zero(t, f.coord.LobbyCount())
	assert.Equal(t, 1, f.coord.MatchCount())

	frame := next[FrameEvent](t, f.joiner)
	assert.Equal(t, id, frame.MatchID)

	for range 3 {
		f.coord.handleMessage(InputMsg{SessionID: "joiner", Action: core.ActionUp})
	}

	hostEnd := next[MatchEndedEvent](t, f.host)
	joinEnd := next[MatchEndedEvent](t, f.joiner)
	assert.Equal(t, hostEnd, joinEnd)
	assert.Equal(t, EndCompleted, hostEnd.Reason)
	assert.Equal(t, 2, hostEnd.Winner)
	assert.Equal(t, [2]int{0, 3}, hostEnd.Scores)
	assert.Zero(t, f.coord.MatchCount())

	saved := f.saver.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, string(id), saved[0].MatchID)
	assert.Equal(t, "online", saved[0].Mode)
	assert.Equal(t, "completed", saved[0].EndReason)
	assert.Equal(t, 2, saved[0].Winner)
}

func TestLeavingMatchAwardsOpponent(t *testing.T) {
	f := newFixture(t)
	f.startMatch(t)

	f.coord.handleMessage(InputMsg{SessionID: "host", Action: core.ActionUp})
	f.coord.handleMessage(LeaveMsg{SessionID: "host"})

	end := next[MatchEndedEvent](t, f.joiner)
	assert.Equal(t, EndDisconnect, end.Reason)
	assert.Equal(t, 2, end.Winner)

	require.Eventually(t, func() bool { return len(f.saver.saved()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "disconnect", f.saver.saved()[0].EndReason)
}

func TestClosedSessionEndsMatch(t *testing.T) {
	f := newFixture(t)
	f.startMatch(t)

	f.joiner.Close()

	end := next[MatchEndedEvent](t, f.host)
	assert.Equal(t, EndDisconnect, end.Reason)
	assert.Equal(t, 1, end.Winner)
}

func TestLobbyErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		msg  CoordinatorMessage
		want string
	}{
		{"unknown game", CreateLobbyMsg{SessionID: "host", GameID: "nope"}, "Unknown game"},
		{"single player", CreateLobbyMsg{SessionID: "host", GameID: "solo"}, "Not a two-player game"},
		{"missing lobby", JoinLobbyMsg{SessionID: "host", Code: "ZZZZZZ"}, "Lobby not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.coord.handleMessage(tt.msg)
			assert.Equal(t, tt.want, next[LobbyErrorEvent](t, f.host).Message)
		})
	}

	f.coord.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "race"})
	code := next[LobbyCreatedEvent](t, f.host).Code

	f.coord.handleMessage(JoinLobbyMsg{SessionID: "host", Code: code})
	assert.Equal(t, "Already in a lobby", next[LobbyErrorEvent](t, f.host).Message)

	f.coord.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "race"})
	assert.Equal(t, "Already in a lobby", next[LobbyErrorEvent](t, f.host).Message)
	assert.Equal(t, 1, f.coord.LobbyCount())
}

func TestHostLeavingClosesLobby(t *testing.T) {
	f := newFixture(t)
	f.coord.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "race"})
	code := next[LobbyCreatedEvent](t, f.host).Code

	f.coord.handleMessage(SessionDisconnectedMsg{SessionID: "host"})
	assert.Zero(t, f.coord.LobbyCount())

	f.coord.handleMessage(JoinLobbyMsg{SessionID: "joiner", Code: code})
	assert.Equal(t, "Lobby not found", next[LobbyErrorEvent](t, f.joiner).Message)
}

func TestExpiredLobbiesAreSwept(t *testing.T) {
	f := newFixture(t)
	f.coord.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "race"})
	code := next[LobbyCreatedEvent](t, f.host).Code

	f.coord.cleanupExpiredLobbies(time.Now())
	_, ok := f.coord.Lobby(code)
	assert.True(t, ok)

	f.coord.cleanupExpiredLobbies(time.Now().Add(2 * time.Minute))
	assert.Equal(t, "Lobby expired", next[LobbyErrorEvent](t, f.host).Message)
	assert.Zero(t, f.coord.LobbyCount())
}

func TestReservedActionsAreIgnored(t *testing.T) {
	f := newFixture(t)
	f.coord.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "race"})
	code := next[LobbyCreatedEvent](t, f.host).Code

	// Build the match by hand so its loop never drains input.
	lobby, ok := f.coord.Lobby(code)
	require.True(t, ok)
	m := NewOnlineMatch("m", code, lobby.game, f.host, f.joiner, core.DefaultConfig(), f.coord.logger)

	m.SendInput(Player1, core.ActionRestart)
	m.SendInput(Player2, core.ActionQuit)
	m.SendInput(Player2, core.ActionUp)
	assert.Equal(t, []core.InputEvent{core.Press(Player2, core.ActionUp)}, m.driver.Input().Drain())

	side, ok := m.Side("joiner")
	assert.True(t, ok)
	assert.Equal(t, Player2, side)
}

func TestChannelSessionPrefersControlEvents(t *testing.T) {
	s := NewChannelSession("s", 1)

	s.Send(FrameEvent{MatchID: "a"})
	s.Send(LobbyErrorEvent{Message: "boom"})
	assert.Equal(t, LobbyErrorEvent{Message: "boom"}, <-s.Events())

	s.Send(LobbyErrorEvent{Message: "first"})
	s.Send(FrameEvent{MatchID: "late"})
	assert.Equal(t, LobbyErrorEvent{Message: "first"}, <-s.Events())

	s.Close()
	s.Close()
	s.Send(LobbyErrorEvent{Message: "ignored"})
	assert.Empty(t, s.Events())
}

func TestChannelSessionEvictsFramesFirst(t *testing.T) {
	s := NewChannelSession("s", 2)

	s.Send(MatchStartedEvent{MatchID: "m"})
	s.Send(FrameEvent{MatchID: "m"})
	s.Send(MatchEndedEvent{MatchID: "m", Reason: EndCompleted})
	assert.Equal(t, MatchStartedEvent{MatchID: "m"}, <-s.Events())
	assert.Equal(t, MatchEndedEvent{MatchID: "m", Reason: EndCompleted}, <-s.Events())

	// With only control events queued the oldest one goes.
	s.Send(LobbyErrorEvent{Message: "one"})
	s.Send(LobbyErrorEvent{Message: "two"})
	s.Send(LobbyErrorEvent{Message: "three"})
	assert.Equal(t, LobbyErrorEvent{Message: "two"}, <-s.Events())
	assert.Equal(t, LobbyErrorEvent{Message: "three"}, <-s.Events())
}

func TestStoppedCoordinatorRefusesMatches(t *testing.T) {
	f := newFixture(t)
	f.coord.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "race"})
	code := next[LobbyCreatedEvent](t, f.host).Code

	f.coord.Stop()
	f.coord.handleMessage(JoinLobbyMsg{SessionID: "joiner", Code: code})
	assert.Equal(t, "Server stopping", next[LobbyErrorEvent](t, f.joiner).Message)
	assert.Zero(t, f.coord.MatchCount())

	f.coord.handleMessage(CreateLobbyMsg{SessionID: "other", GameID: "race"})
	_, ok := f.coord.Lobby(code)
	assert.True(t, ok)
	assert.Equal(t, 1, f.coord.LobbyCount())
}

func TestStopEndsRunningMatches(t *testing.T) {
	f := newFixture(t)
	f.startMatch(t)

	f.coord.Stop()
	assert.Equal(t, EndStopped, next[MatchEndedEvent](t, f.host).Reason)
	assert.Equal(t, EndStopped, next[MatchEndedEvent](t, f.joiner).Reason)
	assert.Zero(t, f.coord.MatchCount())
}

func TestJoinCodeAlphabet(t *testing.T) {
	for range 20 {
		code := generateJoinCode()
		require.Len(t, code, codeLength)
		for _, r := range code {
			assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567", string(r))
		}
	}
}
