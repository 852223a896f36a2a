package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/engine"
	"github.com/vovakirdan/natari/internal/registry"
	"github.com/vovakirdan/natari/internal/storage"
)

// stubGame is a fixed-size game whose state the tests set directly.
type stubGame struct {
	id      string
	players int
	state   core.GameState
}

func (g *stubGame) ID() string                { return g.id }
func (g *stubGame) Title() string             { return "Stub" }
func (g *stubGame) Players() int              { return g.players }
func (g *stubGame) Size() (int, int, int)     { return 4, 4, 1 }
func (g *stubGame) FrameDelay() time.Duration { return time.Millisecond }
func (g *stubGame) Display() core.Display     { return unitDisplay }
func (g *stubGame) Reset(core.RuntimeConfig)  {}
func (g *stubGame) Render(dst *core.Buffer)   { dst.Fill(0) }
func (g *stubGame) State() core.GameState     { return g.state }
func (g *stubGame) Step([]core.InputEvent) core.StepResult {
	return core.StepResult{State: g.state}
}

func init() {
	registry.Register("tui-stub", func() registry.Game {
		return &stubGame{id: "tui-stub", players: 2}
	})
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func frame(tick uint64, state core.GameState) FrameMsg {
	return FrameMsg{Frame: engine.Frame{
		Tick:    tick,
		Buffer:  core.NewBuffer(4, 4, 1),
		Depth:   1,
		State:   state,
		Display: unitDisplay,
	}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModelRecordsFinishedMatchOnce(t *testing.T) {
	store := openStore(t)
	m := NewModel(&stubGame{id: "duel", players: 2}, Options{Store: store, Config: core.RuntimeConfig{Seed: 1}})

	over := core.GameState{Scores: []int{3, 5}, GameOver: true, Winner: 2}
	m, cmd := update(t, m, frame(1, over))
	assert.NotNil(t, cmd, "model keeps waiting for frames")
	m, _ = update(t, m, frame(2, over))

	matches, err := store.RecentMatches("duel", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].Winner)
	assert.Equal(t, "completed", matches[0].EndReason)
	assert.Equal(t, "local", matches[0].Mode)

	// A running round re-arms recording.
	m, _ = update(t, m, frame(3, core.GameState{Scores: []int{0, 0}}))
	update(t, m, frame(4, over))

	matches, err = store.RecentMatches("duel", 10)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestModelRecordsSinglePlayerScoreOnGameOver(t *testing.T) {
	store := openStore(t)
	m := NewModel(&stubGame{id: "solo", players: 1}, Options{Store: store})

	m, _ = update(t, m, frame(1, core.GameState{Scores: []int{4}}))
	m, _ = update(t, m, runeKey('q'))
	assert.True(t, m.IsQuitting())

	high, err := store.HighScore("solo")
	require.NoError(t, err)
	assert.Zero(t, high, "unfinished single-player rounds are not scores")

	m = NewModel(&stubGame{id: "solo", players: 1}, Options{Store: store})
	update(t, m, frame(1, core.GameState{Scores: []int{4}, GameOver: true}))

	high, err = store.HighScore("solo")
	require.NoError(t, err)
	assert.Equal(t, 4, high)
}

func TestModelRecordsAbandonedMatchOnQuit(t *testing.T) {
	store := openStore(t)
	m := NewModel(&stubGame{id: "duel", players: 2}, Options{Store: store, Mode: "ssh"})

	m, _ = update(t, m, frame(7, core.GameState{Scores: []int{2, 1}}))
	_, cmd := update(t, m, runeKey('q'))
	require.NotNil(t, cmd)

	matches, err := store.RecentMatches("duel", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "quit", matches[0].EndReason)
	assert.Equal(t, "ssh", matches[0].Mode)
	assert.Equal(t, uint64(7), matches[0].Ticks)
}

func TestModelPushesInputToDriver(t *testing.T) {
	m := NewModel(&stubGame{id: "snake", players: 2}, Options{})

	m, _ = update(t, m, runeKey('w'))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, runeKey('x'))

	events := m.driver.Input().Drain()
	assert.Equal(t, []core.InputEvent{
		core.Press(core.Player1, core.ActionUp),
		core.Press(core.Player2, core.ActionLeft),
	}, events)
}

func TestModelEmbeddedBackReturnsToMenu(t *testing.T) {
	m := NewModel(&stubGame{id: "duel", players: 2}, Options{Embedded: true})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackToMenuMsg{}, cmd())
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())
}

func TestModelViewShowsHUD(t *testing.T) {
	m := NewModel(&stubGame{id: "duel", players: 2}, Options{})
	assert.Contains(t, m.View(), "Starting...")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	m, _ = update(t, m, frame(1, core.GameState{Scores: []int{3, 4}, Status: "Paused"}))

	view := m.View()
	assert.Contains(t, view, "Stub")
	assert.Contains(t, view, "P1 3 : 4 P2")
	assert.Contains(t, view, "Paused")
	assert.Contains(t, view, "▀")

	assert.True(t, m.hasFrame)
	assert.Equal(t, uint64(1), m.frame.Tick)
}

func TestWaitFrameStopsWhenDone(t *testing.T) {
	mb := engine.NewMailbox()
	done := make(chan struct{})
	close(done)
	assert.Equal(t, loopStoppedMsg{}, waitFrame(mb.Frames(), done)())

	mb.Publish(engine.Frame{Tick: 9})
	msg := waitFrame(mb.Frames(), make(chan struct{}))()
	require.IsType(t, FrameMsg{}, msg)
	assert.Equal(t, uint64(9), msg.(FrameMsg).Frame.Tick)
}

func TestMenuSelection(t *testing.T) {
	m := NewMenuModel(80, 24)
	require.NotEmpty(t, m.items)

	idx := -1
	for i, it := range m.items {
		if it.GameID == "tui-stub" {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	m.cursor = idx

	embedded := m.Embedded(nil)
	next, cmd := embedded.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, MenuSelectedMsg{Item: MenuItem{GameID: "tui-stub", Title: "Stub", Players: 2}}, cmd())
	assert.Equal(t, "tui-stub", next.(MenuModel).Selected().GameID)
	assert.Contains(t, embedded.View(), "Stub (2P)")
}

func TestSessionSwitchesScreens(t *testing.T) {
	s := NewSessionModel(SessionOptions{Width: 60, Height: 20})
	assert.Equal(t, screenMenu, s.screen)

	next, cmd := s.Update(MenuSelectedMsg{Item: MenuItem{GameID: "tui-stub"}})
	s = next.(SessionModel)
	assert.Equal(t, screenGame, s.screen)
	assert.NotNil(t, cmd)
	assert.Equal(t, 60, s.game.width)

	next, _ = s.Update(runeKey('b'))
	s = next.(SessionModel)
	assert.True(t, s.game.IsQuitting())

	next, _ = s.Update(BackToMenuMsg{})
	s = next.(SessionModel)
	assert.Equal(t, screenMenu, s.screen)

	next, _ = s.Update(ScoreboardRequestedMsg{})
	s = next.(SessionModel)
	assert.Equal(t, screenScores, s.screen)
	assert.Contains(t, s.View(), "MATCHES")
}
