package puzzle

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/natari/internal/config"
	"github.com/vovakirdan/natari/internal/core"
)

func quietConfig() config.PuzzleConfig {
	cfg := config.DefaultPuzzleConfig()
	cfg.Gameplay.ShuffleLength = 0
	return cfg
}

func press(a core.Action) []core.InputEvent {
	return []core.InputEvent{core.Press(core.Player1, a)}
}

func TestResetLayout(t *testing.T) {
	g := NewWithConfig(config.DefaultPuzzleConfig())

	w, h, d := g.Size()
	assert.Equal(t, []int{1200, 900, 1}, []int{w, h, d})

	snap := g.Snapshot()
	assert.Equal(t, 6, snap.BlankX)
	assert.Equal(t, 4, snap.BlankY)
	assert.Equal(t, 50, snap.Queued)
	assert.Equal(t, 50, snap.Shuffle)
	assert.True(t, snap.AtHome)
}

func TestShuffleWalkIsValid(t *testing.T) {
	g := NewWithConfig(config.DefaultPuzzleConfig())
	g.Reset(core.RuntimeConfig{Seed: 77})

	x, y := 6, 4
	for i, m := range g.chain {
		x, y = m.apply(x, y)
		require.True(t, g.inGrid(x, y), "move %d leaves the grid", i)
		if i > 0 {
			assert.NotEqual(t, g.chain[i-1].inverse(), m, "move %d reverses the previous one", i)
		}
	}
	assert.Equal(t, []int{x, y}, []int{g.endX, g.endY})
}

func TestShufflePlaysOneMovePerTick(t *testing.T) {
	g := NewWithConfig(config.DefaultPuzzleConfig())

	for k := 1; k <= 50; k++ {
		if k < 50 {
			assert.Equal(t, "Shuffling...", g.State().Status)
		}
		g.Step(nil)
		assert.Equal(t, k, g.Snapshot().Played)
	}

	assert.Equal(t, 0, g.Snapshot().Moves)
	assert.Equal(t, 0, g.Snapshot().Queued)
	assert.False(t, g.State().GameOver)
	assert.Empty(t, g.State().Status)
}

func TestMovesStopAtEdge(t *testing.T) {
	g := NewWithConfig(quietConfig())

	ups := make([]core.InputEvent, 0, 5)
	for range 5 {
		ups = append(ups, core.Press(core.Player1, core.ActionUp))
	}
	g.Step(ups)
	assert.Equal(t, 3, g.Snapshot().Queued)

	for range 3 {
		g.Step(nil)
	}
	snap := g.Snapshot()
	assert.Equal(t, 0, snap.BlankY)
	assert.Equal(t, 4, snap.Moves)

	g.Step(press(core.ActionUp))
	assert.Equal(t, 0, g.Snapshot().Queued)
	assert.Equal(t, 4, g.Snapshot().Moves)
}

func TestSolvedAfterPlayerMoves(t *testing.T) {
	g := NewWithConfig(quietConfig())
	g.Step(nil)
	assert.False(t, g.State().GameOver, "untouched puzzle is not solved")

	g.Step(press(core.ActionRight))
	assert.Equal(t, 7, g.Snapshot().BlankX)
	assert.False(t, g.State().GameOver)

	g.Step(press(core.ActionLeft))
	st := g.State()
	assert.True(t, st.GameOver)
	assert.Equal(t, []int{2}, st.Scores)
	assert.Equal(t, "Solved!", st.Status)

	before := g.Snapshot()
	g.Step(press(core.ActionRight))
	assert.Equal(t, before, g.Snapshot(), "solved puzzle is frozen")
}

func TestUndoWalksHome(t *testing.T) {
	g := NewWithConfig(config.DefaultPuzzleConfig())
	g.Reset(core.RuntimeConfig{Seed: 5})
	for range 50 {
		g.Step(nil)
	}

	g.Step(press(core.ActionUndo))
	assert.Equal(t, 49, g.Snapshot().Queued)
	for range 49 {
		g.Step(nil)
	}

	snap := g.Snapshot()
	assert.True(t, snap.AtHome)
	assert.True(t, snap.Solved)
	assert.Equal(t, 50, snap.Moves)
	assert.Equal(t, 6, snap.BlankX)
	assert.Equal(t, 4, snap.BlankY)
}

func TestShuffleActionAppendsOneMove(t *testing.T) {
	g := NewWithConfig(quietConfig())
	g.Step(press(core.ActionShuffle))

	snap := g.Snapshot()
	assert.Equal(t, 1, snap.Played)
	assert.Equal(t, 1, snap.Moves)
	assert.Equal(t, 1, core.Abs(snap.BlankX-6)+core.Abs(snap.BlankY-4))
	assert.False(t, snap.Solved)
}

func TestDeterminism(t *testing.T) {
	a := NewWithConfig(config.DefaultPuzzleConfig())
	b := NewWithConfig(config.DefaultPuzzleConfig())
	a.Reset(core.RuntimeConfig{Seed: 42})
	b.Reset(core.RuntimeConfig{Seed: 42})

	inputs := map[int][]core.InputEvent{
		52: press(core.ActionShuffle),
		55: press(core.ActionLeft),
		58: press(core.ActionDown),
	}
	for i := range 70 {
		a.Step(inputs[i])
		b.Step(inputs[i])
	}

	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.Equal(t, a.tiles, b.tiles)
}

func TestRenderTilesFollowBlank(t *testing.T) {
	cfg := quietConfig()
	cfg.Field.Width = 300
	cfg.Field.Height = 200
	g := NewWithConfig(cfg)
	require.Equal(t, 3, g.cols)
	require.Equal(t, 2, g.rows)

	buf := core.NewBuffer(g.Size())
	g.Render(buf)
	assert.Zero(t, buf.At(150, 150, 0), "blank tile")
	require.NotZero(t, g.pic.at(50, 150))
	assert.Equal(t, g.pic.at(50, 150), buf.At(50, 150, 0))

	g.Step(press(core.ActionLeft))
	g.Render(buf)
	assert.Equal(t, g.pic.at(50, 150), buf.At(150, 150, 0))
	assert.Zero(t, buf.At(50, 150, 0))
}

func TestCropToPatch(t *testing.T) {
	cfg := quietConfig()
	cfg.Field.Width = 250
	cfg.Field.Height = 170
	g := NewWithConfig(cfg)

	w, h, _ := g.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
	assert.Equal(t, 1, g.Snapshot().BlankX)
	assert.Equal(t, 0, g.Snapshot().BlankY)
}

func TestGridLines(t *testing.T) {
	g := NewWithConfig(quietConfig())

	assert.Zero(t, g.pic.at(99, 50))
	assert.Zero(t, g.pic.at(100, 50))
	assert.Zero(t, g.pic.at(50, 199))
	assert.NotZero(t, g.pic.at(50, 50))
}

func TestOpenSourcePicture(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 230, 120))
	for y := range 120 {
		for x := range 230 {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	path := filepath.Join(t.TempDir(), "source.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	cfg := quietConfig()
	cfg.Source = path
	g, err := Open(cfg)
	require.NoError(t, err)

	w, h, _ := g.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
	assert.InDelta(t, 0.502, g.pic.at(10, 10), 0.01)
}

func TestMissingSourceFallsBack(t *testing.T) {
	cfg := quietConfig()
	cfg.Source = filepath.Join(t.TempDir(), "missing.png")

	_, err := Open(cfg)
	require.Error(t, err)

	g := NewWithConfig(cfg)
	w, h, _ := g.Size()
	assert.Equal(t, 1200, w)
	assert.Equal(t, 900, h)
}
