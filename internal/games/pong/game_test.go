package pong

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/natari/internal/config"
	"github.com/vovakirdan/natari/internal/core"
)

func newFlat() *Game {
	return NewWithConfig(ModeFlat, config.DefaultPongConfig())
}

func newVolume() *Game {
	return NewWithConfig(ModeVolume, config.DefaultPong3DConfig())
}

func TestResetLayout(t *testing.T) {
	g := newFlat()
	s := g.Snapshot()

	if s.Paddle1Y != 200 || s.Paddle2Y != 280 {
		t.Errorf("paddles at (%v, %v), expected (200, 280)", s.Paddle1Y, s.Paddle2Y)
	}
	if s.PuckX != 320 || s.PuckY != 240 || s.PuckDX != 10 {
		t.Errorf("puck at (%v, %v) dx=%v, expected (320, 240) dx=10", s.PuckX, s.PuckY, s.PuckDX)
	}
	if s.Radius != 50 {
		t.Errorf("radius = %v, expected 50", s.Radius)
	}

	v := newVolume()
	if v.Snapshot().Radius != 50 { // height 200 / 4
		t.Errorf("volume radius = %v, expected 50", v.Snapshot().Radius)
	}
}

func TestPaddleClampedToField(t *testing.T) {
	g := newFlat()
	up := []core.InputEvent{core.Press(core.Player1, core.ActionUp), core.Press(core.Player2, core.ActionDown)}

	for range 100 {
		g.Step(up)
	}
	s := g.Snapshot()
	if s.Paddle1Y-s.Radius < 0 {
		t.Errorf("paddle 1 left the field: y=%v radius=%v", s.Paddle1Y, s.Radius)
	}
	if s.Paddle2Y+s.Radius > 480 {
		t.Errorf("paddle 2 left the field: y=%v radius=%v", s.Paddle2Y, s.Radius)
	}
}

func TestWallReflectionNegatesOneComponent(t *testing.T) {
	g := newFlat()
	s := g.Snapshot()
	s.PuckX, s.PuckY, s.PuckDX, s.PuckDY = 300, 478, 10, 5
	g.ApplySnapshot(s)

	g.Step(nil)
	after := g.Snapshot()

	if after.PuckDY != -5 {
		t.Errorf("dy = %v, expected -5", after.PuckDY)
	}
	if after.PuckDX != 10 {
		t.Errorf("dx changed on a wall bounce: %v", after.PuckDX)
	}
	if after.PuckY != 478 {
		t.Errorf("puck y = %v, expected 478", after.PuckY)
	}
}

func TestMissScoresAndLevelsUp(t *testing.T) {
	g := newFlat()
	s := g.Snapshot()
	s.PuckX, s.PuckY, s.PuckDX, s.PuckDY = 15, 400, -10, 0
	g.ApplySnapshot(s)

	g.Step(nil)
	after := g.Snapshot()

	if after.Score2 != 1 || after.Score1 != 0 {
		t.Errorf("scores = %d:%d, expected 0:1", after.Score1, after.Score2)
	}
	if after.Radius != 40 {
		t.Errorf("radius = %v, expected 40 after level up", after.Radius)
	}
	if after.PuckX != 320 || after.PuckY != 240 {
		t.Errorf("puck should be re-centred, got (%v, %v)", after.PuckX, after.PuckY)
	}
	if after.PuckDX != 10 {
		t.Errorf("dx = %v, expected 10 (reflected)", after.PuckDX)
	}
}

func TestHitDeflects(t *testing.T) {
	g := newFlat()
	s := g.Snapshot()
	s.PuckX, s.PuckY, s.PuckDX, s.PuckDY = 15, 220, -10, 0
	g.ApplySnapshot(s)

	g.Step(nil)
	after := g.Snapshot()

	if after.Score1 != 0 || after.Score2 != 0 {
		t.Errorf("a hit must not score, got %d:%d", after.Score1, after.Score2)
	}
	if after.PuckDY != 2 { // (220-200)/50*5
		t.Errorf("dy = %v, expected 2", after.PuckDY)
	}
	if after.PuckDX != 10 {
		t.Errorf("dx = %v, expected 10", after.PuckDX)
	}
}

func TestMinimalPaddlesSpeedUpPuck(t *testing.T) {
	g := newFlat()
	s := g.Snapshot()
	s.Radius = 10
	s.Paddle1Y = 100
	s.PuckX, s.PuckY, s.PuckDX, s.PuckDY = 15, 400, -10, 0
	g.ApplySnapshot(s)

	g.Step(nil)
	after := g.Snapshot()

	if after.Radius != 10 {
		t.Errorf("radius should stay at minimum, got %v", after.Radius)
	}
	if after.PuckDX != 20 {
		t.Errorf("dx = %v, expected 20", after.PuckDX)
	}
}

func TestWinScoreEndsGame(t *testing.T) {
	cfg := config.DefaultPongConfig()
	cfg.Gameplay.WinScore = 1
	g := NewWithConfig(ModeFlat, cfg)

	s := g.Snapshot()
	s.PuckX, s.PuckY, s.PuckDX = 625, 40, 10
	g.ApplySnapshot(s)

	res := g.Step(nil)
	if !res.State.GameOver || res.State.Score(core.Player1) != 1 {
		t.Fatalf("expected player 1 to win, got %+v", res.State)
	}

	// Further steps are frozen
	before := g.Snapshot()
	g.Step(nil)
	if g.Snapshot() != before {
		t.Error("game should not advance after game over")
	}
}

func TestPauseFreezes(t *testing.T) {
	g := newFlat()
	g.Step([]core.InputEvent{core.Press(core.Player1, core.ActionPause)})
	before := g.Snapshot()

	g.Step(nil)
	if g.Snapshot() != before {
		t.Error("paused game advanced")
	}
	if !g.State().Paused {
		t.Error("State should report paused")
	}
}

func TestRandomPlayInvariants(t *testing.T) {
	for _, g := range []*Game{newFlat(), newVolume()} {
		rng := rand.New(rand.NewSource(7))
		actions := []core.Action{core.ActionUp, core.ActionDown, core.ActionFront, core.ActionBack}
		last := [2]int{}

		for i := 0; i < 3000; i++ {
			var events []core.InputEvent
			if rng.Intn(2) == 0 {
				p := core.PlayerID(rng.Intn(2))
				events = append(events, core.Press(p, actions[rng.Intn(len(actions))]))
			}
			g.Step(events)
			s := g.Snapshot()

			if s.PuckX < 0 || s.PuckX >= g.width || s.PuckY < 0 || s.PuckY >= g.height {
				t.Fatalf("%s tick %d: puck out of bounds (%v, %v)", g.ID(), i, s.PuckX, s.PuckY)
			}
			if g.mode == ModeVolume && (s.PuckZ < 0 || s.PuckZ >= g.depth) {
				t.Fatalf("%s tick %d: puck z out of bounds %v", g.ID(), i, s.PuckZ)
			}
			if s.Score1 < last[0] || s.Score2 < last[1] {
				t.Fatalf("%s tick %d: score decreased", g.ID(), i)
			}
			last = [2]int{s.Score1, s.Score2}
		}
	}
}

func TestVolumeFrontBackMovesDepth(t *testing.T) {
	g := newVolume()
	z := g.Snapshot().Paddle1Z

	g.Step([]core.InputEvent{core.Press(core.Player1, core.ActionBack)})
	if got := g.Snapshot().Paddle1Z; got != z+10 {
		t.Errorf("paddle z = %v, expected %v", got, z+10)
	}

	// Flat mode ignores depth input
	f := newFlat()
	f.Step([]core.InputEvent{core.Press(core.Player1, core.ActionBack)})
	if f.Snapshot().Paddle1Z != 0 {
		t.Error("flat paddles must stay at z=0")
	}
}

func TestRenderFlat(t *testing.T) {
	g := newFlat()
	w, h, d := g.Size()
	buf := core.NewBuffer(w, h, d)
	g.Render(buf)

	if buf.At(0, 0, 0) != background {
		t.Errorf("background = %v, expected %v", buf.At(0, 0, 0), float32(background))
	}
	if buf.At(11, 200, 0) != 1 {
		t.Error("paddle 1 should be drawn")
	}
	if buf.At(320, 240, 0) != 1 {
		t.Error("puck should be drawn")
	}
}

func TestRenderVolumeIsDepthCoded(t *testing.T) {
	g := newVolume()
	w, h, d := g.Size()
	buf := core.NewBuffer(w, h, d)
	g.Render(buf)

	// Puck centre sits at z=100, so its voxel carries the z ramp value
	if got := buf.At(150, 100, 100); got != 100 {
		t.Errorf("puck voxel = %v, expected 100", got)
	}
	if buf.At(150, 100, 10) != 0 {
		t.Error("empty voxels must stay zero")
	}
}
