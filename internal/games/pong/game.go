// Package pong implements two-player ping-pong in a flat playground and in a
// volume. Player 1 guards the left edge, Player 2 the right edge; a missed
// puck scores for the opponent and shrinks the paddles (or, once they are
// minimal, speeds the puck up).
package pong

import (
	"time"

	"github.com/vovakirdan/natari/internal/config"
	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/registry"
)

// Mode selects the playground geometry.
type Mode string

const (
	ModeFlat   Mode = "flat"
	ModeVolume Mode = "volume"
)

// Background intensity of the flat playground.
const background = 0.1

// paddle is one player's bar. In flat mode z stays 0.
type paddle struct {
	x    float64
	y, z float64
}

// Game implements ping-pong logic.
type Game struct {
	mode Mode
	cfg  config.PongConfig

	width, height, depth float64
	radius               float64

	paddles [2]paddle

	puckX, puckY, puckZ    float64
	puckDX, puckDY, puckDZ float64

	scores   [2]int
	level    int
	tick     uint64
	gameOver bool
	paused   bool
	winner   int // 0 = none, 1 or 2
}

// Package-level settings applied to games created by the registry.
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets the YAML config used by registry-created games.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the preset applied on top of the config.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// New creates a flat ping-pong game from the configured settings.
func New() *Game {
	cfg, err := config.LoadPong(configPath)
	if err != nil {
		cfg = config.DefaultPongConfig()
	}
	config.ApplyPongPreset(&cfg, config.ParsePreset(difficultyPreset))
	return NewWithConfig(ModeFlat, cfg)
}

// New3D creates a volumetric ping-pong game from the configured settings.
func New3D() *Game {
	cfg, err := config.LoadPong3D(configPath)
	if err != nil {
		cfg = config.DefaultPong3DConfig()
	}
	config.ApplyPongPreset(&cfg, config.ParsePreset(difficultyPreset))
	return NewWithConfig(ModeVolume, cfg)
}

// NewWithConfig creates a game with an explicit configuration.
func NewWithConfig(mode Mode, cfg config.PongConfig) *Game {
	if mode == ModeFlat {
		cfg.Field.Depth = 1
	}
	g := &Game{mode: mode, cfg: cfg}
	g.Reset(core.DefaultConfig())
	return g
}

func init() {
	registry.Register("pong", func() registry.Game {
		return New()
	})
	registry.Register("pong3d", func() registry.Game {
		return New3D()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeVolume {
		return "pong3d"
	}
	return "pong"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeVolume {
		return "Ping-Pong 3D"
	}
	return "Ping-Pong"
}

// Players returns the number of players sharing the keyboard.
func (g *Game) Players() int { return 2 }

// Size returns the playground dimensions.
func (g *Game) Size() (int, int, int) {
	return g.cfg.Field.Width, g.cfg.Field.Height, max(1, g.cfg.Field.Depth)
}

// FrameDelay returns the pause between ticks.
func (g *Game) FrameDelay() time.Duration {
	return time.Duration(g.cfg.Gameplay.FrameDelayMS) * time.Millisecond
}

// Display returns colormap and contrast settings.
func (g *Game) Display() core.Display {
	return core.Display{
		Colormap:    core.ParseColormap(g.cfg.Display.Colormap),
		ContrastMin: g.cfg.Display.ContrastMin,
		ContrastMax: g.cfg.Display.ContrastMax,
	}
}

// Reset initializes or restarts the game. The seed is unused: ping-pong
// has no randomness.
func (g *Game) Reset(_ core.RuntimeConfig) {
	w, h, d := g.Size()
	g.width, g.height, g.depth = float64(w), float64(h), float64(d)

	g.radius = g.cfg.Paddles.Radius
	if g.radius <= 0 {
		g.radius = g.height / 4
	}

	centerY := g.height / 2
	g.paddles[0] = paddle{x: float64(g.cfg.Paddles.Offset), y: centerY, z: g.depth / 2}
	g.paddles[1] = paddle{x: g.width - float64(g.cfg.Paddles.Offset), y: centerY, z: g.depth / 2}
	if g.mode == ModeFlat {
		// Stagger the paddles so the first serve is not a guaranteed return
		g.paddles[0].y = centerY - g.height/12
		g.paddles[1].y = centerY + g.height/12
		g.paddles[0].z, g.paddles[1].z = 0, 0
	}

	g.puckDX = g.cfg.Puck.Speed
	g.puckDY = 0
	g.puckDZ = 0
	g.centerPuck()

	g.scores = [2]int{}
	g.level = 0
	g.tick = 0
	g.gameOver = false
	g.paused = false
	g.winner = 0
}

// centerPuck moves the puck to the middle of the playground.
func (g *Game) centerPuck() {
	g.puckX = g.width / 2
	g.puckY = g.height / 2
	g.puckZ = 0
	if g.mode == ModeVolume {
		g.puckZ = g.depth / 2
	}
}

// Step advances the game by one tick.
func (g *Game) Step(events []core.InputEvent) core.StepResult {
	if core.HasAny(events, core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	g.applyInput(events)

	// check player positions
	for i := range g.paddles {
		g.clampPaddle(&g.paddles[i])
	}

	g.movePuck()

	return core.StepResult{State: g.State()}
}

// applyInput moves paddles by one step per key press.
func (g *Game) applyInput(events []core.InputEvent) {
	step := g.cfg.Paddles.Step
	for _, e := range events {
		if e.Player != core.Player1 && e.Player != core.Player2 {
			continue
		}
		p := &g.paddles[e.Player]
		switch e.Action {
		case core.ActionUp:
			p.y -= step
		case core.ActionDown:
			p.y += step
		case core.ActionFront:
			if g.mode == ModeVolume {
				p.z -= step
			}
		case core.ActionBack:
			if g.mode == ModeVolume {
				p.z += step
			}
		}
	}
}

// clampPaddle keeps the whole bar inside the playground.
func (g *Game) clampPaddle(p *paddle) {
	p.y = clampCentre(p.y, g.radius, g.height)
	if g.mode == ModeVolume {
		p.z = clampCentre(p.z, g.radius, g.depth)
	}
}

// clampCentre restricts a bar centre to [radius, limit-radius]. A bar longer
// than the field is centred.
func clampCentre(c, radius, limit float64) float64 {
	if 2*radius >= limit {
		return limit / 2
	}
	return core.ClampF(c, radius, limit-radius)
}

// movePuck advances the puck, bounces it off the side walls, and resolves
// paddle hits and misses.
func (g *Game) movePuck() {
	g.puckX += g.puckDX
	g.puckY += g.puckDY
	g.puckZ += g.puckDZ

	g.puckY, g.puckDY, _ = core.Reflect(g.puckY, g.puckDY, 0, g.height)
	if g.mode == ModeVolume {
		g.puckZ, g.puckDZ, _ = core.Reflect(g.puckZ, g.puckDZ, 0, g.depth)
	}

	// puck at player 1
	if g.puckX <= g.paddles[0].x {
		g.puckDX = -g.puckDX
		g.puckX += g.puckDX
		g.resolveHit(0)
	}

	// puck at player 2
	if g.puckX >= g.paddles[1].x {
		g.puckDX = -g.puckDX
		g.puckX += g.puckDX
		g.resolveHit(1)
	}

	g.puckX = core.ClampF(g.puckX, 0, g.width-1)
}

// resolveHit decides whether the defending paddle returned the puck.
func (g *Game) resolveHit(defender int) {
	p := g.paddles[defender]
	offY := g.puckY - p.y
	offZ := g.puckZ - p.z

	missed := abs(offY) > g.radius
	if g.mode == ModeVolume {
		missed = missed || abs(offZ) > g.radius
	}

	if missed {
		scorer := 1 - defender
		g.scores[scorer]++
		if win := g.cfg.Gameplay.WinScore; win > 0 && g.scores[scorer] >= win {
			g.gameOver = true
			g.winner = scorer + 1
		}
		g.levelUp()
		return
	}

	g.puckDY = offY / g.radius * g.cfg.Puck.Deflection
	if g.mode == ModeVolume {
		g.puckDZ = offZ / g.radius * g.cfg.Puck.Deflection
	}
}

// levelUp shrinks the paddles, or speeds the puck up once they are minimal,
// and re-centres the puck.
func (g *Game) levelUp() {
	g.level++
	if g.radius > g.cfg.Paddles.MinRadius {
		g.radius -= g.cfg.Paddles.Shrink
		if g.radius < g.cfg.Paddles.MinRadius {
			g.radius = g.cfg.Paddles.MinRadius
		}
	} else {
		g.puckDX = core.Sign(g.puckDX) * (abs(g.puckDX) + g.cfg.Puck.SpeedUp)
	}
	g.centerPuck()
}

// Render draws paddles and puck.
func (g *Game) Render(dst *core.Buffer) {
	thickness := float64(g.cfg.Paddles.Thickness)
	pk := g.cfg.Puck

	if g.mode == ModeFlat {
		dst.Fill(background)
		for _, p := range g.paddles {
			dst.DrawBox(p.x, p.y-g.radius, 0, thickness, g.radius*2, 0, 1)
		}
		dst.DrawSphere(g.puckX, g.puckY, 0, pk.RadiusX, pk.RadiusY, pk.RadiusZ, 1)
		return
	}

	dst.Fill(0)
	for _, p := range g.paddles {
		dst.DrawBox(p.x, p.y-g.radius, p.z-g.radius, thickness, g.radius*2, g.radius*2, 1)
	}
	dst.DrawSphere(g.puckX, g.puckY, g.puckZ, pk.RadiusX, pk.RadiusY, pk.RadiusZ, 1)

	// put z-colour coding on the volume
	dst.MultiplyRampZ()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	status := ""
	switch {
	case g.gameOver:
		status = "Player 1 wins!"
		if g.winner == 2 {
			status = "Player 2 wins!"
		}
	case g.paused:
		status = "Paused"
	}
	return core.GameState{
		Scores:   []int{g.scores[0], g.scores[1]},
		GameOver: g.gameOver,
		Paused:   g.paused,
		Status:   status,
		Winner:   g.winner,
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
