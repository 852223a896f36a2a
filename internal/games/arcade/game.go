// Package arcade implements the cell counting arcade: a ship at the bottom
// of a sweeping field of view shoots nuclei out of a synthetic specimen.
// Every nucleus hit takes its surrounding cell with it.
package arcade

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/natari/internal/config"
	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/labels"
	"github.com/vovakirdan/natari/internal/registry"
)

// Intensities of the playground overlay.
const (
	nucleusIntensity = 1.0
	bulletIntensity  = 1.0
	shipIntensity    = 2.0
)

// bullet position: x in field of view coordinates, y measured upward from
// the bottom edge.
type bullet struct {
	x, y float64
}

// Game implements the cell counting arcade.
type Game struct {
	cfg config.ArcadeConfig
	rng *rand.Rand

	width, height int // specimen
	fovWidth      int
	fovX          int
	fovDelta      int
	viewX         int // field of view offset the current frame shows

	nuclei *labels.Image
	cells  *labels.Image
	total  int
	left   int

	player  float64
	bullets []bullet

	score    int
	tick     uint64
	gameOver bool
	paused   bool
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

// New creates an arcade game from the configured settings.
func New() *Game {
	cfg, err := config.LoadArcade(configPath)
	if err != nil {
		cfg = config.DefaultArcadeConfig()
	}
	config.ApplyArcadePreset(&cfg, config.ParsePreset(difficultyPreset))
	return NewWithConfig(cfg)
}

// NewWithConfig creates a game with an explicit configuration.
func NewWithConfig(cfg config.ArcadeConfig) *Game {
	cfg.Field.Depth = 1
	cfg.Field.Width = core.Max(cfg.Field.Width, 2)
	cfg.Field.Height = core.Max(cfg.Field.Height, 1)
	g := &Game{cfg: cfg}
	g.Reset(core.DefaultConfig())
	return g
}

func init() {
	registry.Register("arcade", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "arcade" }

// Title returns the display name.
func (g *Game) Title() string { return "Cell Counting Arcade" }

// Players returns the number of players.
func (g *Game) Players() int { return 1 }

// Size returns the field of view dimensions.
func (g *Game) Size() (int, int, int) {
	return fovWidth(g.cfg), g.cfg.Field.Height, 1
}

func fovWidth(cfg config.ArcadeConfig) int {
	w := int(cfg.Gameplay.FOVFraction * float64(cfg.Field.Width))
	return core.Clamp(w, 1, cfg.Field.Width)
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

// Reset synthesizes a new specimen from the seed and restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.width = g.cfg.Field.Width
	g.height = g.cfg.Field.Height
	g.fovWidth = fovWidth(g.cfg)
	g.fovX = 0
	g.viewX = 0
	g.fovDelta = g.cfg.Gameplay.SweepSpeed

	c := g.cfg.Cells
	g.nuclei = labels.Synthesize(g.width, g.height, c.Count, c.MinRadius, c.MaxRadius, g.rng)
	g.cells = labels.Expand(g.nuclei, c.ExpandRadius)
	g.total = g.nuclei.Count()
	g.left = g.total

	g.player = float64(g.fovWidth) / 2
	g.bullets = nil
	g.score = 0
	g.tick = 0
	g.gameOver = g.left == 0
	g.paused = false
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
	g.viewX = g.fovX
	g.moveBullets()
	g.sweep()

	return core.StepResult{State: g.State()}
}

// applyInput moves the ship and fires.
func (g *Game) applyInput(events []core.InputEvent) {
	step := g.cfg.Gameplay.PlayerStep
	for _, e := range events {
		if e.Player != core.Player1 {
			continue
		}
		switch e.Action {
		case core.ActionLeft:
			g.movePlayer(-step)
		case core.ActionRight:
			g.movePlayer(step)
		case core.ActionFire:
			g.bullets = append(g.bullets, bullet{x: g.player})
		}
	}
}

// movePlayer only moves if the ship stays strictly inside the field of view.
func (g *Game) movePlayer(delta float64) {
	next := g.player + delta
	if next > 0 && next < float64(g.fovWidth) {
		g.player = next
	}
}

// moveBullets advances bullets, removes hit nuclei with their cells, and
// drops bullets that hit or left the playground.
func (g *Game) moveBullets() {
	hit := labels.NewSet()
	kept := g.bullets[:0]
	specimen := core.Rect{W: g.width, H: g.height}

	for _, b := range g.bullets {
		b.y += g.cfg.Gameplay.BulletSpeed

		// samples outside the specimen count as no hit
		var l labels.Label
		if sx, sy := int(b.x)+g.viewX, g.height-int(b.y); specimen.Contains(sx, sy) {
			l, _ = g.nuclei.At(sx, sy)
		}
		switch {
		case l != 0:
			hit.Add(l)
		case b.y > float64(g.height):
			// left the playground
		default:
			kept = append(kept, b)
		}
	}
	g.bullets = kept

	if hit.Len() == 0 {
		return
	}
	g.nuclei.Remove(hit)
	g.cells.Remove(hit)
	g.score += hit.Len()
	g.left -= hit.Len()
	if g.left <= 0 {
		g.left = 0
		g.gameOver = true
	}
}

// sweep moves the field of view and bounces it at the specimen edges.
func (g *Game) sweep() {
	maxX := g.width - g.fovWidth
	g.fovX += g.fovDelta
	switch {
	case g.fovX <= 0:
		g.fovX = 0
		g.fovDelta = core.Abs(g.fovDelta)
	case g.fovX >= maxX:
		g.fovX = maxX
		g.fovDelta = -core.Abs(g.fovDelta)
	}
}

// Render draws the surviving cells inside the field of view the bullets
// were tested against, with bullets and the ship on top.
func (g *Game) Render(dst *core.Buffer) {
	dst.Fill(0)

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.fovWidth; x++ {
			sx := x + g.viewX
			switch {
			case g.nuclei.Mask(sx, y):
				dst.Set(x, y, 0, nucleusIntensity)
			case g.cells.Mask(sx, y):
				dst.Set(x, y, 0, g.cfg.Cells.Intensity)
			}
		}
	}

	h := float64(g.height)
	r := g.cfg.Gameplay.BulletRadius
	for _, b := range g.bullets {
		dst.DrawBox(b.x, h-b.y, 0, r, r, 0, bulletIntensity)
	}

	dst.DrawBox(g.player-5, h-20, 0, 10, 20, 0, shipIntensity)
	dst.DrawBox(g.player-15, h-10, 0, 30, 10, 0, shipIntensity)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	status := fmt.Sprintf("%d/%d cells left", g.left, g.total)
	switch {
	case g.gameOver:
		status = "All cells counted!"
	case g.paused:
		status = "Paused"
	}
	return core.GameState{
		Scores:   []int{g.score},
		GameOver: g.gameOver,
		Paused:   g.paused,
		Status:   status,
	}
}
