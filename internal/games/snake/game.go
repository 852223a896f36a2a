// Package snake implements two-player snake on a pixel grid. Both snakes
// share the playground; a head that lands on any snake or on the border
// ends the round.
package snake

import (
	"math/rand"
	"slices"
	"time"

	"github.com/vovakirdan/natari/internal/config"
	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/registry"
)

// Direction represents a snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// delta returns the grid step for a direction.
func (d Direction) delta() (int, int) {
	switch d {
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirUp:
		return 0, -1
	default:
		return 1, 0
	}
}

// opposite reports whether two directions point against each other.
func (d Direction) opposite(o Direction) bool {
	return (d+2)%4 == o
}

// Point is a pixel coordinate; snakes and food sit on multiples of the
// pixel size.
type Point struct {
	X, Y int
}

// player is one snake. Head at index 0.
type player struct {
	body      []Point
	direction Direction
	nextDir   Direction
}

func (p *player) head() Point {
	return p.body[0]
}

// Game implements two-player snake.
type Game struct {
	cfg config.SnakeConfig
	rng *rand.Rand

	width, height int
	pixel         int

	players [2]player
	food    []Point

	scores   [2]int
	tick     uint64
	gameOver bool
	paused   bool
	loser    int // 0 = none, 1 or 2
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

// New creates a snake game from the configured settings.
func New() *Game {
	cfg, err := config.LoadSnake(configPath)
	if err != nil {
		cfg = config.DefaultSnakeConfig()
	}
	config.ApplySnakePreset(&cfg, config.ParsePreset(difficultyPreset))
	return NewWithConfig(cfg)
}

// NewWithConfig creates a game with an explicit configuration.
func NewWithConfig(cfg config.SnakeConfig) *Game {
	cfg.Field.Depth = 1
	if cfg.Gameplay.PixelSize < 1 {
		cfg.Gameplay.PixelSize = 1
	}
	g := &Game{cfg: cfg}
	g.Reset(core.DefaultConfig())
	return g
}

func init() {
	registry.Register("snake", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "snake" }

// Title returns the display name.
func (g *Game) Title() string { return "Snake" }

// Players returns the number of players sharing the keyboard.
func (g *Game) Players() int { return 2 }

// Size returns the playground dimensions.
func (g *Game) Size() (int, int, int) {
	return g.cfg.Field.Width, g.cfg.Field.Height, 1
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

// Reset initializes or restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.width = g.cfg.Field.Width
	g.height = g.cfg.Field.Height
	g.pixel = g.cfg.Gameplay.PixelSize

	// Snap the starting heads onto the pixel grid
	snap := func(v int) int { return v / g.pixel * g.pixel }
	g.players[0] = player{
		body:      []Point{{X: snap(g.width * 3 / 8), Y: snap(g.height / 2)}},
		direction: DirRight,
		nextDir:   DirRight,
	}
	g.players[1] = player{
		body:      []Point{{X: snap(g.width * 3 / 4), Y: snap(g.height / 2)}},
		direction: DirLeft,
		nextDir:   DirLeft,
	}

	g.food = nil
	g.scores = [2]int{}
	g.tick = 0
	g.gameOver = false
	g.paused = false
	g.loser = 0
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
	g.processInput(events)

	for i := range g.players {
		if !g.move(i) {
			g.gameOver = true
			g.loser = i + 1
			return core.StepResult{State: g.State()}
		}
	}

	g.eat()
	g.seedFood()

	return core.StepResult{State: g.State()}
}

// processInput buffers direction changes. A snake may not turn straight back
// onto its own neck.
func (g *Game) processInput(events []core.InputEvent) {
	for _, e := range events {
		if e.Player != core.Player1 && e.Player != core.Player2 {
			continue
		}
		p := &g.players[e.Player]
		var dir Direction
		switch e.Action {
		case core.ActionUp:
			dir = DirUp
		case core.ActionDown:
			dir = DirDown
		case core.ActionLeft:
			dir = DirLeft
		case core.ActionRight:
			dir = DirRight
		default:
			continue
		}
		if len(p.body) > 1 && dir.opposite(p.direction) {
			continue
		}
		p.nextDir = dir
	}
}

// move advances one snake and reports whether it survived.
func (g *Game) move(i int) bool {
	p := &g.players[i]
	p.direction = p.nextDir

	dx, dy := p.direction.delta()
	head := p.head()
	next := Point{X: head.X + dx*g.pixel, Y: head.Y + dy*g.pixel}

	if g.crashed(next) {
		return false
	}

	keep := min(len(p.body), g.scores[i]+g.cfg.Gameplay.InitialLength)
	body := make([]Point, 0, keep+1)
	body = append(body, next)
	body = append(body, p.body[:keep]...)
	p.body = body
	return true
}

// crashed reports whether a head at pt hits the border or any snake.
func (g *Game) crashed(pt Point) bool {
	if pt.X <= 0 || pt.X >= g.width || pt.Y <= 0 || pt.Y >= g.height {
		return true
	}
	for i := range g.players {
		if slices.Contains(g.players[i].body, pt) {
			return true
		}
	}
	return false
}

// eat credits the player whose head is on a piece of food.
func (g *Game) eat() {
	remaining := g.food[:0]
	for _, f := range g.food {
		switch f {
		case g.players[0].head():
			g.scores[0] += g.cfg.Gameplay.FoodCalories
		case g.players[1].head():
			g.scores[1] += g.cfg.Gameplay.FoodCalories
		default:
			remaining = append(remaining, f)
		}
	}
	g.food = remaining
}

// seedFood drops at most one piece of food per tick on a free grid cell
// inside the border.
func (g *Game) seedFood() {
	if len(g.food) >= g.cfg.Gameplay.MaxFood {
		return
	}
	cols, rows := g.width/g.pixel, g.height/g.pixel
	if cols < 3 || rows < 3 {
		return
	}
	pt := Point{
		X: (g.rng.Intn(cols-2) + 1) * g.pixel,
		Y: (g.rng.Intn(rows-2) + 1) * g.pixel,
	}
	if slices.Contains(g.food, pt) {
		return
	}
	for i := range g.players {
		if slices.Contains(g.players[i].body, pt) {
			return
		}
	}
	g.food = append(g.food, pt)
}

// Render draws the frame, both snakes, and the food.
func (g *Game) Render(dst *core.Buffer) {
	colors := g.cfg.Colors
	w, h := float64(g.width), float64(g.height)

	dst.Fill(colors.Frame)
	dst.DrawBox(1, 1, 0, w-2, h-2, 0, 0)

	g.drawPoints(dst, g.players[0].body, colors.Player1)
	g.drawPoints(dst, g.players[1].body, colors.Player2)
	g.drawPoints(dst, g.food, colors.Food)
}

// drawPoints draws each point as a pixel-sized square centred on it.
func (g *Game) drawPoints(dst *core.Buffer, pts []Point, v float32) {
	size := float64(g.pixel)
	for _, pt := range pts {
		dst.DrawBox(float64(pt.X)-size/2, float64(pt.Y)-size/2, 0, size, size, 0, v)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	status := ""
	winner := 0
	if g.loser != 0 {
		winner = 3 - g.loser
	}
	switch {
	case g.gameOver:
		status = "Player 1 crashed!"
		if g.loser == 2 {
			status = "Player 2 crashed!"
		}
	case g.paused:
		status = "Paused"
	}
	return core.GameState{
		Scores:   []int{g.scores[0], g.scores[1]},
		GameOver: g.gameOver,
		Paused:   g.paused,
		Status:   status,
		Winner:   winner,
	}
}
