// Package puzzle implements a sliding puzzle over a picture cut into square
// tiles. One tile is blanked; moves slide the blank around the grid. Moves
// queue up in a chain that is played back one per tick, which also animates
// the initial shuffle.
package puzzle

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/natari/internal/config"
	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/registry"
)

// Move slides the blank one tile, named after the wasd keys.
type Move byte

const (
	MoveUp    Move = 'w'
	MoveLeft  Move = 'a'
	MoveDown  Move = 's'
	MoveRight Move = 'd'
)

var moves = [4]Move{MoveUp, MoveLeft, MoveDown, MoveRight}

// inverse returns the move that undoes m.
func (m Move) inverse() Move {
	switch m {
	case MoveUp:
		return MoveDown
	case MoveDown:
		return MoveUp
	case MoveLeft:
		return MoveRight
	default:
		return MoveLeft
	}
}

// apply returns the position after m.
func (m Move) apply(x, y int) (int, int) {
	switch m {
	case MoveUp:
		y--
	case MoveDown:
		y++
	case MoveLeft:
		x--
	case MoveRight:
		x++
	}
	return x, y
}

// Game implements the sliding puzzle.
type Game struct {
	cfg config.PuzzleConfig
	rng *rand.Rand
	pic *picture

	patch      int
	cols, rows int

	tiles []int // tiles[cell] = home cell of the tile shown there
	blank int   // home cell of the blank tile

	posX, posY int // blank cell now
	endX, endY int // blank cell once the chain is played back

	chain      []Move
	next       int
	shuffleLen int

	moves  int
	tick   uint64
	solved bool
	paused bool
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

// New creates a puzzle from the configured settings.
func New() *Game {
	cfg, err := config.LoadPuzzle(configPath)
	if err != nil {
		cfg = config.DefaultPuzzleConfig()
	}
	config.ApplyPuzzlePreset(&cfg, config.ParsePreset(difficultyPreset))
	return NewWithConfig(cfg)
}

// NewWithConfig creates a puzzle with an explicit configuration. A source
// picture that cannot be read is replaced by the synthetic one.
func NewWithConfig(cfg config.PuzzleConfig) *Game {
	g, err := Open(cfg)
	if err != nil {
		cfg.Source = ""
		g, _ = Open(cfg)
	}
	return g
}

// Open creates a puzzle and reports errors loading the source picture.
func Open(cfg config.PuzzleConfig) (*Game, error) {
	cfg.Field.Depth = 1
	patch := max(cfg.Gameplay.PatchSize, 1)

	var pic *picture
	if cfg.Source != "" {
		p, err := loadPicture(cfg.Source)
		if err != nil {
			return nil, err
		}
		pic = p
	} else {
		pic = synthesizePicture(max(cfg.Field.Width, patch), max(cfg.Field.Height, patch))
	}

	pic = pic.crop(patch)
	if pic.width == 0 || pic.height == 0 {
		// smaller than one tile: show a single tile
		pic = synthesizePicture(patch, patch)
	}
	pic.drawGrid(patch)

	g := &Game{
		cfg:   cfg,
		pic:   pic,
		patch: patch,
		cols:  pic.width / patch,
		rows:  pic.height / patch,
	}
	g.Reset(core.DefaultConfig())
	return g, nil
}

func init() {
	registry.Register("puzzle", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "puzzle" }

// Title returns the display name.
func (g *Game) Title() string { return "Sliding Puzzle" }

// Players returns the number of players.
func (g *Game) Players() int { return 1 }

// Size returns the picture dimensions.
func (g *Game) Size() (int, int, int) {
	return g.pic.width, g.pic.height, 1
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

// Reset restores the picture, blanks the centre tile, and queues a fresh
// shuffle walk.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))

	g.tiles = make([]int, g.cols*g.rows)
	for i := range g.tiles {
		g.tiles[i] = i
	}

	g.posX, g.posY = g.cols/2, g.rows/2
	g.endX, g.endY = g.posX, g.posY
	g.blank = g.cell(g.posX, g.posY)

	g.chain = nil
	g.next = 0
	g.chain = g.randomWalk(g.cfg.Gameplay.ShuffleLength)
	g.shuffleLen = len(g.chain)

	g.moves = 0
	g.tick = 0
	g.solved = false
	g.paused = false
}

func (g *Game) cell(x, y int) int {
	return y*g.cols + x
}

func (g *Game) inGrid(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// randomWalk returns up to n moves starting from the end of the chain.
// The walk stays on the grid and never steps straight back.
func (g *Game) randomWalk(n int) []Move {
	var walk []Move
	var last Move
	if len(g.chain) > 0 {
		last = g.chain[len(g.chain)-1]
	}

	for attempt := 0; len(walk) < n && attempt < n*20; attempt++ {
		m := moves[g.rng.Intn(len(moves))]
		if last != 0 && m == last.inverse() {
			continue
		}
		x, y := m.apply(g.endX, g.endY)
		if !g.inGrid(x, y) {
			continue
		}
		walk = append(walk, m)
		g.endX, g.endY = x, y
		last = m
	}
	return walk
}

// Step advances the game by one tick.
func (g *Game) Step(events []core.InputEvent) core.StepResult {
	if core.HasAny(events, core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.solved {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	g.applyInput(events)

	if g.next < len(g.chain) {
		g.play(g.chain[g.next])
		g.next++
		if g.next > g.shuffleLen {
			g.moves++
		}
	}

	if g.next == len(g.chain) && g.moves > 0 && g.home() {
		g.solved = true
	}

	return core.StepResult{State: g.State()}
}

// applyInput appends moves to the chain. Moves off the grid are dropped.
func (g *Game) applyInput(events []core.InputEvent) {
	for _, e := range events {
		if e.Player != core.Player1 {
			continue
		}
		switch e.Action {
		case core.ActionUp:
			g.enqueue(MoveUp)
		case core.ActionDown:
			g.enqueue(MoveDown)
		case core.ActionLeft:
			g.enqueue(MoveLeft)
		case core.ActionRight:
			g.enqueue(MoveRight)
		case core.ActionShuffle:
			g.chain = append(g.chain, g.randomWalk(1)...)
		case core.ActionUndo:
			g.findHome()
		}
	}
}

func (g *Game) enqueue(m Move) {
	x, y := m.apply(g.endX, g.endY)
	if !g.inGrid(x, y) {
		return
	}
	g.chain = append(g.chain, m)
	g.endX, g.endY = x, y
}

// findHome appends the inverse of the whole chain in reverse order, which
// walks the blank back to where it started.
func (g *Game) findHome() {
	back := make([]Move, 0, len(g.chain))
	for i := len(g.chain) - 1; i >= 0; i-- {
		back = append(back, g.chain[i].inverse())
	}
	g.chain = append(g.chain, back...)
	g.endX, g.endY = g.blank%g.cols, g.blank/g.cols
}

// play exchanges the blank with its neighbour. A move off the grid is
// reverted.
func (g *Game) play(m Move) {
	x, y := m.apply(g.posX, g.posY)
	if !g.inGrid(x, y) {
		return
	}
	a, b := g.cell(g.posX, g.posY), g.cell(x, y)
	g.tiles[a], g.tiles[b] = g.tiles[b], g.tiles[a]
	g.posX, g.posY = x, y
}

// home reports whether every tile is back in its cell.
func (g *Game) home() bool {
	for i, t := range g.tiles {
		if t != i {
			return false
		}
	}
	return true
}

// Render draws each tile's picture patch at its current cell. The blank
// tile stays black.
func (g *Game) Render(dst *core.Buffer) {
	dst.Fill(0)
	p := g.patch
	for cy := range g.rows {
		for cx := range g.cols {
			t := g.tiles[g.cell(cx, cy)]
			if t == g.blank {
				continue
			}
			hx, hy := (t%g.cols)*p, (t/g.cols)*p
			for y := range p {
				for x := range p {
					dst.Set(cx*p+x, cy*p+y, 0, g.pic.at(hx+x, hy+y))
				}
			}
		}
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	status := ""
	switch {
	case g.solved:
		status = "Solved!"
	case g.paused:
		status = "Paused"
	case g.next < g.shuffleLen:
		status = "Shuffling..."
	}
	return core.GameState{
		Scores:   []int{g.moves},
		GameOver: g.solved,
		Paused:   g.paused,
		Status:   status,
	}
}
