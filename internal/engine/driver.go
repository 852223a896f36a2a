// Package engine runs games: it owns the tick function and the loop that
// drains input, advances the simulation, rasterizes, and publishes frames.
package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/registry"
)

// Tick advances g by one step with the given events and renders the result
// into dst. It has no failure modes: anything out of bounds is clipped by the
// game or the buffer.
func Tick(g registry.Game, events []core.InputEvent, dst *core.Buffer) core.StepResult {
	res := g.Step(events)
	g.Render(dst)
	return res
}

// Driver is the game loop. One goroutine calls Run; any number of goroutines
// may push input through Input().
type Driver struct {
	game     registry.Game
	sink     Sink
	input    *core.InputQueue
	config   core.RuntimeConfig
	buffer   *core.Buffer
	tick     uint64
	restarts int64
	logger   *log.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithInput shares an existing input queue with the driver.
func WithInput(q *core.InputQueue) Option {
	return func(d *Driver) {
		d.input = q
	}
}

// NewDriver resets g with cfg and prepares a loop publishing to sink.
// A nil sink discards frames.
func NewDriver(g registry.Game, sink Sink, cfg core.RuntimeConfig, opts ...Option) *Driver {
	if sink == nil {
		sink = Discard
	}
	d := &Driver{
		game:   g,
		sink:   sink,
		input:  core.NewInputQueue(),
		config: cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.game.Reset(d.config)
	d.allocate()
	return d
}

// allocate sizes the buffer to the game's current dimensions.
func (d *Driver) allocate() {
	w, h, z := d.game.Size()
	if d.buffer == nil || d.buffer.Width() != w || d.buffer.Height() != h || d.buffer.Depth() != z {
		d.buffer = core.NewBuffer(w, h, z)
	}
}

// Game returns the driven game.
func (d *Driver) Game() registry.Game {
	return d.game
}

// Input returns the queue that input sources push into.
func (d *Driver) Input() *core.InputQueue {
	return d.input
}

// Push queues one event for the next tick.
func (d *Driver) Push(e core.InputEvent) {
	d.input.Push(e)
}

// Delay returns the pause between ticks.
func (d *Driver) Delay() time.Duration {
	if d.config.FrameDelay > 0 {
		return d.config.FrameDelay
	}
	if delay := d.game.FrameDelay(); delay > 0 {
		return delay
	}
	return 50 * time.Millisecond
}

// Step runs exactly one tick and publishes the resulting frame.
func (d *Driver) Step() Frame {
	events := d.input.Drain()

	if core.HasAny(events, core.ActionRestart) {
		d.restart()
		events = withoutAction(events, core.ActionRestart)
	}

	res := Tick(d.game, events, d.buffer)
	d.tick++

	frame := Frame{
		Tick:    d.tick,
		GameID:  d.game.ID(),
		Buffer:  d.snapshot(),
		Depth:   d.buffer.Depth(),
		State:   res.State.Clone(),
		Display: d.game.Display(),
	}
	d.sink.Publish(frame)
	return frame
}

// snapshot copies the buffer for publication. Volumes are published as
// their maximum projection along z.
func (d *Driver) snapshot() *core.Buffer {
	if d.buffer.Depth() > 1 {
		return d.buffer.MaxProjectZ()
	}
	return d.buffer.Clone()
}

// restart resets the game with a seed derived from the original one, so a
// seeded session stays reproducible across restarts.
func (d *Driver) restart() {
	d.restarts++
	cfg := d.config
	cfg.Seed = d.config.Seed + d.restarts
	d.game.Reset(cfg)
	d.allocate()
	d.logger.Debug("game restarted", "game", d.game.ID(), "restarts", d.restarts)
}

// RunTicks steps n times without waiting and returns the last frame.
func (d *Driver) RunTicks(n int) Frame {
	var last Frame
	for range n {
		last = d.Step()
	}
	return last
}

// Run ticks at the game's frame delay until ctx is cancelled.
// It always returns nil after cancellation.
func (d *Driver) Run(ctx context.Context) error {
	delay := d.Delay()
	d.logger.Info("game loop started", "game", d.game.ID(), "delay", delay)

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	// Publish an initial frame so the display has something to show.
	d.Step()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("game loop stopped", "game", d.game.ID(), "ticks", d.tick)
			return nil
		case <-ticker.C:
			d.Step()
		}
	}
}

// withoutAction filters out every event carrying action a.
func withoutAction(events []core.InputEvent, a core.Action) []core.InputEvent {
	out := events[:0]
	for _, e := range events {
		if e.Action != a {
			out = append(out, e)
		}
	}
	return out
}
