package engine

import (
	"github.com/vovakirdan/natari/internal/core"
)

// Frame is one published tick: the rendered buffer plus the state it shows.
// Frames are immutable once published; the driver never reuses their buffers.
// Buffer is always 2D; Depth records the depth of the rendered volume.
type Frame struct {
	Tick    uint64
	GameID  string
	Buffer  *core.Buffer
	Depth   int
	State   core.GameState
	Display core.Display
}

// Sink receives frames from the driver. Publish must not block for long,
// since it runs on the game loop goroutine.
type Sink interface {
	Publish(f Frame)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Frame)

// Publish calls f.
func (f SinkFunc) Publish(fr Frame) { f(fr) }

// Mailbox is a single-slot Sink that always holds the newest frame.
// A slow consumer skips frames instead of stalling the producer.
type Mailbox struct {
	ch chan Frame
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan Frame, 1)}
}

// Publish replaces any unconsumed frame with f.
func (m *Mailbox) Publish(f Frame) {
	for {
		select {
		case m.ch <- f:
			return
		default:
		}
		// Slot is full: drop the stale frame and retry.
		select {
		case <-m.ch:
		default:
		}
	}
}

// Frames returns the channel the consumer reads from.
func (m *Mailbox) Frames() <-chan Frame {
	return m.ch
}

// Discard is a Sink that drops every frame.
var Discard Sink = SinkFunc(func(Frame) {})
