// Package tui is the terminal display sink. It maps keys to game input,
// consumes frames published by the engine driver, and draws them with
// Bubble Tea and lipgloss.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/natari/internal/engine"
)

// FrameMsg carries one frame from the driver into the Bubble Tea loop.
type FrameMsg struct {
	Frame engine.Frame
}

// loopStoppedMsg is sent once the driver's Run returns.
type loopStoppedMsg struct{}

// waitFrame returns a command that blocks until the mailbox holds a frame or
// done is closed. The model re-issues it after every frame so at most one is
// in flight.
func waitFrame(frames <-chan engine.Frame, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-frames:
			return FrameMsg{Frame: f}
		case <-done:
			return loopStoppedMsg{}
		}
	}
}
