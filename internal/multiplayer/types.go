// Package multiplayer pairs two remote sessions into one match. A host opens
// a lobby under a short join code, a second session joins with the code, and
// the coordinator runs the game on a shared engine driver that both sessions
// steer and watch.
package multiplayer

import "github.com/vovakirdan/natari/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// The host always plays Player1 and the joiner Player2.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a connected session (e.g., an SSH connection).
type SessionID string

// MatchID uniquely identifies a match. It is stored as the match's uuid.
type MatchID string

// EndReason describes why a match ended.
type EndReason int

const (
	EndCompleted  EndReason = iota // The game reached game over
	EndDisconnect                  // A player disconnected or left
	EndHostLeft                    // The host closed the lobby before the match
	EndStopped                     // The server shut down
)

// String returns a human-readable reason.
func (r EndReason) String() string {
	switch r {
	case EndCompleted:
		return "Match completed"
	case EndDisconnect:
		return "Opponent left"
	case EndHostLeft:
		return "Host left"
	case EndStopped:
		return "Server stopped"
	default:
		return "Unknown"
	}
}

// storageReason is the end_reason column value for a reason.
func (r EndReason) storageReason() string {
	switch r {
	case EndCompleted:
		return "completed"
	case EndDisconnect:
		return "disconnect"
	default:
		return "stopped"
	}
}
