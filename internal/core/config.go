package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	Seed int64 // RNG seed for deterministic gameplay

	// FrameDelay overrides the game's own delay between ticks when non-zero.
	FrameDelay time.Duration
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Seed: 0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Scores   []int  // Score per player, index 0 is Player1
	GameOver bool   // Whether the round has ended
	Paused   bool   // Whether the game is paused
	Status   string // Short status line, e.g. "Game over!"
	Winner   int    // 1-based winning player once decided, 0 otherwise
}

// Score returns the score of the given player, or 0 if there is none.
func (s GameState) Score(p PlayerID) int {
	i := int(p)
	if i < 0 || i >= len(s.Scores) {
		return 0
	}
	return s.Scores[i]
}

// Best returns the highest score among all players.
func (s GameState) Best() int {
	best := 0
	for _, v := range s.Scores {
		best = Max(best, v)
	}
	return best
}

// Clone returns a copy that shares no memory with s.
func (s GameState) Clone() GameState {
	c := s
	c.Scores = append([]int(nil), s.Scores...)
	return c
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
