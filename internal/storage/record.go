package storage

import (
	"time"

	"github.com/vovakirdan/natari/internal/core"
)

// Round describes a finished or abandoned round handed to Record.
type Round struct {
	GameID   string
	Players  int
	Mode     string
	State    core.GameState
	Ticks    uint64
	Duration time.Duration
}

// Record stores a round: single-player games as a score, two-player games
// as a match. Rounds that never scored are skipped. It returns the match ID
// for two-player rounds.
func (s *Store) Record(r Round) (string, error) {
	if r.Players < 2 {
		score := r.State.Best()
		if score <= 0 {
			return "", nil
		}
		_, err := s.SaveScore(r.GameID, score)
		return "", err
	}

	s1 := r.State.Score(core.Player1)
	s2 := r.State.Score(core.Player2)
	if s1 == 0 && s2 == 0 && !r.State.GameOver {
		return "", nil
	}

	reason := "quit"
	winner := r.State.Winner
	if r.State.GameOver {
		reason = "completed"
		if winner == 0 {
			switch {
			case s1 > s2:
				winner = 1
			case s2 > s1:
				winner = 2
			}
		}
	}

	return s.SaveMatch(MatchResult{
		GameID:    r.GameID,
		Mode:      r.Mode,
		Score1:    s1,
		Score2:    s2,
		Winner:    winner,
		EndReason: reason,
		Ticks:     r.Ticks,
		Duration:  int(r.Duration.Seconds()),
	})
}
