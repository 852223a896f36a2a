package snake

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Tick     uint64
	Heads    [2]Point
	Lengths  [2]int
	Dirs     [2]Direction
	Scores   [2]int
	Food     int
	GameOver bool
	Loser    int
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:     g.tick,
		Scores:   g.scores,
		Food:     len(g.food),
		GameOver: g.gameOver,
		Loser:    g.loser,
	}
	for i := range g.players {
		s.Heads[i] = g.players[i].head()
		s.Lengths[i] = len(g.players[i].body)
		s.Dirs[i] = g.players[i].direction
	}
	return s
}
