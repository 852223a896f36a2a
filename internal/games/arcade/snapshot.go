package arcade

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Tick     uint64
	Player   float64
	Bullets  int
	FOVX     int
	Left     int
	Score    int
	GameOver bool
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:     g.tick,
		Player:   g.player,
		Bullets:  len(g.bullets),
		FOVX:     g.fovX,
		Left:     g.left,
		Score:    g.score,
		GameOver: g.gameOver,
	}
}
