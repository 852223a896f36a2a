package pong

// Snapshot contains the complete observable state of a ping-pong game.
// Uses primitive types only for stable comparison and logging.
type Snapshot struct {
	Tick     uint64
	PuckX    float64
	PuckY    float64
	PuckZ    float64
	PuckDX   float64
	PuckDY   float64
	PuckDZ   float64
	Paddle1Y float64
	Paddle1Z float64
	Paddle2Y float64
	Paddle2Z float64
	Radius   float64
	Score1   int
	Score2   int
	Level    int
	GameOver bool
	Winner   int
}

// Snapshot returns the current game state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:     g.tick,
		PuckX:    g.puckX,
		PuckY:    g.puckY,
		PuckZ:    g.puckZ,
		PuckDX:   g.puckDX,
		PuckDY:   g.puckDY,
		PuckDZ:   g.puckDZ,
		Paddle1Y: g.paddles[0].y,
		Paddle1Z: g.paddles[0].z,
		Paddle2Y: g.paddles[1].y,
		Paddle2Z: g.paddles[1].z,
		Radius:   g.radius,
		Score1:   g.scores[0],
		Score2:   g.scores[1],
		Level:    g.level,
		GameOver: g.gameOver,
		Winner:   g.winner,
	}
}

// ApplySnapshot restores positions, velocities and scores from a snapshot.
func (g *Game) ApplySnapshot(s Snapshot) {
	g.tick = s.Tick
	g.puckX, g.puckY, g.puckZ = s.PuckX, s.PuckY, s.PuckZ
	g.puckDX, g.puckDY, g.puckDZ = s.PuckDX, s.PuckDY, s.PuckDZ
	g.paddles[0].y, g.paddles[0].z = s.Paddle1Y, s.Paddle1Z
	g.paddles[1].y, g.paddles[1].z = s.Paddle2Y, s.Paddle2Z
	g.radius = s.Radius
	g.scores = [2]int{s.Score1, s.Score2}
	g.level = s.Level
	g.gameOver = s.GameOver
	g.winner = s.Winner
}
