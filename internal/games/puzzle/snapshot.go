package puzzle

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Tick    uint64
	BlankX  int
	BlankY  int
	Queued  int
	Played  int
	Moves   int
	Solved  bool
	AtHome  bool
	Shuffle int
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:    g.tick,
		BlankX:  g.posX,
		BlankY:  g.posY,
		Queued:  len(g.chain) - g.next,
		Played:  g.next,
		Moves:   g.moves,
		Solved:  g.solved,
		AtHome:  g.home(),
		Shuffle: g.shuffleLen,
	}
}
