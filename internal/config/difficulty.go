package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset returns the preset for name; unknown names mean normal.
func ParsePreset(name string) DifficultyPreset {
	switch DifficultyPreset(name) {
	case DifficultyEasy, DifficultyHard:
		return DifficultyPreset(name)
	default:
		return DifficultyNormal
	}
}

// ApplyPongPreset modifies paddle size and puck speed for a preset.
func ApplyPongPreset(cfg *PongConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Paddles.Radius *= 1.4
		cfg.Puck.Speed *= 0.7
	case DifficultyHard:
		cfg.Paddles.Radius *= 0.6
		cfg.Puck.Speed *= 1.5
	}
}

// ApplySnakePreset modifies pacing for a preset.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.FrameDelayMS = cfg.Gameplay.FrameDelayMS * 3 / 2
	case DifficultyHard:
		cfg.Gameplay.FrameDelayMS = cfg.Gameplay.FrameDelayMS / 2
	}
}

// ApplyArcadePreset modifies specimen density and sweep speed for a preset.
func ApplyArcadePreset(cfg *ArcadeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Cells.Count = cfg.Cells.Count * 3 / 2
		cfg.Gameplay.SweepSpeed = max(1, cfg.Gameplay.SweepSpeed)
	case DifficultyHard:
		cfg.Cells.Count = max(1, cfg.Cells.Count/2)
		cfg.Gameplay.SweepSpeed *= 3
	}
}

// ApplyPuzzlePreset modifies the shuffle length for a preset.
func ApplyPuzzlePreset(cfg *PuzzleConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.ShuffleLength = max(2, cfg.Gameplay.ShuffleLength/5)
	case DifficultyHard:
		cfg.Gameplay.ShuffleLength *= 4
	}
}
