package config

import (
	_ "embed"
)

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

//go:embed defaults/pong3d.yaml
var defaultPong3DYAML []byte

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

//go:embed defaults/arcade.yaml
var defaultArcadeYAML []byte

//go:embed defaults/puzzle.yaml
var defaultPuzzleYAML []byte

// DefaultPongConfig returns the default 2D ping-pong configuration.
func DefaultPongConfig() PongConfig {
	return PongConfig{
		Field: FieldConfig{Width: 640, Height: 480, Depth: 1},
		Paddles: PongPaddles{
			Offset:    10,
			Thickness: 3,
			Radius:    50,
			MinRadius: 10,
			Shrink:    10,
			Step:      10,
		},
		Puck: PongPuck{
			Speed:      10,
			SpeedUp:    10,
			Deflection: 5,
			RadiusX:    5,
			RadiusY:    3,
			RadiusZ:    1,
		},
		Gameplay: PongGameplay{
			WinScore:     0,
			FrameDelayMS: 50,
		},
		Display: DisplayConfig{Colormap: "gray", ContrastMin: 0, ContrastMax: 1},
	}
}

// DefaultPong3DConfig returns the default volumetric ping-pong configuration.
func DefaultPong3DConfig() PongConfig {
	cfg := DefaultPongConfig()
	cfg.Field = FieldConfig{Width: 300, Height: 200, Depth: 200}
	cfg.Paddles.Radius = 0 // height / 4
	cfg.Puck.RadiusZ = 3
	cfg.Gameplay.FrameDelayMS = 100
	cfg.Display = DisplayConfig{Colormap: "depth", ContrastMin: 0, ContrastMax: 200}
	return cfg
}

// DefaultSnakeConfig returns the default two-player snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Field: FieldConfig{Width: 640, Height: 480, Depth: 1},
		Gameplay: SnakeGameplay{
			PixelSize:     10,
			FoodCalories:  5,
			MaxFood:       10,
			InitialLength: 3,
			FrameDelayMS:  200,
		},
		Colors: SnakeColors{
			Frame:   4,
			Player1: 2,
			Player2: 7,
			Food:    10,
		},
		Display: DisplayConfig{Colormap: "turbo", ContrastMin: 0, ContrastMax: 10},
	}
}

// DefaultArcadeConfig returns the default cell counting arcade configuration.
func DefaultArcadeConfig() ArcadeConfig {
	return ArcadeConfig{
		Field: FieldConfig{Width: 1024, Height: 512, Depth: 1},
		Cells: ArcadeCells{
			Count:        40,
			MinRadius:    8,
			MaxRadius:    16,
			ExpandRadius: 20,
			Intensity:    0.6,
		},
		Gameplay: ArcadeGameplay{
			FOVFraction:  0.9,
			PlayerStep:   10,
			BulletSpeed:  10,
			BulletRadius: 5,
			SweepSpeed:   1,
			FrameDelayMS: 100,
		},
		Display: DisplayConfig{Colormap: "magenta", ContrastMin: 0, ContrastMax: 1},
	}
}

// DefaultPuzzleConfig returns the default sliding puzzle configuration.
func DefaultPuzzleConfig() PuzzleConfig {
	return PuzzleConfig{
		Field: FieldConfig{Width: 1200, Height: 900, Depth: 1},
		Gameplay: PuzzleGameplay{
			PatchSize:     100,
			ShuffleLength: 50,
			FrameDelayMS:  50,
		},
		Display: DisplayConfig{Colormap: "green", ContrastMin: 0, ContrastMax: 1},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "pong":
		return defaultPongYAML
	case "pong3d":
		return defaultPong3DYAML
	case "snake":
		return defaultSnakeYAML
	case "arcade":
		return defaultArcadeYAML
	case "puzzle":
		return defaultPuzzleYAML
	default:
		return nil
	}
}
