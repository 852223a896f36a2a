// Package config provides YAML-based game configuration loading and
// difficulty presets for natari games.
package config

// PongConfig contains all configuration for ping-pong, flat or volumetric.
// A field depth above 1 selects the volumetric variant.
type PongConfig struct {
	Field    FieldConfig   `yaml:"field"`
	Paddles  PongPaddles   `yaml:"paddles"`
	Puck     PongPuck      `yaml:"puck"`
	Gameplay PongGameplay  `yaml:"gameplay"`
	Display  DisplayConfig `yaml:"display"`
}

// FieldConfig defines playground dimensions in pixels.
type FieldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Depth  int `yaml:"depth"`
}

// PongPaddles defines paddle geometry and movement.
type PongPaddles struct {
	Offset    int     `yaml:"offset"`     // Distance of the paddle column from the edge
	Thickness int     `yaml:"thickness"`  // Drawn width of a paddle
	Radius    float64 `yaml:"radius"`     // Half of the paddle length; 0 = height/4
	MinRadius float64 `yaml:"min_radius"` // At or below this, levels speed up the puck instead
	Shrink    float64 `yaml:"shrink"`     // Radius reduction per level
	Step      float64 `yaml:"step"`       // Movement per key press
}

// PongPuck defines puck movement and shape.
type PongPuck struct {
	Speed      float64 `yaml:"speed"`      // Initial horizontal speed
	SpeedUp    float64 `yaml:"speed_up"`   // Added to |dx| per level once paddles are minimal
	Deflection float64 `yaml:"deflection"` // Max cross speed after a paddle hit
	RadiusX    float64 `yaml:"radius_x"`
	RadiusY    float64 `yaml:"radius_y"`
	RadiusZ    float64 `yaml:"radius_z"`
}

// PongGameplay defines scoring rules and pacing.
type PongGameplay struct {
	WinScore     int `yaml:"win_score"`      // 0 = endless
	FrameDelayMS int `yaml:"frame_delay_ms"` // Pause between ticks
}

// SnakeConfig contains all configuration for two-player snake.
type SnakeConfig struct {
	Field    FieldConfig   `yaml:"field"`
	Gameplay SnakeGameplay `yaml:"gameplay"`
	Colors   SnakeColors   `yaml:"colors"`
	Display  DisplayConfig `yaml:"display"`
}

// SnakeGameplay defines snake growth and pacing.
type SnakeGameplay struct {
	PixelSize     int `yaml:"pixel_size"`
	FoodCalories  int `yaml:"food_calories"`
	MaxFood       int `yaml:"max_food"`
	InitialLength int `yaml:"initial_length"` // Segments kept beyond the score
	FrameDelayMS  int `yaml:"frame_delay_ms"`
}

// SnakeColors defines the intensity used for each element.
type SnakeColors struct {
	Frame   float32 `yaml:"frame"`
	Player1 float32 `yaml:"player1"`
	Player2 float32 `yaml:"player2"`
	Food    float32 `yaml:"food"`
}

// ArcadeConfig contains all configuration for the cell counting arcade.
type ArcadeConfig struct {
	Field    FieldConfig    `yaml:"field"`
	Cells    ArcadeCells    `yaml:"cells"`
	Gameplay ArcadeGameplay `yaml:"gameplay"`
	Display  DisplayConfig  `yaml:"display"`
}

// ArcadeCells defines the synthetic specimen.
type ArcadeCells struct {
	Count        int     `yaml:"count"`
	MinRadius    int     `yaml:"min_radius"`
	MaxRadius    int     `yaml:"max_radius"`
	ExpandRadius int     `yaml:"expand_radius"` // Distance cells extend beyond nuclei
	Intensity    float32 `yaml:"intensity"`
}

// ArcadeGameplay defines ship and bullet behaviour.
type ArcadeGameplay struct {
	FOVFraction  float64 `yaml:"fov_fraction"` // Visible share of the specimen width
	PlayerStep   float64 `yaml:"player_step"`
	BulletSpeed  float64 `yaml:"bullet_speed"`
	BulletRadius float64 `yaml:"bullet_radius"`
	SweepSpeed   int     `yaml:"sweep_speed"` // Field of view pixels per tick
	FrameDelayMS int     `yaml:"frame_delay_ms"`
}

// PuzzleConfig contains all configuration for the sliding puzzle.
// Field sets the size of the synthetic picture; a Source image overrides it.
type PuzzleConfig struct {
	Source   string         `yaml:"source"` // Optional PNG or JPEG to slice
	Field    FieldConfig    `yaml:"field"`
	Gameplay PuzzleGameplay `yaml:"gameplay"`
	Display  DisplayConfig  `yaml:"display"`
}

// PuzzleGameplay defines tiling and shuffling.
type PuzzleGameplay struct {
	PatchSize     int `yaml:"patch_size"`
	ShuffleLength int `yaml:"shuffle_length"`
	FrameDelayMS  int `yaml:"frame_delay_ms"`
}

// DisplayConfig maps onto core.Display.
type DisplayConfig struct {
	Colormap    string  `yaml:"colormap"`
	ContrastMin float32 `yaml:"contrast_min"`
	ContrastMax float32 `yaml:"contrast_max"`
}
