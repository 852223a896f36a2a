package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	pong, err := LoadPong("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPongConfig(), pong)

	pong3d, err := LoadPong3D("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPong3DConfig(), pong3d)

	snake, err := LoadSnake("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSnakeConfig(), snake)

	arcade, err := LoadArcade("")
	require.NoError(t, err)
	assert.Equal(t, DefaultArcadeConfig(), arcade)

	puzzle, err := LoadPuzzle("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPuzzleConfig(), puzzle)
}

func TestLoadCustomPathOverridesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gameplay:\n  pixel_size: 20\n"), 0o600))

	cfg, err := LoadSnake(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Gameplay.PixelSize)
	// Unspecified fields keep their defaults
	assert.Equal(t, 5, cfg.Gameplay.FoodCalories)
	assert.Equal(t, 640, cfg.Field.Width)
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := LoadPong(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("field: [not, a, map"), 0o600))
	_, err = LoadPong(bad)
	assert.Error(t, err)
}

func TestLoadUserConfigDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".natari", "configs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "puzzle.yaml"), []byte("gameplay:\n  patch_size: 50\n"), 0o600))

	cfg, err := LoadPuzzle("")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Gameplay.PatchSize)
	assert.Equal(t, 50, cfg.Gameplay.ShuffleLength)
}

func TestPresets(t *testing.T) {
	assert.Equal(t, DifficultyNormal, ParsePreset(""))
	assert.Equal(t, DifficultyHard, ParsePreset("hard"))

	pong := DefaultPongConfig()
	ApplyPongPreset(&pong, DifficultyHard)
	assert.Less(t, pong.Paddles.Radius, DefaultPongConfig().Paddles.Radius)
	assert.Greater(t, pong.Puck.Speed, DefaultPongConfig().Puck.Speed)

	normal := DefaultSnakeConfig()
	ApplySnakePreset(&normal, DifficultyNormal)
	assert.Equal(t, DefaultSnakeConfig(), normal)

	puzzle := DefaultPuzzleConfig()
	ApplyPuzzlePreset(&puzzle, DifficultyEasy)
	assert.Equal(t, 10, puzzle.Gameplay.ShuffleLength)
}
