package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/natari/internal/core"
	"github.com/vovakirdan/natari/internal/games/arcade"
	"github.com/vovakirdan/natari/internal/games/pong"
	"github.com/vovakirdan/natari/internal/games/puzzle"
	"github.com/vovakirdan/natari/internal/games/snake"
	"github.com/vovakirdan/natari/internal/platform/tui"
	"github.com/vovakirdan/natari/internal/registry"
	"github.com/vovakirdan/natari/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagDelay      int
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls (press ? in game for the full list):
  pong     - W/S left paddle, I/K or Up/Down right paddle
  pong3d   - as pong, plus A/D and J/L or Left/Right for depth
  snake    - WASD player 1, IJKL or arrows player 2
  arcade   - 1/2 or Left/Right move, 9 or Space fire
  puzzle   - WASD or arrows slide, R random move, F find home
  P        - Pause
  Shift+R  - Restart
  Esc/Q    - Quit

Difficulty options:
  easy, normal, hard

Examples:
  natari play pong
  natari play snake --difficulty hard
  natari play puzzle --config ./my-puzzle.yaml
  natari play arcade --delay 30`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	for _, c := range []*cobra.Command{playCmd, runCmd, menuCmd} {
		c.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
		c.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
		c.Flags().IntVar(&flagDelay, "delay", 0, "Milliseconds between ticks (0 = game default)")
	}
}

// configureGame applies --config and --difficulty to the package that
// implements gameID. It must run before the game is created.
func configureGame(gameID string) {
	switch gameID {
	case "pong", "pong3d":
		pong.SetConfigPath(flagConfig)
		pong.SetDifficultyPreset(flagDifficulty)
	case "snake":
		snake.SetConfigPath(flagConfig)
		snake.SetDifficultyPreset(flagDifficulty)
	case "arcade":
		arcade.SetConfigPath(flagConfig)
		arcade.SetDifficultyPreset(flagDifficulty)
	case "puzzle":
		puzzle.SetConfigPath(flagConfig)
		puzzle.SetDifficultyPreset(flagDifficulty)
	}
}

// createGame configures and instantiates a registered game.
func createGame(gameID string) (registry.Game, error) {
	if !registry.Exists(gameID) {
		return nil, fmt.Errorf("unknown game %q (run 'natari list' to see available games)", gameID)
	}
	configureGame(gameID)
	return registry.Create(gameID)
}

// runtimeConfig builds the driver configuration from global flags.
func runtimeConfig() core.RuntimeConfig {
	return core.RuntimeConfig{
		Seed:       flagSeed,
		FrameDelay: time.Duration(flagDelay) * time.Millisecond,
	}
}

// openStore opens the scores database, continuing without one on failure.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	logger, err := newLogger(io.Discard)
	if err != nil {
		return err
	}

	game, err := createGame(args[0])
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	logger.Info("starting game", "game", game.ID(), "seed", flagSeed, "difficulty", flagDifficulty)
	if err := tui.Run(game, tui.Options{
		Store:  store,
		Logger: logger,
		Config: runtimeConfig(),
	}); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
