package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/natari/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start natari with a game picker menu",
	Long: `Start natari in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  natari menu
  natari menu --difficulty easy
  natari menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(io.Discard)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	for {
		result, err := tui.RunMenu(width, height)
		if err != nil {
			return err
		}
		width, height = result.Width, result.Height

		if result.Quit || (result.GameID == "" && !result.WantsScoreboard) {
			return nil
		}

		if result.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, width, height)
			if sbErr != nil {
				return sbErr
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := createGame(result.GameID)
		if err != nil {
			logger.Error("could not create game", "game", result.GameID, "error", err)
			continue
		}

		cfg := runtimeConfig()
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		logger.Info("starting game", "game", game.ID(), "seed", cfg.Seed)

		if err := tui.Run(game, tui.Options{Store: store, Logger: logger, Config: cfg}); err != nil {
			return fmt.Errorf("error running game: %w", err)
		}
	}
}
