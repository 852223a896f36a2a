package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/natari/internal/engine"
	"github.com/vovakirdan/natari/internal/platform/tui"
	"github.com/vovakirdan/natari/internal/storage"
)

var (
	flagTicks int
	flagWidth int
	flagSave  bool
)

var runCmd = &cobra.Command{
	Use:   "run <game>",
	Short: "Step a game headless and print the final frame",
	Long: `Run a game for a fixed number of ticks without input or a terminal UI,
then print the last frame as ASCII art together with the scores.

With the same --seed the output is identical on every run.

Examples:
  natari run pong --ticks 200
  natari run arcade --ticks 1000 --seed 3
  natari run puzzle --ticks 60 --width 60`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagTicks, "ticks", 100, "Number of ticks to run")
	runCmd.Flags().IntVar(&flagWidth, "width", 0, "Output width in characters (0 = terminal width)")
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Record the result in the scores database")
}

func runRun(_ *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	game, err := createGame(args[0])
	if err != nil {
		return err
	}

	width := flagWidth
	if width <= 0 {
		width = 80
		if w, _, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
		}
	}

	driver := engine.NewDriver(game, nil, runtimeConfig(), engine.WithLogger(logger))
	frame := driver.RunTicks(flagTicks)
	logger.Debug("run finished", "game", game.ID(), "ticks", frame.Tick)

	fmt.Println(tui.RenderASCII(frame.Buffer, frame.Display, width))
	fmt.Println()
	fmt.Printf("%s after %d ticks\n", game.Title(), frame.Tick)
	for i, s := range frame.State.Scores {
		fmt.Printf("  Player %d: %d\n", i+1, s)
	}
	if frame.State.Status != "" {
		fmt.Printf("  %s\n", frame.State.Status)
	}

	if !flagSave {
		return nil
	}
	store := openStore(logger)
	if store == nil {
		return fmt.Errorf("cannot save: scores database unavailable")
	}
	defer store.Close()

	id, err := store.Record(storage.Round{
		GameID:  game.ID(),
		Players: game.Players(),
		Mode:    "headless",
		State:   frame.State,
		Ticks:   frame.Tick,
	})
	if err != nil {
		return fmt.Errorf("cannot save result: %w", err)
	}
	if id != "" {
		fmt.Printf("  Match %s (natari scores %s --match %s)\n", id, game.ID(), id)
	}
	return nil
}
