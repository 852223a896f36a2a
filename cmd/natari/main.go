// natari is a collection of small terminal games rendered from intensity
// buffers, the way a microscopy viewer shows images.
//
// Usage:
//
//	natari list                   - List available games
//	natari play <game>            - Play a game
//	natari run <game> --ticks N   - Step a game headless and print the last frame
//	natari menu                   - Start menu to pick games interactively
//	natari serve                  - Start SSH server for remote play
//	natari scores <game>          - Show high scores or matches for a game
//
// Global flags:
//
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.natari/scores.db)
//	--log-file <path>   - Write logs to a file
//	--verbose           - Log debug messages
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/natari/internal/games/arcade"
	_ "github.com/vovakirdan/natari/internal/games/pong"
	_ "github.com/vovakirdan/natari/internal/games/puzzle"
	_ "github.com/vovakirdan/natari/internal/games/snake"
)

var (
	// Global flags
	flagSeed    int64
	flagDBPath  string
	flagLogFile string
	flagVerbose bool

	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "natari",
	Short: "natari - arcade games drawn as microscopy images",
	Long: `natari runs small demo games whose every frame is an intensity image:
ping-pong in 2D and 3D, two-player snake, a cell counting shooter and a
sliding puzzle.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  run      - Step a game without a terminal UI
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores and matches

Examples:
  natari list
  natari play pong
  natari play snake --difficulty hard
  natari run arcade --ticks 500 --seed 7
  natari serve --ssh :2222
  natari scores puzzle`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.natari/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log debug messages")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the command's logger. Logs go to --log-file when set,
// otherwise to fallback; full-screen commands pass io.Discard so logs do not
// tear the display.
func newLogger(fallback io.Writer) (*log.Logger, error) {
	w := fallback
	if flagLogFile != "" && logFile == nil {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
	}
	if logFile != nil {
		w = logFile
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "natari",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, nil
}
