package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/natari/internal/registry"
	"github.com/vovakirdan/natari/internal/storage"
)

var (
	flagLimit int
	flagClear bool
	flagMatch string
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores or matches for a game",
	Long: `Display the top scores of a single-player game, or the most recent
matches of a two-player game, with overall statistics.

Examples:
  natari scores arcade
  natari scores pong --limit 20
  natari scores snake --clear
  natari scores pong --match 6f1c...   # details of one match`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and matches for the game")
	scoresCmd.Flags().StringVar(&flagMatch, "match", "", "Show the details of one match by its ID")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := args[0]

	var info registry.GameInfo
	for _, g := range registry.List() {
		if g.ID == gameID {
			info = g
		}
	}
	if info.ID == "" {
		return fmt.Errorf("unknown game %q (run 'natari list' to see available games)", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared all records for %s.\n", info.Title)
		return nil
	}

	if flagMatch != "" {
		return printMatch(store, info, flagMatch)
	}

	if info.Players > 1 {
		err = printMatches(store, info)
	} else {
		err = printScores(store, info)
	}
	if err != nil {
		return err
	}

	stats, err := store.GameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	if info.Players > 1 {
		fmt.Printf("Matches: %d  Player 1 wins: %d  Player 2 wins: %d\n", stats.Matches, stats.Wins[0], stats.Wins[1])
	} else {
		fmt.Printf("Best: %d  Games: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func printScores(store *storage.Store, info registry.GameInfo) error {
	scores, err := store.TopScores(info.ID, flagLimit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Printf("Play 'natari play %s' to set the first high score!\n", info.ID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printMatch(store *storage.Store, info registry.GameInfo, matchID string) error {
	m, err := store.MatchByID(matchID)
	if err != nil {
		return fmt.Errorf("error retrieving match: %w", err)
	}
	if m == nil || m.GameID != info.ID {
		return fmt.Errorf("no %s match with ID %s", info.Title, matchID)
	}

	winner := "draw"
	if m.Winner > 0 {
		winner = fmt.Sprintf("Player %d", m.Winner)
	}
	fmt.Printf("Match %s - %s\n", m.MatchID, info.Title)
	fmt.Println()
	fmt.Printf("  Played:   %s (%s)\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Mode)
	fmt.Printf("  Score:    %d : %d\n", m.Score1, m.Score2)
	fmt.Printf("  Winner:   %s\n", winner)
	fmt.Printf("  End:      %s\n", m.EndReason)
	fmt.Printf("  Ticks:    %d\n", m.Ticks)
	fmt.Printf("  Duration: %s\n", time.Duration(m.Duration)*time.Second)
	return nil
}

func printMatches(store *storage.Store, info registry.GameInfo) error {
	matches, err := store.RecentMatches(info.ID, flagLimit)
	if err != nil {
		return fmt.Errorf("error retrieving matches: %w", err)
	}

	fmt.Printf("Recent Matches - %s\n", info.Title)
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Printf("Play 'natari play %s' with a friend!\n", info.ID)
		return nil
	}

	fmt.Printf("  %-16s  %-5s  %-5s  %-6s  %-9s  %s\n", "Date", "P1", "P2", "Winner", "End", "Mode")
	fmt.Printf("  %-16s  %-5s  %-5s  %-6s  %-9s  %s\n", "----", "--", "--", "------", "---", "----")
	for _, m := range matches {
		winner := "draw"
		if m.Winner > 0 {
			winner = fmt.Sprintf("P%d", m.Winner)
		}
		fmt.Printf("  %-16s  %-5d  %-5d  %-6s  %-9s  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.Score1, m.Score2, winner, m.EndReason, m.Mode)
	}
	return nil
}
