package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/natari/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagLobbyWait   time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the natari SSH server",
	Long: `Start an SSH server that allows users to connect and play games.

Each SSH connection gets its own session with a game picker menu.
Scores are stored per server (all users share the same leaderboard).
Two-player games can be played online: one session hosts a lobby (press O
in the menu) and shares the join code, the other joins with it.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.natari/host_key

Examples:
  natari serve                           # Listen on :23234 with auto-generated key
  natari serve --ssh :2222               # Listen on port 2222
  natari serve --host-key ./my_host_key  # Use specific host key
  natari serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().DurationVar(&flagLobbyWait, "lobby-timeout", 2*time.Minute, "How long an online lobby waits for an opponent")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	logger.SetPrefix("natari-ssh")

	cfg := tui.SSHServerConfig{
		Address:      flagSSHAddr,
		HostKeyPath:  flagHostKey,
		DBPath:       flagDBPath,
		IdleTimeout:  time.Duration(flagIdleTimeout) * time.Minute,
		Seed:         flagSeed,
		LobbyTimeout: flagLobbyWait,
	}

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	fmt.Printf("Starting natari SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
