package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kushl/cmd/kushl/dashboard"
	"kushl/internal/api"
	"kushl/internal/config"
	"kushl/internal/logging"
	"kushl/internal/store"
	"kushl/internal/voice"
)

const version = "1.0.0"

var (
	// Global flags
	configPath string
	serverURL  string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd launches the interactive dashboard when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "kushl",
	Short: "kushl - terminal dashboard for the KushlBot chat server",
	Long: `kushl is a terminal client for a KushlBot chat server.

It shows your chat sessions in a sidebar, streams the open conversation
in a scrollable transcript, and supports dictation via an external
speech-to-text command.

Run without arguments to open the dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional and never overrides the real environment.
		_ = godotenv.Load()

		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if serverURL != "" {
			cfg.Server.BaseURL = serverURL
		}

		// The dashboard has its own file logger; zap is for the plain
		// CLI subcommands.
		if cmd.CalledAs() == "kushl" {
			return nil
		}
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// sessionsCmd lists chat sessions without opening the TUI.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List chat sessions on the server",
	RunE:  listSessions,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kushl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kushl %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.kushl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Chat server base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDashboard() error {
	logging.Initialize(logging.Options{
		Dir:       cfg.LogDir(),
		Debug:     cfg.Logging.Debug,
		Level:     cfg.Logging.Level,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
	})
	defer logging.CloseAll()
	logging.Boot("kushl %s starting, server %s", version, cfg.Server.BaseURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(cfg.Server.BaseURL, cfg.RequestTimeout())

	var opts []dashboard.Option
	local, err := store.Open(filepath.Join(config.StateDir(), "kushl.db"))
	if err != nil {
		// The dashboard works without local state, just with no input
		// history across restarts.
		logging.Boot("local store unavailable: %v", err)
	} else {
		defer local.Close()
		opts = append(opts, dashboard.WithLocalStore(local))
	}
	if cfg.Voice.Command != "" {
		opts = append(opts, dashboard.WithVoice(voice.NewCommandRecognizer(cfg.Voice.Command)))
	}

	model := dashboard.NewModel(ctx, cfg, client, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen())

	watchPath := configPath
	if watchPath == "" {
		watchPath = config.DefaultPath()
	}
	go func() {
		err := config.Watch(ctx, watchPath, func(updated *config.Config) {
			p.Send(dashboard.ConfigReloadedMsg{Config: updated})
		})
		if err != nil && ctx.Err() == nil {
			logging.Boot("config watcher stopped: %v", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	logging.Boot("kushl shutting down")
	return nil
}

func listSessions(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()

	client := api.NewClient(cfg.Server.BaseURL, cfg.RequestTimeout())
	logger.Debug("fetching session list", zap.String("server", cfg.Server.BaseURL))

	sessions, err := client.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No chat sessions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tMESSAGES\tUPDATED")
	for _, s := range sessions {
		updated := ""
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Local().Format(time.RFC822)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Title, s.MessageCount, updated)
	}
	return w.Flush()
}
