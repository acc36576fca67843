// Package cmd provides the CLI commands for timegraph.
package cmd

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-timegraph/internal/config"
	"github.com/wethinkt/go-timegraph/internal/i18n"
	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// global flags
var (
	profileFile *os.File // held open for profiling
	logPath     string
	verbose     bool
	outputJSON  bool
)

// appConfig is loaded before any command runs.
var appConfig = config.Default()

// rootCmd is the root command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "timegraph",
	Short: "Explore time graphs of hierarchical trace entries",
	Long: `timegraph shows entry forests on a shared time axis in the terminal.

A forest file is JSON lines, one entry per line:
  {"id":"cpu0","name":"CPU 0","start":1000,"end":5000}
  {"id":"irq","parent":"cpu0","start":2000,"end":2500}

Running with a file and no subcommand opens the timeline view.

Commands:
  view      Open the timeline view (default)
  inspect   Print the bounds and entries of a forest file
  sync      Run the relay that keeps several views in step

Examples:
  timegraph trace.jsonl                 # Open a forest file
  timegraph view --watch trace.jsonl    # Reload when the file changes
  timegraph sync serve &                # Start a relay
  timegraph view --sync a.jsonl         # Views started with --sync share their window`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Start pprof profiling if TIMEGRAPH_PROFILE is set
		if profilePath := os.Getenv("TIMEGRAPH_PROFILE"); profilePath != "" {
			f, err := os.Create(profilePath)
			if err != nil {
				return fmt.Errorf("create profile file: %w", err)
			}
			profileFile = f

			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				profileFile = nil
				return fmt.Errorf("start CPU profile: %w", err)
			}
		}
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		// Stop CPU profiling
		if profileFile != nil {
			pprof.StopCPUProfile()
			profileFile.Close()
			profileFile = nil
		}
		return tuilog.Log.Close()
	},
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

// setup loads the config and initializes logging and translations.
func setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	if err := tuilog.Init(logPath); err != nil {
		return err
	}
	levelName := cfg.LogLevel
	if verbose {
		levelName = "debug"
	}
	level, err := tuilog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	tuilog.Log.SetLevel(level)

	i18n.Init(i18n.ResolveLocale(cfg.Language))
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags on root
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug log level)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write log to file")

	// The root command runs the view directly
	addViewFlags(rootCmd)
	addViewFlags(viewCmd)

	inspectCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "", "time format (relative|absolute|calendar|cycles)")

	syncServeCmd.Flags().StringVar(&syncHost, "host", "", "relay host (default from config)")
	syncServeCmd.Flags().IntVarP(&syncPort, "port", "p", 0, "relay port (default from config)")
	syncServeCmd.Flags().StringVar(&syncToken, "token", "", "bearer token required from views (default: "+envSyncToken+" env var)")
	syncServeCmd.Flags().StringSliceVar(&syncOrigins, "origin", nil, "allowed browser origin host patterns (default localhost:*, 127.0.0.1:*)")
	syncServeCmd.Flags().BoolVarP(&syncQuiet, "quiet", "q", false, "suppress HTTP request logging")
	syncStatusCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	syncCmd.AddCommand(syncServeCmd)
	syncCmd.AddCommand(syncStatusCmd)

	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeSetCmd)
	themeListCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(languageCmd)
	rootCmd.AddCommand(versionCmd)
}
