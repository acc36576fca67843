package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-timegraph/internal/config"
	"github.com/wethinkt/go-timegraph/internal/syncbus"
	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// dialTimeout bounds connecting to a relay.
const dialTimeout = 5 * time.Second

// Sync command flags
var (
	syncHost  string
	syncPort  int
	syncToken   string
	syncOrigins []string
	syncQuiet   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run and inspect the view sync relay",
	Long: `The sync relay forwards window, time and entry selections between
timeline views started with --sync.`,
}

var syncServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync relay",
	Long: `Run the sync relay in the foreground until interrupted.

The relay registers itself in ~/.timegraph/relays.json so views find it
without --relay. It also serves /healthz and Prometheus /metrics.

Examples:
  timegraph sync serve
  timegraph sync serve --port 9000 --token s3cret`,
	Args: cobra.NoArgs,
	RunE: runSyncServe,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List running sync relays",
	Args:  cobra.NoArgs,
	RunE:  runSyncStatus,
}

func runSyncServe(cmd *cobra.Command, args []string) error {
	cfg := syncbus.ServerConfig{
		Host:    appConfig.Sync.Host,
		Port:    appConfig.Sync.Port,
		Token:   syncToken,
		Origins: syncOrigins,
		Quiet:   syncQuiet,
	}
	if syncHost != "" {
		cfg.Host = syncHost
	}
	if syncPort != 0 {
		cfg.Port = syncPort
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv(envSyncToken)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := syncbus.NewServer(cfg, nil)
	fmt.Fprintf(cmd.OutOrStdout(), "Sync relay on %s\n", syncbus.URL(srv.Addr()))
	if cfg.Token != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Views must pass the token with --token or "+envSyncToken)
	}

	err := srv.ListenAndServe(ctx)
	tuilog.Log.Info("Sync relay stopped", "error", err)
	return err
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	relays, err := config.ListRelays()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if outputJSON {
		if relays == nil {
			relays = []config.Relay{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(relays)
	}
	if len(relays) == 0 {
		fmt.Fprintln(out, "No sync relay running")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tADDRESS\tSTARTED")
	for _, r := range relays {
		fmt.Fprintf(w, "%d\t%s:%d\t%s\n", r.PID, r.Host, r.Port, r.StartedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}
