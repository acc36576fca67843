package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-timegraph/internal/config"
	"github.com/wethinkt/go-timegraph/internal/forest"
	"github.com/wethinkt/go-timegraph/internal/syncbus"
	"github.com/wethinkt/go-timegraph/internal/timegraph"
	"github.com/wethinkt/go-timegraph/internal/tui"
	"github.com/wethinkt/go-timegraph/internal/tui/theme"
	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// envSyncToken supplies the relay token when --token is not given.
const envSyncToken = "TIMEGRAPH_SYNC_TOKEN"

// View command flags
var (
	viewWatch  bool
	viewSync   bool
	viewRelay  string
	viewToken  string
	viewFormat string
)

var viewCmd = &cobra.Command{
	Use:   "view <forest.jsonl>",
	Short: "Open the timeline view",
	Long: `Open a forest file in the interactive timeline.

With --sync the view joins a relay (see 'timegraph sync serve'): the
visible window, the selected time and the selected entry are shared with
every other view on the same relay. The relay is found through the
registry in ~/.timegraph unless --relay names one.

Examples:
  timegraph view trace.jsonl
  timegraph view --watch --format absolute trace.jsonl
  timegraph view --sync --relay localhost:7433 trace.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "reload the file when it changes")
	cmd.Flags().BoolVarP(&viewSync, "sync", "s", false, "share the view through the sync relay")
	cmd.Flags().StringVar(&viewRelay, "relay", "", "relay address host:port (implies --sync)")
	cmd.Flags().StringVar(&viewToken, "token", "", "relay bearer token (default: "+envSyncToken+" env var)")
	cmd.Flags().StringVarP(&viewFormat, "format", "f", "", "time format (relative|absolute|calendar|cycles)")
}

func runView(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	path := args[0]

	res, err := forest.Load(path)
	if err != nil {
		return err
	}
	opts, err := appConfig.Viewport.Options()
	if err != nil {
		return err
	}
	if viewFormat != "" {
		if opts.TimeFormat, err = timegraph.ParseTimeFormat(viewFormat); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tcfg := tui.TimelineConfig{
		Path:     path,
		Result:   res,
		Viewport: opts,
		Theme:    theme.Current(),
	}

	if viewWatch {
		w, err := forest.NewWatcher(path, forest.DefaultDebounce)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		defer w.Stop()
		tcfg.Reloads = w.Start(ctx)
	}

	if viewSync || viewRelay != "" {
		client, err := dialRelay(ctx)
		if err != nil {
			return err
		}
		defer client.Close()
		go func() {
			if err := client.Run(ctx); err != nil {
				tuilog.Log.Warn("Sync relay connection lost", "error", err)
			}
		}()
		tcfg.Transport = client
	}

	tuilog.Log.Info("Starting timeline", "path", path, "entries", res.Forest.Len(), "synced", tcfg.Transport != nil)
	err = tui.RunTimeline(ctx, tcfg)
	tuilog.Log.Info("Timeline exited", "error", err)
	return err
}

// relayAddr picks the relay to join: the flag, then the newest live relay
// in the registry, then the configured address.
func relayAddr() string {
	if viewRelay != "" {
		return viewRelay
	}
	if r := config.FindRelay(); r != nil {
		return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
	}
	return appConfig.Sync.Addr()
}

func dialRelay(ctx context.Context) (*syncbus.Client, error) {
	token := viewToken
	if token == "" {
		token = os.Getenv(envSyncToken)
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	return syncbus.Dial(dialCtx, syncbus.URL(relayAddr()), token)
}
