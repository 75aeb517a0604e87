package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blgtrack/vlrsync/internal/config"
	"github.com/blgtrack/vlrsync/internal/live"
	"github.com/blgtrack/vlrsync/internal/logger"
	"github.com/blgtrack/vlrsync/internal/relay"
	"github.com/blgtrack/vlrsync/internal/scraper"
	"github.com/blgtrack/vlrsync/internal/storage"
	"github.com/blgtrack/vlrsync/internal/sync"
)

const scheduleURL = "https://esports-api.service.valorantesports.com/persisted/val/getSchedule?hl=en-US&sport=val&leagueId=111691194187846945"

var (
	flagLimit       int
	flagBaseURL     string
	flagListingPath string
	flagMarker      string
	flagFormat      string
	flagDataDir     string
	flagVerbose     bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vlrsync",
		Short: "Sync recent match agent compositions for the tracked team from vlr.gg",
		Long: `Fetches the tracked team's recent matches from vlr.gg, extracts per-map
agent compositions and round scores, and prints the keyed result set.
Parsing is best-effort: unrecoverable candidates and segments are skipped
rather than failing the run.`,
		RunE: runSync,
	}

	cmd.Flags().IntVar(&flagLimit, "limit", sync.DefaultLimit, "Max candidates to process (hard cap 20)")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", scraper.BaseURL, "Upstream site origin")
	cmd.Flags().StringVar(&flagListingPath, "listing-path", sync.DefaultListingPath, "Team match-listing path")
	cmd.Flags().StringVar(&flagMarker, "marker", sync.DefaultMarker, "Tracked-team marker token")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "~/.local/share/vlrsync", "Data directory for the previous outcome")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newServeCmd())

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	level := "warn"
	if flagVerbose {
		level = "debug"
	}
	log := logger.New(level)

	store, err := storage.New(flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	previous, err := store.LoadOutcome()
	if err != nil {
		return fmt.Errorf("loading previous outcome: %w", err)
	}

	client := scraper.NewClientWithBase(flagBaseURL)
	runner := sync.NewRunner(client, log).WithListing(flagListingPath, flagMarker)

	outcome, err := runner.Run(cmd.Context(), sync.Options{Limit: flagLimit})
	if err != nil {
		return fmt.Errorf("running sync: %w", err)
	}

	if err := store.SaveOutcome(outcome); err != nil {
		return fmt.Errorf("saving outcome: %w", err)
	}

	return WriteOutput(cmd.OutOrStdout(), outcome, storage.NewKeys(previous, outcome), format)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the relay/sync HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.LogLevel)
	client := scraper.NewClient()
	runner := sync.NewRunner(client, log)

	addr := fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port)
	server := relay.New(addr, runner, cfg.EsportsAPIKey, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PollInterval > 0 {
		poller := live.NewPoller(
			scheduleFetcher(cfg.EsportsAPIKey),
			&live.LogNotifier{Logger: log},
			cfg.PollInterval,
			log,
			sync.DefaultMarker, "blg",
		)
		go poller.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Stop(shutdownCtx)
}

// scheduleFetcher builds the live poller's fetch function against the
// esports schedule API.
func scheduleFetcher(apiKey string) live.FetchFunc {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	return func(ctx context.Context) (*live.Schedule, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, scheduleURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("x-api-key", apiKey)

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching schedule: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("schedule API returned status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading schedule body: %w", err)
		}
		return live.DecodeSchedule(body)
	}
}
