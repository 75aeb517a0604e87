package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blgtrack/vlrsync/internal/match"
	"github.com/blgtrack/vlrsync/internal/scraper"
	"github.com/blgtrack/vlrsync/internal/team"
)

const (
	// DefaultListingPath is the tracked team's match-listing page.
	DefaultListingPath = "/team/matches/12010/bilibili-gaming/"
	// DefaultMarker identifies the tracked team in paths and page text.
	DefaultMarker = "bilibili"
	// DefaultLimit is the number of candidates processed when the caller
	// doesn't ask for a specific amount.
	DefaultLimit = 10
	// MaxCandidates is a hard ceiling on candidates per run, independent of
	// the requested limit, bounding total upstream load.
	MaxCandidates = 20
	// DefaultDelay is the pause before each detail fetch.
	DefaultDelay = 500 * time.Millisecond
)

// Options configures one run.
type Options struct {
	// Limit caps how many candidates are fetched. Zero or negative means
	// DefaultLimit; anything above MaxCandidates is clamped.
	Limit int
}

// Runner executes extraction runs. Runs are independent; the runner keeps no
// state between them.
type Runner struct {
	client      *scraper.Client
	logger      zerolog.Logger
	listingPath string
	marker      string
	delay       time.Duration
}

// NewRunner creates a Runner for the tracked team.
func NewRunner(client *scraper.Client, logger zerolog.Logger) *Runner {
	return &Runner{
		client:      client,
		logger:      logger,
		listingPath: DefaultListingPath,
		marker:      DefaultMarker,
		delay:       DefaultDelay,
	}
}

// WithListing overrides the listing path and marker, for tracking a
// different team.
func (r *Runner) WithListing(path, marker string) *Runner {
	r.listingPath = path
	r.marker = marker
	return r
}

// WithDelay overrides the inter-request pause. Tests shrink it.
func (r *Runner) WithDelay(d time.Duration) *Runner {
	r.delay = d
	return r
}

// Run performs one extraction run. It returns an error only when the listing
// fetch itself fails; every per-candidate problem is recovered by skipping
// that candidate.
func (r *Runner) Run(ctx context.Context, opts Options) (*match.Outcome, error) {
	listingHTML, err := r.client.FetchListing(ctx, r.listingPath)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}

	candidates := scraper.ParseListing(listingHTML, r.marker)

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxCandidates {
		limit = MaxCandidates
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}
	toFetch := candidates[:limit]

	outcome := match.NewOutcome()
	outcome.Fetched = len(toFetch)

	for _, cand := range toFetch {
		if err := r.pause(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("run interrupted during pause")
			break
		}
		r.processCandidate(ctx, cand, outcome)
	}

	outcome.Finish(time.Now())
	r.logger.Info().
		Int("fetched", outcome.Fetched).
		Int("count", outcome.Count).
		Msg("extraction run complete")
	return outcome, nil
}

// pause waits the inter-request delay, or returns early when the context is
// cancelled.
func (r *Runner) pause(ctx context.Context) error {
	timer := time.NewTimer(r.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// processCandidate fetches and extracts one match. All failure modes,
// including panics from unexpected markup, degrade to skipping the candidate.
func (r *Runner) processCandidate(ctx context.Context, cand scraper.Candidate, outcome *match.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Str("match_id", cand.ID).
				Interface("panic", rec).
				Msg("candidate processing panicked, skipping")
		}
	}()

	pageHTML, err := r.client.FetchDetail(ctx, cand.Path)
	if err != nil {
		r.logger.Warn().Str("match_id", cand.ID).Err(err).Msg("detail fetch failed, skipping")
		return
	}

	date := scraper.MatchDate(pageHTML)
	if date == "" {
		r.logger.Debug().Str("match_id", cand.ID).Msg("no match date on page, skipping")
		return
	}

	names := scraper.TeamNames(pageHTML)
	trackedIdx := scraper.TrackedIndex(names, r.marker)
	if trackedIdx == -1 {
		r.logger.Debug().Str("match_id", cand.ID).Msg("tracked team not on page, skipping")
		return
	}

	other := 0
	if trackedIdx == 0 {
		other = 1
	}
	opponent := "Unknown"
	if other < len(names) {
		opponent = names[other]
	}

	maps := scraper.ParseMatchDetail(pageHTML)
	if trackedIdx == 1 {
		match.SwapSides(maps)
	}

	outcome.Add(date, team.Resolve(opponent), cand.ID, match.Match{Maps: maps})
}
