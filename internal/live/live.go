// Package live polls the esports schedule for a running match involving the
// tracked team and raises notifications on state transitions.
//
// The comparator is pure: the previous live state goes in, the next state
// comes out, and the caller owns threading it between polls. That keeps the
// none-to-live and live-to-none transitions testable without a network.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Schedule is the subset of the esports schedule API response the poller
// reads. Shape is validated at this boundary by the JSON decoder; anything
// missing decodes to zero values and simply never matches.
type Schedule struct {
	Data struct {
		Schedule struct {
			Events []ScheduleEvent `json:"events"`
		} `json:"schedule"`
	} `json:"data"`
}

// ScheduleEvent is one scheduled or running match.
type ScheduleEvent struct {
	State  string `json:"state"`
	League struct {
		Name string `json:"name"`
	} `json:"league"`
	Match struct {
		Teams []ScheduleTeam `json:"teams"`
	} `json:"match"`
}

// ScheduleTeam is a participant in a scheduled match.
type ScheduleTeam struct {
	Name string `json:"name"`
}

const stateInProgress = "inProgress"

// LiveMatch is the tracked team's currently running match.
type LiveMatch struct {
	League   string
	Opponent string
}

// Transition is a change in live state between two polls.
type Transition int

const (
	// TransitionNone means the state did not change.
	TransitionNone Transition = iota
	// TransitionStarted means a tracked-team match went live.
	TransitionStarted
	// TransitionEnded means the previously live match finished.
	TransitionEnded
)

// Check compares the schedule against the previous live state and returns
// the next state plus the transition, if any. Pure function; the caller
// threads prev between polls.
func Check(prev *LiveMatch, schedule *Schedule, markers ...string) (*LiveMatch, Transition) {
	next := findLive(schedule, markers)

	switch {
	case next != nil && prev == nil:
		return next, TransitionStarted
	case next == nil && prev != nil:
		return nil, TransitionEnded
	default:
		return next, TransitionNone
	}
}

// findLive locates an in-progress event involving the tracked team.
func findLive(schedule *Schedule, markers []string) *LiveMatch {
	if schedule == nil {
		return nil
	}
	for _, ev := range schedule.Data.Schedule.Events {
		if ev.State != stateInProgress {
			continue
		}
		if !teamMatches(ev.Match.Teams, markers) {
			continue
		}

		live := &LiveMatch{League: ev.League.Name, Opponent: "???"}
		for _, t := range ev.Match.Teams {
			if !nameMatches(t.Name, markers) && t.Name != "" {
				live.Opponent = t.Name
				break
			}
		}
		return live
	}
	return nil
}

func teamMatches(teams []ScheduleTeam, markers []string) bool {
	for _, t := range teams {
		if nameMatches(t.Name, markers) {
			return true
		}
	}
	return false
}

func nameMatches(name string, markers []string) bool {
	lower := strings.ToLower(name)
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// Notifier receives live-state transition notifications.
type Notifier interface {
	Notify(title, body string) error
}

// LogNotifier writes notifications to the log. Stands in for a push channel.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify logs the notification.
func (n *LogNotifier) Notify(title, body string) error {
	n.Logger.Info().Str("title", title).Str("body", body).Msg("live notification")
	return nil
}

// FetchFunc retrieves the current schedule.
type FetchFunc func(ctx context.Context) (*Schedule, error)

// Poller periodically checks the schedule and notifies on transitions.
type Poller struct {
	fetch    FetchFunc
	notifier Notifier
	logger   zerolog.Logger
	markers  []string
	interval time.Duration
	prev     *LiveMatch
}

// NewPoller creates a Poller. Markers identify the tracked team in schedule
// team names.
func NewPoller(fetch FetchFunc, notifier Notifier, interval time.Duration, logger zerolog.Logger, markers ...string) *Poller {
	return &Poller{
		fetch:    fetch,
		notifier: notifier,
		logger:   logger,
		markers:  markers,
		interval: interval,
	}
}

// Poll runs one fetch-compare-notify cycle.
func (p *Poller) Poll(ctx context.Context) error {
	schedule, err := p.fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching schedule: %w", err)
	}

	next, transition := Check(p.prev, schedule, p.markers...)
	switch transition {
	case TransitionStarted:
		p.notify("Match live", fmt.Sprintf("%s · vs %s", next.League, next.Opponent))
	case TransitionEnded:
		p.notify("Match finished", fmt.Sprintf("vs %s", p.prev.Opponent))
	}
	p.prev = next
	return nil
}

// Run polls until the context is cancelled. Poll errors are logged and the
// loop continues; a single failed poll carries no state change.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Poll(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("live poll failed")
			}
		}
	}
}

func (p *Poller) notify(title, body string) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(title, body); err != nil {
		p.logger.Warn().Err(err).Msg("notification failed")
	}
}

// DecodeSchedule parses a schedule API response body.
func DecodeSchedule(body []byte) (*Schedule, error) {
	var s Schedule
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("parsing schedule: %w", err)
	}
	return &s, nil
}
