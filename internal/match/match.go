// Package match defines the normalized records produced by an extraction run.
//
// Field names on the wire are deliberately terse (m/b/o/bs/os, p/d) because the
// consuming frontend merges them into a static dataset that already uses those
// keys. Within one record the tracked team's data always comes first; see
// SwapSides.
package match

import "time"

// MapStat is one map of one match: map name, both agent compositions, and the
// round score, tracked team first.
type MapStat struct {
	Name       string   `json:"m"`
	TeamAgents []string `json:"b"`
	OppAgents  []string `json:"o"`
	TeamScore  int      `json:"bs"`
	OppScore   int      `json:"os"`
}

// Match is the per-match payload stored under a date_tag key.
type Match struct {
	Patch string    `json:"p"`
	Maps  []MapStat `json:"d"`
}

// Outcome is the boundary contract of one extraction run. Count is the number
// of result keys, Fetched the number of candidates attempted; comparing the
// two is how a consumer detects partial results.
type Outcome struct {
	OK        bool             `json:"ok"`
	Count     int              `json:"count"`
	Fetched   int              `json:"fetched"`
	Data      map[string]Match `json:"data"`
	Timestamp string           `json:"ts"`
}

// NewOutcome returns an empty outcome with an initialized data map.
func NewOutcome() *Outcome {
	return &Outcome{Data: make(map[string]Match)}
}

// Key builds the result key for a match date and opponent tag.
func Key(date, tag string) string {
	return date + "_" + tag
}

// Add stores a match under its date_tag key. When a team plays the same
// opponent twice in one day the plain key collides; rather than overwrite the
// earlier match, the later one gets the candidate's match id appended to its
// key so both survive.
func (o *Outcome) Add(date, tag, matchID string, m Match) {
	key := Key(date, tag)
	if _, exists := o.Data[key]; exists {
		key = key + "_" + matchID
	}
	o.Data[key] = m
	o.Count = len(o.Data)
}

// Finish stamps the outcome as completed.
func (o *Outcome) Finish(now time.Time) {
	o.OK = true
	o.Count = len(o.Data)
	o.Timestamp = now.UTC().Format(time.RFC3339)
}

// SwapSides flips the team/opponent fields on every record. The orchestrator
// calls this once per match, uniformly across all maps, when the tracked team
// was listed second on the page; side ordering is a page-level property, never
// re-derived per map.
func SwapSides(maps []MapStat) {
	for i := range maps {
		maps[i].TeamAgents, maps[i].OppAgents = maps[i].OppAgents, maps[i].TeamAgents
		maps[i].TeamScore, maps[i].OppScore = maps[i].OppScore, maps[i].TeamScore
	}
}
