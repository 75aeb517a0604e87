package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/blgtrack/vlrsync/internal/match"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the outcome in the specified format. newKeys marks
// result keys absent from the previous run.
func WriteOutput(w io.Writer, outcome *match.Outcome, newKeys []string, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, outcome)
	case FormatText:
		return writeText(w, outcome, newKeys)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON emits the raw outcome, the same shape the /api/sync endpoint
// serves.
func writeJSON(w io.Writer, outcome *match.Outcome) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(outcome)
}

// writeText emits a human-readable summary.
func writeText(w io.Writer, outcome *match.Outcome, newKeys []string) error {
	if outcome.Count == 0 {
		fmt.Fprintf(w, "No matches extracted (%d candidates attempted).\n", outcome.Fetched)
		return nil
	}

	fresh := make(map[string]bool, len(newKeys))
	for _, k := range newKeys {
		fresh[k] = true
	}

	keys := make([]string, 0, len(outcome.Data))
	for k := range outcome.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		m := outcome.Data[key]
		prefix := ""
		if fresh[key] {
			prefix = "NEW "
		}
		fmt.Fprintf(w, "%s%s (%d maps)\n", prefix, key, len(m.Maps))
		for _, stat := range m.Maps {
			fmt.Fprintf(w, "  %s %d-%d", stat.Name, stat.TeamScore, stat.OppScore)
			if len(stat.TeamAgents) > 0 {
				fmt.Fprintf(w, "  [%s]", strings.Join(stat.TeamAgents, ", "))
			}
			if len(stat.OppAgents) > 0 {
				fmt.Fprintf(w, " vs [%s]", strings.Join(stat.OppAgents, ", "))
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d matches from %d candidates (%d new)\n",
		outcome.Count, outcome.Fetched, len(newKeys))
	return nil
}
