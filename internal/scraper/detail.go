package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/blgtrack/vlrsync/internal/agent"
	"github.com/blgtrack/vlrsync/internal/match"
)

// knownMaps is the closed list of map names tested against each segment, in
// match priority order. A segment naming none of these is noise and is
// discarded rather than guessed at.
var knownMaps = []string{
	"Ascent", "Bind", "Breeze", "Fracture", "Haven", "Icebox",
	"Lotus", "Pearl", "Split", "Sunset", "Abyss", "Corrode",
}

var (
	// Primary segmentation marker: one vm-stats-game container per map.
	// The lookahead-free form captures up to the next container or EOF.
	gameBlockPattern = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*vm-stats-game[^"]*"[^>]*data-game-id="[^"]*"[^>]*>`)

	// Fallback segmentation marker: generic stat tables.
	tablePattern = regexp.MustCompile(`(?is)<table[^>]*class="[^"]*wf-table-inset[^"]*"[^>]*>(.*?)</table>`)

	// Agent identifiers embedded in image attributes. Tolerates the KAY/O
	// punctuation variants seen in filenames (kayo, kay-o, kay_o).
	agentAttrPattern = regexp.MustCompile(`(?i)(?:src|alt|title)="[^"]*?(astra|breach|brimstone|chamber|clove|cypher|deadlock|fade|gekko|harbor|iso|jett|kay.?o|killjoy|neon|omen|phoenix|raze|reyna|sage|skye|sova|tejo|veto|viper|vyse|waylay|yoru)[^"]*"`)

	// Small integers rendered as the sole text of short inline elements.
	// Round scores appear this way, but so do pick order and player stats;
	// the pair filter below separates them.
	inlineNumberPattern = regexp.MustCompile(`>(\d{1,2})</(?:span|div|td)`)
)

// rosterSize caps each side's composition at the five agents a team fields.
const rosterSize = 5

// ParseMatchDetail extracts per-map records from a match page. Segmentation
// and every field extraction are best-effort: a segment with no recognizable
// map name is dropped, a recognized segment with missing rosters or scores is
// still emitted with empty and zero defaults. Sides are in document order;
// the caller reconciles them against team identity afterwards.
func ParseMatchDetail(html string) []match.MapStat {
	stats := make([]match.MapStat, 0)
	for _, block := range segmentBlocks(html) {
		mapName := findMapName(block)
		if mapName == "" {
			continue
		}

		teamAgents, oppAgents := extractRosters(block)
		teamScore, oppScore := extractScores(block)

		stats = append(stats, match.MapStat{
			Name:       mapName,
			TeamAgents: teamAgents,
			OppAgents:  oppAgents,
			TeamScore:  teamScore,
			OppScore:   oppScore,
		})
	}
	return stats
}

// segmentBlocks splits a page into per-map chunks of raw markup. The site's
// markup is not reliably well-formed, so this slices between structural
// markers instead of walking a parsed tree. Primary marker first, generic
// tables as fallback.
func segmentBlocks(html string) []string {
	starts := gameBlockPattern.FindAllStringIndex(html, -1)
	if len(starts) > 0 {
		blocks := make([]string, 0, len(starts))
		for i, loc := range starts {
			end := len(html)
			if i+1 < len(starts) {
				end = starts[i+1][0]
			}
			blocks = append(blocks, html[loc[1]:end])
		}
		return blocks
	}

	blocks := make([]string, 0)
	for _, m := range tablePattern.FindAllStringSubmatch(html, -1) {
		blocks = append(blocks, m[1])
	}
	return blocks
}

// findMapName returns the first known map name contained in the segment, or
// empty when none is present.
func findMapName(block string) string {
	for _, name := range knownMaps {
		if strings.Contains(block, name) {
			return name
		}
	}
	return ""
}

// extractRosters collects agent identifiers from the segment's image
// attributes, deduplicated in first-seen order, and splits them positionally:
// the first five belong to the side rendered first, the next five to the
// other. The split assumes the page always emits one team's full roster
// before the other's; nothing validates that against team identity.
func extractRosters(block string) (first, second []string) {
	ordered := make([]string, 0, 2*rosterSize)
	seen := make(map[string]bool)

	for _, m := range agentAttrPattern.FindAllStringSubmatch(block, -1) {
		name := agent.Normalize(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		ordered = append(ordered, name)
	}

	first = make([]string, 0, rosterSize)
	second = make([]string, 0, rosterSize)
	for i, name := range ordered {
		switch {
		case i < rosterSize:
			first = append(first, name)
		case i < 2*rosterSize:
			second = append(second, name)
		}
	}
	return first, second
}

// extractScores finds the round-score pair of a segment. All small integers
// appearing as short inline element text are collected in document order and
// scanned as adjacent pairs; the first pair summing to 12..30 with its larger
// member at least 13 is the map score (a completed map reaches 13 rounds, or
// overtime past it, which filters out pick order and player stat numbers).
// Returns zeros when no pair qualifies.
func extractScores(block string) (int, int) {
	nums := make([]int, 0)
	for _, m := range inlineNumberPattern.FindAllStringSubmatch(block, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 || n > 30 {
			continue
		}
		nums = append(nums, n)
	}

	for i := 0; i+1 < len(nums); i++ {
		a, b := nums[i], nums[i+1]
		if a+b >= 12 && a+b <= 30 && (a >= 13 || b >= 13) {
			return a, b
		}
	}
	return 0, 0
}
