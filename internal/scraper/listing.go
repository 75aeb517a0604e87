package scraper

import (
	"regexp"
	"strings"
)

// Candidate is a discovered reference to a match detail page, not yet fetched.
type Candidate struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// matchLinkPattern matches anchors whose target path starts with a numeric
// match id, e.g. href="/498218/bilibili-gaming-vs-edward-gaming-...".
var matchLinkPattern = regexp.MustCompile(`href="(/(\d+)/[^"]+)"`)

// markerWindow is the character radius searched around an anchor when the
// tracked-team marker is not in the path itself. On the listing page the team
// name often lives in a sibling element rather than the anchor's attributes.
const markerWindow = 500

// ParseListing scans a listing page for match links belonging to the tracked
// team. A link qualifies when its path contains the marker, or when the
// surrounding document window does. Candidates are deduplicated by numeric id
// in first-seen order. An empty result is a valid "no matches found" outcome.
func ParseListing(html, marker string) []Candidate {
	marker = strings.ToLower(marker)

	candidates := make([]Candidate, 0)
	seen := make(map[string]bool)

	for _, loc := range matchLinkPattern.FindAllStringSubmatchIndex(html, -1) {
		path := html[loc[2]:loc[3]]
		id := html[loc[4]:loc[5]]

		if seen[id] {
			continue
		}

		if !strings.Contains(strings.ToLower(path), marker) {
			start := loc[0] - markerWindow
			if start < 0 {
				start = 0
			}
			end := loc[1] + markerWindow
			if end > len(html) {
				end = len(html)
			}
			if !strings.Contains(strings.ToLower(html[start:end]), marker) {
				continue
			}
		}

		seen[id] = true
		candidates = append(candidates, Candidate{ID: id, Path: path})
	}

	return candidates
}
