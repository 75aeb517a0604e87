package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// matchDatePattern pulls the UTC date out of the page's timezone-conversion
// element; data-utc-ts holds a full timestamp but only the date part is
// stable across page variants.
var matchDatePattern = regexp.MustCompile(`class="[^"]*moment-tz-convert[^"]*"[^>]*data-utc-ts="(\d{4}-\d{2}-\d{2})`)

// MatchDate extracts the match date (YYYY-MM-DD) from a match page, or empty
// when the page carries none. A dateless candidate is skipped by the
// orchestrator since the result key needs a date.
func MatchDate(html string) string {
	m := matchDatePattern.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return m[1]
}

// TeamNames extracts the two team names from a match page's header, in page
// order, keeping the first occurrence of each distinct name. The header
// repeats names in several places; order of first appearance is what decides
// which side the tracked team is on.
func TeamNames(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	names := make([]string, 0, 2)
	seen := make(map[string]bool)
	doc.Find(".wf-title-med").Each(func(i int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Text())
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	})
	return names
}

// TrackedIndex returns the position of the tracked team within names, matched
// case-insensitively against the marker, or -1 when absent.
func TrackedIndex(names []string, marker string) int {
	marker = strings.ToLower(marker)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), marker) {
			return i
		}
	}
	return -1
}
