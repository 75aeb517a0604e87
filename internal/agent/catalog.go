// Package agent provides the closed catalog of playable VALORANT agents used to
// validate and normalize tokens extracted from scraped markup.
//
// Tokens arrive in whatever casing and punctuation the source page uses
// (image filenames, alt text, title attributes), so normalization strips
// everything that is not a letter or digit before comparing. Unknown tokens
// normalize to the empty string and are filtered by callers rather than
// treated as errors.
package agent

import "strings"

// Known is the catalog of agent names in their canonical spelling.
var Known = []string{
	"Astra", "Breach", "Brimstone", "Chamber", "Clove", "Cypher", "Deadlock",
	"Fade", "Gekko", "Harbor", "Iso", "Jett", "KAY/O", "Killjoy", "Neon",
	"Omen", "Phoenix", "Raze", "Reyna", "Sage", "Skye", "Sova",
	"Tejo", "Veto", "Viper", "Vyse", "Waylay", "Yoru",
}

// canonical maps the folded form of each name to its catalog spelling.
var canonical = buildIndex()

func buildIndex() map[string]string {
	index := make(map[string]string, len(Known))
	for _, name := range Known {
		index[fold(name)] = name
	}
	return index
}

// fold lowers a token and strips anything that is not a letter or digit,
// so "KAY/O", "kay-o" and "KayO" all collapse to "kayo".
func fold(token string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(token) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize returns the canonical catalog spelling for a token, or the empty
// string when the token is not a known agent.
func Normalize(token string) string {
	return canonical[fold(token)]
}

// IsKnown reports whether a token normalizes to a catalog agent.
func IsKnown(token string) bool {
	return Normalize(token) != ""
}
