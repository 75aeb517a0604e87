// Package scraper provides HTTP fetching and HTML parsing for vlr.gg match pages.
//
// The scraper fetches a team's public match-listing page, discovers candidate
// match links, and extracts per-map agent compositions and round scores from
// individual match pages. The source markup is undocumented and inconsistent
// across pages, so every extraction step is a cascade of heuristics over raw
// markup that degrades to partial data instead of failing outright.
package scraper
