// Package sync orchestrates one extraction run: listing discovery, a
// rate-limited sequential fetch of each candidate match page, per-map
// extraction, side normalization, and assembly into a keyed outcome.
//
// A run is deliberately single-file: candidates are fetched one at a time
// with a fixed inter-request pause, out of respect for the scraped site's
// informal rate expectations. One bad page never aborts the batch; only a
// failed listing fetch is fatal.
package sync
