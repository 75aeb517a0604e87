// Package cli implements the command-line interface for vlrsync.
//
// The cli package provides the Cobra-based CLI with a root command that runs
// one extraction sync against vlr.gg and a serve subcommand that starts the
// relay/sync HTTP server. It coordinates the scraper, sync, storage and relay
// packages and formats results as text or JSON.
package cli
