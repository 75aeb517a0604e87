// Package storage persists the most recent extraction outcome on disk.
//
// The extraction core itself is stateless; storage exists so repeated CLI
// runs can report which result keys are new since the previous run. Only the
// latest outcome is kept, never a history.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blgtrack/vlrsync/internal/match"
)

const outcomeFile = "outcome.json"

// Storage handles persistence of the latest outcome.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating it if needed. A leading
// ~/ expands to the user's home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// LoadOutcome loads the previously saved outcome. A missing file yields an
// empty outcome, not an error.
func (s *Storage) LoadOutcome() (*match.Outcome, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, outcomeFile))
	if err != nil {
		if os.IsNotExist(err) {
			return match.NewOutcome(), nil
		}
		return nil, fmt.Errorf("reading outcome: %w", err)
	}

	var outcome match.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, fmt.Errorf("parsing outcome: %w", err)
	}
	if outcome.Data == nil {
		outcome.Data = make(map[string]match.Match)
	}
	return &outcome, nil
}

// SaveOutcome writes the outcome, replacing any previous one.
func (s *Storage) SaveOutcome(outcome *match.Outcome) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding outcome: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dataDir, outcomeFile), data, 0644); err != nil {
		return fmt.Errorf("writing outcome: %w", err)
	}
	return nil
}

// NewKeys returns the result keys present in current but not in previous, in
// no particular order.
func NewKeys(previous, current *match.Outcome) []string {
	added := make([]string, 0)
	for key := range current.Data {
		if _, seen := previous.Data[key]; !seen {
			added = append(added, key)
		}
	}
	return added
}
