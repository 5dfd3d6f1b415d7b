package cmd

import (
	"fmt"
	"os"

	"github.com/ssargent/itcclock/pkg/itc"
)

// loadState reads an encoded ItcPair from path. A missing file is reported
// as a distinct error so callers can tell "never seeded" apart from other
// I/O failures.
func loadState(path string) (itc.ItcPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return itc.ItcPair{}, fmt.Errorf("state file does not exist: %s (run \"itcctl seed\" first)", path)
		}
		return itc.ItcPair{}, fmt.Errorf("failed to read state file: %w", err)
	}
	pair, err := itc.DecodePair(data)
	if err != nil {
		return itc.ItcPair{}, fmt.Errorf("failed to decode state file: %w", err)
	}
	return pair, nil
}

// saveState persists pair to path with permissions matching the rest of
// this codebase's on-disk secrets.
func saveState(path string, pair itc.ItcPair) error {
	if err := os.WriteFile(path, itc.EncodePair(pair), 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
