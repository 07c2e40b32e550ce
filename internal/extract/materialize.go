package extract

import (
	"fmt"
	"path/filepath"
)

// Outcome is the result of materializing one flushed block.
type Outcome int

const (
	Written Outcome = iota
	SkippedExisting
	DryRun
	Failed
)

// Materializer turns a resolved path and accumulated content into a
// filesystem effect, honoring the dry-run and overwrite policy.
type Materializer struct {
	fsys      WriteFS
	overwrite bool
	dryRun    bool
}

// Materialize writes content to path, creating missing parent directories.
// An existing destination is skipped unless overwrite is enabled. The error
// is non-nil only for the Failed outcome; failures are contained to the
// block being written.
func (m *Materializer) Materialize(path string, content []byte) (Outcome, error) {
	if m.dryRun {
		return DryRun, nil
	}

	if err := m.fsys.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return Failed, fmt.Errorf("creating directory for %s: %w", path, err)
	}

	if _, err := m.fsys.Stat(path); err == nil && !m.overwrite {
		return SkippedExisting, nil
	}

	if err := m.fsys.WriteFile(path, content, fileMode); err != nil {
		return Failed, fmt.Errorf("writing %s: %w", path, err)
	}

	return Written, nil
}
