// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// Snapshot is the on-disk YAML form of a metrics refresh, with the
// computation time recorded so the dashboard can show staleness.
type Snapshot struct {
	GeneratedAtUTC string  `json:"generated_at_utc" yaml:"generated_at_utc"`
	Metrics        Metrics `json:"metrics" yaml:"metrics"`
}

// WriteSnapshot saves the metrics as YAML at path, creating parent
// directories as needed.
func WriteSnapshot(path string, m *Metrics) error {
	snap := Snapshot{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Metrics:        *m,
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot loads a previously written snapshot from path.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &snap, nil
}
