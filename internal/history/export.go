// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds one run with its file outcomes for export.
type ExportEntry struct {
	Run      Run       `json:"run" yaml:"run"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

// ExportYAML writes the full run history, newest first, to path.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the full run history, newest first, to path.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	runs, err := s.Runs(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(runs))
	for i, r := range runs {
		outcomes, err := s.Outcomes(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("querying outcomes for export: %w", err)
		}
		entries[i] = ExportEntry{Run: r, Outcomes: outcomes}
	}
	return entries, nil
}
