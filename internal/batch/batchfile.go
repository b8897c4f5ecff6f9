// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docpress/pkg/types"
)

// List is a saved batch file-list for repeat runs: the input paths and the
// chosen batch settings, loaded verbatim.
type List struct {
	Name      string              `yaml:"name,omitempty"`
	Operation string              `yaml:"operation"`
	Files     []string            `yaml:"files"`
	OutputDir string              `yaml:"output_dir,omitempty"`
	Policy    types.FailurePolicy `yaml:"policy,omitempty"`
	Workers   int                 `yaml:"workers,omitempty"`
	CreatedAt time.Time           `yaml:"created_at,omitempty"`
}

// SaveList writes the list as YAML, stamping CreatedAt.
func SaveList(path string, l List) error {
	l.CreatedAt = time.Now().UTC().Truncate(time.Second)
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshaling batch list: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing batch list: %w", err)
	}
	return nil
}

// LoadList reads a saved batch file-list.
func LoadList(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return List{}, fmt.Errorf("reading batch list: %w", err)
	}
	var l List
	if err := yaml.Unmarshal(data, &l); err != nil {
		return List{}, fmt.Errorf("parsing batch list %s: %w", path, err)
	}
	if len(l.Files) == 0 {
		return List{}, fmt.Errorf("batch list %s contains no files", path)
	}
	return l, nil
}
