// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docpress/pkg/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(op string, started time.Time) types.BatchReport {
	return types.BatchReport{
		RunID:       uuid.NewString(),
		Operation:   op,
		StartedAt:   started,
		CompletedAt: started.Add(2 * time.Second),
		Elapsed:     2 * time.Second,
		Outcomes: []types.Outcome{
			{
				Input: "/in/a.pdf", Output: "/out/a_compressed.pdf",
				Status: types.StatusSucceeded,
				SizeBefore: 4096, SizeAfter: 1024, Elapsed: 900 * time.Millisecond,
			},
			{
				Input: "/in/b.pdf", Status: types.StatusFailed,
				Kind: types.KindProcessing, Message: "exit status 1",
			},
			{
				Input: "/in/c.txt", Status: types.StatusSkipped,
				Kind: types.KindValidation, Message: "unsupported extension",
			},
		},
	}
}

func TestOpen_CreatesDirectoryAndSchema(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "history")
	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "history.db"))
	assert.NoError(t, err)

	// Reopening an existing database is fine.
	require.NoError(t, s.Close())
	s2, err := Open(dir)
	require.NoError(t, err)
	s2.Close()
}

func TestRecordAndRuns(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	older := sampleReport("compress", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	newer := sampleReport("convert", time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, s.Record(ctx, older))
	require.NoError(t, s.Record(ctx, newer))

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, newer.RunID, runs[0].ID)
	assert.Equal(t, "convert", runs[0].Operation)
	assert.Equal(t, older.RunID, runs[1].ID)

	assert.Equal(t, 3, runs[0].Total)
	assert.Equal(t, 1, runs[0].Succeeded)
	assert.Equal(t, 2, runs[0].Failed)
	assert.Equal(t, 0, runs[0].Skipped)
	assert.Equal(t, int64(2000), runs[0].ElapsedMS)
	assert.True(t, runs[0].StartedAt.Equal(newer.StartedAt))

	limited, err := s.Runs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newer.RunID, limited[0].ID)
}

func TestOutcomes_PreserveInputOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	report := sampleReport("compress", time.Now().UTC())
	require.NoError(t, s.Record(ctx, report))

	outcomes, err := s.Outcomes(ctx, report.RunID)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "/in/a.pdf", outcomes[0].Input)
	assert.Equal(t, "succeeded", outcomes[0].Status)
	assert.Equal(t, int64(4096), outcomes[0].SizeBefore)
	assert.Equal(t, int64(1024), outcomes[0].SizeAfter)
	assert.Equal(t, int64(900), outcomes[0].ElapsedMS)

	assert.Equal(t, "/in/b.pdf", outcomes[1].Input)
	assert.Equal(t, "failed", outcomes[1].Status)
	assert.Equal(t, "processing", outcomes[1].Kind)

	assert.Equal(t, "/in/c.txt", outcomes[2].Input)
	assert.Equal(t, "skipped", outcomes[2].Status)
}

func TestFindRun_ByPrefix(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	report := sampleReport("label", time.Now().UTC())
	require.NoError(t, s.Record(ctx, report))

	found, err := s.FindRun(ctx, report.RunID)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, found.ID)

	found, err = s.FindRun(ctx, report.RunID[:8])
	require.NoError(t, err)
	assert.Equal(t, report.RunID, found.ID)

	_, err = s.FindRun(ctx, "ffffffff")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	report := sampleReport("compress", time.Now().UTC())
	require.NoError(t, s.Record(ctx, report))

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "history.yaml")
	jsonPath := filepath.Join(dir, "history.json")
	require.NoError(t, s.ExportYAML(ctx, yamlPath))
	require.NoError(t, s.ExportJSON(ctx, jsonPath))

	var fromYAML []ExportEntry
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, report.RunID, fromYAML[0].Run.ID)
	assert.Len(t, fromYAML[0].Outcomes, 3)

	var fromJSON []ExportEntry
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, fromYAML[0].Outcomes, fromJSON[0].Outcomes)
}
