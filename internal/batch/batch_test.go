// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docpress/internal/naming"
	"github.com/pdiddy/docpress/pkg/types"
)

// fakeOp is a scripted Operation. Behavior is keyed by input base name;
// unlisted files succeed. onProcess, when set, fires after each call.
type fakeOp struct {
	mu        sync.Mutex
	processed []string
	fail      map[string]types.Outcome
	delay     map[string]time.Duration
	onProcess func(input string)
}

func (f *fakeOp) Name() string                { return "fake" }
func (f *fakeOp) Extensions() map[string]bool { return map[string]bool{".docx": true} }

func (f *fakeOp) OutputPath(input, outputDir string) string {
	return naming.OutputPath(input, outputDir, "", ".pdf")
}

func (f *fakeOp) Process(input, output string) types.Outcome {
	base := filepath.Base(input)
	if d, ok := f.delay[base]; ok {
		time.Sleep(d)
	}

	f.mu.Lock()
	f.processed = append(f.processed, base)
	f.mu.Unlock()

	if f.onProcess != nil {
		f.onProcess(input)
	}

	if out, ok := f.fail[base]; ok {
		out.Input = input
		return out
	}
	return types.Outcome{Input: input, Status: types.StatusSucceeded, Output: output}
}

// recordingReporter captures progress events for assertions.
type recordingReporter struct {
	mu      sync.Mutex
	starts  []string
	dones   []string
	batches int
}

func (r *recordingReporter) FileStart(task types.FileTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, filepath.Base(task.Input))
}

func (r *recordingReporter) FileDone(task types.FileTask, _ types.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dones = append(r.dones, filepath.Base(task.Input))
}

func (r *recordingReporter) BatchDone(types.BatchReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
}

func setupInputs(t *testing.T, names ...string) (dir string, paths []string) {
	t.Helper()
	dir = t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("content"), 0o644))
		paths = append(paths, p)
	}
	return dir, paths
}

func processingFailure(msg string) types.Outcome {
	return types.Outcome{Status: types.StatusFailed, Kind: types.KindProcessing, Message: msg}
}

func TestRun_ContinueOnError(t *testing.T) {
	_, inputs := setupInputs(t, "a.docx", "b.docx", "c.docx")
	op := &fakeOp{fail: map[string]types.Outcome{"b.docx": processingFailure("corrupt document")}}
	cfg := types.BatchConfig{OutputDir: t.TempDir(), Policy: types.ContinueOnError}

	report := New(op, cfg, nil).Run(context.Background(), inputs)

	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, types.StatusSucceeded, report.Outcomes[0].Status)
	assert.Equal(t, types.StatusFailed, report.Outcomes[1].Status)
	assert.Equal(t, types.KindProcessing, report.Outcomes[1].Kind)
	assert.Equal(t, types.StatusSucceeded, report.Outcomes[2].Status)
	assert.Equal(t, 2, report.SuccessCount())
	assert.Equal(t, 1, report.FailureCount())
	assert.Equal(t, 0, report.SkippedCount())
}

func TestRun_StopOnFirstFailure(t *testing.T) {
	_, inputs := setupInputs(t, "a.docx", "b.docx", "c.docx", "d.docx")
	op := &fakeOp{fail: map[string]types.Outcome{"b.docx": processingFailure("corrupt document")}}
	cfg := types.BatchConfig{OutputDir: t.TempDir(), Policy: types.StopOnFirstFailure}

	report := New(op, cfg, nil).Run(context.Background(), inputs)

	assert.Equal(t, types.StatusSucceeded, report.Outcomes[0].Status)
	assert.Equal(t, types.StatusFailed, report.Outcomes[1].Status)
	for _, o := range report.Outcomes[2:] {
		assert.Equal(t, types.StatusSkipped, o.Status)
		assert.Equal(t, "batch aborted", o.Message)
	}
	assert.ElementsMatch(t, []string{"a.docx", "b.docx"}, op.processed)
}

func TestRun_ValidationRejectsNeverReachOperation(t *testing.T) {
	dir, inputs := setupInputs(t, "a.docx", "b.txt", "c.docx")
	missing := filepath.Join(dir, "d.docx")
	inputs = append(inputs, missing)

	op := &fakeOp{}
	cfg := types.BatchConfig{OutputDir: t.TempDir()}
	report := New(op, cfg, nil).Run(context.Background(), inputs)

	assert.ElementsMatch(t, []string{"a.docx", "c.docx"}, op.processed)

	assert.Equal(t, types.StatusSkipped, report.Outcomes[1].Status)
	assert.Equal(t, types.KindValidation, report.Outcomes[1].Kind)
	assert.Equal(t, types.StatusSkipped, report.Outcomes[3].Status)
	assert.Equal(t, types.KindValidation, report.Outcomes[3].Kind)

	// Validation rejects count as failures, distinguished by kind.
	assert.Equal(t, 2, report.SuccessCount())
	assert.Equal(t, 2, report.FailureCount())
	assert.Equal(t, 0, report.SkippedCount())
	assert.Equal(t, 4, report.Total())
}

func TestRun_ToolUnavailableShortCircuits(t *testing.T) {
	_, inputs := setupInputs(t, "a.docx", "b.docx", "c.docx")
	op := &fakeOp{fail: map[string]types.Outcome{
		"a.docx": {Status: types.StatusFailed, Kind: types.KindToolUnavailable, Message: "soffice not found"},
	}}
	cfg := types.BatchConfig{OutputDir: t.TempDir(), Policy: types.ContinueOnError}

	report := New(op, cfg, nil).Run(context.Background(), inputs)

	assert.Equal(t, types.StatusFailed, report.Outcomes[0].Status)
	for _, o := range report.Outcomes[1:] {
		assert.Equal(t, types.StatusSkipped, o.Status)
		assert.Equal(t, types.KindToolUnavailable, o.Kind)
		assert.Equal(t, "soffice not found", o.Message)
	}
	// Only the first file consumed operation capacity.
	assert.Equal(t, []string{"a.docx"}, op.processed)
}

func TestRun_CancellationBetweenFiles(t *testing.T) {
	_, inputs := setupInputs(t, "a.docx", "b.docx", "c.docx", "d.docx", "e.docx")

	ctx, cancel := context.WithCancel(context.Background())
	op := &fakeOp{}
	op.onProcess = func(input string) {
		// Request cancellation while file 2 is in flight; it still
		// finishes, and files 3-5 are skipped at their start boundary.
		if filepath.Base(input) == "b.docx" {
			cancel()
			cancel() // idempotent
		}
	}
	cfg := types.BatchConfig{OutputDir: t.TempDir()}

	report := New(op, cfg, nil).Run(ctx, inputs)

	assert.Equal(t, types.StatusSucceeded, report.Outcomes[0].Status)
	assert.Equal(t, types.StatusSucceeded, report.Outcomes[1].Status)
	for _, o := range report.Outcomes[2:] {
		assert.Equal(t, types.StatusSkipped, o.Status)
		assert.Equal(t, "cancelled", o.Message)
	}
	assert.Equal(t, 2, report.SuccessCount())
	assert.Equal(t, 3, report.SkippedCount())
}

func TestRun_OrderPreservedUnderConcurrency(t *testing.T) {
	_, inputs := setupInputs(t, "a.docx", "b.docx", "c.docx", "d.docx")
	// The first file finishes last; completion order differs from input
	// order, the report must not.
	op := &fakeOp{delay: map[string]time.Duration{
		"a.docx": 50 * time.Millisecond,
		"b.docx": 20 * time.Millisecond,
	}}
	cfg := types.BatchConfig{OutputDir: t.TempDir(), Workers: 4}

	report := New(op, cfg, nil).Run(context.Background(), inputs)

	require.Len(t, report.Outcomes, 4)
	for i, o := range report.Outcomes {
		assert.Equal(t, inputs[i], o.Input)
		assert.Equal(t, types.StatusSucceeded, o.Status)
	}
	assert.Equal(t, 4, report.SuccessCount())
}

func TestRun_OutputPathInvariants(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	outDir := t.TempDir()
	a := filepath.Join(dirA, "report.docx")
	b := filepath.Join(dirB, "report.docx")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("x"), 0o644))

	op := &fakeOp{}
	report := New(op, types.BatchConfig{OutputDir: outDir}, nil).Run(context.Background(), []string{a, b})

	seen := map[string]bool{}
	for _, o := range report.Outcomes {
		require.Equal(t, types.StatusSucceeded, o.Status)
		assert.NotEqual(t, o.Input, o.Output)
		assert.True(t, strings.HasPrefix(o.Output, outDir+string(filepath.Separator)),
			"output %q not under %q", o.Output, outDir)
		assert.False(t, seen[o.Output], "duplicate output path %q", o.Output)
		seen[o.Output] = true
	}
}

func TestRun_ProgressEvents(t *testing.T) {
	_, inputs := setupInputs(t, "a.docx", "b.docx")
	rep := &recordingReporter{}
	op := &fakeOp{}

	New(op, types.BatchConfig{OutputDir: t.TempDir()}, rep).Run(context.Background(), inputs)

	assert.Equal(t, []string{"a.docx", "b.docx"}, rep.starts)
	assert.Equal(t, []string{"a.docx", "b.docx"}, rep.dones)
	assert.Equal(t, 1, rep.batches)
}

func TestRun_RejectsEmitFileDoneWithoutFileStart(t *testing.T) {
	_, inputs := setupInputs(t, "a.txt")
	rep := &recordingReporter{}

	New(&fakeOp{}, types.BatchConfig{OutputDir: t.TempDir()}, rep).Run(context.Background(), inputs)

	assert.Empty(t, rep.starts)
	assert.Equal(t, []string{"a.txt"}, rep.dones)
}

func TestRun_ElapsedCoversRun(t *testing.T) {
	_, inputs := setupInputs(t, "a.docx")
	op := &fakeOp{delay: map[string]time.Duration{"a.docx": 10 * time.Millisecond}}

	report := New(op, types.BatchConfig{OutputDir: t.TempDir()}, nil).Run(context.Background(), inputs)

	require.Len(t, report.Outcomes, 1)
	assert.GreaterOrEqual(t, report.Elapsed, report.Outcomes[0].Elapsed)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "fake", report.Operation)
}
