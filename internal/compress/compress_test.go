// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docpress/internal/tool"
	"github.com/pdiddy/docpress/pkg/types"
)

func TestPresetSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.CompressConfig
		want Settings
	}{
		{"screen", types.CompressConfig{Preset: types.PresetScreen}, Settings{DPI: 72, Threshold: 1.1, JPEGQuality: 60}},
		{"ebook", types.CompressConfig{Preset: types.PresetEbook}, Settings{DPI: 150, Threshold: 1.1, JPEGQuality: 75}},
		{"printer", types.CompressConfig{Preset: types.PresetPrinter}, Settings{DPI: 300, Threshold: 1.1, JPEGQuality: 85}},
		{"prepress", types.CompressConfig{Preset: types.PresetPrepress}, Settings{DPI: 300, Threshold: 1.5, JPEGQuality: 90}},
		{"unknown falls back to ebook", types.CompressConfig{Preset: "weird"}, Settings{DPI: 150, Threshold: 1.1, JPEGQuality: 75}},
		{"dpi override", types.CompressConfig{Preset: types.PresetScreen, TargetDPI: 144}, Settings{DPI: 144, Threshold: 1.1, JPEGQuality: 60}},
		{"quality override", types.CompressConfig{Preset: types.PresetScreen, ImageQuality: 90}, Settings{DPI: 72, Threshold: 1.1, JPEGQuality: 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PresetSettings(tt.cfg))
		})
	}
}

func TestArgs(t *testing.T) {
	args := Args("/in/a.pdf", "/out/a.pdf.partial", Settings{DPI: 150, Threshold: 1.1, JPEGQuality: 75})

	assert.Contains(t, args, "-sDEVICE=pdfwrite")
	assert.Contains(t, args, "-dColorImageResolution=150")
	assert.Contains(t, args, "-dMonoImageResolution=300")
	assert.Contains(t, args, "-dJPEGQ=75")
	assert.Contains(t, args, "-sOutputFile=/out/a.pdf.partial")
	assert.Equal(t, "/in/a.pdf", args[len(args)-1])
}

// fakeGS simulates the Ghostscript subprocess: it writes outputSize bytes
// to the -sOutputFile target, or fails.
type fakeGS struct {
	outputSize int
	runErr     error
	calls      int
}

func (f *fakeGS) LookPath(file string) (string, error) {
	if file == "gs" || filepath.IsAbs(file) {
		return file, nil
	}
	return "", errors.New("not found")
}

func (f *fakeGS) Run(name string, args ...string) (string, error) {
	f.calls++
	if f.runErr != nil {
		return "GPL Ghostscript: error reading file", f.runErr
	}
	for _, a := range args {
		if strings.HasPrefix(a, "-sOutputFile=") {
			out := strings.TrimPrefix(a, "-sOutputFile=")
			return "", os.WriteFile(out, make([]byte, f.outputSize), 0o644)
		}
	}
	return "", errors.New("no output file argument")
}

func setupPDF(t *testing.T, size int) (input, output string) {
	t.Helper()
	inDir, outDir := t.TempDir(), t.TempDir()
	input = filepath.Join(inDir, "doc.pdf")
	require.NoError(t, os.WriteFile(input, make([]byte, size), 0o644))
	return input, filepath.Join(outDir, "doc_compressed.pdf")
}

func newTestOp(ex tool.Executor) *Operation {
	cfg := types.CompressConfig{Preset: types.PresetScreen}
	return NewOperation(NewGhostscript(cfg, ex))
}

func TestProcess_Success(t *testing.T) {
	input, output := setupPDF(t, 10_000)
	op := newTestOp(&fakeGS{outputSize: 4_000})

	out := op.Process(input, output)

	require.Equal(t, types.StatusSucceeded, out.Status)
	assert.Equal(t, output, out.Output)
	assert.EqualValues(t, 10_000, out.SizeBefore)
	assert.EqualValues(t, 4_000, out.SizeAfter)
	assert.False(t, out.Grew)

	// The partial file must be gone and the real output present.
	_, err := os.Stat(output + ".partial")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(output)
	assert.NoError(t, err)
}

func TestProcess_GrewIsFlaggedSuccess(t *testing.T) {
	input, output := setupPDF(t, 1_000)
	op := newTestOp(&fakeGS{outputSize: 5_000})

	out := op.Process(input, output)

	assert.Equal(t, types.StatusSucceeded, out.Status)
	assert.True(t, out.Grew)
}

func TestProcess_GhostscriptFailure(t *testing.T) {
	input, output := setupPDF(t, 1_000)
	op := newTestOp(&fakeGS{runErr: fmt.Errorf("exit status 1")})

	out := op.Process(input, output)

	require.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, types.KindProcessing, out.Kind)
	assert.Contains(t, out.Message, "ghostscript failed")

	// No partial output left behind.
	_, err := os.Stat(output + ".partial")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}

func TestProcess_ToolMissing(t *testing.T) {
	input, output := setupPDF(t, 1_000)
	op := NewOperation(NewGhostscript(types.CompressConfig{}, missingExecutor{}))

	out := op.Process(input, output)

	require.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, types.KindToolUnavailable, out.Kind)
	assert.ErrorContains(t, errors.New(out.Message), "ghostscript")
}

// missingExecutor resolves nothing.
type missingExecutor struct{}

func (missingExecutor) LookPath(string) (string, error) {
	return "", errors.New("executable file not found in $PATH")
}

func (missingExecutor) Run(string, ...string) (string, error) {
	return "", errors.New("should not run")
}

func TestGhostscript_ResolvesOnce(t *testing.T) {
	input, output := setupPDF(t, 1_000)
	ex := &fakeGS{outputSize: 500}
	gs := NewGhostscript(types.CompressConfig{GhostscriptPath: "/opt/gs/gs"}, ex)
	op := NewOperation(gs)

	op.Process(input, output)
	input2, output2 := setupPDF(t, 1_000)
	op.Process(input2, output2)

	bin, err := gs.resolve()
	require.NoError(t, err)
	assert.Equal(t, "/opt/gs/gs", bin)
}
