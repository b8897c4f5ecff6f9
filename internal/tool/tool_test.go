// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor resolves only the binaries in its table.
type fakeExecutor struct {
	available map[string]string
	runs      [][]string
	runErr    error
	stderr    string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if path, ok := f.available[file]; ok {
		return path, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeExecutor) Run(name string, args ...string) (string, error) {
	f.runs = append(f.runs, append([]string{name}, args...))
	return f.stderr, f.runErr
}

func TestFind_ExplicitPathWins(t *testing.T) {
	ex := &fakeExecutor{available: map[string]string{
		"/opt/gs/bin/gs": "/opt/gs/bin/gs",
		"gs":             "/usr/bin/gs",
	}}

	path, err := Find(ex, "/opt/gs/bin/gs", "gs")
	require.NoError(t, err)
	assert.Equal(t, "/opt/gs/bin/gs", path)
}

func TestFind_ExplicitPathMissing(t *testing.T) {
	ex := &fakeExecutor{available: map[string]string{"gs": "/usr/bin/gs"}}

	// An explicit path that does not resolve is an error even when a
	// PATH candidate would have worked.
	_, err := Find(ex, "/nope/gs", "gs")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFind_CandidateOrder(t *testing.T) {
	ex := &fakeExecutor{available: map[string]string{
		"gswin32c": "C:\\gs\\gswin32c",
	}}

	path, err := Find(ex, "", "gswin64c", "gswin32c")
	require.NoError(t, err)
	assert.Equal(t, "C:\\gs\\gswin32c", path)
}

func TestFind_NothingAvailable(t *testing.T) {
	ex := &fakeExecutor{}
	_, err := Find(ex, "", "gs")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGhostscriptCandidates_NotEmpty(t *testing.T) {
	assert.NotEmpty(t, GhostscriptCandidates())
}
