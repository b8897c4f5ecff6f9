// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tool implements external tool discovery and subprocess execution
// for the collaborators docpress shells out to: LibreOffice, Ghostscript,
// and pdfcpu.
package tool

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrNotFound is wrapped by Find when no candidate binary is on PATH.
// Adapters map it to the tool-unavailable error kind, which short-circuits
// the remaining batch.
var ErrNotFound = errors.New("tool not found on PATH")

// Executor abstracts command lookup and execution for testing.
type Executor interface {
	// LookPath resolves a binary name to an absolute path.
	LookPath(file string) (string, error)

	// Run executes the command and waits for it, returning captured
	// stderr for diagnostics alongside any execution error.
	Run(name string, args ...string) (stderr string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// Default is the production executor.
var Default Executor = &osExecutor{}

// Find resolves a tool binary. An explicit path wins when given; otherwise
// the candidates are tried on PATH in order. Returns an error wrapping
// ErrNotFound when nothing resolves.
func Find(ex Executor, explicit string, candidates ...string) (string, error) {
	if explicit != "" {
		if path, err := ex.LookPath(explicit); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%q not executable: %w", explicit, ErrNotFound)
	}

	for _, c := range candidates {
		if path, err := ex.LookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("none of %v found: %w", candidates, ErrNotFound)
}

// GhostscriptCandidates returns the platform's Ghostscript binary names.
// Windows installs the console binary as gswin64c/gswin32c; everywhere
// else it is gs.
func GhostscriptCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"gswin64c", "gswin32c", "gswin64", "gswin32"}
	}
	return []string{"gs"}
}

// SofficeCandidates returns the LibreOffice binary names to try.
func SofficeCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"soffice.exe", "soffice"}
	}
	return []string{"soffice", "libreoffice"}
}

// PdfcpuCandidates returns the pdfcpu binary names to try.
func PdfcpuCandidates() []string {
	return []string{"pdfcpu"}
}
