// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render implements Word-to-PDF conversion. Rendering shells out
// to LibreOffice in headless mode; .docx sources can have their embedded
// images re-encoded first to shrink the resulting PDF.
package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdiddy/docpress/internal/naming"
	"github.com/pdiddy/docpress/internal/tool"
	"github.com/pdiddy/docpress/internal/validate"
	"github.com/pdiddy/docpress/pkg/types"
)

// Renderer converts a Word document into a PDF at outPath.
type Renderer interface {
	Render(docPath, outPath string) error
}

// Soffice renders documents with LibreOffice headless mode. The binary is
// resolved lazily so a missing installation surfaces per file as a
// tool-unavailable outcome.
type Soffice struct {
	explicit string
	exec     tool.Executor

	once    sync.Once
	bin     string
	findErr error
}

// NewSoffice creates a LibreOffice renderer.
func NewSoffice(explicitPath string, ex tool.Executor) *Soffice {
	return &Soffice{explicit: explicitPath, exec: ex}
}

func (s *Soffice) resolve() (string, error) {
	s.once.Do(func() {
		s.bin, s.findErr = tool.Find(s.exec, s.explicit, tool.SofficeCandidates()...)
	})
	return s.bin, s.findErr
}

// Render converts docPath to PDF. soffice names its own output after the
// input stem, so conversion runs in a scratch directory and the result is
// moved to outPath.
func (s *Soffice) Render(docPath, outPath string) error {
	bin, err := s.resolve()
	if err != nil {
		return fmt.Errorf("libreoffice: %w", err)
	}

	scratch, err := os.MkdirTemp(filepath.Dir(outPath), ".render-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	stderr, err := s.exec.Run(bin, "--headless", "--convert-to", "pdf", "--outdir", scratch, docPath)
	if err != nil {
		return fmt.Errorf("rendering %s: %v%s", docPath, err, stderrTail(stderr))
	}

	produced := filepath.Join(scratch, naming.Stem(docPath)+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("libreoffice produced no output for %s", docPath)
	}
	if err := os.Rename(produced, outPath); err != nil {
		return fmt.Errorf("moving rendered output: %w", err)
	}
	return nil
}

func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, " | ")
}

// Operation adapts a Renderer to the batch contract.
type Operation struct {
	renderer Renderer
	cfg      types.ConvertConfig
}

// New creates the production convert operation.
func New(cfg types.ConvertConfig) *Operation {
	return &Operation{renderer: NewSoffice(cfg.SofficePath, tool.Default), cfg: cfg}
}

// NewOperation creates a convert operation with an injected Renderer.
func NewOperation(r Renderer, cfg types.ConvertConfig) *Operation {
	return &Operation{renderer: r, cfg: cfg}
}

func (o *Operation) Name() string { return "convert" }

func (o *Operation) Extensions() map[string]bool { return validate.WordExtensions }

func (o *Operation) OutputPath(input, outputDir string) string {
	return naming.OutputPath(input, outputDir, "", ".pdf")
}

// Process converts one document. When image compression is enabled and the
// source is a .docx, embedded images are re-encoded into a scratch copy
// first; .doc and .rtf render directly. Output goes through a temporary
// path so failures leave nothing behind. Repeat runs over the same input
// and settings produce the same output.
func (o *Operation) Process(input, output string) types.Outcome {
	fail := func(kind types.ErrorKind, err error) types.Outcome {
		return types.Outcome{Input: input, Status: types.StatusFailed, Kind: kind, Message: err.Error()}
	}

	info, err := os.Stat(input)
	if err != nil {
		return fail(types.KindProcessing, fmt.Errorf("cannot stat input: %w", err))
	}
	before := info.Size()

	src := input
	var scratch string
	if o.cfg.CompressImages && strings.EqualFold(filepath.Ext(input), ".docx") {
		scratch, err = os.MkdirTemp("", "docpress-*")
		if err != nil {
			return fail(types.KindResource, fmt.Errorf("creating scratch directory: %w", err))
		}
		defer os.RemoveAll(scratch)

		shrunk := filepath.Join(scratch, filepath.Base(input))
		quality := o.cfg.ImageQuality
		if quality <= 0 {
			quality = 75
		}
		// A shrink failure is not fatal: render the original instead.
		if err := ShrinkDocx(input, shrunk, quality, o.cfg.OptimizePNG); err == nil {
			src = shrunk
		}
	}

	partial := output + ".partial"
	if err := o.renderer.Render(src, partial); err != nil {
		os.Remove(partial)
		kind := types.KindProcessing
		if errors.Is(err, tool.ErrNotFound) {
			kind = types.KindToolUnavailable
		}
		return fail(kind, err)
	}

	outInfo, err := os.Stat(partial)
	if err != nil {
		os.Remove(partial)
		return fail(types.KindProcessing, fmt.Errorf("render produced no output for %s", input))
	}

	if err := os.Rename(partial, output); err != nil {
		os.Remove(partial)
		return fail(types.KindResource, fmt.Errorf("writing output: %w", err))
	}

	return types.Outcome{
		Input:      input,
		Status:     types.StatusSucceeded,
		Output:     output,
		SizeBefore: before,
		SizeAfter:  outInfo.Size(),
	}
}
