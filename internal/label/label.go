// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package label stamps a filename-derived text label onto every page of a
// PDF. Stamping shells out to pdfcpu; page counts are read in-process.
package label

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/docpress/internal/naming"
	"github.com/pdiddy/docpress/internal/tool"
	"github.com/pdiddy/docpress/internal/validate"
	"github.com/pdiddy/docpress/pkg/types"
)

// Stamper writes a copy of the PDF at in to out with text stamped on
// every page.
type Stamper interface {
	Stamp(in, out, text string) error
}

// positionCodes maps the configured label positions to pdfcpu anchors.
var positionCodes = map[types.LabelPosition]string{
	types.PositionHeader:      "tc",
	types.PositionFooter:      "bc",
	types.PositionTopLeft:     "tl",
	types.PositionTopRight:    "tr",
	types.PositionBottomLeft:  "bl",
	types.PositionBottomRight: "br",
}

// Description builds the pdfcpu stamp description string for the settings.
// The same settings always yield the same description, which keeps label
// placement deterministic across runs.
func Description(cfg types.LabelConfig) string {
	pos, ok := positionCodes[cfg.Position]
	if !ok {
		pos = positionCodes[types.PositionFooter]
	}
	size := cfg.FontSize
	if size <= 0 {
		size = 10
	}
	color := cfg.Color
	if color == "" {
		color = "#FF0000"
	}
	opacity := cfg.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1.0
	}
	return fmt.Sprintf("font:Helvetica, points:%d, pos:%s, off:0 10, fillcol:%s, op:%.2f, rot:0, scale:1 abs",
		size, pos, color, opacity)
}

// Pdfcpu is the production Stamper. The binary is resolved lazily so a
// missing installation surfaces as a tool-unavailable outcome.
type Pdfcpu struct {
	explicit    string
	description string
	exec        tool.Executor

	once    sync.Once
	bin     string
	findErr error
}

// NewPdfcpu creates a pdfcpu-backed stamper for the given settings.
func NewPdfcpu(cfg types.LabelConfig, ex tool.Executor) *Pdfcpu {
	return &Pdfcpu{explicit: cfg.PdfcpuPath, description: Description(cfg), exec: ex}
}

func (p *Pdfcpu) resolve() (string, error) {
	p.once.Do(func() {
		p.bin, p.findErr = tool.Find(p.exec, p.explicit, tool.PdfcpuCandidates()...)
	})
	return p.bin, p.findErr
}

// Stamp runs pdfcpu stamp add, writing the stamped copy to out.
func (p *Pdfcpu) Stamp(in, out, text string) error {
	bin, err := p.resolve()
	if err != nil {
		return fmt.Errorf("pdfcpu: %w", err)
	}

	stderr, err := p.exec.Run(bin, "stamp", "add", "-mode", "text", "--", text, p.description, in, out)
	if err != nil {
		return fmt.Errorf("stamping %s: %v%s", in, err, stderrTail(stderr))
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

// PageCount reads the number of pages in a PDF.
func PageCount(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// Operation adapts a Stamper to the batch contract.
type Operation struct {
	stamper Stamper

	// pageCount is swappable for tests that use non-PDF fixtures.
	pageCount func(string) (int, error)
}

// New creates the production label operation.
func New(cfg types.LabelConfig) *Operation {
	return &Operation{stamper: NewPdfcpu(cfg, tool.Default), pageCount: PageCount}
}

// NewOperation creates a label operation with an injected Stamper.
func NewOperation(s Stamper) *Operation {
	return &Operation{stamper: s, pageCount: PageCount}
}

func (o *Operation) Name() string { return "label" }

func (o *Operation) Extensions() map[string]bool { return validate.PDFExtensions }

func (o *Operation) OutputPath(input, outputDir string) string {
	return naming.OutputPath(input, outputDir, "_labeled", ".pdf")
}

// Process stamps one file. The label text is the input's filename without
// extension. The stamper always reads the original input, never a prior
// labeled copy, so repeat runs over the same inputs produce identical
// output with no label accumulation. Labeling reports no size delta.
func (o *Operation) Process(input, output string) types.Outcome {
	fail := func(kind types.ErrorKind, err error) types.Outcome {
		return types.Outcome{Input: input, Status: types.StatusFailed, Kind: kind, Message: err.Error()}
	}

	text := naming.Stem(input)
	partial := output + ".partial"
	if err := o.stamper.Stamp(input, partial, text); err != nil {
		os.Remove(partial)
		kind := types.KindProcessing
		if errors.Is(err, tool.ErrNotFound) {
			kind = types.KindToolUnavailable
		}
		return fail(kind, err)
	}

	if _, err := os.Stat(partial); err != nil {
		os.Remove(partial)
		return fail(types.KindProcessing, fmt.Errorf("pdfcpu produced no output for %s", input))
	}

	if err := os.Rename(partial, output); err != nil {
		os.Remove(partial)
		return fail(types.KindResource, fmt.Errorf("writing output: %w", err))
	}

	pages, err := o.pageCount(input)
	if err != nil {
		// Count failures are cosmetic once stamping succeeded.
		pages = 0
	}

	return types.Outcome{
		Input:  input,
		Status: types.StatusSucceeded,
		Output: output,
		Pages:  pages,
	}
}
