// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compress implements PDF compression through Ghostscript: named
// quality presets mapped to downsampling DPI and JPEG quality, and the
// batch operation wrapping the external tool.
package compress

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pdiddy/docpress/internal/naming"
	"github.com/pdiddy/docpress/internal/tool"
	"github.com/pdiddy/docpress/internal/validate"
	"github.com/pdiddy/docpress/pkg/types"
)

// Settings are the concrete Ghostscript parameters a preset expands to.
type Settings struct {
	// DPI is the target image resolution for color and gray images.
	// Mono images are downsampled at twice this value.
	DPI int

	// Threshold is the downsample trigger ratio: images above
	// DPI*Threshold are downsampled.
	Threshold float64

	// JPEGQuality is the DCT encode quality (1-100).
	JPEGQuality int
}

// presets maps the named quality presets to concrete parameters.
var presets = map[types.CompressionPreset]Settings{
	types.PresetScreen:   {DPI: 72, Threshold: 1.1, JPEGQuality: 60},
	types.PresetEbook:    {DPI: 150, Threshold: 1.1, JPEGQuality: 75},
	types.PresetPrinter:  {DPI: 300, Threshold: 1.1, JPEGQuality: 85},
	types.PresetPrepress: {DPI: 300, Threshold: 1.5, JPEGQuality: 90},
	types.PresetDefault:  {DPI: 144, Threshold: 1.1, JPEGQuality: 75},
}

// PresetSettings expands the configured preset and applies any explicit
// DPI/quality overrides. Unknown presets fall back to ebook.
func PresetSettings(cfg types.CompressConfig) Settings {
	s, ok := presets[cfg.Preset]
	if !ok {
		s = presets[types.PresetEbook]
	}
	if cfg.TargetDPI > 0 {
		s.DPI = cfg.TargetDPI
	}
	if cfg.ImageQuality > 0 {
		s.JPEGQuality = cfg.ImageQuality
	}
	return s
}

// Args builds the Ghostscript argument list for one compression run.
func Args(in, out string, s Settings) []string {
	return []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.5",
		"-dDownsampleColorImages=true",
		"-dColorImageDownsampleType=/Bicubic",
		fmt.Sprintf("-dColorImageResolution=%d", s.DPI),
		fmt.Sprintf("-dColorImageDownsampleThreshold=%.2f", s.Threshold),
		"-dAutoFilterColorImages=false",
		"-dColorImageFilter=/DCTEncode",
		"-dDownsampleGrayImages=true",
		"-dGrayImageDownsampleType=/Bicubic",
		fmt.Sprintf("-dGrayImageResolution=%d", s.DPI),
		fmt.Sprintf("-dGrayImageDownsampleThreshold=%.2f", s.Threshold),
		"-dAutoFilterGrayImages=false",
		"-dGrayImageFilter=/DCTEncode",
		"-dDownsampleMonoImages=true",
		// Subsample keeps mono edges sharp; Bicubic blurs them.
		"-dMonoImageDownsampleType=/Subsample",
		fmt.Sprintf("-dMonoImageResolution=%d", s.DPI*2),
		fmt.Sprintf("-dMonoImageDownsampleThreshold=%.2f", s.Threshold),
		fmt.Sprintf("-dJPEGQ=%d", s.JPEGQuality),
		"-sColorConversionStrategy=RGB",
		"-dConvertCMYKImagesToRGB=true",
		"-dEmbedAllFonts=true",
		"-dSubsetFonts=true",
		"-dCompressFonts=true",
		"-dDetectDuplicateImages=true",
		"-dFastWebView=true",
		"-dNOPAUSE",
		"-dBATCH",
		"-dQUIET",
		"-sOutputFile=" + out,
		in,
	}
}

// Compressor reduces a PDF at in into a new file at out.
type Compressor interface {
	Compress(in, out string) error
}

// Ghostscript is the production Compressor. The binary is resolved lazily
// on first use so a missing installation surfaces as a tool-unavailable
// outcome instead of a construction error.
type Ghostscript struct {
	explicit string
	settings Settings
	exec     tool.Executor

	once    sync.Once
	bin     string
	findErr error
}

// NewGhostscript creates a Ghostscript compressor for the given settings.
func NewGhostscript(cfg types.CompressConfig, ex tool.Executor) *Ghostscript {
	return &Ghostscript{
		explicit: cfg.GhostscriptPath,
		settings: PresetSettings(cfg),
		exec:     ex,
	}
}

func (g *Ghostscript) resolve() (string, error) {
	g.once.Do(func() {
		g.bin, g.findErr = tool.Find(g.exec, g.explicit, tool.GhostscriptCandidates()...)
	})
	return g.bin, g.findErr
}

// Compress runs Ghostscript. Errors wrapping tool.ErrNotFound mean the
// binary is missing; anything else is a per-file processing failure.
func (g *Ghostscript) Compress(in, out string) error {
	bin, err := g.resolve()
	if err != nil {
		return fmt.Errorf("ghostscript: %w", err)
	}

	stderr, err := g.exec.Run(bin, Args(in, out, g.settings)...)
	if err != nil {
		return fmt.Errorf("ghostscript failed for %s: %v%s", in, err, stderrTail(stderr))
	}
	return nil
}

// stderrTail formats the last lines of tool stderr for an error message.
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

// Operation adapts a Compressor to the batch contract.
type Operation struct {
	compressor Compressor
}

// New creates the production compress operation.
func New(cfg types.CompressConfig) *Operation {
	return &Operation{compressor: NewGhostscript(cfg, tool.Default)}
}

// NewOperation creates a compress operation with an injected Compressor.
func NewOperation(c Compressor) *Operation {
	return &Operation{compressor: c}
}

func (o *Operation) Name() string { return "compress" }

func (o *Operation) Extensions() map[string]bool { return validate.PDFExtensions }

func (o *Operation) OutputPath(input, outputDir string) string {
	return naming.OutputPath(input, outputDir, "_compressed", ".pdf")
}

// Process compresses one file. Output is written to a temporary path and
// renamed on success so a failure never leaves a partial file behind.
// An output larger than its input is a success with Grew set; the caller's
// failure policy decides what to make of it.
func (o *Operation) Process(input, output string) types.Outcome {
	fail := func(kind types.ErrorKind, err error) types.Outcome {
		return types.Outcome{Input: input, Status: types.StatusFailed, Kind: kind, Message: err.Error()}
	}

	info, err := os.Stat(input)
	if err != nil {
		return fail(types.KindProcessing, fmt.Errorf("cannot stat input: %w", err))
	}
	before := info.Size()

	partial := output + ".partial"
	if err := o.compressor.Compress(input, partial); err != nil {
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
		return fail(types.KindProcessing, fmt.Errorf("ghostscript produced no output for %s: %w", input, err))
	}
	after := outInfo.Size()

	if err := os.Rename(partial, output); err != nil {
		os.Remove(partial)
		return fail(types.KindResource, fmt.Errorf("writing output: %w", err))
	}

	return types.Outcome{
		Input:      input,
		Status:     types.StatusSucceeded,
		Output:     output,
		SizeBefore: before,
		SizeAfter:  after,
		Grew:       after > before,
	}
}
