// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for docpress: operation
// settings, per-file tasks and outcomes, and batch reports.
package types

// FailurePolicy controls how a batch reacts to a per-file failure.
type FailurePolicy string

const (
	// ContinueOnError processes all remaining files regardless of prior
	// failures (the default).
	ContinueOnError FailurePolicy = "continue-on-error"

	// StopOnFirstFailure aborts the remaining batch after the first
	// failure; unstarted files are skipped with reason "batch aborted".
	StopOnFirstFailure FailurePolicy = "stop-on-first-failure"
)

// BatchConfig holds the settings shared by every operation: where output
// goes, how failures are handled, and how many files run at once. It is
// immutable for the duration of a batch run.
type BatchConfig struct {
	// OutputDir is the directory all output files are written under.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Policy selects continue-on-error or stop-on-first-failure.
	Policy FailurePolicy `json:"policy" yaml:"policy"`

	// Workers is the maximum number of files processed concurrently.
	// Values below 2 mean strictly sequential processing.
	Workers int `json:"workers" yaml:"workers"`
}

// ConvertConfig holds settings for Word-to-PDF conversion.
type ConvertConfig struct {
	BatchConfig `yaml:",inline"`

	// CompressImages re-encodes images embedded in .docx sources before
	// rendering. Only .docx supports this; .doc and .rtf render directly.
	CompressImages bool `json:"compress_images" yaml:"compress_images"`

	// ImageQuality is the JPEG quality (1-100) used when re-encoding
	// embedded images (default 75).
	ImageQuality int `json:"image_quality" yaml:"image_quality"`

	// OptimizePNG re-encodes embedded PNGs with best compression.
	OptimizePNG bool `json:"optimize_png" yaml:"optimize_png"`

	// SofficePath is an explicit path to the LibreOffice binary. Empty
	// means search PATH.
	SofficePath string `json:"soffice_path,omitempty" yaml:"soffice_path,omitempty"`
}

// CompressionPreset names a Ghostscript quality preset.
type CompressionPreset string

const (
	PresetScreen   CompressionPreset = "screen"   // ~72 DPI, smallest output
	PresetEbook    CompressionPreset = "ebook"    // ~150 DPI, balanced
	PresetPrinter  CompressionPreset = "printer"  // ~300 DPI, print quality
	PresetPrepress CompressionPreset = "prepress" // ~300 DPI, color preserved
	PresetDefault  CompressionPreset = "default"  // between ebook and printer
)

// CompressConfig holds settings for PDF compression.
type CompressConfig struct {
	BatchConfig `yaml:",inline"`

	// Preset selects the quality preset mapped to DPI, downsample
	// threshold, and JPEG quality (default ebook).
	Preset CompressionPreset `json:"preset" yaml:"preset"`

	// TargetDPI overrides the preset's image resolution when positive.
	TargetDPI int `json:"target_dpi,omitempty" yaml:"target_dpi,omitempty"`

	// ImageQuality overrides the preset's JPEG quality (1-100) when positive.
	ImageQuality int `json:"image_quality,omitempty" yaml:"image_quality,omitempty"`

	// GhostscriptPath is an explicit path to the Ghostscript binary.
	// Empty means search PATH for the platform's candidates.
	GhostscriptPath string `json:"ghostscript_path,omitempty" yaml:"ghostscript_path,omitempty"`
}

// LabelPosition names a fixed page position for the stamped label.
type LabelPosition string

const (
	PositionHeader      LabelPosition = "header"
	PositionFooter      LabelPosition = "footer"
	PositionTopLeft     LabelPosition = "top-left"
	PositionTopRight    LabelPosition = "top-right"
	PositionBottomLeft  LabelPosition = "bottom-left"
	PositionBottomRight LabelPosition = "bottom-right"
)

// LabelConfig holds settings for stamping filename labels onto PDF pages.
type LabelConfig struct {
	BatchConfig `yaml:",inline"`

	// Position places the label on each page (default footer).
	Position LabelPosition `json:"position" yaml:"position"`

	// FontSize is the label font size in points (default 10).
	FontSize int `json:"font_size" yaml:"font_size"`

	// Color is the label color as a hex string (default "#FF0000").
	Color string `json:"color" yaml:"color"`

	// Opacity is the label opacity from 0.0 to 1.0 (default 1.0).
	Opacity float64 `json:"opacity" yaml:"opacity"`

	// PdfcpuPath is an explicit path to the pdfcpu binary. Empty means
	// search PATH.
	PdfcpuPath string `json:"pdfcpu_path,omitempty" yaml:"pdfcpu_path,omitempty"`
}

// Config groups all operation configurations plus cross-cutting settings.
type Config struct {
	Convert  ConvertConfig  `json:"convert" yaml:"convert"`
	Compress CompressConfig `json:"compress" yaml:"compress"`
	Label    LabelConfig    `json:"label" yaml:"label"`

	// HistoryDir is the directory holding the run-history database.
	HistoryDir string `json:"history_dir" yaml:"history_dir"`
}
