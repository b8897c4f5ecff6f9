// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/docpress/pkg/types"
)

// FailedDetail pairs a failed or rejected path with its reason.
type FailedDetail struct {
	Path   string
	Kind   types.ErrorKind
	Reason string
}

// Summary aggregates a report into counts and a human-readable text block.
type Summary struct {
	Text          string
	SuccessCount  int
	FailureCount  int
	SkippedCount  int
	FailedDetails []FailedDetail
}

var kindLabels = map[types.ErrorKind]string{
	types.KindValidation:      "validation error",
	types.KindProcessing:      "processing error",
	types.KindToolUnavailable: "tool unavailable",
	types.KindResource:        "resource error",
}

// KindLabel returns the human-readable label for an error kind.
func KindLabel(kind types.ErrorKind) string {
	if label, ok := kindLabels[kind]; ok {
		return label
	}
	return "skipped"
}

// Summarize folds a report into a Summary. It is a pure function of the
// report: the same report always yields the same text.
func Summarize(report types.BatchReport) Summary {
	s := Summary{
		SuccessCount: report.SuccessCount(),
		FailureCount: report.FailureCount(),
		SkippedCount: report.SkippedCount(),
	}

	var sumElapsed time.Duration
	var sizeBefore, sizeAfter int64
	var reductions []float64
	grew := 0

	for _, o := range report.Outcomes {
		sumElapsed += o.Elapsed

		switch o.Status {
		case types.StatusSucceeded:
			if o.SizeBefore > 0 && o.SizeAfter > 0 {
				sizeBefore += o.SizeBefore
				sizeAfter += o.SizeAfter
				reductions = append(reductions, 100*float64(o.SizeBefore-o.SizeAfter)/float64(o.SizeBefore))
			}
			if o.Grew {
				grew++
			}
		case types.StatusFailed:
			s.FailedDetails = append(s.FailedDetails, FailedDetail{Path: o.Input, Kind: o.Kind, Reason: o.Message})
		case types.StatusSkipped:
			if o.Kind == types.KindValidation {
				s.FailedDetails = append(s.FailedDetails, FailedDetail{Path: o.Input, Kind: o.Kind, Reason: o.Message})
			}
		}
	}

	var b strings.Builder
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Batch report: %s\n", report.Operation)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Total files:  %d\n", report.Total())
	fmt.Fprintf(&b, "Succeeded:    %d\n", s.SuccessCount)
	fmt.Fprintf(&b, "Failed:       %d\n", s.FailureCount)
	fmt.Fprintf(&b, "Skipped:      %d\n", s.SkippedCount)
	fmt.Fprintf(&b, "Total time:   %.1fs\n", report.Elapsed.Seconds())
	if n := report.Total(); n > 0 {
		fmt.Fprintf(&b, "Average/file: %.2fs\n", (sumElapsed / time.Duration(n)).Seconds())
	}

	if sizeBefore > 0 {
		var avg float64
		for _, r := range reductions {
			avg += r
		}
		avg /= float64(len(reductions))
		fmt.Fprintf(&b, "\nSize before:  %s\n", FormatBytes(sizeBefore))
		fmt.Fprintf(&b, "Size after:   %s\n", FormatBytes(sizeAfter))
		fmt.Fprintf(&b, "Reduction:    %s (avg %.1f%%)\n", FormatBytes(sizeBefore-sizeAfter), avg)
		if grew > 0 {
			fmt.Fprintf(&b, "Grew:         %d file(s) larger than input\n", grew)
		}
	}

	if len(s.FailedDetails) > 0 {
		fmt.Fprintln(&b, "\nFailed files:")
		for _, d := range s.FailedDetails {
			fmt.Fprintf(&b, "  - %s: %s: %s\n", d.Path, KindLabel(d.Kind), d.Reason)
		}
	}
	fmt.Fprintln(&b, rule)

	s.Text = b.String()
	return s
}

// FormatBytes renders a byte count as B, KB, or MB for display.
func FormatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
