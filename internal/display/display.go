// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package display renders batch progress and summaries for the terminal.
// It is one ProgressReporter implementation among others; the batch engine
// works identically with a no-op sink.
package display

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/pdiddy/docpress/internal/batch"
	"github.com/pdiddy/docpress/pkg/types"
)

// Reporter writes one status line per file event. Lines appear in
// completion order, which under concurrency may differ from input order.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	total int
	done  int
}

// NewReporter creates a console reporter for a batch of total files.
func NewReporter(w io.Writer, total int) *Reporter {
	return &Reporter{w: w, total: total}
}

// FileStart announces a file entering processing.
func (r *Reporter) FileStart(task types.FileTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "[%d/%d] processing: %s\n", r.done+1, r.total, filepath.Base(task.Input))
}

// FileDone reports a terminal state for a file.
func (r *Reporter) FileDone(task types.FileTask, outcome types.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
	base := filepath.Base(task.Input)

	switch outcome.Status {
	case types.StatusSucceeded:
		if outcome.SizeBefore > 0 && outcome.SizeAfter > 0 {
			note := ""
			if outcome.Grew {
				note = ", larger than input"
			}
			fmt.Fprintf(r.w, "[%d/%d] done: %s (%s -> %s%s)\n", r.done, r.total, base,
				batch.FormatBytes(outcome.SizeBefore), batch.FormatBytes(outcome.SizeAfter), note)
			return
		}
		if outcome.Pages > 0 {
			fmt.Fprintf(r.w, "[%d/%d] done: %s (%d pages)\n", r.done, r.total, base, outcome.Pages)
			return
		}
		fmt.Fprintf(r.w, "[%d/%d] done: %s\n", r.done, r.total, base)
	case types.StatusFailed:
		fmt.Fprintf(r.w, "[%d/%d] failed: %s (%s: %s)\n", r.done, r.total, base,
			batch.KindLabel(outcome.Kind), outcome.Message)
	default:
		fmt.Fprintf(r.w, "[%d/%d] skipped: %s (%s)\n", r.done, r.total, base, skipReason(outcome))
	}
}

// BatchDone is a no-op; the cmd layer prints the summary separately so it
// can also be saved or exported.
func (r *Reporter) BatchDone(types.BatchReport) {}

func skipReason(outcome types.Outcome) string {
	if outcome.Kind == types.KindValidation {
		return batch.KindLabel(outcome.Kind) + ": " + outcome.Message
	}
	return outcome.Message
}
