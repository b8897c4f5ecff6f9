// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import "github.com/pdiddy/docpress/pkg/types"

// ProgressReporter receives per-file and aggregate progress events. It is
// purely a notification sink: no return value influences control flow, and
// a no-op implementation is a valid substitute.
//
// Under concurrency, FileStart and FileDone arrive in completion order,
// which may differ from input order; only the final report preserves input
// order. Implementations must be safe for concurrent use.
type ProgressReporter interface {
	// FileStart fires when a task transitions to running.
	FileStart(task types.FileTask)

	// FileDone fires when a task reaches a terminal state, including
	// validation rejects and batch-level skips that never started.
	FileDone(task types.FileTask, outcome types.Outcome)

	// BatchDone fires once with the completed report.
	BatchDone(report types.BatchReport)
}

// NopReporter discards all progress events.
type NopReporter struct{}

func (NopReporter) FileStart(types.FileTask) {}

func (NopReporter) FileDone(types.FileTask, types.Outcome) {}

func (NopReporter) BatchDone(types.BatchReport) {}
