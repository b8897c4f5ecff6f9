// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TaskStatus tracks a file's journey through a batch run.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusSucceeded TaskStatus = "succeeded"
	StatusFailed    TaskStatus = "failed"
	StatusSkipped   TaskStatus = "skipped"
)

// ErrorKind categorizes why a file failed or was skipped, so the summary
// can tell "this file was corrupt" from "the tool is missing" from "disk
// ran out of space".
type ErrorKind string

const (
	// KindValidation marks bad input rejected before processing started:
	// missing file, unsupported extension, empty file.
	KindValidation ErrorKind = "validation"

	// KindProcessing marks a collaborator-level failure: the render,
	// compress, or label step itself failed.
	KindProcessing ErrorKind = "processing"

	// KindToolUnavailable marks a missing external dependency. It is
	// distinct because it affects every remaining file, not just one.
	KindToolUnavailable ErrorKind = "tool-unavailable"

	// KindResource marks an environment failure writing output: disk
	// full, permission denied.
	KindResource ErrorKind = "resource"
)

// FileTask is one unit of work: a single file moving through a batch.
// It is created when the file enters the batch, mutated only by the batch
// processor, and discarded once folded into a BatchReport.
type FileTask struct {
	// Index is the file's position in the original input list.
	Index int `json:"index" yaml:"index"`

	// Input is the source path.
	Input string `json:"input" yaml:"input"`

	// Output is the resolved target path under the output directory.
	// Empty for files rejected by validation.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Status is the task's current state.
	Status TaskStatus `json:"status" yaml:"status"`
}

// Outcome is the immutable terminal result of one file's processing attempt.
type Outcome struct {
	Input  string     `json:"input" yaml:"input"`
	Status TaskStatus `json:"status" yaml:"status"`

	// Output is the written file path; set only on success.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Kind and Message describe the failure or skip reason; empty on success.
	Kind    ErrorKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`

	// Elapsed is the processing time for this file. Zero for skipped files.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// SizeBefore and SizeAfter are input/output sizes in bytes for
	// operations that report a size delta. Labeling leaves them zero.
	SizeBefore int64 `json:"size_before,omitempty" yaml:"size_before,omitempty"`
	SizeAfter  int64 `json:"size_after,omitempty" yaml:"size_after,omitempty"`

	// Grew flags a successful compression whose output is larger than
	// its input. The outcome still counts as a success.
	Grew bool `json:"grew,omitempty" yaml:"grew,omitempty"`

	// Pages is the number of pages stamped; set only by labeling.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Succeeded reports whether the file processed successfully.
func (o Outcome) Succeeded() bool { return o.Status == StatusSucceeded }

// BatchReport is the aggregate, order-preserving result of a batch run.
// Outcomes appear in original input order regardless of the order in which
// concurrent workers finished them.
type BatchReport struct {
	// RunID uniquely identifies this run in the history store.
	RunID string `json:"run_id" yaml:"run_id"`

	// Operation names the batch operation: convert, compress, or label.
	Operation string `json:"operation" yaml:"operation"`

	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`

	// Outcomes holds one entry per input file, in input order.
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`

	// Elapsed is the wall-clock duration of the whole run. Under
	// concurrency it is at least the maximum per-file elapsed time;
	// sequentially it is the sum.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Total returns the number of files in the run.
func (r BatchReport) Total() int { return len(r.Outcomes) }

// SuccessCount returns the number of files that processed successfully.
func (r BatchReport) SuccessCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusSucceeded {
			n++
		}
	}
	return n
}

// FailureCount returns the number of files that did not succeed because of
// their own condition: adapter-level failures plus validation rejects.
// Validation rejects never reached an adapter, but they never succeeded
// either, so the summary counts them as failures with a distinct kind.
func (r BatchReport) FailureCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed || (o.Status == StatusSkipped && o.Kind == KindValidation) {
			n++
		}
	}
	return n
}

// SkippedCount returns the number of files skipped for batch-level reasons:
// cancellation, an aborted batch, or a missing tool short-circuit.
func (r BatchReport) SkippedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusSkipped && o.Kind != KindValidation {
			n++
		}
	}
	return n
}

// HasFailures reports whether any file failed.
func (r BatchReport) HasFailures() bool { return r.FailureCount() > 0 }
