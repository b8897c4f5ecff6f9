// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch orchestrates a list of files through one operation,
// applying a failure policy, emitting progress, and collecting per-file
// outcomes into an order-preserving report.
package batch

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/docpress/internal/naming"
	"github.com/pdiddy/docpress/internal/validate"
	"github.com/pdiddy/docpress/pkg/types"
)

// Skip reasons for files that never reached their operation.
const (
	reasonCancelled = "cancelled"
	reasonAborted   = "batch aborted"
)

// Operation is the uniform contract wrapping one external collaborator:
// Word-to-PDF rendering, PDF compression, or PDF labeling. Process is
// blocking and must never panic outward; every collaborator failure is
// converted into a failure outcome.
type Operation interface {
	// Name identifies the operation: "convert", "compress", or "label".
	Name() string

	// Extensions returns the accepted input extension set.
	Extensions() map[string]bool

	// OutputPath derives the target path for an input file under the
	// output directory.
	OutputPath(input, outputDir string) string

	// Process runs the operation for one file, writing output and
	// returning its outcome. On failure no partial output may remain.
	Process(input, output string) types.Outcome
}

// Processor drives a batch of files through one Operation.
type Processor struct {
	op       Operation
	cfg      types.BatchConfig
	reporter ProgressReporter

	mu   sync.Mutex
	stop struct {
		on   bool
		kind types.ErrorKind
		msg  string
	}
}

// New creates a Processor. A nil reporter is replaced with a no-op sink.
func New(op Operation, cfg types.BatchConfig, reporter ProgressReporter) *Processor {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Processor{op: op, cfg: cfg, reporter: reporter}
}

// Run processes inputs and returns the batch report. Per-file errors are
// captured into outcomes, never returned. Cancellation via ctx is checked
// between files only; an in-flight file always finishes. Outcomes appear
// in input order regardless of worker completion order.
func (p *Processor) Run(ctx context.Context, inputs []string) types.BatchReport {
	started := time.Now()
	outcomes := make([]types.Outcome, len(inputs))
	tasks := make([]types.FileTask, len(inputs))
	for i, in := range inputs {
		tasks[i] = types.FileTask{Index: i, Input: in, Status: types.StatusPending}
	}

	// Validation rejects become skipped tasks immediately; they never
	// consume operation capacity.
	_, rejects := validate.Partition(inputs, p.op.Extensions())
	rejected := make(map[int]bool, len(rejects))
	ri := 0
	for i, in := range inputs {
		if ri < len(rejects) && rejects[ri].Path == in {
			rejected[i] = true
			p.finishSkip(&tasks[i], &outcomes[i], rejects[ri].Kind, rejects[ri].Message)
			ri++
		}
	}

	// Resolve output paths up front so concurrent workers never race on
	// a name: collisions get deterministic numeric suffixes.
	resolver := naming.NewResolver()
	var pending []int
	for i := range tasks {
		if rejected[i] {
			continue
		}
		tasks[i].Output = resolver.Resolve(tasks[i].Input, p.op.OutputPath(tasks[i].Input, p.cfg.OutputDir))
		pending = append(pending, i)
	}

	if len(pending) > 0 {
		if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
			msg := fmt.Sprintf("cannot create output directory: %v", err)
			for _, i := range pending {
				tasks[i].Status = types.StatusFailed
				outcomes[i] = types.Outcome{
					Input:   tasks[i].Input,
					Status:  types.StatusFailed,
					Kind:    types.KindResource,
					Message: msg,
				}
				p.reporter.FileDone(tasks[i], outcomes[i])
			}
			pending = nil
		}
	}

	p.runPending(ctx, tasks, outcomes, pending)

	report := types.BatchReport{
		RunID:       uuid.NewString(),
		Operation:   p.op.Name(),
		StartedAt:   started,
		CompletedAt: time.Now(),
		Outcomes:    outcomes,
		Elapsed:     time.Since(started),
	}
	p.reporter.BatchDone(report)
	return report
}

// runPending drives the not-yet-terminal tasks, sequentially or through a
// bounded worker pool.
func (p *Processor) runPending(ctx context.Context, tasks []types.FileTask, outcomes []types.Outcome, pending []int) {
	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pending) {
		workers = len(pending)
	}
	if len(pending) == 0 {
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				p.runOne(ctx, &tasks[i], &outcomes[i])
			}
		}()
	}

	for _, i := range pending {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// runOne handles a single task: halt/cancel checks at the file-start
// boundary, then Pending -> Running -> Succeeded/Failed.
func (p *Processor) runOne(ctx context.Context, task *types.FileTask, outcome *types.Outcome) {
	if kind, msg, halted := p.halted(); halted {
		p.finishSkip(task, outcome, kind, msg)
		return
	}
	if ctx.Err() != nil {
		p.finishSkip(task, outcome, "", reasonCancelled)
		return
	}

	task.Status = types.StatusRunning
	p.reporter.FileStart(*task)

	start := time.Now()
	out := p.op.Process(task.Input, task.Output)
	out.Input = task.Input
	out.Elapsed = time.Since(start)

	if out.Succeeded() {
		task.Status = types.StatusSucceeded
	} else {
		task.Status = types.StatusFailed
		out.Status = types.StatusFailed
	}
	*outcome = out
	p.reporter.FileDone(*task, out)

	if task.Status == types.StatusFailed {
		switch {
		case out.Kind == types.KindToolUnavailable:
			// The tool will not appear mid-batch; skip the rest.
			p.halt(types.KindToolUnavailable, out.Message)
		case p.cfg.Policy == types.StopOnFirstFailure:
			p.halt("", reasonAborted)
		}
	}
}

func (p *Processor) finishSkip(task *types.FileTask, outcome *types.Outcome, kind types.ErrorKind, msg string) {
	task.Status = types.StatusSkipped
	*outcome = types.Outcome{
		Input:   task.Input,
		Status:  types.StatusSkipped,
		Kind:    kind,
		Message: msg,
	}
	p.reporter.FileDone(*task, *outcome)
}

func (p *Processor) halt(kind types.ErrorKind, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop.on {
		return
	}
	p.stop.on = true
	p.stop.kind = kind
	p.stop.msg = msg
}

func (p *Processor) halted() (types.ErrorKind, string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop.kind, p.stop.msg, p.stop.on
}
