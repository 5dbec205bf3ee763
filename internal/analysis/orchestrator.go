// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package analysis drives the end-to-end manifest matching pipeline:
// extract pages, scan and score each page, aggregate hits into matches,
// derive insights. It owns the processing state machine and exposes
// progress and cancellation to its caller.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"manifest-scan/internal/aggregate"
	"manifest-scan/internal/catalogue"
	"manifest-scan/internal/extract"
	"manifest-scan/internal/index"
	"manifest-scan/internal/insights"
	"manifest-scan/internal/observability"
	"manifest-scan/internal/parallel"
	"manifest-scan/internal/scorer"
)

// State is the orchestrator's processing state. Completed and Failed are
// terminal; Failed is reachable from any non-terminal state.
type State int

const (
	StateIdle State = iota
	StateExtracting
	StateScanning
	StateAggregating
	StateCompleted
	StateFailed
)

// String returns the state's display name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StateScanning:
		return "scanning"
	case StateAggregating:
		return "aggregating"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress is the monotonically increasing progress tuple a caller may
// poll or receive through the OnProgress callback.
type Progress struct {
	State        State
	PagesScanned int
	TotalPages   int
}

// Result is the outcome of a completed analysis run.
type Result struct {
	Matches               []aggregate.TextMatch `json:"matches"`
	TotalPages            int                   `json:"total_pages"`
	ProcessingTimeSeconds float64               `json:"processing_time_seconds"`
	Warnings              []string              `json:"warnings"`
	Recommendations       []string              `json:"recommendations"`
}

// Options configures an Orchestrator.
type Options struct {
	// Workers is the page-scan worker count; zero means one per CPU.
	Workers int
	// ContextChars is the context window taken around each match.
	ContextChars int
	// Observer receives operation records; may be nil.
	Observer *observability.StandardObserver
	// OnProgress, when set, is invoked on every progress change of the
	// active run. Calls are serialized.
	OnProgress func(Progress)
}

// Orchestrator runs manifest analyses. Only one analysis may be active per
// orchestrator; starting a new one cancels the prior run cooperatively and
// discards its partial results.
type Orchestrator struct {
	opts Options

	mu       sync.Mutex
	progress Progress
	cancel   context.CancelFunc
	runSeq   uint64
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	if opts.ContextChars <= 0 {
		opts.ContextChars = aggregate.DefaultContextChars
	}
	return &Orchestrator{opts: opts}
}

// Progress returns the current progress tuple of the active (or most
// recent) run.
func (o *Orchestrator) Progress() Progress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// Cancel cooperatively stops the active run, if any.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
}

// Analyze runs the full pipeline for one document: build the reference
// index from the catalogue snapshot, extract pages through the provider,
// scan and score each page concurrently, aggregate, and derive insights.
// It returns the result on success or a typed *Error on failure; a failed
// run never returns partial matches.
//
// If another analysis is in flight on this orchestrator it is cancelled
// first and its already-completed page results are discarded.
func (o *Orchestrator) Analyze(ctx context.Context, provider extract.PageProvider, handle string, entries []catalogue.Entry) (*Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	o.cancel = cancel
	o.runSeq++
	run := o.runSeq
	o.progress = Progress{State: StateIdle}
	o.mu.Unlock()

	start := time.Now()
	finish := o.startTiming("analyze", handle)

	result, err := o.run(runCtx, run, provider, handle, entries)
	if err != nil {
		o.setProgress(run, func(p *Progress) { p.State = StateFailed })
		finish(false, map[string]interface{}{"error_code": string(CodeOf(err))})
		return nil, err
	}

	result.ProcessingTimeSeconds = time.Since(start).Seconds()
	o.setProgress(run, func(p *Progress) { p.State = StateCompleted })
	finish(true, map[string]interface{}{
		"total_pages": result.TotalPages,
		"match_count": len(result.Matches),
	})
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, run uint64, provider extract.PageProvider, handle string, entries []catalogue.Entry) (*Result, error) {
	// A submission requires a non-empty, already-loaded catalogue.
	if len(entries) == 0 {
		return nil, newError(FailureEmptyCatalogue, "no dangerous goods reference data loaded", nil)
	}

	idx, err := index.Build(entries)
	if err != nil {
		var dup *index.DuplicateUnNumberError
		if errors.As(err, &dup) {
			return nil, newError(FailureDuplicateUnNumber, dup.Error(), err)
		}
		return nil, newError(FailureInternal, fmt.Sprintf("failed to build reference index: %v", err), err)
	}

	// Extraction is the only stage that may block on I/O or time out.
	o.setProgress(run, func(p *Progress) { p.State = StateExtracting })
	pages, err := provider.ExtractPages(ctx, handle)
	if err != nil {
		if ctx.Err() != nil {
			return nil, newError(FailureInternal, "analysis cancelled", ctx.Err())
		}
		return nil, newError(FailureInternal, fmt.Sprintf("text extraction failed: %v", err), err)
	}
	if len(pages) == 0 {
		return nil, newError(FailureEmptyDocument, "document has no extractable pages", nil)
	}

	scanPages := make([]parallel.Page, 0, len(pages))
	pageTexts := make(map[int]string, len(pages))
	for _, page := range pages {
		scanPages = append(scanPages, parallel.Page{Number: page.Number, Text: page.Text})
		pageTexts[page.Number] = page.Text
	}

	o.setProgress(run, func(p *Progress) {
		p.State = StateScanning
		p.TotalPages = len(pages)
	})

	pool := parallel.NewWorkerPool(o.opts.Workers, o.opts.Observer)
	hitsByPage, err := pool.ScanPages(ctx, idx, scanPages, func(scanned int) {
		o.setProgress(run, func(p *Progress) {
			if scanned > p.PagesScanned {
				p.PagesScanned = scanned
			}
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, newError(FailureInternal, "analysis cancelled", ctx.Err())
		}
		return nil, newError(FailureInternal, fmt.Sprintf("page scanning failed: %v", err), err)
	}

	o.setProgress(run, func(p *Progress) { p.State = StateAggregating })

	// Flatten in page order so aggregation input is deterministic.
	var allHits []scorer.ScoredHit
	for _, page := range pages {
		allHits = append(allHits, hitsByPage[page.Number]...)
	}

	matches := aggregate.Aggregate(allHits, pageTexts, o.opts.ContextChars)
	warnings, recommendations := insights.Generate(matches)

	return &Result{
		Matches:         matches,
		TotalPages:      len(pages),
		Warnings:        warnings,
		Recommendations: recommendations,
	}, nil
}

// setProgress applies a progress mutation if the given run is still the
// active one, so a cancelled run can never clobber its successor's state.
func (o *Orchestrator) setProgress(run uint64, mutate func(*Progress)) {
	o.mu.Lock()
	if run != o.runSeq {
		o.mu.Unlock()
		return
	}
	mutate(&o.progress)
	snapshot := o.progress
	callback := o.opts.OnProgress
	o.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}

func (o *Orchestrator) startTiming(operation, handle string) func(bool, map[string]interface{}) {
	if o.opts.Observer == nil {
		return func(bool, map[string]interface{}) {}
	}
	finish := o.opts.Observer.StartTiming("analysis", operation)
	return func(success bool, metadata map[string]interface{}) {
		if metadata == nil {
			metadata = map[string]interface{}{}
		}
		metadata["document"] = handle
		finish(success, metadata)
	}
}
