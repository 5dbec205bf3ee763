// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parallel runs per-page scanning across a worker pool. Pages have
// no cross-page dependency, so they are scanned concurrently; results are
// only handed back once every page task has completed, because
// deduplication needs the complete hit set.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"

	"manifest-scan/internal/index"
	"manifest-scan/internal/observability"
	"manifest-scan/internal/scanner"
	"manifest-scan/internal/scorer"
)

// Page is one unit of scan work.
type Page struct {
	Number int
	Text   string
}

// pageResult carries one page's scored hits back to the collector.
type pageResult struct {
	page     int
	hits     []scorer.ScoredHit
	duration time.Duration
}

// WorkerPool scans pages concurrently against a shared read-only index.
type WorkerPool struct {
	workers  int
	observer *observability.StandardObserver
}

// NewWorkerPool creates a pool with the given worker count. A count of
// zero or less uses one worker per CPU.
func NewWorkerPool(workers int, observer *observability.StandardObserver) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{workers: workers, observer: observer}
}

// ScanPages scans and scores every page, returning hits grouped by page
// number. It blocks until all page tasks complete (the join barrier) or
// the context is cancelled. On cancellation partial results are discarded
// and the context error is returned.
func (wp *WorkerPool) ScanPages(ctx context.Context, idx *index.Index, pages []Page, onPageDone func(scanned int)) (map[int][]scorer.ScoredHit, error) {
	jobs := make(chan Page)
	results := make(chan pageResult, len(pages))

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				start := time.Now()
				hits := scorer.ScorePage(scanner.ScanPage(page.Number, page.Text, idx), idx)

				select {
				case results <- pageResult{page: page.Number, hits: hits, duration: time.Since(start)}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed jobs; stop scheduling further pages once cancelled.
	go func() {
		defer close(jobs)
		for _, page := range pages {
			select {
			case jobs <- page:
			case <-ctx.Done():
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	hitsByPage := make(map[int][]scorer.ScoredHit, len(pages))
	scanned := 0
	for scanned < len(pages) {
		select {
		case result := <-results:
			hitsByPage[result.page] = result.hits
			scanned++
			if wp.observer != nil {
				wp.observer.LogOperation(observability.OperationData{
					Component:  "worker_pool",
					Operation:  "scan_page",
					PageNumber: result.page,
					DurationMs: result.duration.Milliseconds(),
					MatchCount: len(result.hits),
					Success:    true,
				})
			}
			if onPageDone != nil {
				onPageDone(scanned)
			}
		case <-ctx.Done():
			<-done
			return nil, ctx.Err()
		}
	}

	<-done
	return hitsByPage, nil
}
