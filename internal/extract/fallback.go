// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"

	"manifest-scan/internal/observability"
	"manifest-scan/internal/resilience"
)

// FallbackProvider wraps a primary extraction source with retry and falls
// back to a secondary source once the primary is exhausted. Retry only
// happens here, at the composition layer: the engine itself treats every
// extraction failure as terminal.
type FallbackProvider struct {
	primary   PageProvider
	secondary PageProvider
	retry     resilience.RetryConfig
	observer  *observability.StandardObserver
}

// NewFallbackProvider composes a primary and secondary provider. The
// secondary may be nil, in which case only retry behavior is added.
func NewFallbackProvider(primary, secondary PageProvider, observer *observability.StandardObserver) *FallbackProvider {
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
		retry:     resilience.ExtractionRetryConfig(),
		observer:  observer,
	}
}

func (p *FallbackProvider) Name() string {
	if p.secondary != nil {
		return p.primary.Name() + "+" + p.secondary.Name()
	}
	return p.primary.Name()
}

func (p *FallbackProvider) ExtractPages(ctx context.Context, handle string) ([]Page, error) {
	pages, err := resilience.RetryWithResult(ctx, p.retry, func(ctx context.Context) ([]Page, error) {
		return p.primary.ExtractPages(ctx, handle)
	})
	if err == nil {
		return pages, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if p.secondary == nil {
		return nil, err
	}

	if p.observer != nil {
		p.observer.LogOperation(observability.OperationData{
			Component: "extract",
			Operation: "fallback",
			Document:  handle,
			Success:   false,
			Error:     err.Error(),
			Metadata: map[string]interface{}{
				"primary":   p.primary.Name(),
				"secondary": p.secondary.Name(),
			},
		})
	}

	return p.secondary.ExtractPages(ctx, handle)
}
