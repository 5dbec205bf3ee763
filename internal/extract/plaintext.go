// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// PlainTextProvider extracts pages from plain-text manifests (.txt, .csv).
// Form feeds split the file into pages; a file without form feeds is a
// single page.
type PlainTextProvider struct{}

// NewPlainTextProvider creates a plain-text page provider.
func NewPlainTextProvider() *PlainTextProvider {
	return &PlainTextProvider{}
}

func (p *PlainTextProvider) Name() string {
	return "plaintext"
}

func (p *PlainTextProvider) ExtractPages(ctx context.Context, handle string) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(handle)
	if err != nil {
		return nil, fmt.Errorf("error reading text manifest: %w", err)
	}

	chunks := strings.Split(string(data), "\f")
	pages := make([]Page, 0, len(chunks))
	for i, chunk := range chunks {
		pages = append(pages, Page{Number: i + 1, Text: strings.TrimSpace(chunk)})
	}
	return pages, nil
}
