// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract supplies per-page manifest text to the analysis engine.
// The engine is agnostic to which provider produced the text; swapping a
// real extraction source for a simulated one is a composition decision
// made by the caller, never a branch inside the engine.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Page is one page of extracted manifest text. Numbers are 1-based.
type Page struct {
	Number int
	Text   string
}

// PageProvider extracts per-page text from a document identified by an
// opaque handle (for file-backed providers, a path).
type PageProvider interface {
	// Name identifies the provider in logs and results.
	Name() string

	// ExtractPages returns the document's pages in page-number order.
	ExtractPages(ctx context.Context, handle string) ([]Page, error)
}

// Document admissibility bounds, enforced before the engine is invoked.
const (
	MinDocumentSize = 1 << 10  // 1 KB
	MaxDocumentSize = 50 << 20 // 50 MB
)

// supportedExtensions are the manifest document types this tool accepts.
var supportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".csv": true,
}

// IsSupportedType reports whether the file's extension is an accepted
// manifest document type.
func IsSupportedType(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// CheckAdmissibility rejects documents that should never reach the engine:
// unsupported types, files outside the size bounds, and structurally
// invalid PDFs.
func CheckAdmissibility(path string) error {
	if !IsSupportedType(path) {
		return fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot stat document: %w", err)
	}
	if info.Size() < MinDocumentSize {
		return fmt.Errorf("document too small: %d bytes (minimum %d)", info.Size(), MinDocumentSize)
	}
	if info.Size() > MaxDocumentSize {
		return fmt.Errorf("document too large: %d bytes (maximum %d)", info.Size(), MaxDocumentSize)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		conf := model.NewDefaultConfiguration()
		if err := api.ValidateFile(path, conf); err != nil {
			return fmt.Errorf("invalid PDF document: %w", err)
		}
	}

	return nil
}

// PageCount returns the number of pages a PDF declares without extracting
// any text. Non-PDF documents report a single page.
func PageCount(path string) (int, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return 1, nil
	}
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("cannot count PDF pages: %w", err)
	}
	return count, nil
}

// ProviderFor returns the default provider for a document based on its
// type.
func ProviderFor(path string) PageProvider {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFProvider()
	}
	return NewPlainTextProvider()
}
