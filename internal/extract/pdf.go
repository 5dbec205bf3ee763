// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFProvider extracts per-page text from PDF manifests using
// ledongthuc/pdf.
type PDFProvider struct {
	// MaxPages bounds processing for very large documents. Zero means no
	// limit.
	MaxPages int
}

// NewPDFProvider creates a PDF page provider with default limits.
func NewPDFProvider() *PDFProvider {
	return &PDFProvider{MaxPages: 500}
}

func (p *PDFProvider) Name() string {
	return "pdf"
}

// ExtractPages extracts the text of every page in order. Pages that fail
// to extract yield empty text rather than failing the whole document; the
// scanner treats an empty page as zero hits.
func (p *PDFProvider) ExtractPages(ctx context.Context, handle string) ([]Page, error) {
	f, r, err := pdf.Open(handle)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := r.NumPage()
	if p.MaxPages > 0 && pageCount > p.MaxPages {
		pageCount = p.MaxPages
	}

	pages := make([]Page, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := r.Page(i)
		text := ""
		if !page.V.IsNull() {
			text, err = extractPageText(page)
			if err != nil {
				text = ""
			}
		}
		pages = append(pages, Page{Number: i, Text: cleanPageText(text)})
	}

	return pages, nil
}

// extractPageText extracts text using row-based positioning for better
// spacing, falling back to plain extraction when row data is unavailable.
func extractPageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}

	// Lower Y values first for top-to-bottom reading order.
	sort.Slice(sortedRows, func(i, j int) bool {
		return averageY(sortedRows[i].Content) < averageY(sortedRows[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sortedRows {
		rowText := reconstructRowText(row.Content)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}

	return buf.String(), nil
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, element := range elements {
		total += element.Y
	}
	return total / float64(len(elements))
}

// reconstructRowText joins a row's text elements left to right, inserting
// spaces where the coordinate gap between elements is significant relative
// to the font size.
func reconstructRowText(elements []pdf.Text) string {
	if len(elements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf bytes.Buffer
	for i, element := range sorted {
		buf.WriteString(element.S)

		if i < len(sorted)-1 {
			gap := sorted[i+1].X - (element.X + element.W)

			fontSize := element.FontSize
			if fontSize <= 0 {
				fontSize = 12
			}
			if gap > fontSize*0.2 {
				buf.WriteString(" ")
			}
		}
	}

	return buf.String()
}

// cleanPageText normalizes whitespace while preserving line structure so
// offsets and context windows stay meaningful.
func cleanPageText(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.ReplaceAll(line, "\t", " ")
		for strings.Contains(line, "  ") {
			line = strings.ReplaceAll(line, "  ", " ")
		}
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
