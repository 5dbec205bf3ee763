// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"strings"
	"testing"

	"manifest-scan/internal/aggregate"
	"manifest-scan/internal/analysis"
	"manifest-scan/internal/formatters"
	"manifest-scan/internal/insights"
)

func sampleResult() *analysis.Result {
	return &analysis.Result{
		Matches: []aggregate.TextMatch{
			{
				UNNumber:           "1090",
				ProperShippingName: "Acetone",
				HazardClass:        "3",
				PackingGroup:       "II",
				PageNumber:         1,
				Keyword:            "UN1090",
				Context:            "Item 1: UN1090 Acetone, 4 drums",
				Confidence:         0.95,
				Source:             aggregate.SourceAutomatic,
			},
		},
		TotalPages:      3,
		Warnings:        []string{insights.WarningFlammable},
		Recommendations: []string{insights.RecommendationVerify},
	}
}

func TestFormat_SummaryAndMatches(t *testing.T) {
	output, err := NewFormatter().Format(sampleResult(), formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "1 dangerous good detected across 3 pages.") {
		t.Errorf("missing summary line:\n%s", output)
	}
	if !strings.Contains(output, "UN1090 Acetone (class 3, PG II)") {
		t.Errorf("missing match line:\n%s", output)
	}
	if !strings.Contains(output, "95%") {
		t.Errorf("missing confidence:\n%s", output)
	}
	if !strings.Contains(output, insights.WarningFlammable) {
		t.Errorf("missing warning:\n%s", output)
	}
	if !strings.Contains(output, insights.RecommendationVerify) {
		t.Errorf("missing recommendation:\n%s", output)
	}
}

func TestFormat_VerboseShowsContext(t *testing.T) {
	formatter := NewFormatter()

	quiet, err := formatter.Format(sampleResult(), formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(quiet, "context:") {
		t.Error("context must only appear in verbose output")
	}

	verbose, err := formatter.Format(sampleResult(), formatters.FormatterOptions{NoColor: true, Verbose: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(verbose, "Item 1: UN1090 Acetone, 4 drums") {
		t.Errorf("verbose output must include context:\n%s", verbose)
	}
	if !strings.Contains(verbose, `matched "UN1090" at offset 0`) {
		t.Errorf("verbose output must include the matched keyword:\n%s", verbose)
	}
}

func TestFormat_EmptyResult(t *testing.T) {
	result := &analysis.Result{TotalPages: 2, Warnings: []string{}, Recommendations: []string{}}
	output, err := NewFormatter().Format(result, formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "No dangerous goods detected across 2 pages.") {
		t.Errorf("missing empty summary:\n%s", output)
	}
}

func TestFormatterMetadata(t *testing.T) {
	formatter := NewFormatter()
	if formatter.Name() != "text" {
		t.Errorf("unexpected name %q", formatter.Name())
	}
	if formatter.FileExtension() != ".txt" {
		t.Errorf("unexpected extension %q", formatter.FileExtension())
	}
}
