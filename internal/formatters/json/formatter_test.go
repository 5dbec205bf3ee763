// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	gojson "encoding/json"
	"testing"

	"manifest-scan/internal/aggregate"
	"manifest-scan/internal/analysis"
	"manifest-scan/internal/formatters"
)

func TestFormat_RoundTrip(t *testing.T) {
	result := &analysis.Result{
		Matches: []aggregate.TextMatch{
			{
				UNNumber:           "1830",
				ProperShippingName: "Sulphuric acid",
				HazardClass:        "8",
				SubHazard:          "6.1",
				PageNumber:         2,
				Keyword:            "Sulphuric acid",
				Confidence:         0.88,
				Source:             aggregate.SourceAutomatic,
			},
		},
		TotalPages:      4,
		Warnings:        []string{},
		Recommendations: []string{"check documentation"},
	}

	output, err := NewFormatter().Format(result, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded analysis.Result
	if err := gojson.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(decoded.Matches))
	}
	if decoded.Matches[0].UNNumber != "1830" || decoded.Matches[0].SubHazard != "6.1" {
		t.Errorf("match fields lost in encoding: %+v", decoded.Matches[0])
	}
	if decoded.TotalPages != 4 {
		t.Errorf("expected 4 total pages, got %d", decoded.TotalPages)
	}
}

func TestFormatterMetadata(t *testing.T) {
	formatter := NewFormatter()
	if formatter.Name() != "json" {
		t.Errorf("unexpected name %q", formatter.Name())
	}
	if formatter.FileExtension() != ".json" {
		t.Errorf("unexpected extension %q", formatter.FileExtension())
	}
}
