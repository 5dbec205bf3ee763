// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strings"

	"manifest-scan/internal/analysis"
	"manifest-scan/internal/formatters"
)

func init() {
	formatters.Register(NewFormatter())
}

// Formatter implements CSV output of the match list. Warnings and
// recommendations are not part of the CSV surface; use json for the
// complete result.
type Formatter struct{}

// NewFormatter creates a new CSV formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "CSV output of the match list"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(result *analysis.Result, options formatters.FormatterOptions) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	header := []string{"un_number", "proper_shipping_name", "hazard_class", "sub_hazard", "packing_group", "page", "keyword", "confidence", "source"}
	if options.Verbose {
		header = append(header, "context")
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, match := range result.Matches {
		record := []string{
			match.UNNumber,
			match.ProperShippingName,
			match.HazardClass,
			match.SubHazard,
			string(match.PackingGroup),
			fmt.Sprintf("%d", match.PageNumber),
			match.Keyword,
			fmt.Sprintf("%.2f", match.Confidence),
			string(match.Source),
		}
		if options.Verbose {
			record = append(record, match.Context)
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	writer.Flush()
	return builder.String(), writer.Error()
}
