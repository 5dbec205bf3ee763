// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"manifest-scan/internal/aggregate"
	"manifest-scan/internal/analysis"
	"manifest-scan/internal/formatters"
	"manifest-scan/internal/insights"

	"github.com/fatih/color"
)

func init() {
	formatters.Register(NewFormatter())
}

// Formatter implements human-readable text output.
type Formatter struct {
	high   *color.Color
	medium *color.Color
	low    *color.Color
	head   *color.Color
	warn   *color.Color
}

// NewFormatter creates a new text formatter.
func NewFormatter() *Formatter {
	return &Formatter{
		high:   color.New(color.FgGreen),
		medium: color.New(color.FgYellow),
		low:    color.New(color.FgRed),
		head:   color.New(color.FgWhite, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with confidence coloring"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(result *analysis.Result, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder

	builder.WriteString(f.head.Sprint(insights.Summary(result.Matches, result.TotalPages)))
	builder.WriteString(fmt.Sprintf(" (%.2fs)\n", result.ProcessingTimeSeconds))

	if len(result.Matches) > 0 {
		builder.WriteString("\n")
		for _, match := range result.Matches {
			f.appendMatch(&builder, match, options.Verbose)
		}
	}

	if len(result.Warnings) > 0 {
		builder.WriteString("\n")
		builder.WriteString(f.warn.Sprint("Warnings:"))
		builder.WriteString("\n")
		for _, warning := range result.Warnings {
			builder.WriteString("  - " + warning + "\n")
		}
	}

	if len(result.Recommendations) > 0 {
		builder.WriteString("\nRecommendations:\n")
		for _, recommendation := range result.Recommendations {
			builder.WriteString("  - " + recommendation + "\n")
		}
	}

	return builder.String(), nil
}

func (f *Formatter) appendMatch(builder *strings.Builder, match aggregate.TextMatch, verbose bool) {
	confidence := f.confidenceColor(match.Confidence).Sprintf("%3.0f%%", match.Confidence*100)

	line := fmt.Sprintf("  [%s] page %d: UN%s %s (class %s",
		confidence, match.PageNumber, match.UNNumber, match.ProperShippingName, match.HazardClass)
	if match.SubHazard != "" {
		line += ", subsidiary " + match.SubHazard
	}
	if match.PackingGroup != "" {
		line += ", PG " + string(match.PackingGroup)
	}
	line += ")"
	builder.WriteString(line + "\n")

	if verbose {
		builder.WriteString(fmt.Sprintf("        matched %q at offset %d\n", match.Keyword, match.StartOffset))
		if match.Context != "" {
			builder.WriteString(fmt.Sprintf("        context: %s\n", match.Context))
		}
	}
}

func (f *Formatter) confidenceColor(confidence float64) *color.Color {
	switch {
	case confidence >= 0.9:
		return f.high
	case confidence >= 0.8:
		return f.medium
	default:
		return f.low
	}
}
