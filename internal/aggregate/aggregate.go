// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package aggregate turns scored hits from all pages into the final,
// ordered match list. This is the only pipeline stage that needs the
// complete per-page hit set: deduplication works across everything the
// scanner produced.
package aggregate

import (
	"sort"
	"strings"

	"manifest-scan/internal/catalogue"
	"manifest-scan/internal/scanner"
	"manifest-scan/internal/scorer"
)

// DefaultContextChars is the context window taken from each side of a
// match before trimming to word boundaries.
const DefaultContextChars = 40

// MatchSource records how a match entered the result set. The engine only
// ever emits SourceAutomatic; SourceManual exists for downstream tooling
// that lets an operator add matches by hand.
type MatchSource string

const (
	SourceAutomatic MatchSource = "automatic"
	SourceManual    MatchSource = "manual"
)

// TextMatch is a finalized, scored, deduplicated occurrence of a dangerous
// good surfaced to the caller. Quantity and Weight are not derived by the
// engine; an external field-extraction step may fill them in.
type TextMatch struct {
	UNNumber           string                 `json:"un_number"`
	ProperShippingName string                 `json:"proper_shipping_name"`
	HazardClass        string                 `json:"hazard_class"`
	SubHazard          string                 `json:"sub_hazard,omitempty"`
	PackingGroup       catalogue.PackingGroup `json:"packing_group,omitempty"`
	Quantity           string                 `json:"quantity,omitempty"`
	Weight             string                 `json:"weight,omitempty"`
	PageNumber         int                    `json:"page_number"`
	Keyword            string                 `json:"keyword"`
	Context            string                 `json:"context"`
	StartOffset        int                    `json:"start_offset"`
	EndOffset          int                    `json:"end_offset"`
	Confidence         float64                `json:"confidence"`
	Source             MatchSource            `json:"source"`
}

// Aggregate deduplicates and orders scored hits into the final match list.
// pageTexts maps page numbers to their source text for context extraction.
//
// For each (UN number, page) pair only the best hit is kept: highest
// confidence, then UN-number over name over synonym, then earliest offset.
// The result is ordered by page ascending, confidence descending within a
// page, then start offset. Consumers rely on this ordering for
// deterministic display.
func Aggregate(hits []scorer.ScoredHit, pageTexts map[int]string, contextChars int) []TextMatch {
	if contextChars <= 0 {
		contextChars = DefaultContextChars
	}

	type dedupeKey struct {
		unNumber string
		page     int
	}
	best := make(map[dedupeKey]scorer.ScoredHit)
	for _, hit := range hits {
		key := dedupeKey{unNumber: hit.Entry.UNNumber, page: hit.PageNumber}
		current, exists := best[key]
		if !exists || betterHit(hit, current) {
			best[key] = hit
		}
	}

	matches := make([]TextMatch, 0, len(best))
	for _, hit := range best {
		entry := hit.Entry
		matches = append(matches, TextMatch{
			UNNumber:           entry.UNNumber,
			ProperShippingName: entry.ProperShippingName,
			HazardClass:        entry.HazardClass,
			SubHazard:          firstSubsidiaryRisk(entry),
			PackingGroup:       entry.PackingGroup,
			PageNumber:         hit.PageNumber,
			Keyword:            hit.MatchedText,
			Context:            contextWindow(pageTexts[hit.PageNumber], hit.StartOffset, hit.EndOffset, contextChars),
			StartOffset:        hit.StartOffset,
			EndOffset:          hit.EndOffset,
			Confidence:         hit.Confidence,
			Source:             SourceAutomatic,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].PageNumber != matches[j].PageNumber {
			return matches[i].PageNumber < matches[j].PageNumber
		}
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].StartOffset < matches[j].StartOffset
	})

	return matches
}

// betterHit reports whether a should replace b as the kept hit for a
// (UN number, page) pair.
func betterHit(a, b scorer.ScoredHit) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Kind != b.Kind {
		return kindPriority(a.Kind) > kindPriority(b.Kind)
	}
	return a.StartOffset < b.StartOffset
}

func kindPriority(kind scanner.MatchKind) int {
	switch kind {
	case scanner.ExactUnNumber:
		return 3
	case scanner.ExactName:
		return 2
	default:
		return 1
	}
}

func firstSubsidiaryRisk(entry *catalogue.Entry) string {
	for _, risk := range strings.Split(entry.SubsidiaryRisks, ",") {
		if risk = strings.TrimSpace(risk); risk != "" {
			return risk
		}
	}
	return ""
}

// contextWindow expands the match by contextChars on each side, then trims
// the expansion inward to the nearest whitespace so words are not cut
// mid-token. When the page is shorter than the window, the whole page text
// is used.
func contextWindow(text string, start, end, contextChars int) string {
	if text == "" {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}

	left := start - contextChars
	right := end + contextChars
	if left <= 0 && right >= len(text) {
		return text
	}
	if left < 0 {
		left = 0
	}
	if right > len(text) {
		right = len(text)
	}

	// Trim a partial leading word, but only when the window edge actually
	// cuts into a token; an edge already on a token start keeps its word.
	if left > 0 && !isSpaceByte(text[left-1]) {
		if i := strings.IndexAny(text[left:start], " \t\n\r"); i >= 0 {
			left += i + 1
		} else {
			left = start
		}
	}

	// Same on the trailing side: only trim when the edge splits a token.
	if right < len(text) && !isSpaceByte(text[right]) {
		if i := strings.LastIndexAny(text[end:right], " \t\n\r"); i >= 0 {
			right = end + i
		} else {
			right = end
		}
	}

	return strings.TrimSpace(text[left:right])
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
