// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package scanner finds raw occurrences of catalogue entries in a single
// page of manifest text. Scanning is a pure function of the page text and
// the reference index; deduplication and ranking happen later in the
// aggregation step.
package scanner

import (
	"regexp"
	"strings"

	"manifest-scan/internal/catalogue"
	"manifest-scan/internal/index"
)

// MatchKind distinguishes how a raw hit was found.
type MatchKind int

const (
	// ExactUnNumber is a "UN" prefix followed by exactly four digits that
	// resolve to a catalogue entry.
	ExactUnNumber MatchKind = iota
	// ExactName is an occurrence of an entry's full proper shipping name.
	ExactName
	// SynonymKeyword is an occurrence of one of an entry's synonyms.
	SynonymKeyword
)

// String returns the kind's display name.
func (k MatchKind) String() string {
	switch k {
	case ExactUnNumber:
		return "un_number"
	case ExactName:
		return "exact_name"
	case SynonymKeyword:
		return "synonym"
	default:
		return "unknown"
	}
}

// RawHit is an unscored, unfiltered occurrence of a catalogue entry on a
// page. RawHits live only inside the analysis pipeline.
type RawHit struct {
	PageNumber  int
	MatchedText string
	StartOffset int
	EndOffset   int
	Entry       *catalogue.Entry
	Kind        MatchKind
}

// unNumberPattern matches "UN" (any case) with an optional internal space
// followed by exactly four digits, anchored to word boundaries.
var unNumberPattern = regexp.MustCompile(`(?i)\bUN ?[0-9]{4}\b`)

// ScanPage produces every raw hit on one page. The UN-number pass and the
// name/keyword pass are independent scans over the same text; a page may
// contribute multiple hits for the same substance. An empty page yields
// zero hits.
func ScanPage(pageNumber int, text string, idx *index.Index) []RawHit {
	if text == "" {
		return nil
	}

	hits := scanUnNumbers(pageNumber, text, idx)
	hits = append(hits, scanKeywords(pageNumber, text, idx)...)
	return hits
}

// scanUnNumbers finds UN-number references. Four-digit sequences that are
// not in the catalogue are ignored: catalogue membership is required for a
// hit to exist.
func scanUnNumbers(pageNumber int, text string, idx *index.Index) []RawHit {
	var hits []RawHit
	for _, loc := range unNumberPattern.FindAllStringIndex(text, -1) {
		matched := text[loc[0]:loc[1]]
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, matched)

		entry := idx.LookupUN(digits)
		if entry == nil {
			continue
		}
		hits = append(hits, RawHit{
			PageNumber:  pageNumber,
			MatchedText: matched,
			StartOffset: loc[0],
			EndOffset:   loc[1],
			Entry:       entry,
			Kind:        ExactUnNumber,
		})
	}
	return hits
}

// scanKeywords walks the page taking the longest qualifying keyword match
// at each word-start position. When the longest candidate fails its end
// word-boundary check the next-shorter candidate at the same position is
// tried, so a clean shorter match is never lost to a rejected longer one.
// A matched span is consumed, so keywords contained inside a longer match
// are not reported separately.
func scanKeywords(pageNumber int, text string, idx *index.Index) []RawHit {
	lower := index.Fold(text)

	var hits []RawHit
	for i := 0; i < len(lower); {
		if i > 0 && isWordByte(lower[i-1]) {
			i++
			continue
		}

		end := 0
		for _, keyword := range idx.KeywordsAt(lower[i:]) {
			candidateEnd := i + len(keyword)
			if candidateEnd < len(lower) && isWordByte(lower[candidateEnd]) && isWordByte(lower[candidateEnd-1]) {
				// Candidate would be a substring of a larger token.
				continue
			}

			owners := idx.Owners(keyword)
			entry := owners[0]

			kind := SynonymKeyword
			if keyword == index.Fold(entry.ProperShippingName) {
				kind = ExactName
			}

			hits = append(hits, RawHit{
				PageNumber:  pageNumber,
				MatchedText: text[i:candidateEnd],
				StartOffset: i,
				EndOffset:   candidateEnd,
				Entry:       entry,
				Kind:        kind,
			})
			end = candidateEnd
			break
		}

		if end > i {
			i = end
		} else {
			i++
		}
	}
	return hits
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z'
}
