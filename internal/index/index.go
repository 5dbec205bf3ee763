// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package index builds the reference lookup structures over a
// dangerous-goods catalogue snapshot. An Index is immutable after
// construction and safe to share across concurrently scanning pages.
package index

import (
	"fmt"
	"sort"
	"strings"

	"manifest-scan/internal/catalogue"
)

// Fold lower-cases ASCII letters only. Byte offsets into the folded string
// stay valid for the original, which matters when hit offsets are reported
// against the source page text.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// DuplicateUnNumberError indicates two catalogue entries share a UN number.
// The catalogue's UN-number uniqueness is an invariant; construction fails
// rather than silently preferring one entry.
type DuplicateUnNumberError struct {
	UNNumber string
}

func (e *DuplicateUnNumberError) Error() string {
	return fmt.Sprintf("duplicate UN number in catalogue: UN%s", e.UNNumber)
}

// Index provides exact UN-number lookup and longest-match-first keyword
// lookup over a catalogue snapshot.
type Index struct {
	byUN map[string]*catalogue.Entry

	// keywords maps each lower-cased keyword (proper shipping name or
	// synonym) to every entry that declares it, in catalogue order.
	keywords map[string][]*catalogue.Entry

	// buckets groups keywords by their first byte, each bucket sorted
	// longest-first so a scan can take the longest keyword at a position.
	buckets map[byte][]string

	size int
}

// Build constructs an Index from a catalogue snapshot in one pass.
// It returns a DuplicateUnNumberError if two entries share a UN number.
// Building is idempotent and side-effect-free; the same index can be
// reused across multiple documents in a session.
func Build(entries []catalogue.Entry) (*Index, error) {
	idx := &Index{
		byUN:     make(map[string]*catalogue.Entry, len(entries)),
		keywords: make(map[string][]*catalogue.Entry),
		buckets:  make(map[byte][]string),
		size:     len(entries),
	}

	for i := range entries {
		entry := &entries[i]
		if _, exists := idx.byUN[entry.UNNumber]; exists {
			return nil, &DuplicateUnNumberError{UNNumber: entry.UNNumber}
		}
		idx.byUN[entry.UNNumber] = entry

		idx.addKeyword(entry.ProperShippingName, entry)
		for _, synonym := range entry.Synonyms {
			idx.addKeyword(synonym, entry)
		}
	}

	for first := range idx.buckets {
		bucket := idx.buckets[first]
		sort.Slice(bucket, func(a, b int) bool {
			if len(bucket[a]) != len(bucket[b]) {
				return len(bucket[a]) > len(bucket[b])
			}
			return bucket[a] < bucket[b]
		})
	}

	return idx, nil
}

func (idx *Index) addKeyword(keyword string, entry *catalogue.Entry) {
	keyword = Fold(strings.TrimSpace(keyword))
	if len(keyword) < catalogue.MinSynonymLength {
		return
	}

	owners := idx.keywords[keyword]
	for _, owner := range owners {
		if owner == entry {
			return
		}
	}
	if len(owners) == 0 {
		first := keyword[0]
		idx.buckets[first] = append(idx.buckets[first], keyword)
	}
	idx.keywords[keyword] = append(owners, entry)
}

// Size returns the number of catalogue entries in the index.
func (idx *Index) Size() int {
	return idx.size
}

// LookupUN returns the entry for a 4-digit UN number string, or nil when
// the number is not in the catalogue.
func (idx *Index) LookupUN(digits string) *catalogue.Entry {
	return idx.byUN[digits]
}

// Owners returns every entry whose keyword list contains the given text
// (case-insensitive). More than one owner means the keyword is ambiguous
// across substances.
func (idx *Index) Owners(keyword string) []*catalogue.Entry {
	return idx.keywords[Fold(keyword)]
}

// KeywordsAt returns every indexed keyword that is a prefix of lowerText
// (an already lower-cased string starting at the scan position), longest
// first. Callers apply word-boundary checks around each candidate's span
// and take the first that qualifies, so a shorter keyword stays a
// candidate when a longer one is rejected at its far edge.
func (idx *Index) KeywordsAt(lowerText string) []string {
	if lowerText == "" {
		return nil
	}
	var matches []string
	for _, keyword := range idx.buckets[lowerText[0]] {
		if len(keyword) <= len(lowerText) && strings.HasPrefix(lowerText, keyword) {
			matches = append(matches, keyword)
		}
	}
	return matches
}
