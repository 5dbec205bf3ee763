// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package aggregate

import (
	"strings"
	"testing"

	"manifest-scan/internal/catalogue"
	"manifest-scan/internal/scanner"
	"manifest-scan/internal/scorer"
)

var acetone = &catalogue.Entry{
	UNNumber:           "1090",
	ProperShippingName: "Acetone",
	HazardClass:        "3",
	PackingGroup:       catalogue.PackingGroupII,
}

var sulphuricAcid = &catalogue.Entry{
	UNNumber:           "1830",
	ProperShippingName: "Sulphuric acid",
	HazardClass:        "8",
	SubsidiaryRisks:    "6.1, 8",
}

func hit(entry *catalogue.Entry, page, start int, text string, kind scanner.MatchKind, confidence float64) scorer.ScoredHit {
	return scorer.ScoredHit{
		RawHit: scanner.RawHit{
			PageNumber:  page,
			MatchedText: text,
			StartOffset: start,
			EndOffset:   start + len(text),
			Entry:       entry,
			Kind:        kind,
		},
		Confidence: confidence,
	}
}

func TestAggregate_DedupKeepsBestPerPage(t *testing.T) {
	pageTexts := map[int]string{1: "UN1090 Acetone drums, also propanone residue"}
	hits := []scorer.ScoredHit{
		hit(acetone, 1, 0, "UN1090", scanner.ExactUnNumber, 0.95),
		hit(acetone, 1, 7, "Acetone", scanner.ExactName, 0.88),
	}

	matches := Aggregate(hits, pageTexts, 0)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match after dedup, got %d", len(matches))
	}
	if matches[0].Keyword != "UN1090" {
		t.Errorf("expected highest-confidence hit kept, got keyword %q", matches[0].Keyword)
	}
	if matches[0].Confidence != 0.95 {
		t.Errorf("expected confidence 0.95, got %v", matches[0].Confidence)
	}
}

func TestAggregate_TieBreakByKindThenOffset(t *testing.T) {
	pageTexts := map[int]string{1: "Acetone here, UN1090 there"}

	// Same confidence: UN-number kind outranks exact name.
	matches := Aggregate([]scorer.ScoredHit{
		hit(acetone, 1, 0, "Acetone", scanner.ExactName, 0.9),
		hit(acetone, 1, 14, "UN1090", scanner.ExactUnNumber, 0.9),
	}, pageTexts, 0)
	if len(matches) != 1 || matches[0].Keyword != "UN1090" {
		t.Fatalf("expected UN-number hit to win the tie, got %+v", matches)
	}

	// Same confidence and kind: earlier offset wins.
	matches = Aggregate([]scorer.ScoredHit{
		hit(acetone, 1, 20, "Acetone", scanner.ExactName, 0.88),
		hit(acetone, 1, 0, "Acetone", scanner.ExactName, 0.88),
	}, pageTexts, 0)
	if len(matches) != 1 || matches[0].StartOffset != 0 {
		t.Fatalf("expected earliest hit to win the tie, got %+v", matches)
	}
}

func TestAggregate_SameSubstanceOnDifferentPages(t *testing.T) {
	pageTexts := map[int]string{1: "UN1090 on page one", 2: "UN1090 on page two"}
	matches := Aggregate([]scorer.ScoredHit{
		hit(acetone, 1, 0, "UN1090", scanner.ExactUnNumber, 0.92),
		hit(acetone, 2, 0, "UN1090", scanner.ExactUnNumber, 0.92),
	}, pageTexts, 0)

	if len(matches) != 2 {
		t.Fatalf("expected one match per page, got %d", len(matches))
	}
	if matches[0].PageNumber != 1 || matches[1].PageNumber != 2 {
		t.Errorf("expected page-ascending order, got pages %d, %d", matches[0].PageNumber, matches[1].PageNumber)
	}
}

func TestAggregate_Ordering(t *testing.T) {
	pageTexts := map[int]string{
		1: "Sulphuric acid and UN1090 together",
		2: "more Acetone",
	}
	matches := Aggregate([]scorer.ScoredHit{
		hit(acetone, 2, 5, "Acetone", scanner.ExactName, 0.88),
		hit(sulphuricAcid, 1, 0, "Sulphuric acid", scanner.ExactName, 0.88),
		hit(acetone, 1, 19, "UN1090", scanner.ExactUnNumber, 0.95),
	}, pageTexts, 0)

	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	// Page 1 first, higher confidence first within the page.
	if matches[0].UNNumber != "1090" || matches[0].PageNumber != 1 {
		t.Errorf("expected UN1090 page 1 first, got %+v", matches[0])
	}
	if matches[1].UNNumber != "1830" {
		t.Errorf("expected UN1830 second, got %+v", matches[1])
	}
	if matches[2].PageNumber != 2 {
		t.Errorf("expected page 2 match last, got %+v", matches[2])
	}
}

func TestAggregate_PopulatesCatalogueFields(t *testing.T) {
	pageTexts := map[int]string{1: "Sulphuric acid in carboys"}
	matches := Aggregate([]scorer.ScoredHit{
		hit(sulphuricAcid, 1, 0, "Sulphuric acid", scanner.ExactName, 0.88),
	}, pageTexts, 0)

	m := matches[0]
	if m.ProperShippingName != "Sulphuric acid" || m.HazardClass != "8" {
		t.Errorf("catalogue fields not carried: %+v", m)
	}
	if m.SubHazard != "6.1" {
		t.Errorf("expected first subsidiary risk 6.1, got %q", m.SubHazard)
	}
	if m.Source != SourceAutomatic {
		t.Errorf("expected automatic source, got %q", m.Source)
	}
	if m.Quantity != "" || m.Weight != "" {
		t.Errorf("quantity and weight must stay empty, got %q %q", m.Quantity, m.Weight)
	}
}

func TestContextWindow(t *testing.T) {
	page := "The first consignment holds several drums of Acetone stacked on the rear pallet row."
	start := strings.Index(page, "Acetone")
	end := start + len("Acetone")

	ctx := contextWindow(page, start, end, 20)
	if !strings.Contains(ctx, "Acetone") {
		t.Fatalf("context must contain the match, got %q", ctx)
	}
	if strings.HasPrefix(ctx, "onsignment") || strings.HasSuffix(ctx, "stac") {
		t.Errorf("context was cut mid-word: %q", ctx)
	}
	for _, word := range strings.Fields(ctx) {
		if !strings.Contains(page, word) {
			t.Errorf("context word %q not present in page", word)
		}
	}
}

func TestContextWindow_BoundaryAlignedEdges(t *testing.T) {
	// Left edge lands exactly on the start of "gamma": the word is whole
	// and must stay in the context.
	page := "alpha beta gamma UN1090 delta"
	start := strings.Index(page, "UN1090")
	end := start + len("UN1090")

	ctx := contextWindow(page, start, end, 6)
	if !strings.HasPrefix(ctx, "gamma") {
		t.Errorf("complete boundary word dropped from left edge: %q", ctx)
	}

	// Right edge lands exactly on the end of "gamma" (the next byte is a
	// space): the word is whole and must stay.
	page = "UN1090 gamma beta"
	ctx = contextWindow(page, 0, 6, 6)
	if !strings.HasSuffix(ctx, "gamma") {
		t.Errorf("complete boundary word dropped from right edge: %q", ctx)
	}
}

func TestContextWindow_ShortPage(t *testing.T) {
	page := "UN1090 Acetone"
	if got := contextWindow(page, 0, 6, DefaultContextChars); got != page {
		t.Errorf("expected whole page as context, got %q", got)
	}
}

func TestContextWindow_EmptyPage(t *testing.T) {
	if got := contextWindow("", 0, 0, DefaultContextChars); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}

func TestAggregate_Empty(t *testing.T) {
	if matches := Aggregate(nil, map[int]string{}, 0); len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}
