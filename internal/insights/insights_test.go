// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package insights

import (
	"strings"
	"testing"

	"manifest-scan/internal/aggregate"
)

func match(unNumber, hazardClass, subHazard string, confidence float64) aggregate.TextMatch {
	return aggregate.TextMatch{
		UNNumber:    unNumber,
		HazardClass: hazardClass,
		SubHazard:   subHazard,
		Confidence:  confidence,
		PageNumber:  1,
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestGenerate_BaselineRecommendations(t *testing.T) {
	warnings, recommendations := Generate([]aggregate.TextMatch{
		match("1830", "8", "", 0.92),
	})

	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	for _, want := range []string{RecommendationVerify, RecommendationDocumentation, RecommendationPackingGroups} {
		if !contains(recommendations, want) {
			t.Errorf("missing baseline recommendation %q", want)
		}
	}
	if contains(recommendations, RecommendationFoodstuffs) {
		t.Error("foodstuffs recommendation must not appear without class 6.1")
	}
}

func TestGenerate_LowConfidence(t *testing.T) {
	warnings, _ := Generate([]aggregate.TextMatch{
		match("1090", "8", "", 0.75),
	})
	if !contains(warnings, WarningLowConfidence) {
		t.Errorf("expected low-confidence warning, got %v", warnings)
	}

	// At the threshold, no warning.
	warnings, _ = Generate([]aggregate.TextMatch{
		match("1090", "8", "", LowConfidenceThreshold),
	})
	if contains(warnings, WarningLowConfidence) {
		t.Error("threshold confidence must not trigger the warning")
	}
}

func TestGenerate_Flammable(t *testing.T) {
	warnings, _ := Generate([]aggregate.TextMatch{
		match("1090", "3", "", 0.92),
	})
	if !contains(warnings, WarningFlammable) {
		t.Errorf("expected flammable warning for class 3, got %v", warnings)
	}

	// Subsidiary risk 3 alone does not make the primary class flammable.
	warnings, _ = Generate([]aggregate.TextMatch{
		match("1830", "8", "3", 0.92),
	})
	if contains(warnings, WarningFlammable) {
		t.Error("subsidiary class 3 must not trigger the flammable warning")
	}
}

func TestGenerate_MultipleGoods(t *testing.T) {
	var matches []aggregate.TextMatch
	for i := 0; i <= MultipleGoodsThreshold; i++ {
		matches = append(matches, match("183"+string(rune('0'+i)), "8", "", 0.92))
	}

	warnings, _ := Generate(matches)
	if !contains(warnings, WarningMultipleGoods) {
		t.Errorf("expected multiple-goods warning for %d matches, got %v", len(matches), warnings)
	}

	warnings, _ = Generate(matches[:MultipleGoodsThreshold])
	if contains(warnings, WarningMultipleGoods) {
		t.Error("warning must only fire above the threshold")
	}
}

func TestGenerate_FireOxidizerSegregation(t *testing.T) {
	warnings, _ := Generate([]aggregate.TextMatch{
		match("1090", "3", "", 0.92),
		match("1479", "5.1", "", 0.92),
	})
	if !contains(warnings, WarningFireOxidizer) {
		t.Errorf("expected segregation warning, got %v", warnings)
	}

	// Oxidizer without a fire-risk class stays quiet.
	warnings, _ = Generate([]aggregate.TextMatch{
		match("1479", "5.1", "", 0.92),
	})
	if contains(warnings, WarningFireOxidizer) {
		t.Error("oxidizer alone must not trigger the segregation warning")
	}

	// Fire risk contributed through a subsidiary risk counts.
	warnings, _ = Generate([]aggregate.TextMatch{
		match("1830", "8", "4.1", 0.92),
		match("1479", "5.1", "", 0.92),
	})
	if !contains(warnings, WarningFireOxidizer) {
		t.Errorf("expected segregation warning via subsidiary risk, got %v", warnings)
	}
}

func TestGenerate_Foodstuffs(t *testing.T) {
	_, recommendations := Generate([]aggregate.TextMatch{
		match("1593", "6.1", "", 0.92),
		match("1830", "8", "", 0.92),
	})
	if !contains(recommendations, RecommendationFoodstuffs) {
		t.Errorf("expected foodstuffs recommendation, got %v", recommendations)
	}

	// 6.1 alone has nothing to segregate from.
	_, recommendations = Generate([]aggregate.TextMatch{
		match("1593", "6.1", "", 0.92),
	})
	if contains(recommendations, RecommendationFoodstuffs) {
		t.Error("6.1 alone must not trigger the foodstuffs recommendation")
	}
}

func TestGenerate_NeverNil(t *testing.T) {
	warnings, recommendations := Generate(nil)
	if warnings == nil || recommendations == nil {
		t.Error("warnings and recommendations must be non-nil for empty input")
	}
}

func TestSummary(t *testing.T) {
	cases := []struct {
		matches int
		pages   int
		want    string
	}{
		{0, 3, "No dangerous goods detected across 3 pages."},
		{1, 1, "1 dangerous good detected across 1 pages."},
		{4, 12, "4 dangerous goods detected across 12 pages."},
	}
	for _, tc := range cases {
		matches := make([]aggregate.TextMatch, tc.matches)
		if got := Summary(matches, tc.pages); got != tc.want {
			t.Errorf("Summary(%d, %d) = %q, want %q", tc.matches, tc.pages, got, tc.want)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	matches := []aggregate.TextMatch{
		match("1090", "3", "", 0.7),
		match("1479", "5.1", "", 0.92),
		match("1593", "6.1", "", 0.92),
	}
	w1, r1 := Generate(matches)
	w2, r2 := Generate(matches)
	if strings.Join(w1, "|") != strings.Join(w2, "|") {
		t.Errorf("warnings differ across runs: %v vs %v", w1, w2)
	}
	if strings.Join(r1, "|") != strings.Join(r2, "|") {
		t.Errorf("recommendations differ across runs: %v vs %v", r1, r2)
	}
}
