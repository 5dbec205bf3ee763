// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package scorer assigns confidence values to raw hits. Scoring is a
// deterministic, stateless function of the hit kind and the page's hit
// set; the same input always produces the same scores.
package scorer

import (
	"manifest-scan/internal/index"
	"manifest-scan/internal/scanner"
)

// Confidence rule table. First matching rule wins.
const (
	// UnNumberBase is the base confidence for an exact UN-number hit.
	UnNumberBase = 0.92
	// CorroborationBonus is added to a UN-number hit when the same page
	// also names the same substance.
	CorroborationBonus = 0.03
	// CorroborationCap bounds a corroborated UN-number hit.
	CorroborationCap = 0.98
	// ExactNameBase is the base confidence for a proper-shipping-name hit.
	ExactNameBase = 0.88
	// SynonymBase is the base confidence for a synonym hit.
	SynonymBase = 0.75
	// AmbiguityPenalty is subtracted per additional catalogue entry that
	// shares the matched keyword.
	AmbiguityPenalty = 0.05
	// SynonymFloor bounds an ambiguous synonym hit from below.
	SynonymFloor = 0.55
)

// ScoredHit pairs a raw hit with its confidence.
type ScoredHit struct {
	scanner.RawHit
	Confidence float64
}

// ScorePage scores every hit on a page. The page's complete hit set is
// needed because UN-number hits gain a corroboration bonus when a name or
// synonym hit for the same entry appears on the same page.
func ScorePage(hits []scanner.RawHit, idx *index.Index) []ScoredHit {
	if len(hits) == 0 {
		return nil
	}

	// Entries corroborated by a name/synonym hit on this page.
	corroborated := make(map[string]bool)
	for _, hit := range hits {
		if hit.Kind == scanner.ExactName || hit.Kind == scanner.SynonymKeyword {
			corroborated[hit.Entry.UNNumber] = true
		}
	}

	scored := make([]ScoredHit, 0, len(hits))
	for _, hit := range hits {
		scored = append(scored, ScoredHit{
			RawHit:     hit,
			Confidence: score(hit, corroborated, idx),
		})
	}
	return scored
}

func score(hit scanner.RawHit, corroborated map[string]bool, idx *index.Index) float64 {
	switch hit.Kind {
	case scanner.ExactUnNumber:
		confidence := UnNumberBase
		if corroborated[hit.Entry.UNNumber] {
			confidence += CorroborationBonus
		}
		if confidence > CorroborationCap {
			confidence = CorroborationCap
		}
		return confidence

	case scanner.ExactName:
		return ExactNameBase

	default:
		confidence := SynonymBase
		if owners := idx.Owners(hit.MatchedText); len(owners) > 1 {
			confidence -= AmbiguityPenalty * float64(len(owners)-1)
		}
		if confidence < SynonymFloor {
			confidence = SynonymFloor
		}
		return confidence
	}
}
