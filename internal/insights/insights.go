// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package insights derives human-readable warnings and recommendations
// from an aggregated match list. Generation is a pure function of the
// matches: no external state, no randomness, order-stable output.
package insights

import (
	"fmt"

	"manifest-scan/internal/aggregate"
)

// LowConfidenceThreshold marks matches that should be manually verified.
const LowConfidenceThreshold = 0.8

// MultipleGoodsThreshold is the match count above which a compatibility
// check across substances is recommended.
const MultipleGoodsThreshold = 5

// Fixed warning text. Callers and tests rely on these strings verbatim.
const (
	WarningLowConfidence = "Some dangerous goods were detected with low confidence. Manual verification recommended."
	WarningFlammable     = "Flammable liquids (Class 3) detected. Ensure fire-safety handling procedures and appropriate fire suppression are in place."
	WarningMultipleGoods = "More than 5 dangerous goods detected. A compatibility check across the matched substances is recommended."
	WarningFireOxidizer  = "Fire-risk substances and oxidizers (Class 5.1) are both present. Verify segregation requirements before loading."
)

const (
	RecommendationVerify        = "Verify all detected dangerous goods matches before finalizing the manifest."
	RecommendationDocumentation = "Collect safety data sheets and transport documentation for every matched substance."
	RecommendationPackingGroups = "Verify packing groups and declared quantities against the physical shipment."
	RecommendationFoodstuffs    = "Toxic substances (Class 6.1) are present alongside other hazard classes. Check foodstuffs segregation rules for the load plan."
)

// fireRiskClasses are the hazard class roots treated as fire risks when
// checking co-occurrence with oxidizers.
var fireRiskClasses = map[string]bool{
	"3":   true,
	"4.1": true,
	"4.2": true,
	"4.3": true,
}

// Generate derives warnings and recommendations for a match list. Both
// slices are never nil so callers can range over them directly.
func Generate(matches []aggregate.TextMatch) (warnings, recommendations []string) {
	warnings = []string{}
	recommendations = []string{}

	lowConfidence := false
	primary := make(map[string]bool)
	classes := make(map[string]bool) // primary plus subsidiary risks
	for _, match := range matches {
		if match.Confidence < LowConfidenceThreshold {
			lowConfidence = true
		}
		primary[match.HazardClass] = true
		classes[match.HazardClass] = true
		if match.SubHazard != "" {
			classes[match.SubHazard] = true
		}
	}

	if lowConfidence {
		warnings = append(warnings, WarningLowConfidence)
	}
	if hasClassRoot(primary, "3") {
		warnings = append(warnings, WarningFlammable)
	}
	if len(matches) > MultipleGoodsThreshold {
		warnings = append(warnings, WarningMultipleGoods)
	}
	if hasFireRisk(classes) && classes["5.1"] {
		warnings = append(warnings, WarningFireOxidizer)
	}

	recommendations = append(recommendations,
		RecommendationVerify,
		RecommendationDocumentation,
		RecommendationPackingGroups,
	)
	if classes["6.1"] && len(classes) > 1 {
		recommendations = append(recommendations, RecommendationFoodstuffs)
	}

	return warnings, recommendations
}

// Summary returns a one-line description of the match set, used by text
// output surfaces.
func Summary(matches []aggregate.TextMatch, totalPages int) string {
	switch len(matches) {
	case 0:
		return fmt.Sprintf("No dangerous goods detected across %d pages.", totalPages)
	case 1:
		return fmt.Sprintf("1 dangerous good detected across %d pages.", totalPages)
	default:
		return fmt.Sprintf("%d dangerous goods detected across %d pages.", len(matches), totalPages)
	}
}

func hasClassRoot(classes map[string]bool, root string) bool {
	for class := range classes {
		if classRoot(class) == root {
			return true
		}
	}
	return false
}

func hasFireRisk(classes map[string]bool) bool {
	for class := range classes {
		if fireRiskClasses[class] || fireRiskClasses[classRoot(class)] {
			return true
		}
	}
	return false
}

func classRoot(class string) string {
	for i := 0; i < len(class); i++ {
		if class[i] == '.' {
			return class[:i]
		}
	}
	return class
}
