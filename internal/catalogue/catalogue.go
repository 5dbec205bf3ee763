// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package catalogue

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// MinSynonymLength is the shortest synonym accepted into an entry.
// Shorter tokens produce too many noise matches to be useful.
const MinSynonymLength = 3

var unNumberPattern = regexp.MustCompile(`^[0-9]{4}$`)

// PackingGroup is the regulatory severity tier for a hazard class.
type PackingGroup string

const (
	PackingGroupNone PackingGroup = ""
	PackingGroupI    PackingGroup = "I"
	PackingGroupII   PackingGroup = "II"
	PackingGroupIII  PackingGroup = "III"
)

// Valid reports whether the packing group is one of the known tiers.
func (pg PackingGroup) Valid() bool {
	switch pg {
	case PackingGroupNone, PackingGroupI, PackingGroupII, PackingGroupIII:
		return true
	}
	return false
}

// Entry represents one regulated dangerous-goods entry, typically sourced
// from IATA/IMDG reference data. Entries are immutable once loaded; an
// analysis session works against a fixed snapshot.
type Entry struct {
	UNNumber           string       `yaml:"un_number"`
	ProperShippingName string       `yaml:"proper_shipping_name"`
	HazardClass        string       `yaml:"hazard_class"`
	SubsidiaryRisks    string       `yaml:"subsidiary_risks,omitempty"`
	PackingGroup       PackingGroup `yaml:"packing_group,omitempty"`
	Synonyms           []string     `yaml:"synonyms,omitempty"`
}

// HazardClassRoot returns the hazard class with any sub-division removed,
// e.g. "1.1D" -> "1".
func (e *Entry) HazardClassRoot() string {
	if i := strings.IndexByte(e.HazardClass, '.'); i >= 0 {
		return e.HazardClass[:i]
	}
	return e.HazardClass
}

// AllHazardClasses returns the primary hazard class plus any subsidiary
// risks, deduplicated, in declaration order.
func (e *Entry) AllHazardClasses() []string {
	var classes []string
	seen := make(map[string]bool)
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c != "" && !seen[c] {
			seen[c] = true
			classes = append(classes, c)
		}
	}
	add(e.HazardClass)
	for _, risk := range strings.Split(e.SubsidiaryRisks, ",") {
		add(risk)
	}
	return classes
}

// Validate checks a single entry's invariants: a 4-digit UN number, a
// non-empty proper shipping name, and a valid packing group.
func (e *Entry) Validate() error {
	if !unNumberPattern.MatchString(e.UNNumber) {
		return fmt.Errorf("invalid UN number %q: must be exactly 4 digits", e.UNNumber)
	}
	if strings.TrimSpace(e.ProperShippingName) == "" {
		return fmt.Errorf("entry UN%s has no proper shipping name", e.UNNumber)
	}
	if strings.TrimSpace(e.HazardClass) == "" {
		return fmt.Errorf("entry UN%s has no hazard class", e.UNNumber)
	}
	if !e.PackingGroup.Valid() {
		return fmt.Errorf("entry UN%s has invalid packing group %q", e.UNNumber, e.PackingGroup)
	}
	return nil
}

// catalogueFile is the on-disk YAML layout.
type catalogueFile struct {
	Entries []Entry `yaml:"entries"`
}

// Load reads a catalogue snapshot from a YAML file. Every entry is
// validated, and synonyms shorter than MinSynonymLength are dropped.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalogue YAML content.
func Parse(data []byte) ([]Entry, error) {
	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue YAML: %w", err)
	}

	for i := range file.Entries {
		entry := &file.Entries[i]
		entry.UNNumber = strings.TrimSpace(entry.UNNumber)
		entry.ProperShippingName = strings.TrimSpace(entry.ProperShippingName)
		entry.HazardClass = strings.TrimSpace(entry.HazardClass)
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("catalogue entry %d: %w", i+1, err)
		}
		entry.Synonyms = filterSynonyms(entry.Synonyms)
	}

	return file.Entries, nil
}

// filterSynonyms trims whitespace and drops synonyms below the minimum
// length, preserving the original order of the rest.
func filterSynonyms(synonyms []string) []string {
	var kept []string
	for _, s := range synonyms {
		s = strings.TrimSpace(s)
		if len(s) >= MinSynonymLength {
			kept = append(kept, s)
		}
	}
	return kept
}
