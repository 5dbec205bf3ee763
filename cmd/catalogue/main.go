// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"manifest-scan/internal/catalogue"
	"manifest-scan/internal/index"

	"github.com/fatih/color"
)

func main() {
	var (
		file    = flag.String("file", "", "Path to catalogue YAML file")
		action  = flag.String("action", "check", "Action to perform: check, stats, ambiguous")
		noColor = flag.Bool("no-color", false, "Disable colored output")
	)
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	if *file == "" && flag.NArg() > 0 {
		*file = flag.Arg(0)
	}
	if *file == "" {
		fmt.Println("Error: --file is required")
		fmt.Println("Usage: manifest-scan-catalogue --action <check|stats|ambiguous> --file <catalogue.yaml>")
		os.Exit(1)
	}

	entries, err := catalogue.Load(*file)
	if err != nil {
		fmt.Println(color.RedString("Catalogue rejected: %v", err))
		os.Exit(1)
	}

	idx, err := index.Build(entries)
	if err != nil {
		fmt.Println(color.RedString("Catalogue rejected: %v", err))
		os.Exit(1)
	}

	switch *action {
	case "check":
		fmt.Println(color.GreenString("Catalogue OK: %d entries, no duplicate UN numbers", idx.Size()))
	case "stats":
		printStats(entries)
	case "ambiguous":
		printAmbiguous(entries, idx)
	default:
		fmt.Printf("Error: Unknown action '%s'\n", *action)
		fmt.Println("Valid actions: check, stats, ambiguous")
		os.Exit(1)
	}
}

func printStats(entries []catalogue.Entry) {
	synonyms := 0
	classes := make(map[string]int)
	for _, entry := range entries {
		synonyms += len(entry.Synonyms)
		classes[entry.HazardClass]++
	}

	fmt.Printf("Entries:  %d\n", len(entries))
	fmt.Printf("Synonyms: %d\n", synonyms)
	fmt.Println("Hazard classes:")

	names := make([]string, 0, len(classes))
	for class := range classes {
		names = append(names, class)
	}
	sort.Strings(names)
	for _, class := range names {
		fmt.Printf("  %-6s %d\n", class, classes[class])
	}
}

// printAmbiguous lists keywords shared by more than one entry. Shared
// keywords lower match confidence, so catalogue authors want to know
// about them before an analysis runs.
func printAmbiguous(entries []catalogue.Entry, idx *index.Index) {
	seen := make(map[string]bool)
	var shared []string
	for _, entry := range entries {
		for _, keyword := range append([]string{entry.ProperShippingName}, entry.Synonyms...) {
			folded := index.Fold(keyword)
			if seen[folded] {
				continue
			}
			seen[folded] = true
			if len(idx.Owners(keyword)) > 1 {
				shared = append(shared, folded)
			}
		}
	}

	if len(shared) == 0 {
		fmt.Println(color.GreenString("No ambiguous keywords found."))
		return
	}

	sort.Strings(shared)
	fmt.Println(color.YellowString("Keywords shared across entries:"))
	for _, keyword := range shared {
		owners := idx.Owners(keyword)
		var unNumbers []string
		for _, owner := range owners {
			unNumbers = append(unNumbers, "UN"+owner.UNNumber)
		}
		fmt.Printf("  %q: %v\n", keyword, unNumbers)
	}
}
