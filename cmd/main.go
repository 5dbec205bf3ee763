// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"manifest-scan/internal/analysis"
	"manifest-scan/internal/catalogue"
	"manifest-scan/internal/config"
	"manifest-scan/internal/extract"
	"manifest-scan/internal/formatters"
	_ "manifest-scan/internal/formatters/csv"
	_ "manifest-scan/internal/formatters/json"
	_ "manifest-scan/internal/formatters/text"
	"manifest-scan/internal/observability"
	"manifest-scan/internal/version"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// configFlags holds command line flag values
type configFlags struct {
	file              string
	cataloguePath     string
	configFile        string
	profileName       string
	outputFormat      string
	workers           int
	verbose           bool
	debug             bool
	noColor           bool
	simulatedFallback bool
	showVersion       bool
	listFormats       bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	cataloguePath     string
	format            string
	workers           int
	contextChars      int
	verbose           bool
	debug             bool
	noColor           bool
	simulatedFallback bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Println(version.Info())
		return
	}
	if flags.listFormats {
		for _, name := range formatters.List() {
			if formatter, ok := formatters.Get(name); ok {
				fmt.Printf("%-8s %s\n", name, formatter.Description())
			}
		}
		return
	}

	if flags.file == "" {
		fmt.Fprintln(os.Stderr, "Error: no manifest document specified (use -file)")
		flag.Usage()
		os.Exit(2)
	}

	cfg := loadConfiguration(flags.configFile)

	var activeProfile *config.Profile
	if flags.profileName != "" {
		profile, err := cfg.GetProfile(flags.profileName)
		if err != nil {
			fatalf("Error: %v", err)
		}
		activeProfile = profile
	}

	final := resolveConfiguration(cfg, activeProfile, flags)

	// Default color off when stdout is not a terminal.
	if !final.noColor && !term.IsTerminal(int(os.Stdout.Fd())) {
		final.noColor = true
	}
	if final.noColor {
		color.NoColor = true
	}

	if final.cataloguePath == "" {
		fatalf("Error: no dangerous goods catalogue specified (use -catalogue)")
	}

	entries, err := catalogue.Load(final.cataloguePath)
	if err != nil {
		fatalf("Error loading catalogue: %v", err)
	}

	if err := extract.CheckAdmissibility(flags.file); err != nil {
		fatalf("Error: document rejected: %v", err)
	}

	observerLevel := observability.LevelMetrics
	if final.debug {
		observerLevel = observability.LevelDebug
	}
	observer := observability.NewStandardObserver(observerLevel, os.Stderr)

	var provider extract.PageProvider = extract.ProviderFor(flags.file)
	if final.simulatedFallback {
		provider = extract.NewFallbackProvider(provider, extract.NewSimulatedProvider(), observer)
	} else {
		provider = extract.NewFallbackProvider(provider, nil, observer)
	}

	var onProgress func(analysis.Progress)
	if final.verbose {
		onProgress = func(p analysis.Progress) {
			if p.State == analysis.StateScanning && p.TotalPages > 0 {
				fmt.Fprintf(os.Stderr, "\rScanning pages: %d/%d", p.PagesScanned, p.TotalPages)
				if p.PagesScanned == p.TotalPages {
					fmt.Fprintln(os.Stderr)
				}
			}
		}
	}

	orchestrator := analysis.New(analysis.Options{
		Workers:      final.workers,
		ContextChars: final.contextChars,
		Observer:     observer,
		OnProgress:   onProgress,
	})

	result, err := orchestrator.Analyze(context.Background(), provider, flags.file, entries)
	if err != nil {
		fatalf("Analysis failed [%s]: %v", analysis.CodeOf(err), err)
	}

	output, err := formatters.Export(final.format, result, formatters.FormatterOptions{
		Verbose: final.verbose,
		NoColor: final.noColor,
	})
	if err != nil {
		fatalf("Error formatting results: %v", err)
	}
	fmt.Println(output)
}

func parseFlags() *configFlags {
	flags := &configFlags{}

	flag.StringVar(&flags.file, "file", "", "Manifest document to analyze (.pdf, .txt, .csv)")
	flag.StringVar(&flags.cataloguePath, "catalogue", "", "Dangerous goods catalogue YAML file")
	flag.StringVar(&flags.configFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.profileName, "profile", "", "Named configuration profile to apply")
	flag.StringVar(&flags.outputFormat, "format", "", "Output format (text, json, csv)")
	flag.IntVar(&flags.workers, "workers", 0, "Page scan worker count (0 = one per CPU)")
	flag.BoolVar(&flags.verbose, "verbose", false, "Show detailed match information and progress")
	flag.BoolVar(&flags.debug, "debug", false, "Emit debug operation records to stderr")
	flag.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&flags.simulatedFallback, "simulated-fallback", false, "Fall back to the simulated extraction source when extraction fails")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version information")
	flag.BoolVar(&flags.listFormats, "list-formats", false, "List available output formats")
	flag.Parse()

	// A bare positional argument is accepted as the document path.
	if flags.file == "" && flag.NArg() > 0 {
		flags.file = flag.Arg(0)
	}

	return flags
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// resolveConfiguration resolves final values from config file, profile,
// and command line flags, in increasing priority.
func resolveConfiguration(cfg *config.Config, activeProfile *config.Profile, flags *configFlags) *finalConfiguration {
	final := &finalConfiguration{}

	final.format = "text"
	if cfg.Defaults.Format != "" {
		final.format = cfg.Defaults.Format
	}
	if activeProfile != nil && activeProfile.Format != "" {
		final.format = activeProfile.Format
	}
	if isFlagSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}

	final.cataloguePath = cfg.Defaults.Catalogue
	if activeProfile != nil && activeProfile.Catalogue != "" {
		final.cataloguePath = activeProfile.Catalogue
	}
	if isFlagSet("catalogue") && flags.cataloguePath != "" {
		final.cataloguePath = flags.cataloguePath
	}

	final.workers = cfg.Defaults.Workers
	if activeProfile != nil && activeProfile.Workers != 0 {
		final.workers = activeProfile.Workers
	}
	if isFlagSet("workers") {
		final.workers = flags.workers
	}

	final.contextChars = cfg.Defaults.ContextChars
	if activeProfile != nil && activeProfile.ContextChars != 0 {
		final.contextChars = activeProfile.ContextChars
	}

	final.verbose = cfg.Defaults.Verbose
	if activeProfile != nil {
		final.verbose = final.verbose || activeProfile.Verbose
	}
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}

	final.debug = cfg.Defaults.Debug
	if activeProfile != nil {
		final.debug = final.debug || activeProfile.Debug
	}
	if isFlagSet("debug") {
		final.debug = flags.debug
	}

	final.noColor = cfg.Defaults.NoColor
	if activeProfile != nil {
		final.noColor = final.noColor || activeProfile.NoColor
	}
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}

	final.simulatedFallback = cfg.Defaults.SimulatedFallback
	if activeProfile != nil {
		final.simulatedFallback = final.simulatedFallback || activeProfile.SimulatedFallback
	}
	if isFlagSet("simulated-fallback") {
		final.simulatedFallback = flags.simulatedFallback
	}

	return final
}

// isFlagSet checks whether a flag was explicitly provided on the command
// line.
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.RedString(format, args...))
	os.Exit(1)
}
