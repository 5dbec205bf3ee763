// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Default settings
	Defaults struct {
		Format            string `yaml:"format"`
		Catalogue         string `yaml:"catalogue"`
		Workers           int    `yaml:"workers"`
		ContextChars      int    `yaml:"context_chars"`
		Verbose           bool   `yaml:"verbose"`
		Debug             bool   `yaml:"debug"`
		NoColor           bool   `yaml:"no_color"`
		SimulatedFallback bool   `yaml:"simulated_fallback"`
	} `yaml:"defaults"`

	// Profiles for different analysis scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents an analysis profile with specific settings.
type Profile struct {
	Format            string `yaml:"format"`
	Catalogue         string `yaml:"catalogue"`
	Workers           int    `yaml:"workers"`
	ContextChars      int    `yaml:"context_chars"`
	Verbose           bool   `yaml:"verbose"`
	Debug             bool   `yaml:"debug"`
	NoColor           bool   `yaml:"no_color"`
	SimulatedFallback bool   `yaml:"simulated_fallback"`
	Description       string `yaml:"description"`
}

// LoadConfig loads configuration from the specified file path. An empty
// path returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.Workers = 0 // one per CPU
	config.Defaults.ContextChars = 40
	config.Defaults.SimulatedFallback = false

	// Default CI profile: machine-readable, quiet, no fallback
	config.Profiles["ci"] = Profile{
		Format:      "json",
		NoColor:     true,
		Description: "Machine-readable output for CI pipelines",
	}

	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfig checks configuration values for consistency.
func ValidateConfig(config *Config) error {
	if config.Defaults.Workers < 0 {
		return fmt.Errorf("defaults.workers must not be negative")
	}
	if config.Defaults.ContextChars < 0 {
		return fmt.Errorf("defaults.context_chars must not be negative")
	}
	for name, profile := range config.Profiles {
		if profile.Workers < 0 {
			return fmt.Errorf("profile %q: workers must not be negative", name)
		}
		if profile.ContextChars < 0 {
			return fmt.Errorf("profile %q: context_chars must not be negative", name)
		}
	}
	return nil
}

// GetProfile returns a named profile from the configuration.
func (c *Config) GetProfile(name string) (*Profile, error) {
	profile, exists := c.Profiles[name]
	if !exists {
		return nil, fmt.Errorf("profile %q not found in configuration", name)
	}
	return &profile, nil
}

// FindConfigFile looks for a configuration file in standard locations.
func FindConfigFile() string {
	candidates := []string{
		"manifest-scan.yaml",
		"manifest-scan.yml",
		".manifest-scan.yaml",
		".manifest-scan.yml",
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		for _, candidate := range []string{
			filepath.Join(home, ".config", "manifest-scan", "config.yaml"),
			filepath.Join(home, ".manifest-scan.yaml"),
		} {
			if fileExists(candidate) {
				return candidate
			}
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
