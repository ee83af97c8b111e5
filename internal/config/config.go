// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pdf-extract/internal/paths"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the input used when neither flags nor config name one
const DefaultPath = "assets/breakfast-menu.pdf"

// Supported values for the enumerated settings
var (
	Formats = []string{"trace", "text", "json", "yaml"}
	Layouts = []string{"plain", "rows"}
)

// Settings are the options shared by the defaults block and profiles
type Settings struct {
	Path      string `yaml:"path"`
	Format    string `yaml:"format"`
	Engine    string `yaml:"engine"`
	Layout    string `yaml:"layout"`
	Password  string `yaml:"password"`
	MaxPages  int    `yaml:"max_pages"`
	Normalize bool   `yaml:"normalize"`
	Compact   bool   `yaml:"compact"`
	NoColor   bool   `yaml:"no_color"`
	Quiet     bool   `yaml:"quiet"`
	Debug     bool   `yaml:"debug"`
}

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults Settings `yaml:"defaults"`

	// Profiles for different extraction scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile is a named set of settings layered over the defaults.
// Only fields present in the YAML override the defaults.
type Profile struct {
	Description string `yaml:"description"`
	Settings    `yaml:",inline"`

	set map[string]bool
}

// UnmarshalYAML records which keys the profile sets
func (p *Profile) UnmarshalYAML(node *yaml.Node) error {
	type plain Profile
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*p = Profile(decoded)

	p.set = make(map[string]bool)
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			p.set[node.Content[i].Value] = true
		}
	}
	return nil
}

// Sets reports whether the profile explicitly sets key (a YAML key name)
func (p *Profile) Sets(key string) bool {
	return p.set[key]
}

// Apply layers the profile's explicit settings over base
func (p *Profile) Apply(base Settings) Settings {
	out := base
	if p.Sets("path") {
		out.Path = p.Path
	}
	if p.Sets("format") {
		out.Format = p.Format
	}
	if p.Sets("engine") {
		out.Engine = p.Engine
	}
	if p.Sets("layout") {
		out.Layout = p.Layout
	}
	if p.Sets("password") {
		out.Password = p.Password
	}
	if p.Sets("max_pages") {
		out.MaxPages = p.MaxPages
	}
	if p.Sets("normalize") {
		out.Normalize = p.Normalize
	}
	if p.Sets("compact") {
		out.Compact = p.Compact
	}
	if p.Sets("no_color") {
		out.NoColor = p.NoColor
	}
	if p.Sets("quiet") {
		out.Quiet = p.Quiet
	}
	if p.Sets("debug") {
		out.Debug = p.Debug
	}
	return out
}

// defaultSettings returns the built-in defaults
func defaultSettings() Settings {
	return Settings{
		Path:   DefaultPath,
		Format: "trace",
		Engine: "ledongthuc",
		Layout: "plain",
	}
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Defaults: defaultSettings(),
		Profiles: make(map[string]Profile),
	}

	// Add default plain-text profile
	config.Profiles["plain"] = Profile{
		Description: "Concatenated page text only, no trace or colors",
		Settings:    Settings{Format: "text", NoColor: true, Quiet: true},
		set:         map[string]bool{"format": true, "no_color": true, "quiet": true},
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// An empty file keeps the defaults
	if len(root.Content) > 0 {
		doc := root.Content[0]
		if doc.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("error parsing config file: line %d: top level must be a mapping of defaults and profiles", doc.Line)
		}
		// Decoding over the defaults keeps every key the file omits
		if err := doc.Decode(config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard
// locations when configFile is empty). If loading fails, it returns a default
// configuration together with the load error for the caller to report.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
		return cfg, err
	}
	return cfg, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"pdf-extract.yaml", "pdf-extract.yml", ".pdf-extract.yaml", ".pdf-extract.yml"} {
		if fileExists(name) {
			return name
		}
	}

	for _, candidate := range paths.ConfigFileCandidates() {
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the sorted names of available profiles
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ValidateConfig checks enumerated values in the defaults and every profile
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := validateSettings("defaults", config.Defaults, nil); err != nil {
		return err
	}
	for name, profile := range config.Profiles {
		if err := validateSettings("profile "+name, profile.Settings, profile.set); err != nil {
			return err
		}
	}
	return nil
}

func validateSettings(scope string, s Settings, set map[string]bool) error {
	checked := func(key string) bool { return set == nil || set[key] }

	if checked("format") && !contains(Formats, s.Format) {
		return fmt.Errorf("%s: unsupported format %q (use one of %v)", scope, s.Format, Formats)
	}
	if checked("layout") && !contains(Layouts, s.Layout) {
		return fmt.Errorf("%s: unsupported layout %q (use one of %v)", scope, s.Layout, Layouts)
	}
	if checked("max_pages") && s.MaxPages < 0 {
		return fmt.Errorf("%s: max_pages cannot be negative", scope)
	}
	if checked("engine") && s.Engine == "" {
		return fmt.Errorf("%s: engine cannot be empty", scope)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
