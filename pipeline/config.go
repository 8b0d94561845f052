package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/fhirtools/igdiff/composer"
	"github.com/fhirtools/igdiff/igerrors"
)

// GlobalMappingKey is the mappings key whose entries apply to every artifact
// that has no artifact-specific mapping list of its own.
const GlobalMappingKey = "global"

// defaultWorkers is the artifact fan-out limit used when the configuration
// does not set one.
const defaultWorkers = 4

// Comparison names the two guide versions being compared and where their
// publisher output and schema sources live on disk.
type Comparison struct {
	// PreviousVersion and CurrentVersion are display labels, e.g. "1.0.0".
	PreviousVersion string `yaml:"previous_version" json:"previous_version"`
	CurrentVersion  string `yaml:"current_version" json:"current_version"`
	// PreviousFolder and CurrentFolder are the version root folders. Each is
	// expected to contain an output/ directory with the published HTML.
	PreviousFolder string `yaml:"previous_folder" json:"previous_folder"`
	CurrentFolder  string `yaml:"current_folder" json:"current_folder"`
	// FSHPath is the schema-source directory, relative to each version root.
	FSHPath string `yaml:"fsh_path" json:"fsh_path"`
}

// Config drives a full pipeline run. Load it with LoadConfig; zero values for
// optional fields are resolved through the accessor methods, never mutated in
// place.
type Config struct {
	Comparison Comparison `yaml:"comparison" json:"comparison"`

	// Tables lists the region ids merged side by side on every processed page.
	Tables []string `yaml:"tables" json:"tables"`
	// Tabs lists the region ids merged as stacked panels.
	Tabs []string `yaml:"tabs" json:"tabs"`

	// SuppressChildChanges hides diff records for descendants of wholly added
	// or removed elements. Unset means true.
	SuppressChildChanges *bool `yaml:"suppress_child_changes" json:"suppress_child_changes,omitempty"`

	// Workers caps how many artifacts are processed concurrently. Unset or
	// non-positive means defaultWorkers.
	Workers int `yaml:"workers" json:"workers,omitempty"`

	// Mappings holds manual migration mappings keyed by artifact id, with
	// GlobalMappingKey as the fallback list.
	Mappings map[string][]composer.ManualMapping `yaml:"mappings" json:"mappings,omitempty"`
}

// LoadConfig reads and validates a YAML pipeline configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &igerrors.ConfigError{Option: "config", Message: "reading configuration file", Cause: err}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &igerrors.ConfigError{Option: "config", Message: "parsing configuration file", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every required comparison field is present.
func (c *Config) Validate() error {
	required := []struct {
		option string
		value  string
	}{
		{"comparison.previous_version", c.Comparison.PreviousVersion},
		{"comparison.current_version", c.Comparison.CurrentVersion},
		{"comparison.previous_folder", c.Comparison.PreviousFolder},
		{"comparison.current_folder", c.Comparison.CurrentFolder},
	}
	for _, r := range required {
		if r.value == "" {
			return &igerrors.ConfigError{Option: r.option, Message: "must not be empty"}
		}
	}
	if c.Workers < 0 {
		return &igerrors.ConfigError{Option: "workers", Message: fmt.Sprintf("must not be negative, got %d", c.Workers)}
	}
	return nil
}

// SuppressChildren resolves the suppress_child_changes option, defaulting to
// true when unset.
func (c *Config) SuppressChildren() bool {
	if c.SuppressChildChanges == nil {
		return true
	}
	return *c.SuppressChildChanges
}

// WorkerCount resolves the workers option, defaulting to defaultWorkers.
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return defaultWorkers
	}
	return c.Workers
}

// MappingsFor returns the manual mappings for an artifact, falling back to the
// global list when the artifact has none of its own.
func (c *Config) MappingsFor(artifactID string) []composer.ManualMapping {
	if mappings, ok := c.Mappings[artifactID]; ok {
		return mappings
	}
	return c.Mappings[GlobalMappingKey]
}

// PreviousOutputDir and CurrentOutputDir locate the published HTML of each
// version.
func (c *Config) PreviousOutputDir() string {
	return filepath.Join(c.Comparison.PreviousFolder, "output")
}

func (c *Config) CurrentOutputDir() string {
	return filepath.Join(c.Comparison.CurrentFolder, "output")
}

// PreviousFSHDir and CurrentFSHDir locate the schema sources of each version.
func (c *Config) PreviousFSHDir() string {
	return filepath.Join(c.Comparison.PreviousFolder, c.Comparison.FSHPath)
}

func (c *Config) CurrentFSHDir() string {
	return filepath.Join(c.Comparison.CurrentFolder, c.Comparison.FSHPath)
}
