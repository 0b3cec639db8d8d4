// Package config provides unified configuration loading for mvca.
// It supports loading from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root.
const FileName = "mvca.yaml"

// validate is a singleton validator instance
var validate = validator.New()

// Config contains all mvca configuration settings.
type Config struct {
	// Simulation contains the batch simulation parameters.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Storage selects where generated communities are persisted.
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Logging contains settings for operational and run logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Metrics configures Prometheus textfile export.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// Range is an inclusive float interval [Min, Max] within [0, 1].
type Range struct {
	Min float64 `json:"min" yaml:"min" validate:"gte=0,lte=1"`
	Max float64 `json:"max" yaml:"max" validate:"gte=0,lte=1"`
}

// IntRange is an inclusive integer interval [Min, Max].
type IntRange struct {
	Min int `json:"min" yaml:"min" validate:"gte=0"`
	Max int `json:"max" yaml:"max" validate:"gte=0"`
}

// SimulationConfig describes a batch of randomly parameterized communities.
type SimulationConfig struct {
	NumberOfCommunities       int `json:"number_of_communities" yaml:"number_of_communities" validate:"min=1"`
	NumberOfVotingSimulations int `json:"number_of_voting_simulations" yaml:"number_of_voting_simulations" validate:"min=1"`
	NumberOfNodes             int `json:"number_of_nodes" yaml:"number_of_nodes" validate:"min=1"`
	Degree                    int `json:"degree" yaml:"degree" validate:"min=0"`

	ProbabilityPreferentialAttachment float64 `json:"probability_preferential_attachment" yaml:"probability_preferential_attachment" validate:"gte=0,lte=1"`

	// Per-community parameters are drawn uniformly from these ranges.
	EliteCompetenceRange Range    `json:"elite_competence_range" yaml:"elite_competence_range"`
	MassCompetenceRange  Range    `json:"mass_competence_range" yaml:"mass_competence_range"`
	NumberOfElitesRange  IntRange `json:"number_of_elites_range" yaml:"number_of_elites_range"`

	// ProbabilityHomophilicAttachmentRange nil means uniform wiring.
	ProbabilityHomophilicAttachmentRange *Range `json:"probability_homophilic_attachment_range,omitempty" yaml:"probability_homophilic_attachment_range,omitempty"`

	// Alpha is the significance level of the accuracy confidence interval.
	Alpha float64 `json:"alpha" yaml:"alpha" validate:"gt=0,lt=1"`

	// IntervalMethod is "normal", "clopper-pearson" or "wilson".
	IntervalMethod string `json:"interval_method" yaml:"interval_method" validate:"oneof=normal clopper-pearson wilson"`

	// Seed makes a run reproducible. Unset draws a fresh seed.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Output is the results CSV path, relative to the data directory
	// unless absolute.
	Output string `json:"output" yaml:"output" validate:"required"`
}

// StorageConfig selects the community store.
type StorageConfig struct {
	// Backend is "sqlite" (default), "file" or "memory".
	Backend string `json:"backend" yaml:"backend" validate:"oneof=sqlite file memory"`

	// Path overrides the data directory (default <root>/.mvca).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoggingConfig configures mvca's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables run logging to .mvca/runs.jsonl.
	// "trace" additionally records every community's in-degree histogram.
	Level string `json:"level" yaml:"level" validate:"omitempty,oneof=info debug trace"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile is written at the end of a batch when non-empty.
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// Default returns a Config with the reference batch parameters.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			NumberOfCommunities:               100,
			NumberOfVotingSimulations:         10000,
			NumberOfNodes:                     100,
			Degree:                            6,
			ProbabilityPreferentialAttachment: 0.6,
			EliteCompetenceRange:              Range{Min: 0.55, Max: 0.7},
			MassCompetenceRange:               Range{Min: 0.55, Max: 0.7},
			NumberOfElitesRange:               IntRange{Min: 25, Max: 45},

			ProbabilityHomophilicAttachmentRange: &Range{Min: 0.5, Max: 0.75},

			Alpha:          0.05,
			IntervalMethod: "normal",
			Output:         "results.csv",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the project root and environment variables.
// Order: defaults -> <root>/mvca.yaml -> environment variables
func Load(root string) (*Config, error) {
	return LoadPath(filepath.Join(root, FileName))
}

// LoadPath is Load with an explicit config file path. A missing file
// leaves the defaults in place.
func LoadPath(configPath string) (*Config, error) {
	config := Default()

	if _, statErr := os.Stat(configPath); statErr == nil {
		fileConfig, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Keys missing
// from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// WriteFile writes c as YAML to path.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	s := c.Simulation
	if s.EliteCompetenceRange.Min > s.EliteCompetenceRange.Max {
		return fmt.Errorf("elite_competence_range: min %v exceeds max %v", s.EliteCompetenceRange.Min, s.EliteCompetenceRange.Max)
	}
	if s.MassCompetenceRange.Min > s.MassCompetenceRange.Max {
		return fmt.Errorf("mass_competence_range: min %v exceeds max %v", s.MassCompetenceRange.Min, s.MassCompetenceRange.Max)
	}
	if h := s.ProbabilityHomophilicAttachmentRange; h != nil && h.Min > h.Max {
		return fmt.Errorf("probability_homophilic_attachment_range: min %v exceeds max %v", h.Min, h.Max)
	}
	if s.NumberOfElitesRange.Min > s.NumberOfElitesRange.Max {
		return fmt.Errorf("number_of_elites_range: min %d exceeds max %d", s.NumberOfElitesRange.Min, s.NumberOfElitesRange.Max)
	}
	if s.NumberOfElitesRange.Max >= s.NumberOfNodes {
		return fmt.Errorf("number_of_elites_range: max %d must be less than number_of_nodes %d", s.NumberOfElitesRange.Max, s.NumberOfNodes)
	}
	if s.Degree >= s.NumberOfNodes {
		return fmt.Errorf("degree %d must be less than number_of_nodes %d", s.Degree, s.NumberOfNodes)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s, got %v", field, param, e.Value())
		case "lte":
			return fmt.Errorf("%s: must not exceed %s, got %v", field, param, e.Value())
		case "gt", "lt":
			return fmt.Errorf("%s: must be strictly between 0 and 1, got %v", field, e.Value())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %q", field, param, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("MVCA_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("MVCA_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = v
	}
	if v := os.Getenv("MVCA_STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}

	if v := os.Getenv("MVCA_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Simulation.Seed = &n
		}
	}
	if v := os.Getenv("MVCA_NUMBER_OF_COMMUNITIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.NumberOfCommunities = n
		}
	}
	if v := os.Getenv("MVCA_NUMBER_OF_VOTING_SIMULATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.NumberOfVotingSimulations = n
		}
	}

	if v := os.Getenv("MVCA_METRICS_TEXTFILE"); v != "" {
		config.Metrics.Textfile = v
	}
}
