package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	config := Default()
	s := config.Simulation

	if s.NumberOfNodes != 100 || s.Degree != 6 {
		t.Errorf("expected 100 nodes with degree 6, got %d and %d", s.NumberOfNodes, s.Degree)
	}
	if s.ProbabilityPreferentialAttachment != 0.6 {
		t.Errorf("expected preferential attachment 0.6, got %v", s.ProbabilityPreferentialAttachment)
	}
	if s.EliteCompetenceRange != (Range{Min: 0.55, Max: 0.7}) {
		t.Errorf("unexpected elite competence range %+v", s.EliteCompetenceRange)
	}
	if s.NumberOfElitesRange != (IntRange{Min: 25, Max: 45}) {
		t.Errorf("unexpected number of elites range %+v", s.NumberOfElitesRange)
	}
	if s.ProbabilityHomophilicAttachmentRange == nil {
		t.Error("expected a homophily range by default")
	}
	if s.Alpha != 0.05 || s.IntervalMethod != "normal" {
		t.Errorf("expected alpha 0.05 and normal interval, got %v and %s", s.Alpha, s.IntervalMethod)
	}
	if config.Storage.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got '%s'", config.Storage.Backend)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	configContent := `
simulation:
  number_of_communities: 12
  number_of_voting_simulations: 500
  degree: 4
  mass_competence_range:
    min: 0.6
    max: 0.8
  interval_method: wilson
  seed: 99

storage:
  backend: file
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	s := config.Simulation
	if s.NumberOfCommunities != 12 || s.NumberOfVotingSimulations != 500 {
		t.Errorf("expected 12 communities and 500 votes, got %d and %d", s.NumberOfCommunities, s.NumberOfVotingSimulations)
	}
	if s.Degree != 4 {
		t.Errorf("expected degree 4, got %d", s.Degree)
	}
	if s.MassCompetenceRange != (Range{Min: 0.6, Max: 0.8}) {
		t.Errorf("unexpected mass competence range %+v", s.MassCompetenceRange)
	}
	if s.IntervalMethod != "wilson" || s.Seed == nil || *s.Seed != 99 {
		t.Errorf("expected wilson and seed 99, got %s and %v", s.IntervalMethod, s.Seed)
	}
	// Unset keys keep their defaults
	if s.NumberOfNodes != 100 {
		t.Errorf("expected default 100 nodes, got %d", s.NumberOfNodes)
	}
	if config.Storage.Backend != "file" {
		t.Errorf("expected file backend, got '%s'", config.Storage.Backend)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	config, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Simulation.NumberOfCommunities != Default().Simulation.NumberOfCommunities {
		t.Error("expected defaults when no config file exists")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MVCA_LOG_LEVEL", "debug")
	t.Setenv("MVCA_STORAGE_BACKEND", "memory")
	t.Setenv("MVCA_SEED", "1234")
	t.Setenv("MVCA_NUMBER_OF_COMMUNITIES", "7")
	t.Setenv("MVCA_NUMBER_OF_VOTING_SIMULATIONS", "not-a-number")
	t.Setenv("MVCA_METRICS_TEXTFILE", "/tmp/mvca.prom")

	config, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected debug, got '%s'", config.Logging.Level)
	}
	if config.Storage.Backend != "memory" {
		t.Errorf("expected memory, got '%s'", config.Storage.Backend)
	}
	if seed := config.Simulation.Seed; seed == nil || *seed != 1234 || config.Simulation.NumberOfCommunities != 7 {
		t.Errorf("expected seed 1234 and 7 communities, got %v and %d", seed, config.Simulation.NumberOfCommunities)
	}
	if config.Simulation.NumberOfVotingSimulations != 10000 {
		t.Errorf("unparseable override should be ignored, got %d", config.Simulation.NumberOfVotingSimulations)
	}
	if config.Metrics.Textfile != "/tmp/mvca.prom" {
		t.Errorf("expected textfile override, got '%s'", config.Metrics.Textfile)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	root := t.TempDir()
	content := "logging:\n  level: trace\nsimulation:\n  seed: 5\n"
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MVCA_SEED", "6")

	config, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Logging.Level != "trace" {
		t.Errorf("expected trace from file, got '%s'", config.Logging.Level)
	}
	if seed := config.Simulation.Seed; seed == nil || *seed != 6 {
		t.Errorf("expected env seed 6 to win, got %v", seed)
	}
}

func TestLoadFromFile_SeedZeroIsExplicit(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    *uint64
	}{
		{"unset", "simulation:\n  degree: 6\n", nil},
		{"zero", "simulation:\n  seed: 0\n", new(uint64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			config, err := LoadFromFile(path)
			if err != nil {
				t.Fatalf("LoadFromFile failed: %v", err)
			}
			got := config.Simulation.Seed
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("seed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadPath_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := "storage:\n  backend: file\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath failed: %v", err)
	}
	if config.Storage.Backend != "file" {
		t.Errorf("expected file backend, got '%s'", config.Storage.Backend)
	}
	if config.Simulation.NumberOfNodes != 100 {
		t.Errorf("expected default number of nodes, got %d", config.Simulation.NumberOfNodes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid default", func(c *Config) {}, ""},
		{"uniform wiring", func(c *Config) { c.Simulation.ProbabilityHomophilicAttachmentRange = nil }, ""},
		{"zero communities", func(c *Config) { c.Simulation.NumberOfCommunities = 0 }, "NumberOfCommunities"},
		{"zero voting simulations", func(c *Config) { c.Simulation.NumberOfVotingSimulations = 0 }, "NumberOfVotingSimulations"},
		{"competence above one", func(c *Config) { c.Simulation.EliteCompetenceRange.Max = 1.2 }, "Max"},
		{"inverted range", func(c *Config) { c.Simulation.MassCompetenceRange = Range{Min: 0.7, Max: 0.6} }, "mass_competence_range"},
		{"inverted homophily", func(c *Config) {
			c.Simulation.ProbabilityHomophilicAttachmentRange = &Range{Min: 0.9, Max: 0.1}
		}, "probability_homophilic_attachment_range"},
		{"homophily out of range", func(c *Config) {
			c.Simulation.ProbabilityHomophilicAttachmentRange = &Range{Min: -0.1, Max: 0.1}
		}, "Min"},
		{"too many elites", func(c *Config) { c.Simulation.NumberOfElitesRange.Max = 100 }, "number_of_elites_range"},
		{"degree too large", func(c *Config) { c.Simulation.Degree = 100 }, "degree"},
		{"alpha zero", func(c *Config) { c.Simulation.Alpha = 0 }, "Alpha"},
		{"bad method", func(c *Config) { c.Simulation.IntervalMethod = "bootstrap" }, "IntervalMethod"},
		{"bad backend", func(c *Config) { c.Storage.Backend = "postgres" }, "Backend"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "Level"},
		{"empty log level", func(c *Config) { c.Logging.Level = "" }, ""},
		{"no output", func(c *Config) { c.Simulation.Output = "" }, "Output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)
			err := config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	orig := Default()
	seed := uint64(42)
	orig.Simulation.Seed = &seed
	orig.Storage.Backend = "file"

	if err := orig.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Simulation.Seed == nil || *loaded.Simulation.Seed != 42 || loaded.Storage.Backend != "file" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if *loaded.Simulation.ProbabilityHomophilicAttachmentRange != *orig.Simulation.ProbabilityHomophilicAttachmentRange {
		t.Error("round trip lost homophily range")
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/mvca.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	if err := os.WriteFile(configPath, []byte("simulation: [not, a, map"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}
