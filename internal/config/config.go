// internal/config/config.go
//
// This package handles configuration and the .harpist directory structure.
// Every project that uses harpist gets a .harpist/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/harpist/internal/cost"
	"github.com/kingrea/harpist/internal/solve"
)

const (
	// HarpistDir is the name of the directory we create in each project
	HarpistDir = ".harpist"

	defaultShow = 3
)

const defaultProjectConfigYAML = `# harpist project configuration
version: 1

# Cost model. Every pedal move costs pedal_cost; the rest are penalties on top.
weights:
  pedal_cost: 1000
  double_change_cost: 400
  double_string_cost: 100
  cross_string_cost: 1200
  early_change_cost: 300
  quick_change_cost: 30
  quick_change_decay: 10
  pedal_distance_cost: 1
  forget_after: 4

# Name of a profile in .harpist/profiles/ applied on top of the weights above.
# profile: legato

solver:
  mode: joint          # joint or per-spelling
  workers: 0           # 0 uses every CPU
  max_paths: 0         # 0 keeps every tied schedule
  max_expansions: 0    # 0 never gives up
  max_spellings: 4096  # per-spelling mode only
  fallback: true       # retry with simultaneous changes when nothing fits

output:
  show: 3
  lilypond: lilypond
`

// SolverConfig captures search preferences.
type SolverConfig struct {
	Mode          string `yaml:"mode"`
	Workers       int    `yaml:"workers"`
	MaxPaths      int    `yaml:"max_paths"`
	MaxExpansions int    `yaml:"max_expansions"`
	MaxSpellings  int    `yaml:"max_spellings"`
	Fallback      bool   `yaml:"fallback"`
}

// OutputConfig captures presentation preferences.
type OutputConfig struct {
	Show     int    `yaml:"show"`
	Lilypond string `yaml:"lilypond,omitempty"`
}

// ProjectConfig models .harpist/config.yaml.
type ProjectConfig struct {
	Version int          `yaml:"version"`
	Weights cost.Weights `yaml:"weights"`
	Profile string       `yaml:"profile,omitempty"`
	Solver  SolverConfig `yaml:"solver"`
	Output  OutputConfig `yaml:"output"`
}

// Config holds the runtime configuration for harpist.
type Config struct {
	// ProjectDir is the directory where the user ran `harpist` from
	ProjectDir string

	// HarpistProjectDir is ProjectDir/.harpist
	HarpistProjectDir string

	Project ProjectConfig
}

// InitHarpistDir creates the .harpist directory structure in the given project directory.
//
// Structure created:
// .harpist/
// ├── config.yaml
// ├── logs/       <- harpist.log
// ├── profiles/   <- cost profiles (*.yaml, *.go)
// └── out/        <- exported candidates and engravings
func InitHarpistDir(projectDir string) error {
	harpistDir := filepath.Join(projectDir, HarpistDir)

	dirs := []string{
		filepath.Join(harpistDir, "logs"),
		filepath.Join(harpistDir, "profiles"),
		filepath.Join(harpistDir, "out"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(harpistDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		HarpistProjectDir: filepath.Join(projectDir, HarpistDir),
		Project:           defaultProjectConfig(),
	}

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.HarpistProjectDir, "logs")
}

// ProfilesDir returns the directory scanned for cost profiles
func (c *Config) ProfilesDir() string {
	return filepath.Join(c.HarpistProjectDir, "profiles")
}

// OutputDir returns the default directory for exports
func (c *Config) OutputDir() string {
	return filepath.Join(c.HarpistProjectDir, "out")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.HarpistProjectDir, "config.yaml")
}

// Weights returns the configured cost model before any profile is applied.
func (c *Config) Weights() cost.Weights {
	return c.Project.Weights
}

// Mode returns the configured search mode.
func (c *Config) Mode() solve.Mode {
	m, err := solve.ParseMode(c.Project.Solver.Mode)
	if err != nil {
		return solve.ModeJoint
	}
	return m
}

// SolverOptions translates the solver section into solver options.
func (c *Config) SolverOptions() []solve.Option {
	s := c.Project.Solver
	return []solve.Option{
		solve.WithMode(c.Mode()),
		solve.WithWorkers(s.Workers),
		solve.WithMaxSpellings(s.MaxSpellings),
		solve.WithSearchOptions(searchOptions(s)),
	}
}

// SetProfile records the default profile and persists it to
// .harpist/config.yaml. An empty name clears it.
func (c *Config) SetProfile(name string) error {
	c.Project.Profile = strings.TrimSpace(name)
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	// Keys missing from the file keep their defaults.
	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Weights: cost.DefaultWeights(),
		Solver: SolverConfig{
			Mode:         string(solve.ModeJoint),
			MaxSpellings: solve.DefaultMaxSpellings,
			Fallback:     true,
		},
		Output: OutputConfig{
			Show:     defaultShow,
			Lilypond: "lilypond",
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Output.Show == 0 {
		pc.Output.Show = defaultShow
	}
	if strings.TrimSpace(pc.Output.Lilypond) == "" {
		pc.Output.Lilypond = "lilypond"
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Profile = strings.TrimSpace(pc.Profile)
	pc.Solver.Mode = strings.ToLower(strings.TrimSpace(pc.Solver.Mode))
	if pc.Solver.Mode == "" {
		pc.Solver.Mode = string(solve.ModeJoint)
	}
	pc.Output.Lilypond = strings.TrimSpace(pc.Output.Lilypond)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if err := pc.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if strings.ContainsAny(pc.Profile, `/\`) {
		return fmt.Errorf("profile must be a name, not a path")
	}
	if _, err := solve.ParseMode(pc.Solver.Mode); err != nil {
		return fmt.Errorf("solver.mode: %w", err)
	}
	if pc.Solver.Workers < 0 || pc.Solver.MaxPaths < 0 || pc.Solver.MaxExpansions < 0 || pc.Solver.MaxSpellings < 0 {
		return fmt.Errorf("solver limits must not be negative")
	}
	if pc.Output.Show < 0 {
		return fmt.Errorf("output.show must not be negative")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.HarpistProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure harpist dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
