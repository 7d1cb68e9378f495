package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rofars-sim/rofars-sim/sim/bandit"
)

// SimBundle holds unified simulation configuration, loadable from a YAML
// file. Zero-valued fields mean "not set in YAML" and do not override CLI
// flag values.
type SimBundle struct {
	Bandit      BanditConfig `yaml:"bandit"`
	Environment EnvConfig    `yaml:"environment"`
}

// BanditConfig holds bandit policy selection and hyperparameters.
type BanditConfig struct {
	Policy      string   `yaml:"policy"`
	Exploration *float64 `yaml:"exploration"`
	WindowSize  *int     `yaml:"window_size"`
	Gamma       *float64 `yaml:"gamma"`
}

// EnvConfig holds camera fleet parameters.
type EnvConfig struct {
	Cameras *int     `yaml:"cameras"`
	Budget  *int     `yaml:"budget"`
	Dropout *float64 `yaml:"dropout"`
}

// LoadSimBundle reads and parses a YAML simulation configuration file.
func LoadSimBundle(path string) (*SimBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sim config: %w", err)
	}
	var bundle SimBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing sim config: %w", err)
	}
	return &bundle, nil
}

// Validate checks policy names and parameter ranges. Range semantics for
// window size and gamma match the bandit constructors; the checks here
// exist so a bad YAML file is rejected before any simulator is built.
func (b *SimBundle) Validate() error {
	if !bandit.IsValidPolicy(b.Bandit.Policy) {
		return fmt.Errorf("unknown bandit policy %q", b.Bandit.Policy)
	}
	if b.Bandit.WindowSize != nil && *b.Bandit.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", *b.Bandit.WindowSize)
	}
	if b.Bandit.Gamma != nil && (*b.Bandit.Gamma <= 0 || *b.Bandit.Gamma > 1) {
		return fmt.Errorf("gamma must be in (0, 1], got %v", *b.Bandit.Gamma)
	}
	if b.Environment.Cameras != nil && *b.Environment.Cameras <= 0 {
		return fmt.Errorf("cameras must be positive, got %d", *b.Environment.Cameras)
	}
	if b.Environment.Budget != nil && *b.Environment.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %d", *b.Environment.Budget)
	}
	if b.Environment.Dropout != nil && (*b.Environment.Dropout < 0 || *b.Environment.Dropout >= 1) {
		return fmt.Errorf("dropout must be in [0, 1), got %v", *b.Environment.Dropout)
	}
	return nil
}

// Apply overlays the bundle's set fields onto a RunConfig. Fields left
// unset in the YAML keep the RunConfig's current (flag-supplied) values.
func (b *SimBundle) Apply(cfg *RunConfig) {
	if b.Bandit.Policy != "" {
		cfg.Policy = b.Bandit.Policy
	}
	if b.Bandit.Exploration != nil {
		cfg.Exploration = *b.Bandit.Exploration
	}
	if b.Bandit.WindowSize != nil {
		cfg.WindowSize = *b.Bandit.WindowSize
	}
	if b.Bandit.Gamma != nil {
		cfg.Gamma = *b.Bandit.Gamma
	}
	if b.Environment.Cameras != nil {
		cfg.Cameras = *b.Environment.Cameras
	}
	if b.Environment.Budget != nil {
		cfg.Budget = *b.Environment.Budget
	}
	if b.Environment.Dropout != nil {
		cfg.Dropout = *b.Environment.Dropout
	}
}

// RunConfig is the fully-resolved configuration for one simulation run,
// after CLI flags and any YAML bundle have been merged.
type RunConfig struct {
	Seed    int64
	Steps   int64
	Cameras int
	Budget  int
	Dropout float64

	Policy      string
	Exploration float64
	WindowSize  int
	Gamma       float64
}

// BanditParams returns the bandit construction parameters for this run.
func (c RunConfig) BanditParams() bandit.Config {
	return bandit.Config{
		Exploration: c.Exploration,
		WindowSize:  c.WindowSize,
		Gamma:       c.Gamma,
	}
}

// NewSimulatorFromConfig builds a ready-to-run simulator from a resolved
// RunConfig, deriving all randomness from the config's seed via rng.
func NewSimulatorFromConfig(cfg RunConfig, rng *PartitionedRNG) (*Simulator, error) {
	env, err := NewCameraEnvironment(EnvironmentConfig{
		Cameras: cfg.Cameras,
		Budget:  cfg.Budget,
		Dropout: cfg.Dropout,
	}, rng.ForSubsystem(SubsystemEnvironment))
	if err != nil {
		return nil, err
	}

	policy, err := bandit.NewPolicy(cfg.Policy, cfg.BanditParams(), rng.ForSubsystem(SubsystemBandit))
	if err != nil {
		return nil, err
	}

	return NewSimulator(cfg.Steps, env, policy)
}
