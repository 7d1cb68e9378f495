package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rofars-sim/rofars-sim/sim"
)

var (
	// CLI flags shared by run and sweep
	seed       int64   // Master seed for all randomness
	steps      int64   // Episode length in steps
	logLevel   string  // Log verbosity level
	cameras    int     // Camera fleet size
	budget     int     // Cameras observable per step
	dropout    float64 // Probability an observed camera fails to report
	configPath string  // Optional YAML bundle path

	// Bandit policy configuration
	policyName  string  // ucb1 | sliding-window | discounted
	exploration float64 // Confidence-bound coefficient c
	windowSize  int     // Sliding window capacity W
	gamma       float64 // Discount factor
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rofars-sim",
	Short: "Discrete-step simulator for adaptive camera observation budgeting",
}

// resolveRunConfig merges CLI flags with an optional YAML bundle.
// YAML values take precedence over flag defaults for fields it sets.
func resolveRunConfig() sim.RunConfig {
	cfg := sim.RunConfig{
		Seed:        seed,
		Steps:       steps,
		Cameras:     cameras,
		Budget:      budget,
		Dropout:     dropout,
		Policy:      policyName,
		Exploration: exploration,
		WindowSize:  windowSize,
		Gamma:       gamma,
	}
	if configPath != "" {
		bundle, err := sim.LoadSimBundle(configPath)
		if err != nil {
			logrus.Fatalf("Failed to load config %s: %v", configPath, err)
		}
		if err := bundle.Validate(); err != nil {
			logrus.Fatalf("Invalid config %s: %v", configPath, err)
		}
		bundle.Apply(&cfg)
	}
	return cfg
}

// setupLogging applies the --log flag. Shared PersistentPreRun for all
// subcommands.
func setupLogging(_ *cobra.Command, _ []string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes one simulation episode using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one observation-budget simulation episode",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveRunConfig()

		logrus.Infof("Starting episode: policy=%s cameras=%d budget=%d steps=%d seed=%d",
			cfg.Policy, cfg.Cameras, cfg.Budget, cfg.Steps, cfg.Seed)

		startTime := time.Now()
		s, err := sim.NewSimulatorFromConfig(cfg, sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)))
		if err != nil {
			logrus.Fatalf("Failed to build simulator: %v", err)
		}
		if err := s.Run(); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		s.Metrics.Print()
		logrus.Infof("Episode finished in %v", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Master seed for all randomness")
	rootCmd.PersistentFlags().Int64Var(&steps, "steps", 10000, "Episode length in steps")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().IntVar(&cameras, "cameras", 10, "Camera fleet size")
	rootCmd.PersistentFlags().IntVar(&budget, "budget", 5, "Cameras observable per step")
	rootCmd.PersistentFlags().Float64Var(&dropout, "dropout", 0.0, "Probability an observed camera fails to report")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML simulation config (overrides flags)")

	rootCmd.PersistentFlags().StringVar(&policyName, "policy", "ucb1", "Bandit policy (ucb1, sliding-window, discounted)")
	rootCmd.PersistentFlags().Float64Var(&exploration, "exploration", 3.0, "Confidence-bound coefficient c")
	rootCmd.PersistentFlags().IntVar(&windowSize, "window-size", 6000, "Sliding window capacity (sliding-window policy)")
	rootCmd.PersistentFlags().Float64Var(&gamma, "gamma", 0.9, "Discount factor in (0, 1] (discounted policy)")

	rootCmd.PersistentPreRun = setupLogging
	rootCmd.AddCommand(runCmd)
}
