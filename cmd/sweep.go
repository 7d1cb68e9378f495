package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rofars-sim/rofars-sim/sim"
)

var (
	sweepParam string // "window" or "gamma"

	sweepWindowMin  int
	sweepWindowMax  int
	sweepWindowStep int

	sweepGammaMin  float64
	sweepGammaMax  float64
	sweepGammaStep float64
)

// sweepCandidateWindows expands the window range flags into candidates.
func sweepCandidateWindows() []int {
	var windows []int
	for w := sweepWindowMin; w <= sweepWindowMax; w += sweepWindowStep {
		windows = append(windows, w)
	}
	return windows
}

// sweepCandidateGammas expands the gamma range flags into candidates.
func sweepCandidateGammas() []float64 {
	var gammas []float64
	for g := sweepGammaMin; g <= sweepGammaMax+1e-12; g += sweepGammaStep {
		gammas = append(gammas, g)
	}
	return gammas
}

// sweepCmd searches a hyperparameter range, one independent episode per
// candidate, and reports the best-performing value.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep a bandit hyperparameter and report the best value",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveRunConfig()

		var result *sim.SweepResult
		var err error
		switch sweepParam {
		case "window":
			result, err = sim.SweepWindows(cfg, sweepCandidateWindows())
		case "gamma":
			result, err = sim.SweepGammas(cfg, sweepCandidateGammas())
		default:
			logrus.Fatalf("Unknown sweep parameter %q (want window or gamma)", sweepParam)
		}
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		best, total := result.Best()
		mean, stddev := result.Summary()
		logrus.Infof("Sweep complete: best %s=%v with total reward %.4f (candidate mean %.4f, stddev %.4f)",
			result.Param, best, total, mean, stddev)
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepParam, "param", "window", "Hyperparameter to sweep (window or gamma)")

	sweepCmd.Flags().IntVar(&sweepWindowMin, "window-min", 1000, "Smallest window size candidate")
	sweepCmd.Flags().IntVar(&sweepWindowMax, "window-max", 9000, "Largest window size candidate")
	sweepCmd.Flags().IntVar(&sweepWindowStep, "window-step", 1000, "Window size increment")

	sweepCmd.Flags().Float64Var(&sweepGammaMin, "gamma-min", 0.9, "Smallest discount factor candidate")
	sweepCmd.Flags().Float64Var(&sweepGammaMax, "gamma-max", 0.9975, "Largest discount factor candidate")
	sweepCmd.Flags().Float64Var(&sweepGammaStep, "gamma-step", 0.0025, "Discount factor increment")

	rootCmd.AddCommand(sweepCmd)
}
