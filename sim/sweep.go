package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/rofars-sim/rofars-sim/sim/bandit"
)

// SweepResult holds the outcome of a hyperparameter sweep: one total reward
// per candidate, in candidate order.
type SweepResult struct {
	Param      string // swept hyperparameter: "window" or "gamma"
	Candidates []float64
	Totals     []float64
	BestIndex  int
}

// Best returns the best candidate value and its total reward.
func (r *SweepResult) Best() (candidate, total float64) {
	return r.Candidates[r.BestIndex], r.Totals[r.BestIndex]
}

// Summary returns the mean and standard deviation of candidate totals,
// a quick sense of how sensitive the policy is to the swept parameter.
func (r *SweepResult) Summary() (mean, stddev float64) {
	mean = stat.Mean(r.Totals, nil)
	if len(r.Totals) > 1 {
		stddev = stat.StdDev(r.Totals, nil)
	}
	return mean, stddev
}

// SweepWindows runs one independent sliding-window episode per candidate
// window size and reports the best. Candidates run strictly sequentially;
// every candidate sees the identical environment stream (same master seed),
// so totals differ only by the window size under test.
func SweepWindows(cfg RunConfig, windows []int) (*SweepResult, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("no window sizes to sweep")
	}
	result := &SweepResult{Param: "window"}
	for k, w := range windows {
		candidate := cfg
		candidate.Policy = "sliding-window"
		candidate.WindowSize = w

		total, err := runSweepCandidate(candidate, k)
		if err != nil {
			return nil, fmt.Errorf("window=%d: %w", w, err)
		}
		logrus.Infof("sweep candidate window=%d: total reward %.4f", w, total)
		result.Candidates = append(result.Candidates, float64(w))
		result.Totals = append(result.Totals, total)
		if total > result.Totals[result.BestIndex] {
			result.BestIndex = k
		}
	}
	return result, nil
}

// SweepGammas runs one independent discounted episode per candidate
// discount factor and reports the best.
func SweepGammas(cfg RunConfig, gammas []float64) (*SweepResult, error) {
	if len(gammas) == 0 {
		return nil, fmt.Errorf("no gammas to sweep")
	}
	result := &SweepResult{Param: "gamma"}
	for k, g := range gammas {
		candidate := cfg
		candidate.Policy = "discounted"
		candidate.Gamma = g

		total, err := runSweepCandidate(candidate, k)
		if err != nil {
			return nil, fmt.Errorf("gamma=%v: %w", g, err)
		}
		logrus.Infof("sweep candidate gamma=%v: total reward %.4f", g, total)
		result.Candidates = append(result.Candidates, g)
		result.Totals = append(result.Totals, total)
		if total > result.Totals[result.BestIndex] {
			result.BestIndex = k
		}
	}
	return result, nil
}

// runSweepCandidate runs one fully-independent episode for sweep slot k.
// The environment stream derives from the master seed alone so candidates
// are comparable; the bandit's tie-break stream is per-slot.
func runSweepCandidate(cfg RunConfig, k int) (float64, error) {
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))

	env, err := NewCameraEnvironment(EnvironmentConfig{
		Cameras: cfg.Cameras,
		Budget:  cfg.Budget,
		Dropout: cfg.Dropout,
	}, rng.ForSubsystem(SubsystemEnvironment))
	if err != nil {
		return 0, err
	}

	policy, err := bandit.NewPolicy(cfg.Policy, cfg.BanditParams(), rng.ForSubsystem(SubsystemSweep(k)))
	if err != nil {
		return 0, err
	}

	s, err := NewSimulator(cfg.Steps, env, policy)
	if err != nil {
		return 0, err
	}
	if err := s.Run(); err != nil {
		return 0, err
	}
	return s.Metrics.TotalReward, nil
}
