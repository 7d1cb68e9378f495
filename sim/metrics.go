package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about one simulation episode for final
// reporting: cumulative reward, the per-step reward series, and how many
// cameras actually reported each step.
type Metrics struct {
	StepsRun      int64
	TotalReward   float64
	StepRewards   []float64 // one entry per step, in step order
	ObservedSteps int64     // steps where at least one camera reported
}

// NewMetrics creates an empty metrics aggregator.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record folds one step's outcome into the aggregate.
func (m *Metrics) Record(reward float64, state []float64) {
	m.StepsRun++
	m.TotalReward += reward
	m.StepRewards = append(m.StepRewards, reward)
	for _, v := range state {
		if v >= 0 {
			m.ObservedSteps++
			break
		}
	}
}

// Summary returns the mean and standard deviation of the per-step rewards.
// Both are zero before any step has run.
func (m *Metrics) Summary() (mean, stddev float64) {
	if len(m.StepRewards) == 0 {
		return 0, 0
	}
	mean = stat.Mean(m.StepRewards, nil)
	if len(m.StepRewards) > 1 {
		stddev = stat.StdDev(m.StepRewards, nil)
	}
	return mean, stddev
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	mean, stddev := m.Summary()
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Steps Run          : %d\n", m.StepsRun)
	fmt.Printf("Total Reward       : %.4f\n", m.TotalReward)
	fmt.Printf("Mean Step Reward   : %.4f\n", mean)
	fmt.Printf("Step Reward Stddev : %.4f\n", stddev)
	fmt.Printf("Steps With Reports : %d\n", m.ObservedSteps)
}
