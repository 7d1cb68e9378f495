package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rofars-sim/rofars-sim/sim/bandit"
)

// Simulator drives one episode: a strict select → observe → update
// alternation between one bandit policy and one camera environment, for a
// fixed number of steps.
//
// A Simulator is single-goroutine and owns its policy and environment
// exclusively. Parallel experiments each build their own Simulator.
type Simulator struct {
	Horizon int64
	Metrics *Metrics

	env    *CameraEnvironment
	policy bandit.Policy
}

// NewSimulator wires a policy and an environment together. The policy is
// initialized for the environment's fleet size here, so construction fails
// fast on configuration errors.
func NewSimulator(horizon int64, env *CameraEnvironment, policy bandit.Policy) (*Simulator, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if err := policy.Initialize(env.Cameras()); err != nil {
		return nil, fmt.Errorf("initializing policy: %w", err)
	}
	return &Simulator{
		Horizon: horizon,
		Metrics: NewMetrics(),
		env:     env,
		policy:  policy,
	}, nil
}

// Run executes the episode. Any policy or environment error aborts the run:
// these are contract violations, never transient conditions.
func (s *Simulator) Run() error {
	logrus.Infof("Starting simulation: %d cameras, horizon=%d steps", s.env.Cameras(), s.Horizon)

	for step := int64(0); step < s.Horizon; step++ {
		scores, err := s.policy.Select()
		if err != nil {
			return fmt.Errorf("step %d: select: %w", step, err)
		}

		reward, state, err := s.env.Step(scores)
		if err != nil {
			return fmt.Errorf("step %d: environment: %w", step, err)
		}

		if err := s.policy.Update(state); err != nil {
			return fmt.Errorf("step %d: update: %w", step, err)
		}

		s.Metrics.Record(reward, state)

		if step > 0 && step%10000 == 0 {
			logrus.Debugf("step %d: cumulative reward %.4f", step, s.Metrics.TotalReward)
		}
	}

	logrus.Infof("Simulation complete: total reward %.4f over %d steps", s.Metrics.TotalReward, s.Metrics.StepsRun)
	return nil
}
