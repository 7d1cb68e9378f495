package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/rofars-sim/rofars-sim/sim/bandit"
)

// activityPeriod is the length of one diurnal cycle in steps, at one step
// per simulated minute.
const activityPeriod = 1440

// EnvironmentConfig groups the synthetic camera fleet parameters.
type EnvironmentConfig struct {
	Cameras int     // fleet size (must be > 0)
	Budget  int     // cameras observable per step (0 < Budget <= Cameras)
	Dropout float64 // probability an observed camera fails to report, in [0, 1)
}

// Validate returns an error if the config is out of range.
func (c EnvironmentConfig) Validate() error {
	if c.Cameras <= 0 {
		return fmt.Errorf("cameras must be positive, got %d", c.Cameras)
	}
	if c.Budget <= 0 || c.Budget > c.Cameras {
		return fmt.Errorf("budget must be in [1, %d], got %d", c.Cameras, c.Budget)
	}
	if c.Dropout < 0 || c.Dropout >= 1 || math.IsNaN(c.Dropout) {
		return fmt.Errorf("dropout must be in [0, 1), got %v", c.Dropout)
	}
	return nil
}

// CameraEnvironment is a synthetic stand-in for the real camera dataset.
// Each camera's activity follows a phase-shifted diurnal sinusoid with
// Gaussian noise, clamped to [0, 1], so different cameras peak at different
// times of day and windowed/discounted policies have drift to track.
//
// Per step the caller hands in one score per camera; the top Budget cameras
// by score are observed. Observed cameras report their activity (or the
// missing sentinel, with probability Dropout); unobserved cameras always
// report the sentinel. The step reward is the mean activity actually
// captured.
type CameraEnvironment struct {
	cfg    EnvironmentConfig
	rng    *rand.Rand
	phases []float64 // per-camera diurnal phase offset

	steps       int64
	totalReward float64
}

// NewCameraEnvironment creates an environment from cfg, drawing all
// randomness (phases, noise, dropout) from rng.
func NewCameraEnvironment(cfg EnvironmentConfig, rng *rand.Rand) (*CameraEnvironment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("environment config: %w", err)
	}
	phases := make([]float64, cfg.Cameras)
	for i := range phases {
		phases[i] = rng.Float64() * 2 * math.Pi
	}
	return &CameraEnvironment{cfg: cfg, rng: rng, phases: phases}, nil
}

// Cameras returns the fleet size.
func (e *CameraEnvironment) Cameras() int {
	return e.cfg.Cameras
}

// TotalReward returns the cumulative reward captured so far.
func (e *CameraEnvironment) TotalReward() float64 {
	return e.totalReward
}

// Steps returns the number of steps taken so far.
func (e *CameraEnvironment) Steps() int64 {
	return e.steps
}

// Reset starts a fresh episode. Camera phases are kept (the fleet's
// character persists across episodes); counters and accumulated reward are
// discarded.
func (e *CameraEnvironment) Reset() {
	e.steps = 0
	e.totalReward = 0
}

// Step advances the environment by one step. scores must have one element
// per camera; higher scores get observation priority. Returns the step
// reward and the per-camera state vector (activity for observed cameras,
// bandit.Missing otherwise).
func (e *CameraEnvironment) Step(scores []float64) (float64, []float64, error) {
	if len(scores) != e.cfg.Cameras {
		return 0, nil, fmt.Errorf("score vector has %d elements, want %d", len(scores), e.cfg.Cameras)
	}

	activity := make([]float64, e.cfg.Cameras)
	for i := range activity {
		activity[i] = e.cameraActivity(i)
	}

	// Rank cameras by score, ties broken by lower index.
	order := make([]int, e.cfg.Cameras)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	state := make([]float64, e.cfg.Cameras)
	for i := range state {
		state[i] = bandit.Missing
	}

	var captured float64
	var reported int
	for _, cam := range order[:e.cfg.Budget] {
		if e.cfg.Dropout > 0 && e.rng.Float64() < e.cfg.Dropout {
			continue // camera observed but failed to report
		}
		state[cam] = activity[cam]
		captured += activity[cam]
		reported++
	}

	var reward float64
	if reported > 0 {
		reward = captured / float64(reported)
	}

	e.steps++
	e.totalReward += reward
	return reward, state, nil
}

// cameraActivity samples camera i's activity for the current step: a
// diurnal sinusoid offset by the camera's phase, plus Gaussian noise,
// clamped to [0, 1].
func (e *CameraEnvironment) cameraActivity(i int) float64 {
	angle := 2*math.Pi*float64(e.steps)/activityPeriod + e.phases[i]
	v := 0.5 + 0.4*math.Sin(angle) + e.rng.NormFloat64()*0.05
	return math.Min(1, math.Max(0, v))
}
