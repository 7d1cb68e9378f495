// Package bandit implements the online decision engine that allocates the
// per-step observation budget across cameras.
//
// Three interchangeable policies share the Policy contract:
//   - UCB1: classical upper-confidence-bound, all history weighted equally
//   - SlidingWindowUCB: statistics restricted to the most recent W steps
//   - DiscountedUCB: exponential decay (factor gamma) of all statistics
//
// The caller drives a strict alternation: Select returns a score per camera
// (higher = higher allocation priority), the environment produces a reward
// vector for the subset of cameras it observed, and Update folds that vector
// back into the policy's statistics. Cameras that were not observed this
// step carry the Missing sentinel and are skipped by the aggregation.
package bandit

import (
	"errors"
	"fmt"
	"math/rand"
)

// Missing is the reward sentinel for "camera not observed this step".
// Any negative value is treated as missing; valid rewards are >= 0.
const Missing = -1.0

// IsMissing reports whether a reward element is the missing sentinel.
func IsMissing(reward float64) bool {
	return reward < 0
}

// ErrInvalidConfig is returned for out-of-range construction parameters:
// non-positive arm count, non-positive window size, or a discount factor
// outside (0, 1]. Checked eagerly at construction/Initialize, never lazily.
var ErrInvalidConfig = errors.New("bandit: invalid config")

// ErrNotInitialized is returned when Select or Update is called before
// Initialize. This is a caller contract violation, not a transient state.
var ErrNotInitialized = errors.New("bandit: policy not initialized")

// Policy is the shared contract of all bandit variants.
//
// Lifecycle: construct with fixed hyperparameters, Initialize(nArms), then
// alternate Select/Update for one episode. Initialize may be called again to
// reset for a fresh episode; all prior state is discarded.
//
// Implementations are not safe for concurrent use. One policy instance is
// owned by exactly one control loop; parallel episodes each get their own
// instance.
type Policy interface {
	// Initialize allocates per-arm state for nArms arms, zeroing all
	// statistics and counters. Returns ErrInvalidConfig if nArms <= 0.
	Initialize(nArms int) error

	// Select returns one score per arm; the caller treats higher scores as
	// higher allocation priority. Scores carry no normalization. Select
	// does not mutate policy state.
	//
	// While any arm has zero valid observations (under the variant's own
	// counting rule) the returned vector is one-hot on one such arm,
	// chosen uniformly via the policy's random source. The confidence
	// bound is undefined at count zero and is never evaluated for it.
	Select() ([]float64, error)

	// Update folds one step's reward vector into the statistics. Elements
	// that satisfy IsMissing are skipped; the global step counter still
	// advances exactly once per call. The slice length must equal the
	// arm count given to Initialize.
	Update(rewards []float64) error
}

// Config carries the hyperparameters for NewPolicy. Fields not used by the
// selected variant are ignored (e.g. WindowSize for ucb1).
type Config struct {
	// Exploration is the confidence-bound coefficient c. The original
	// system runs all variants with c=3.
	Exploration float64

	// WindowSize is the per-arm history capacity W for sliding-window.
	WindowSize int

	// Gamma is the per-step decay factor for discounted, in (0, 1].
	Gamma float64
}

// ValidPolicies is the set of recognized policy names.
// Empty string defaults to ucb1.
var ValidPolicies = map[string]bool{"": true, "ucb1": true, "sliding-window": true, "discounted": true}

// IsValidPolicy reports whether name is a recognized policy name.
func IsValidPolicy(name string) bool {
	return ValidPolicies[name]
}

// NewPolicy creates a bandit policy by name. The rng is used only for
// cold-start tie-breaking; it must not be shared with another policy
// instance if reproducibility matters. Returns ErrInvalidConfig (wrapped)
// for unknown names or out-of-range parameters.
func NewPolicy(name string, cfg Config, rng *rand.Rand) (Policy, error) {
	switch name {
	case "", "ucb1":
		return NewUCB1(cfg.Exploration, rng), nil
	case "sliding-window":
		return NewSlidingWindowUCB(cfg.Exploration, cfg.WindowSize, rng)
	case "discounted":
		return NewDiscountedUCB(cfg.Exploration, cfg.Gamma, rng)
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, name)
	}
}

// coldArm picks one arm uniformly from candidates using rng.
// candidates must be non-empty.
func coldArm(candidates []int, rng *rand.Rand) int {
	return candidates[rng.Intn(len(candidates))]
}

// oneHot returns a length-n vector with 1.0 at idx and 0.0 elsewhere.
func oneHot(n, idx int) []float64 {
	scores := make([]float64, n)
	scores[idx] = 1.0
	return scores
}

// checkRewards validates a reward vector's length against the arm count.
func checkRewards(rewards []float64, nArms int) error {
	if len(rewards) != nArms {
		return fmt.Errorf("bandit: reward vector has %d elements, want %d", len(rewards), nArms)
	}
	return nil
}
