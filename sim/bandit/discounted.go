package bandit

import (
	"fmt"
	"math"
	"math/rand"
)

// DiscountedUCB bounds the policy's effective memory with exponential
// decay: every Update first multiplies all accumulated statistics by gamma,
// then folds in the step's valid rewards. The decayed step counter
// converges toward 1/(1-gamma), so the bound never collapses entirely and
// the policy keeps adapting to drift.
//
// Lifetime counts are kept undecayed and used only for cold-start
// detection.
type DiscountedUCB struct {
	c     float64
	gamma float64
	rng   *rand.Rand

	counts   []int64   // lifetime valid observations, cold-start detection only
	dcounts  []float64 // decayed effective counts
	drewards []float64 // decayed reward sums
	steps    float64   // decayed step counter: t = gamma*t + 1
}

// NewDiscountedUCB creates a discounted policy with exploration coefficient
// c and discount factor gamma in (0, 1].
func NewDiscountedUCB(c, gamma float64, rng *rand.Rand) (*DiscountedUCB, error) {
	if gamma <= 0 || gamma > 1 || math.IsNaN(gamma) {
		return nil, fmt.Errorf("%w: gamma must be in (0, 1], got %v", ErrInvalidConfig, gamma)
	}
	return &DiscountedUCB{c: c, gamma: gamma, rng: rng}, nil
}

// Initialize implements Policy.
func (p *DiscountedUCB) Initialize(nArms int) error {
	if nArms <= 0 {
		return fmt.Errorf("%w: nArms must be positive, got %d", ErrInvalidConfig, nArms)
	}
	p.counts = make([]int64, nArms)
	p.dcounts = make([]float64, nArms)
	p.drewards = make([]float64, nArms)
	p.steps = 0
	return nil
}

// Select implements Policy.
func (p *DiscountedUCB) Select() ([]float64, error) {
	if p.counts == nil {
		return nil, ErrNotInitialized
	}

	var cold []int
	for i, n := range p.counts {
		if n == 0 {
			cold = append(cold, i)
		}
	}
	if len(cold) > 0 {
		return oneHot(len(p.counts), coldArm(cold, p.rng)), nil
	}

	logT := math.Log(p.steps)
	scores := make([]float64, len(p.counts))
	for i := range scores {
		mean := p.drewards[i] / p.dcounts[i]
		// The clamp keeps the radicand non-negative while the decayed
		// counter is still below 1 (ln(t) < 0).
		bound := p.c * math.Sqrt(math.Max(2*logT/p.dcounts[i], 0))
		scores[i] = mean + bound
	}
	return scores, nil
}

// Update implements Policy.
func (p *DiscountedUCB) Update(rewards []float64) error {
	if p.counts == nil {
		return ErrNotInitialized
	}
	if err := checkRewards(rewards, len(p.counts)); err != nil {
		return err
	}

	// Decay first, then accumulate this step's valid rewards.
	p.steps = p.gamma*p.steps + 1
	for i := range p.dcounts {
		p.dcounts[i] *= p.gamma
		p.drewards[i] *= p.gamma
	}
	for i, r := range rewards {
		if IsMissing(r) {
			continue
		}
		p.counts[i]++
		p.dcounts[i]++
		p.drewards[i] += r
	}
	return nil
}
