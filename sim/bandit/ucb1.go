package bandit

import (
	"fmt"
	"math"
	"math/rand"
)

// UCB1 is the classical upper-confidence-bound policy with unbounded
// memory: every valid observation ever seen carries equal weight.
//
// Per arm it keeps a pull count and a running mean maintained with the
// incremental (Welford-style) update, so no reward history is stored.
type UCB1 struct {
	c   float64
	rng *rand.Rand

	counts []int64   // valid observations per arm
	values []float64 // running mean reward per arm
	steps  int64     // global step counter, advances once per Update
}

// NewUCB1 creates a UCB1 policy with exploration coefficient c.
// The rng is used only for cold-start tie-breaking.
func NewUCB1(c float64, rng *rand.Rand) *UCB1 {
	return &UCB1{c: c, rng: rng}
}

// Initialize implements Policy.
func (p *UCB1) Initialize(nArms int) error {
	if nArms <= 0 {
		return fmt.Errorf("%w: nArms must be positive, got %d", ErrInvalidConfig, nArms)
	}
	p.counts = make([]int64, nArms)
	p.values = make([]float64, nArms)
	p.steps = 0
	return nil
}

// Select implements Policy.
func (p *UCB1) Select() ([]float64, error) {
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

	// All counts >= 1 implies steps >= 1, so ln(steps) is defined.
	logT := math.Log(float64(p.steps))
	scores := make([]float64, len(p.counts))
	for i := range scores {
		scores[i] = p.values[i] + p.c*math.Sqrt(2*logT/float64(p.counts[i]))
	}
	return scores, nil
}

// Update implements Policy.
func (p *UCB1) Update(rewards []float64) error {
	if p.counts == nil {
		return ErrNotInitialized
	}
	if err := checkRewards(rewards, len(p.counts)); err != nil {
		return err
	}

	p.steps++
	for i, r := range rewards {
		if IsMissing(r) {
			continue
		}
		p.counts[i]++
		p.values[i] += (r - p.values[i]) / float64(p.counts[i])
	}
	return nil
}
