package bandit

import (
	"fmt"
	"math"
	"math/rand"
)

// armWindow is a fixed-capacity ring over the last W steps of one arm.
// Each slot holds the reward pushed that step and a validity flag (1.0 for
// a real observation, 0.0 for a missing step). Rolling sums of both tracks
// are maintained incrementally so push is O(1); they always equal the true
// sums of the current ring contents.
type armWindow struct {
	rewards []float64
	valid   []float64
	head    int // next write position
	size    int // occupied slots, <= cap(rewards)

	rewardSum float64
	validSum  float64
}

func newArmWindow(capacity int) *armWindow {
	return &armWindow{
		rewards: make([]float64, capacity),
		valid:   make([]float64, capacity),
	}
}

// push records one step. Subtracts the slot about to be overwritten from the
// rolling sums before evicting it.
func (w *armWindow) push(reward, validity float64) {
	if w.size == len(w.rewards) {
		w.rewardSum -= w.rewards[w.head]
		w.validSum -= w.valid[w.head]
	} else {
		w.size++
	}
	w.rewards[w.head] = reward
	w.valid[w.head] = validity
	w.rewardSum += reward
	w.validSum += validity
	w.head = (w.head + 1) % len(w.rewards)
}

// SlidingWindowUCB bounds the policy's memory to the most recent W steps
// per arm. The point estimate is the windowed mean reward and the
// confidence bound uses the windowed valid-observation count, so arms whose
// reward distribution drifts are re-explored once their old observations
// fall out of the window.
//
// Lifetime counts are kept separately and used only for cold-start
// detection. An arm whose window has rolled over to zero valid observations
// (a long stretch of missing rewards) is treated as cold-start again rather
// than evaluating the bound with a zero denominator.
type SlidingWindowUCB struct {
	c          float64
	windowSize int
	rng        *rand.Rand

	counts  []int64 // lifetime valid observations, cold-start detection only
	windows []*armWindow
	steps   int64
}

// NewSlidingWindowUCB creates a sliding-window policy with exploration
// coefficient c and per-arm window capacity windowSize.
func NewSlidingWindowUCB(c float64, windowSize int, rng *rand.Rand) (*SlidingWindowUCB, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidConfig, windowSize)
	}
	return &SlidingWindowUCB{c: c, windowSize: windowSize, rng: rng}, nil
}

// Initialize implements Policy.
func (p *SlidingWindowUCB) Initialize(nArms int) error {
	if nArms <= 0 {
		return fmt.Errorf("%w: nArms must be positive, got %d", ErrInvalidConfig, nArms)
	}
	p.counts = make([]int64, nArms)
	p.windows = make([]*armWindow, nArms)
	for i := range p.windows {
		p.windows[i] = newArmWindow(p.windowSize)
	}
	p.steps = 0
	return nil
}

// Select implements Policy.
func (p *SlidingWindowUCB) Select() ([]float64, error) {
	if p.counts == nil {
		return nil, ErrNotInitialized
	}

	// Never-pulled arms and arms whose current window holds no valid
	// observation both force exploration.
	var cold []int
	for i := range p.counts {
		if p.counts[i] == 0 || p.windows[i].validSum <= 0 {
			cold = append(cold, i)
		}
	}
	if len(cold) > 0 {
		return oneHot(len(p.counts), coldArm(cold, p.rng)), nil
	}

	effective := p.steps
	if w := int64(p.windowSize); effective > w {
		effective = w
	}
	logT := math.Log(float64(effective))

	scores := make([]float64, len(p.counts))
	for i, w := range p.windows {
		mean := w.rewardSum / w.validSum
		scores[i] = mean + p.c*math.Sqrt(2*logT/w.validSum)
	}
	return scores, nil
}

// Update implements Policy.
func (p *SlidingWindowUCB) Update(rewards []float64) error {
	if p.counts == nil {
		return ErrNotInitialized
	}
	if err := checkRewards(rewards, len(p.counts)); err != nil {
		return err
	}

	p.steps++
	for i, r := range rewards {
		if IsMissing(r) {
			p.windows[i].push(0, 0)
			continue
		}
		p.counts[i]++
		p.windows[i].push(r, 1)
	}
	return nil
}
