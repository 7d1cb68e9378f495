package bandit

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscounted_DecayAppliedEveryStep(t *testing.T) {
	p, err := NewDiscountedUCB(3, 0.5, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, p.Initialize(2))

	// One valid observation for arm 0, then a fully-missing step.
	require.NoError(t, p.Update([]float64{1.0, Missing}))
	require.NoError(t, p.Update([]float64{Missing, Missing}))

	assert.InDelta(t, 0.5, p.drewards[0], 1e-12)
	assert.InDelta(t, 0.5, p.dcounts[0], 1e-12)
	assert.EqualValues(t, 1, p.counts[0])
}

func TestDiscounted_StepCounterConvergesToLimit(t *testing.T) {
	const gamma = 0.9
	p, err := NewDiscountedUCB(3, gamma, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, p.Initialize(1))

	limit := 1 / (1 - gamma)
	prev := 0.0
	for i := 0; i < 500; i++ {
		require.NoError(t, p.Update([]float64{0.5}))
		assert.GreaterOrEqual(t, p.steps, prev, "decayed counter must never decrease under repeated updates")
		assert.Less(t, p.steps, limit+1e-9)
		prev = p.steps
	}
	assert.InDelta(t, limit, p.steps, 1e-6)
}

func TestDiscounted_MeanTracksDrift(t *testing.T) {
	// After a regime change, the decayed mean must move toward the new
	// level much faster than an undiscounted mean would.
	p, err := NewDiscountedUCB(0, 0.8, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, p.Initialize(1))

	for i := 0; i < 50; i++ {
		require.NoError(t, p.Update([]float64{1.0}))
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, p.Update([]float64{0.0}))
	}

	scores, err := p.Select()
	require.NoError(t, err)
	// 20 decays of gamma=0.8 leave under 1.2% of the old regime's weight.
	assert.Less(t, scores[0], 0.02)

	// An undiscounted mean over the same feed would still be 50/70.
	plain := NewUCB1(0, rand.New(rand.NewSource(1)))
	require.NoError(t, plain.Initialize(1))
	for i := 0; i < 50; i++ {
		require.NoError(t, plain.Update([]float64{1.0}))
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, plain.Update([]float64{0.0}))
	}
	assert.InDelta(t, 50.0/70.0, plain.values[0], 1e-9)
}

func TestDiscounted_ScoreMatchesClosedForm(t *testing.T) {
	const c, gamma = 2.0, 0.5
	p, err := NewDiscountedUCB(c, gamma, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, p.Initialize(1))

	require.NoError(t, p.Update([]float64{1.0}))
	require.NoError(t, p.Update([]float64{Missing}))

	// dreward = dcount = 0.5; t = gamma*(gamma*0 + 1) + 1 = 1.5.
	scores, err := p.Select()
	require.NoError(t, err)
	want := 1.0 + c*math.Sqrt(2*math.Log(1.5)/0.5)
	assert.InDelta(t, want, scores[0], 1e-9)
}

// While the decayed counter is below 1, ln(t) is negative and the radicand
// must be clamped to zero instead of producing NaN.
func TestDiscounted_BoundClampedForSmallCounter(t *testing.T) {
	p, err := NewDiscountedUCB(3, 0.5, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, p.Initialize(1))

	// After the first update t = 1 exactly; force it below 1 by hand to
	// exercise the clamp the way a transient mid-episode state would.
	require.NoError(t, p.Update([]float64{0.4}))
	p.steps = 0.75

	scores, err := p.Select()
	require.NoError(t, err)
	assert.False(t, math.IsNaN(scores[0]), "score must not be NaN when ln(t) < 0")
	assert.InDelta(t, 0.4, scores[0], 1e-9, "clamped bound leaves only the mean")
}

func TestDiscounted_ConfidenceBoundShrinks(t *testing.T) {
	p, err := NewDiscountedUCB(2, 0.99, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, p.Initialize(1))

	require.NoError(t, p.Update([]float64{1.0}))
	require.NoError(t, p.Update([]float64{1.0}))
	require.NoError(t, p.Update([]float64{1.0}))

	prev := math.Inf(1)
	for i := 0; i < 100; i++ {
		scores, err := p.Select()
		require.NoError(t, err)
		bonus := scores[0] - 1.0
		assert.LessOrEqual(t, bonus, prev, "bonus grew at step %d", i)
		prev = bonus
		require.NoError(t, p.Update([]float64{1.0}))
	}
}
