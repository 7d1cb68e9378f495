package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rofars-sim/rofars-sim/sim/bandit"
)

func newTestEnv(t *testing.T, cfg EnvironmentConfig, seed int64) *CameraEnvironment {
	t.Helper()
	env, err := NewCameraEnvironment(cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return env
}

func TestEnvironmentConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     EnvironmentConfig
		wantErr bool
	}{
		{"valid", EnvironmentConfig{Cameras: 10, Budget: 5}, false},
		{"budget equals cameras", EnvironmentConfig{Cameras: 3, Budget: 3}, false},
		{"with dropout", EnvironmentConfig{Cameras: 10, Budget: 5, Dropout: 0.2}, false},
		{"zero cameras", EnvironmentConfig{Cameras: 0, Budget: 1}, true},
		{"zero budget", EnvironmentConfig{Cameras: 10, Budget: 0}, true},
		{"budget above cameras", EnvironmentConfig{Cameras: 4, Budget: 5}, true},
		{"negative dropout", EnvironmentConfig{Cameras: 10, Budget: 5, Dropout: -0.1}, true},
		{"dropout of one", EnvironmentConfig{Cameras: 10, Budget: 5, Dropout: 1.0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvironment_BudgetRespected(t *testing.T) {
	env := newTestEnv(t, EnvironmentConfig{Cameras: 10, Budget: 3}, 1)

	scores := make([]float64, 10)
	for i := range scores {
		scores[i] = float64(i)
	}
	_, state, err := env.Step(scores)
	require.NoError(t, err)

	reported := 0
	for _, v := range state {
		if !bandit.IsMissing(v) {
			reported++
		}
	}
	assert.LessOrEqual(t, reported, 3)

	// Highest-scored cameras are the observed ones (no dropout configured).
	for cam := 7; cam < 10; cam++ {
		assert.False(t, bandit.IsMissing(state[cam]), "top-scored camera %d should report", cam)
	}
	for cam := 0; cam < 7; cam++ {
		assert.True(t, bandit.IsMissing(state[cam]), "unobserved camera %d must carry the sentinel", cam)
	}
}

func TestEnvironment_ActivityBounded(t *testing.T) {
	env := newTestEnv(t, EnvironmentConfig{Cameras: 5, Budget: 5}, 2)

	scores := []float64{1, 1, 1, 1, 1}
	for step := 0; step < 2000; step++ {
		reward, state, err := env.Step(scores)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, reward, 0.0)
		assert.LessOrEqual(t, reward, 1.0)
		for cam, v := range state {
			if !bandit.IsMissing(v) {
				assert.GreaterOrEqual(t, v, 0.0, "camera %d", cam)
				assert.LessOrEqual(t, v, 1.0, "camera %d", cam)
			}
		}
	}
}

func TestEnvironment_ScoreLengthMismatch(t *testing.T) {
	env := newTestEnv(t, EnvironmentConfig{Cameras: 4, Budget: 2}, 3)
	_, _, err := env.Step([]float64{1, 2})
	assert.Error(t, err)
}

func TestEnvironment_TotalRewardAccumulates(t *testing.T) {
	env := newTestEnv(t, EnvironmentConfig{Cameras: 4, Budget: 2}, 4)

	scores := []float64{3, 2, 1, 0}
	var want float64
	for step := 0; step < 50; step++ {
		reward, _, err := env.Step(scores)
		require.NoError(t, err)
		want += reward
	}
	assert.InDelta(t, want, env.TotalReward(), 1e-12)
	assert.EqualValues(t, 50, env.Steps())
}

func TestEnvironment_ResetKeepsFleetCharacter(t *testing.T) {
	env := newTestEnv(t, EnvironmentConfig{Cameras: 6, Budget: 6}, 5)

	scores := make([]float64, 6)
	_, _, err := env.Step(scores)
	require.NoError(t, err)

	env.Reset()
	assert.Zero(t, env.Steps())
	assert.Zero(t, env.TotalReward())
	assert.Equal(t, 6, env.Cameras())
}

func TestEnvironment_DeterministicUnderFixedSeed(t *testing.T) {
	run := func() []float64 {
		env := newTestEnv(t, EnvironmentConfig{Cameras: 8, Budget: 4, Dropout: 0.1}, 99)
		scores := make([]float64, 8)
		for i := range scores {
			scores[i] = float64(8 - i)
		}
		var rewards []float64
		for step := 0; step < 100; step++ {
			reward, _, err := env.Step(scores)
			require.NoError(t, err)
			rewards = append(rewards, reward)
		}
		return rewards
	}
	assert.Equal(t, run(), run())
}
