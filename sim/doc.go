// Package sim provides the discrete-step simulation engine for adaptive
// camera observation budgeting.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - env.go: the synthetic camera fleet and its budgeted observation step
//   - simulator.go: the select → observe → update episode loop
//   - rng.go: per-subsystem deterministic RNG derivation
//
// # Architecture
//
// The decision core lives in the sim/bandit sub-package: three
// interchangeable UCB policies (ucb1, sliding-window, discounted) behind
// one Policy interface, selected by name at construction time. The sim
// package supplies everything around them: the environment that turns a
// score vector into a partially-missing reward vector, the episode driver,
// metrics aggregation, YAML configuration (config.go), and hyperparameter
// sweeps (sweep.go).
//
// Reproducibility: all randomness flows from a single master seed through
// PartitionedRNG; two runs with the same seed and configuration produce
// identical results, including the policies' cold-start tie-breaks.
package sim
