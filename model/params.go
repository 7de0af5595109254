package model

import (
	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
)

// Hyperparams is one boosting configuration. Gamma-style regularization and
// minimum child weight are held fixed across the search.
type Hyperparams struct {
	Rounds          int
	MaxDepth        int
	LearningRate    float64
	ColumnSubsample float64
	RowSubsample    float64
}

// regressor builds the scigo LightGBM regressor for this configuration. The
// objective is Poisson with a log link, appropriate for count-valued
// frequency targets, and deterministic mode is enabled so a fixed seed
// reproduces the ensemble.
func (h Hyperparams) regressor(seed int) *lightgbm.LGBMRegressor {
	reg := lightgbm.NewLGBMRegressor().
		WithNumIterations(h.Rounds).
		WithMaxDepth(h.MaxDepth).
		WithLearningRate(h.LearningRate).
		WithNumLeaves(leavesForDepth(h.MaxDepth)).
		WithRandomState(seed).
		WithDeterministic(true)
	reg.Objective = "poisson"
	reg.ColsampleBytree = h.ColumnSubsample
	reg.Subsample = h.RowSubsample
	reg.SubsampleFreq = 1
	reg.MinChildWeight = 1.0
	return reg
}

// leavesForDepth caps the leaf budget so depth is the binding constraint.
func leavesForDepth(depth int) int {
	if depth <= 0 || depth > 8 {
		return 256
	}
	return 1 << uint(depth)
}

// Grid spans the exhaustive hyperparameter search space.
type Grid struct {
	Rounds          []int
	MaxDepth        []int
	LearningRate    []float64
	ColumnSubsample []float64
	RowSubsample    []float64
}

// Size returns the number of configurations in the grid.
func (g Grid) Size() int {
	return len(g.Rounds) * len(g.MaxDepth) * len(g.LearningRate) *
		len(g.ColumnSubsample) * len(g.RowSubsample)
}

// Configs enumerates every configuration in a fixed nesting order, rounds
// outermost. The order is part of the results-cache contract.
func (g Grid) Configs() []Hyperparams {
	configs := make([]Hyperparams, 0, g.Size())
	for _, rounds := range g.Rounds {
		for _, depth := range g.MaxDepth {
			for _, lr := range g.LearningRate {
				for _, cs := range g.ColumnSubsample {
					for _, rs := range g.RowSubsample {
						configs = append(configs, Hyperparams{
							Rounds:          rounds,
							MaxDepth:        depth,
							LearningRate:    lr,
							ColumnSubsample: cs,
							RowSubsample:    rs,
						})
					}
				}
			}
		}
	}
	return configs
}
