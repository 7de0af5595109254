package report

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/skloese/claimfreq/model"
)

var depFeatures = []string{"driver_age", "bonus", "coverage_full"}

// fittedFixture trains a tiny ensemble on synthetic frequency data: rate
// falls with driver age, the indicator column stays binary.
func fittedFixture(t *testing.T) (*model.FittedModel, *mat.Dense) {
	t.Helper()
	rng := rand.New(rand.NewSource(9))
	rows := 250
	X := mat.NewDense(rows, len(depFeatures), nil)
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		age := 20 + rng.Float64()*50
		X.Set(i, 0, age)
		X.Set(i, 1, 0.5+rng.Float64())
		X.Set(i, 2, float64(i%2))
		if rng.Float64() < 0.05+0.004*(70-age) {
			y.SetVec(i, 1)
		}
	}

	hp := model.Hyperparams{Rounds: 5, MaxDepth: 3, LearningRate: 0.1, ColumnSubsample: 1.0, RowSubsample: 1.0}
	fm, err := model.Train(hp, 42, X, X, y, y, depFeatures)
	require.NoError(t, err)
	return fm, X
}

func TestPartialDependence(t *testing.T) {
	fm, X := fittedFixture(t)

	curve, err := PartialDependence(fm, X, "driver_age", 10)
	require.NoError(t, err)
	require.Len(t, curve, 10)

	for i, pt := range curve {
		assert.False(t, math.IsNaN(pt.Response))
		assert.Greater(t, pt.Response, 0.0, "rates stay positive")
		if i > 0 {
			assert.Greater(t, pt.Value, curve[i-1].Value, "grid is ascending")
		}
	}
}

func TestPartialDependenceIndicatorCollapses(t *testing.T) {
	fm, X := fittedFixture(t)

	curve, err := PartialDependence(fm, X, "coverage_full", 10)
	require.NoError(t, err)
	require.Len(t, curve, 2, "binary column sweeps only its observed values")
	assert.Equal(t, 0.0, curve[0].Value)
	assert.Equal(t, 1.0, curve[1].Value)
}

func TestPartialDependenceUnknownFeature(t *testing.T) {
	fm, X := fittedFixture(t)
	_, err := PartialDependence(fm, X, "vehicle_colour", 10)
	assert.Error(t, err)
}

func TestShapDependenceSubsamples(t *testing.T) {
	fm, X := fittedFixture(t)

	pairs, err := ShapDependence(fm, X, "driver_age", 50)
	require.NoError(t, err)
	require.Len(t, pairs, 50)

	assert.True(t, sort.SliceIsSorted(pairs, func(a, b int) bool {
		return pairs[a].Value < pairs[b].Value
	}))
	for _, pt := range pairs {
		assert.False(t, math.IsNaN(pt.Response))
	}
}

func TestFeatureGrid(t *testing.T) {
	grid := featureGrid([]float64{5, 1, 3, 1, 5}, 10)
	assert.Equal(t, []float64{1, 3, 5}, grid, "few distinct values pass through sorted")

	col := make([]float64, 100)
	for i := range col {
		col[i] = float64(i)
	}
	grid = featureGrid(col, 5)
	assert.Equal(t, []float64{0, 24.75, 49.5, 74.25, 99}, grid)
}
