package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPoissonNLL(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{0, 1, 2})
	yPred := mat.NewVecDense(3, []float64{0.1, 0.5, 1.5})

	got, err := PoissonNLL(yTrue, yPred)
	require.NoError(t, err)

	var want float64
	for i := 0; i < 3; i++ {
		y, mu := yTrue.AtVec(i), yPred.AtVec(i)
		lg, _ := math.Lgamma(y + 1)
		want += mu - y*math.Log(mu) + lg
	}
	want /= 3
	assert.InDelta(t, want, got, 1e-12)
}

func TestPoissonNLLMinimisedAtTruth(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 1, 1, 2})
	atTruth := mat.NewVecDense(4, []float64{0.01, 1, 1, 2})
	off := mat.NewVecDense(4, []float64{1, 0.2, 2.5, 0.3})

	good, err := PoissonNLL(yTrue, atTruth)
	require.NoError(t, err)
	bad, err := PoissonNLL(yTrue, off)
	require.NoError(t, err)
	assert.Less(t, good, bad)
}

func TestPoissonNLLClampsPredictions(t *testing.T) {
	yTrue := mat.NewVecDense(2, []float64{1, 0})
	yPred := mat.NewVecDense(2, []float64{0, -0.5})

	got, err := PoissonNLL(yTrue, yPred)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got))
	assert.False(t, math.IsInf(got, 0))
}

func TestPoissonNLLShapeChecks(t *testing.T) {
	_, err := PoissonNLL(mat.NewVecDense(2, nil), mat.NewVecDense(3, nil))
	assert.Error(t, err)
	_, err = PoissonNLL(&mat.VecDense{}, &mat.VecDense{})
	assert.Error(t, err)
}

func TestPoissonDeviance(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{0, 1, 3})
	yPred := mat.NewVecDense(3, []float64{0.2, 1, 2})

	got, err := PoissonDeviance(yTrue, yPred)
	require.NoError(t, err)

	want := (2*0.2 + 0.0 + 2*(3*math.Log(3.0/2.0)-1)) / 3
	assert.InDelta(t, want, got, 1e-12)

	// Perfect predictions give zero deviance.
	perfect, err := PoissonDeviance(yTrue, yTrue)
	require.NoError(t, err)
	assert.InDelta(t, 0, perfect, 1e-12)
}
