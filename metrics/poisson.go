// Package metrics implements the loss functions used to tune and diagnose
// the frequency model. Claim counts follow a Poisson-style objective with a
// log link, so the held-out criterion is the Poisson negative log-likelihood.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/skloese/claimfreq/pkg/errors"
)

// predFloor guards the log against zero or negative predicted rates.
const predFloor = 1e-15

// PoissonNLL computes the mean Poisson negative log-likelihood
// (1/n) * Σ (μ - y·log μ + log y!). Predicted rates are clamped to a small
// positive floor before taking the log.
func PoissonNLL(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("PoissonNLL", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("PoissonNLL", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		mu := math.Max(yPred.AtVec(i), predFloor)
		lg, _ := math.Lgamma(y + 1)
		sum += mu - y*math.Log(mu) + lg
	}
	return sum / float64(n), nil
}

// PoissonDeviance computes the mean Poisson deviance
// (2/n) * Σ (y·log(y/μ) - (y - μ)), with the y = 0 term reducing to 2μ.
func PoissonDeviance(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("PoissonDeviance", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("PoissonDeviance", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		mu := math.Max(yPred.AtVec(i), predFloor)
		if y > 0 {
			sum += 2 * (y*math.Log(y/mu) - (y - mu))
		} else {
			sum += 2 * mu
		}
	}
	return sum / float64(n), nil
}
