package errors

import (
	"math"
)

// CheckScalar returns an error when value is NaN or infinite. Used to reject
// non-finite losses coming back from a grid-search training run.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewValueError(operation, "non-finite value")
	}
	return nil
}

// CheckVector returns an error when any element of values is NaN or infinite.
func CheckVector(operation string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Newf("claimfreq: %s: non-finite value at index %d", operation, i)
		}
	}
	return nil
}
