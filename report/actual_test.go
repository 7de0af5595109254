package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skloese/claimfreq/dataset"
)

func rateTerm(fuel string, driverAge, claims float64) dataset.Term {
	return dataset.Term{
		Policy: dataset.Policy{
			ClientID:  1,
			Year:      2017,
			DriverAge: driverAge,
			Fuel:      fuel,
		},
		ClaimCount: claims,
		Exposure:   1,
	}
}

func TestActualVsExpectedCategorical(t *testing.T) {
	terms := []dataset.Term{
		rateTerm("petrol", 40, 0),
		rateTerm("petrol", 45, 1),
		rateTerm("diesel", 50, 0),
		rateTerm("diesel", 55, 0),
	}
	pred := []float64{0.1, 0.2, 0.05, 0.15}

	rates, err := ActualVsExpectedCategorical(terms, pred, dataset.FieldFuel)
	require.NoError(t, err)
	require.Len(t, rates, 2)

	// Levels come back sorted.
	assert.Equal(t, "diesel", rates[0].Level)
	assert.Equal(t, 2.0, rates[0].Exposure)
	assert.Equal(t, 0.0, rates[0].ObservedRate)
	assert.InDelta(t, 0.1, rates[0].PredictedRate, 1e-12)

	assert.Equal(t, "petrol", rates[1].Level)
	assert.InDelta(t, 0.5, rates[1].ObservedRate, 1e-12)
	assert.InDelta(t, 0.15, rates[1].PredictedRate, 1e-12)
}

func TestActualVsExpectedCategoricalUnknownField(t *testing.T) {
	terms := []dataset.Term{rateTerm("petrol", 40, 0)}
	_, err := ActualVsExpectedCategorical(terms, []float64{0.1}, "no_such_field")
	assert.Error(t, err)
}

func TestActualVsExpectedNumeric(t *testing.T) {
	var terms []dataset.Term
	var pred []float64
	for age := 20; age < 70; age++ {
		var claims float64
		if age < 30 {
			claims = 1
		}
		terms = append(terms, rateTerm("petrol", float64(age), claims))
		pred = append(pred, 0.1)
	}

	rates, err := ActualVsExpectedNumeric(terms, pred, dataset.FieldDriverAge, 5)
	require.NoError(t, err)
	require.Len(t, rates, 5)

	var exposure float64
	for _, r := range rates {
		exposure += r.Exposure
		assert.Regexp(t, `^\d+(\.\d+)?-\d+(\.\d+)?$`, r.Level, "bins carry plain lo-hi range labels")
	}
	assert.Equal(t, 50.0, exposure, "every term lands in a bin")

	// Young drivers carry the claims, the rest none.
	assert.Greater(t, rates[0].ObservedRate, 0.0)
	assert.Equal(t, 0.0, rates[len(rates)-1].ObservedRate)
}

func TestActualVsExpectedNumericInputChecks(t *testing.T) {
	terms := []dataset.Term{rateTerm("petrol", 40, 0)}
	_, err := ActualVsExpectedNumeric(terms, []float64{0.1}, dataset.FieldDriverAge, 1)
	assert.Error(t, err)
	_, err = ActualVsExpectedNumeric(terms, []float64{0.1, 0.2}, dataset.FieldDriverAge, 4)
	assert.Error(t, err)
	_, err = ActualVsExpectedNumeric(nil, nil, dataset.FieldDriverAge, 4)
	assert.Error(t, err)
}
