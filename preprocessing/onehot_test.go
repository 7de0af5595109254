package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skloese/claimfreq/dataset"
)

func term(client int, coverage, fuel string) dataset.Term {
	return dataset.Term{
		Policy: dataset.Policy{
			ClientID:     client,
			Year:         2017,
			Bonus:        0.9,
			Duration:     5,
			DriverAge:    40,
			VehicleAge:   3,
			VehiclePower: 90,
			VehicleValue: 15000,
			Coverage:     coverage,
			PaymentFreq:  "annual",
			Usage:        "private",
			Fuel:         fuel,
			VehicleType:  "sedan",
			SecondDriver: "no",
			Gender:       "m",
		},
		Exposure: 1,
	}
}

func testFields() []CategoricalField {
	return []CategoricalField{
		{Name: dataset.FieldCoverage, Reference: "third_party"},
		{Name: dataset.FieldFuel, Reference: "petrol"},
	}
}

func TestOneHotEncoding(t *testing.T) {
	terms := []dataset.Term{
		term(1, "third_party", "petrol"),
		term(2, "full", "diesel"),
		term(3, "partial", "petrol"),
	}

	enc := NewOneHotEncoder(testFields()...)
	require.NoError(t, enc.Fit(terms))

	assert.Equal(t, []string{"coverage_full", "coverage_partial", "fuel_diesel"}, enc.IndicatorColumns())
	assert.Equal(t, []string{"full", "partial", "third_party"}, enc.Levels(dataset.FieldCoverage))

	table, kept, err := enc.Transform(terms)
	require.NoError(t, err)
	require.Equal(t, 3, table.NumRows())
	require.Len(t, kept, 3)

	full, err := table.Column("coverage_full")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, full)
	partial, err := table.Column("coverage_partial")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, partial)
	diesel, err := table.Column("fuel_diesel")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, diesel)

	// Reference-level rows carry all-zero indicators for the field, so every
	// row sums to at most one indicator per field.
	for i := 0; i < table.NumRows(); i++ {
		assert.LessOrEqual(t, full[i]+partial[i], 1.0)
	}
}

func TestOneHotColumnStability(t *testing.T) {
	all := []dataset.Term{
		term(1, "third_party", "petrol"),
		term(2, "full", "diesel"),
		term(3, "partial", "petrol"),
		term(4, "full", "petrol"),
	}

	enc := NewOneHotEncoder(testFields()...)
	require.NoError(t, enc.Fit(all))

	// Partitions missing some levels still produce the full fitted schema.
	first, _, err := enc.Transform(all[:2])
	require.NoError(t, err)
	second, _, err := enc.Transform(all[2:])
	require.NoError(t, err)
	assert.Equal(t, first.Names(), second.Names())
}

func TestOneHotUnseenLevel(t *testing.T) {
	enc := NewOneHotEncoder(testFields()...)
	require.NoError(t, enc.Fit([]dataset.Term{term(1, "third_party", "petrol")}))

	_, _, err := enc.Transform([]dataset.Term{term(2, "comprehensive", "petrol")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unseen level")
}

func TestOneHotReferenceMustBeObserved(t *testing.T) {
	enc := NewOneHotEncoder(CategoricalField{Name: dataset.FieldCoverage, Reference: "full"})
	err := enc.Fit([]dataset.Term{term(1, "third_party", "petrol")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference level")
}

func TestOneHotDropsNegativeClaimAmounts(t *testing.T) {
	bad := term(2, "third_party", "petrol")
	bad.ClaimAmount = -10
	terms := []dataset.Term{term(1, "third_party", "petrol"), bad}

	enc := NewOneHotEncoder(testFields()...)
	require.NoError(t, enc.Fit(terms))

	table, kept, err := enc.Transform(terms)
	require.NoError(t, err)
	assert.Equal(t, 1, table.NumRows())
	require.Len(t, kept, 1)
	assert.Equal(t, 1, kept[0].ClientID)
}

func TestOneHotNotFitted(t *testing.T) {
	enc := NewOneHotEncoder(testFields()...)
	_, _, err := enc.Transform([]dataset.Term{term(1, "third_party", "petrol")})
	assert.Error(t, err)
}
