package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completePolicy(client, year int) Policy {
	return Policy{
		ClientID:     client,
		Year:         year,
		Bonus:        0.9,
		Duration:     5,
		DriverAge:    40,
		VehicleAge:   3,
		VehiclePower: 90,
		VehicleValue: 15000,
		Coverage:     "third_party",
		PaymentFreq:  "annual",
		Usage:        "private",
		Fuel:         "petrol",
		VehicleType:  "sedan",
		SecondDriver: "no",
		Gender:       "m",
	}
}

func TestAssembleJoinsClaims(t *testing.T) {
	policies := []Policy{
		completePolicy(1, 2017),
		completePolicy(2, 2017),
	}
	claims := []Claim{
		{ClientID: 1, Year: 2017, Amount: 500},
	}

	terms := Assemble(policies, claims)
	require.Len(t, terms, 2)

	withClaim := terms[0]
	assert.Equal(t, 1, withClaim.ClientID)
	assert.Equal(t, 1.0, withClaim.ClaimCount)
	assert.Equal(t, 500.0, withClaim.ClaimAmount)
	assert.Equal(t, 1.0, withClaim.Exposure)

	noClaim := terms[1]
	assert.Equal(t, 2, noClaim.ClientID)
	assert.Equal(t, 0.0, noClaim.ClaimCount)
	assert.Equal(t, 0.0, noClaim.ClaimAmount)
}

func TestAssembleAggregatesMultipleClaims(t *testing.T) {
	policies := []Policy{completePolicy(7, 2018)}
	claims := []Claim{
		{ClientID: 7, Year: 2018, Amount: 100},
		{ClientID: 7, Year: 2018, Amount: 250},
		{ClientID: 7, Year: 2019, Amount: 999}, // different term, ignored
	}

	terms := Assemble(policies, claims)
	require.Len(t, terms, 1)
	assert.Equal(t, 2.0, terms[0].ClaimCount)
	assert.Equal(t, 350.0, terms[0].ClaimAmount)
}

func TestAssembleDropsIncompleteRows(t *testing.T) {
	missingNumeric := completePolicy(3, 2017)
	missingNumeric.DriverAge = math.NaN()
	missingCategory := completePolicy(4, 2017)
	missingCategory.Fuel = ""

	terms := Assemble([]Policy{
		completePolicy(1, 2017),
		missingNumeric,
		missingCategory,
	}, nil)

	require.Len(t, terms, 1)
	assert.Equal(t, 1, terms[0].ClientID)
}

func TestAssembleInvariants(t *testing.T) {
	policies := []Policy{
		completePolicy(1, 2016),
		completePolicy(1, 2017),
		completePolicy(2, 2017),
	}
	claims := []Claim{
		{ClientID: 1, Year: 2016, Amount: 120},
		{ClientID: 2, Year: 2017, Amount: 80},
	}

	for _, term := range Assemble(policies, claims) {
		assert.GreaterOrEqual(t, term.ClaimCount, 0.0)
		assert.GreaterOrEqual(t, term.ClaimAmount, 0.0)
		assert.False(t, math.IsNaN(term.ClaimCount))
		assert.False(t, math.IsNaN(term.ClaimAmount))
	}
}
