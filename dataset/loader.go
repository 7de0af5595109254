package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/pkg/log"
)

var policyHeader = []string{
	"client", "year", "bonus", "duration", "driver_age",
	"vehicle_age", "vehicle_power", "vehicle_value",
	"coverage", "payment_freq", "usage", "fuel",
	"vehicle_type", "second_driver", "gender",
}

var claimHeader = []string{"client", "year", "amount"}

// LoadPolicies reads policy terms from a CSV source. The header must match
// the policy schema exactly; a mismatch is fatal. Empty numeric cells load
// as NaN and empty categorical cells as "", to be dropped by the assembler.
func LoadPolicies(r io.Reader) ([]Policy, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read policy header")
	}
	if err := checkHeader("policies", policyHeader, header); err != nil {
		return nil, err
	}

	var policies []Policy
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read policy line %d", line)
		}
		p, err := parsePolicy(record)
		if err != nil {
			return nil, errors.Wrapf(err, "parse policy line %d", line)
		}
		policies = append(policies, p)
	}

	log.Stage("load").Info().
		Int(log.RowsKey, len(policies)).
		Msg("loaded policy terms")
	return policies, nil
}

// LoadClaims reads claim events from a CSV source, one row per claim.
func LoadClaims(r io.Reader) ([]Claim, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read claim header")
	}
	if err := checkHeader("claims", claimHeader, header); err != nil {
		return nil, err
	}

	var claims []Claim
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read claim line %d", line)
		}
		client, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, errors.Wrapf(err, "parse claim line %d: client", line)
		}
		year, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, errors.Wrapf(err, "parse claim line %d: year", line)
		}
		amount, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse claim line %d: amount", line)
		}
		claims = append(claims, Claim{ClientID: client, Year: year, Amount: amount})
	}

	log.Stage("load").Info().
		Int(log.RowsKey, len(claims)).
		Msg("loaded claims")
	return claims, nil
}

func checkHeader(source string, expected, got []string) error {
	if len(got) != len(expected) {
		return errors.NewSchemaError(source, expected, got)
	}
	for i := range expected {
		if strings.TrimSpace(got[i]) != expected[i] {
			return errors.NewSchemaError(source, expected, got)
		}
	}
	return nil
}

func parsePolicy(record []string) (Policy, error) {
	client, err := strconv.Atoi(record[0])
	if err != nil {
		return Policy{}, errors.Wrap(err, "client")
	}
	year, err := strconv.Atoi(record[1])
	if err != nil {
		return Policy{}, errors.Wrap(err, "year")
	}

	nums := make([]float64, 6)
	for i, name := range NumericFields() {
		cell := strings.TrimSpace(record[2+i])
		if cell == "" {
			nums[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Policy{}, errors.Wrap(err, name)
		}
		nums[i] = v
	}

	return Policy{
		ClientID:     client,
		Year:         year,
		Bonus:        nums[0],
		Duration:     nums[1],
		DriverAge:    nums[2],
		VehicleAge:   nums[3],
		VehiclePower: nums[4],
		VehicleValue: nums[5],
		Coverage:     strings.TrimSpace(record[8]),
		PaymentFreq:  strings.TrimSpace(record[9]),
		Usage:        strings.TrimSpace(record[10]),
		Fuel:         strings.TrimSpace(record[11]),
		VehicleType:  strings.TrimSpace(record[12]),
		SecondDriver: strings.TrimSpace(record[13]),
		Gender:       strings.TrimSpace(record[14]),
	}, nil
}
