// Package dataset holds the raw motor-policy records and the table
// transformations that prepare them for modelling: loading, claim
// aggregation, client-disjoint splitting and numeric field summaries.
//
// Every stage takes its input by value and returns a new slice or Table; no
// stage mutates upstream data.
package dataset

// Categorical field names of a policy record. The encoder and the
// actual-vs-expected report iterate these in declared order.
const (
	FieldCoverage     = "coverage"
	FieldPaymentFreq  = "payment_freq"
	FieldUsage        = "usage"
	FieldFuel         = "fuel"
	FieldVehicleType  = "vehicle_type"
	FieldSecondDriver = "second_driver"
	FieldGender       = "gender"
)

// Numeric feature names of a policy record.
const (
	FieldBonus        = "bonus"
	FieldDuration     = "duration"
	FieldDriverAge    = "driver_age"
	FieldVehicleAge   = "vehicle_age"
	FieldVehiclePower = "vehicle_power"
	FieldVehicleValue = "vehicle_value"
)

// CategoricalFields lists the categorical policy fields in declared order.
func CategoricalFields() []string {
	return []string{
		FieldCoverage,
		FieldPaymentFreq,
		FieldUsage,
		FieldFuel,
		FieldVehicleType,
		FieldSecondDriver,
		FieldGender,
	}
}

// NumericFields lists the numeric policy features in declared order.
func NumericFields() []string {
	return []string{
		FieldBonus,
		FieldDuration,
		FieldDriverAge,
		FieldVehicleAge,
		FieldVehiclePower,
		FieldVehicleValue,
	}
}

// Policy is one (client, year) policy term as loaded from the policy source.
// Missing numeric values are NaN and missing categoricals are empty strings;
// the assembler drops such rows.
type Policy struct {
	ClientID     int
	Year         int
	Bonus        float64
	Duration     float64
	DriverAge    float64
	VehicleAge   float64
	VehiclePower float64
	VehicleValue float64
	Coverage     string
	PaymentFreq  string
	Usage        string
	Fuel         string
	VehicleType  string
	SecondDriver string
	Gender       string
}

// Categorical returns the value of the named categorical field.
func (p Policy) Categorical(field string) (string, bool) {
	switch field {
	case FieldCoverage:
		return p.Coverage, true
	case FieldPaymentFreq:
		return p.PaymentFreq, true
	case FieldUsage:
		return p.Usage, true
	case FieldFuel:
		return p.Fuel, true
	case FieldVehicleType:
		return p.VehicleType, true
	case FieldSecondDriver:
		return p.SecondDriver, true
	case FieldGender:
		return p.Gender, true
	}
	return "", false
}

// Numeric returns the value of the named numeric field.
func (p Policy) Numeric(field string) (float64, bool) {
	switch field {
	case FieldBonus:
		return p.Bonus, true
	case FieldDuration:
		return p.Duration, true
	case FieldDriverAge:
		return p.DriverAge, true
	case FieldVehicleAge:
		return p.VehicleAge, true
	case FieldVehiclePower:
		return p.VehiclePower, true
	case FieldVehicleValue:
		return p.VehicleValue, true
	}
	return 0, false
}

// Claim is one claim event.
type Claim struct {
	ClientID int
	Year     int
	Amount   float64
}

// Term is a policy term joined with its aggregated claims. Exposure is the
// fraction of a year the policy was in force; uniformly 1.0 in this dataset.
type Term struct {
	Policy
	ClaimCount  float64
	ClaimAmount float64
	Exposure    float64
}
