// Package errors provides the error types raised by the claim-frequency
// pipeline. All constructors attach a stack trace via cockroachdb/errors so
// failures during a batch run can be traced to the stage that produced them.
//
// The pipeline has no retry or recovery semantics: schema mismatches and
// malformed inputs are fatal, and errors coming out of the boosting library
// are propagated unmodified.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ErrEmptyData is returned when an operation receives a table, matrix or
// vector with no rows.
var ErrEmptyData = errors.New("claimfreq: empty data")

// SchemaError reports a mismatch between the expected and actual columns of
// an input source. It is raised by the loaders and by the results-cache
// reader before any row is parsed.
type SchemaError struct {
	Source   string
	Expected []string
	Got      []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("claimfreq: %s: schema mismatch: expected columns %v, got %v", e.Source, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured schema information to a zerolog event.
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Strs("expected", e.Expected).
		Strs("got", e.Got).
		Str("type", "SchemaError")
}

// NewSchemaError creates a SchemaError with a stack trace.
func NewSchemaError(source string, expected, got []string) error {
	err := &SchemaError{Source: source, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// DimensionError reports that matrix or vector dimensions disagree with what
// an operation expects. Axis 0 is rows, axis 1 is columns/features.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("claimfreq: %s: dimension mismatch on axis %d (%s): expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured dimension information to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// NotFittedError is returned when Transform or Predict is called on an
// estimator whose Fit has not run.
type NotFittedError struct {
	Estimator string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("claimfreq: %s.%s called before Fit", e.Estimator, e.Method)
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(estimator, method string) error {
	err := &NotFittedError{Estimator: estimator, Method: method}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for the operation,
// such as a split fraction outside (0, 1) or an undeclared reference level.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("claimfreq: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// Thin passthroughs so pipeline code only imports one errors package.

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
