package dealcalc

import (
	"errors"
	"fmt"

	"github.com/iwvelando/deal-calculator/pkg/mathutil"
)

var (
	// ErrInvalidInput matches every *InvalidInputError via errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUndefinedRatio matches every *UndefinedRatioError via errors.Is.
	ErrUndefinedRatio = errors.New("undefined ratio")
)

// InvalidInputError reports a violated precondition on a single field.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is match against ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UndefinedRatioError reports a ratio whose denominator is zero.
type UndefinedRatioError struct {
	Ratio       string
	Denominator string
}

func (e *UndefinedRatioError) Error() string {
	return fmt.Sprintf("%s is undefined: %s is zero", e.Ratio, e.Denominator)
}

// Is lets errors.Is match against ErrUndefinedRatio.
func (e *UndefinedRatioError) Is(target error) bool {
	return target == ErrUndefinedRatio
}

func invalid(field string, value float64, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

// requireNonNegative returns an InvalidInputError for negative or non-finite values.
func requireNonNegative(field string, value float64) error {
	if !mathutil.IsFinite(value) {
		return invalid(field, value, "must be a finite number")
	}
	if value < 0 {
		return invalid(field, value, "must not be negative")
	}
	return nil
}

// requireFraction additionally bounds a rate to [0,1].
func requireFraction(field string, value float64) error {
	if err := requireNonNegative(field, value); err != nil {
		return err
	}
	if value > 1 {
		return invalid(field, value, "must be a fraction between 0 and 1")
	}
	return nil
}

// firstError returns the first non-nil error in order.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
