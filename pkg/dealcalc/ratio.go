package dealcalc

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Ratio is a percentage that may be undefined because its denominator was
// zero. It never holds NaN or an infinity.
type Ratio struct {
	Value   float64
	Defined bool

	name        string
	denominator string
}

// percentRatio returns numerator/denominator*100, or an undefined Ratio when
// denominator is zero.
func percentRatio(name, denominatorName string, numerator, denominator float64) Ratio {
	if denominator == 0 {
		return Ratio{name: name, denominator: denominatorName}
	}
	return Ratio{
		Value:       numerator / denominator * 100,
		Defined:     true,
		name:        name,
		denominator: denominatorName,
	}
}

// Float returns the value, or an *UndefinedRatioError.
func (r Ratio) Float() (float64, error) {
	if !r.Defined {
		return 0, &UndefinedRatioError{Ratio: r.label(), Denominator: r.denominatorLabel()}
	}
	return r.Value, nil
}

// Ptr returns nil for an undefined ratio.
func (r Ratio) Ptr() *float64 {
	if !r.Defined {
		return nil
	}
	v := r.Value
	return &v
}

func (r Ratio) String() string {
	if !r.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64) + "%"
}

// MarshalJSON encodes an undefined ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number or null.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Ratio{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio{Value: v, Defined: true}
	return nil
}

func (r Ratio) label() string {
	if r.name == "" {
		return "ratio"
	}
	return r.name
}

func (r Ratio) denominatorLabel() string {
	if r.denominator == "" {
		return "denominator"
	}
	return r.denominator
}
