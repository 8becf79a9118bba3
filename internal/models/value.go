package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

var jsonNull = []byte("null")

// Value is a single observation. Valid is false when nothing has been
// observed yet for the series at this year.
type Value struct {
	Float float64
	Valid bool
}

// Absent is the missing-observation value.
var Absent = Value{}

// Observed wraps a float as a present value.
func Observed(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Get returns the float and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.Float, v.Valid
}

// Sub returns v - o, absent if either side is absent.
func (v Value) Sub(o Value) Value {
	if !v.Valid || !o.Valid {
		return Absent
	}

	return Observed(v.Float - o.Float)
}

// Div divides a present value by divisor.
func (v Value) Div(divisor float64) Value {
	if !v.Valid {
		return Absent
	}

	return Observed(v.Float / divisor)
}

// String formats the value with full precision, empty when absent.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}

	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// MarshalJSON encodes an absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return jsonNull, nil
	}

	return json.Marshal(v.Float)
}

// UnmarshalJSON decodes null as absent.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*v = Absent
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	*v = Observed(f)

	return nil
}
