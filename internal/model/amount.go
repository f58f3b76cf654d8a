// Package model defines the domain records shared across the call-prep engine.
package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// AmountState distinguishes "no data" from "present but unusable" from "usable".
// Assessor feeds routinely emit zero or negative land values for parcels that
// were never assessed; collapsing those into a nullable float makes a missing
// value indistinguishable from a legitimately worthless parcel.
type AmountState int

const (
	AmountMissing AmountState = iota
	AmountInvalid
	AmountPresent
)

// Amount is a three-state monetary or quantity value.
type Amount struct {
	state AmountState
	value float64
}

// AmountOf builds an Amount from a raw value. Non-finite or non-positive
// values are marked invalid rather than rejected.
func AmountOf(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Amount{state: AmountInvalid, value: v}
	}
	return Amount{state: AmountPresent, value: v}
}

// MissingAmount returns an Amount with no underlying data.
func MissingAmount() Amount {
	return Amount{state: AmountMissing}
}

// NullableAmount converts a nullable column value into an Amount.
func NullableAmount(v *float64) Amount {
	if v == nil {
		return MissingAmount()
	}
	return AmountOf(*v)
}

// State reports which of the three states the amount is in.
func (a Amount) State() AmountState { return a.state }

// Usable reports whether the amount carries a positive, finite value.
func (a Amount) Usable() bool { return a.state == AmountPresent }

// IsMissing reports whether no data was present at all.
func (a Amount) IsMissing() bool { return a.state == AmountMissing }

// IsInvalid reports whether data was present but not usable (zero, negative,
// or non-finite).
func (a Amount) IsInvalid() bool { return a.state == AmountInvalid }

// Float64 returns the underlying value. Zero for missing amounts.
func (a Amount) Float64() float64 {
	if a.state == AmountMissing {
		return 0
	}
	return a.value
}

func (a Amount) String() string {
	switch a.state {
	case AmountMissing:
		return "missing"
	case AmountInvalid:
		return fmt.Sprintf("invalid(%g)", a.value)
	default:
		return fmt.Sprintf("%g", a.value)
	}
}

// MarshalJSON renders missing amounts as null and everything else as the raw
// number, matching the upstream snapshot wire shape.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.state == AmountMissing {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// UnmarshalJSON accepts null or a number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = MissingAmount()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = AmountOf(v)
	return nil
}
