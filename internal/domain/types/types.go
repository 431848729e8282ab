// Package types contains common types used across the application
package types

import (
	"encoding/json"
	"math"
)

// Num is a float that may be missing. Spreadsheet cells are often blank or
// hold text, so every numeric value flows through the dashboard as a Num.
type Num struct {
	v  float64
	ok bool
}

// Some wraps v. NaN and infinities become None.
func Some(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Num{}
	}
	return Num{v: v, ok: true}
}

// None is the missing value.
func None() Num { return Num{} }

// Get returns the value and whether it is present.
func (n Num) Get() (float64, bool) { return n.v, n.ok }

// Valid reports whether a value is present.
func (n Num) Valid() bool { return n.ok }

// Or returns the value or def when missing.
func (n Num) Or(def float64) float64 {
	if !n.ok {
		return def
	}
	return n.v
}

// MarshalJSON writes null for missing values.
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.ok {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

// UnmarshalJSON reads a number or null.
func (n *Num) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Num{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// Item is a labelled value with its share of the group in percent.
type Item struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}
