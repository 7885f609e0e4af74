/*
Package generic provides the calendar and money primitives the schedule
engine is built on.

PURPOSE:
  Schedules are computed over calendar dates and priced in currency. This
  package keeps both concerns domain-agnostic so the catalog, calculator and
  API layers share one notion of "a date" and "an amount".

KEY CONCEPTS:
  - TimePoint: a calendar date with clamped month arithmetic (time.go)
  - Period: a closed date range (period.go)
  - Money: a decimal currency amount (this file)
  - Error taxonomy shared by all layers (errors.go)

DESIGN PRINCIPLES:
  1. Precision: Money uses decimal.Decimal, never float64
  2. Calendar semantics: month arithmetic clamps to month end
  3. Immutability: all values are passed by value

USAGE:
  price := generic.MustParseMoney("99")
  total := price.Times(12) // $1188.00
  next := generic.NewTimePoint(2024, time.January, 31).AddMonths(1) // 2024-02-29
*/
package generic

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount (single currency, USD display)
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Value: d}, nil
}

// MustParseMoney parses s and panics on malformed input. Use for literals.
func MustParseMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Times(n int) Money  { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (m Money) Add(o Money) Money  { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) IsPositive() bool   { return m.Value.IsPositive() }
func (m Money) IsZero() bool       { return m.Value.IsZero() }
func (m Money) Equal(o Money) bool { return m.Value.Equal(o.Value) }

// String renders the amount with two decimals, e.g. "$1188.00".
func (m Money) String() string {
	return "$" + m.Value.StringFixed(2)
}

// Short renders the amount without trailing zeros, e.g. "$99" or "$99.5".
func (m Money) Short() string {
	return "$" + m.Value.String()
}

// MarshalJSON encodes the amount as a decimal string to avoid float rounding.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Value.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Value.UnmarshalJSON(data)
}
