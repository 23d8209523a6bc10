// ABOUTME: Core data model for fuel log entries
// ABOUTME: Provides validation, consumption derivation, and the persisted JSON form

package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the only accepted date format. Fixed width keeps string order chronological.
	DateLayout = "2006-01-02"
	// TimeLayout is the only accepted clock format.
	TimeLayout = "15:04"
)

// Entry is one fuel purchase with its derived consumption.
type Entry struct {
	Date     string
	Time     string
	Liters   float64
	Distance float64
	// Consumption is km per liter, rounded to 2 places. NaN when undefined.
	Consumption float64
}

// NewEntry builds an entry and derives its consumption.
func NewEntry(date, clock string, liters, distance float64) Entry {
	return Entry{
		Date:        date,
		Time:        clock,
		Liters:      liters,
		Distance:    distance,
		Consumption: ConsumptionOf(distance, liters),
	}
}

// SortKey is the string the collection is ordered by.
func (e Entry) SortKey() string {
	return e.Date + e.Time
}

// HasConsumption reports whether consumption is a defined finite number.
func (e Entry) HasConsumption() bool {
	return !math.IsNaN(e.Consumption) && !math.IsInf(e.Consumption, 0)
}

// Day parses the entry's calendar date, ignoring its clock time.
func (e Entry) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// ConsumptionOf returns distance/liters rounded to 2 places, or NaN when liters is zero.
func ConsumptionOf(distance, liters float64) float64 {
	if liters == 0 {
		return math.NaN()
	}
	return Round2(distance / liters)
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return RoundTo(v, 2)
}

// RoundTo rounds half away from zero to the given number of decimal places.
// It rounds the shortest decimal form of v, so 1.005 becomes 1.01 rather than
// the 1.00 its binary value would give. NaN and infinities pass through unchanged.
func RoundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Totals aggregates a whole log for export.
type Totals struct {
	TotalLiters float64 `json:"total_liters"`
	TotalKm     float64 `json:"total_km"`
	// AverageConsumption is TotalKm/TotalLiters, or 0 when no fuel was logged.
	AverageConsumption float64 `json:"average_consumption"`
}

// ValidateDate checks a strict, zero-padded YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("date cannot be empty")
	}
	if len(s) != len(DateLayout) {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	return nil
}

// ValidateTime checks a strict, zero-padded HH:MM clock time.
func ValidateTime(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("time cannot be empty")
	}
	// time.Parse accepts a single-digit hour for "15", so width is checked first.
	if len(s) != len(TimeLayout) {
		return fmt.Errorf("time must be HH:MM")
	}
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return fmt.Errorf("time must be HH:MM")
	}
	return nil
}

// ValidateQuantity checks liters or distance values.
func ValidateQuantity(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("must be a finite number")
	}
	if v < 0 {
		return fmt.Errorf("cannot be negative")
	}
	return nil
}

// storedEntry is the persisted shape. The short keys match the blobs written
// by the original browser app so existing exports load unchanged.
type storedEntry struct {
	D    string   `json:"d"`
	T    string   `json:"t,omitempty"`
	L    float64  `json:"l"`
	KM   float64  `json:"km"`
	Cons *float64 `json:"cons"`
}

// MarshalJSON writes undefined consumption as null.
func (e Entry) MarshalJSON() ([]byte, error) {
	s := storedEntry{D: e.Date, T: e.Time, L: e.Liters, KM: e.Distance}
	if e.HasConsumption() {
		c := e.Consumption
		s.Cons = &c
	}
	return json.Marshal(s)
}

// UnmarshalJSON reads null or missing consumption back as NaN.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var s storedEntry
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = Entry{Date: s.D, Time: s.T, Liters: s.L, Distance: s.KM, Consumption: math.NaN()}
	if s.Cons != nil {
		e.Consumption = *s.Cons
	}
	return nil
}
