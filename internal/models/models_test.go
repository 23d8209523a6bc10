// ABOUTME: Unit tests for data models
// ABOUTME: Tests constructors, validators, rounding, and the persisted JSON form

package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestNewEntry(t *testing.T) {
	e := NewEntry("2024-01-01", "08:30", 40, 520)

	if e.Date != "2024-01-01" || e.Time != "08:30" {
		t.Errorf("unexpected date/time %q %q", e.Date, e.Time)
	}
	if e.Consumption != 13.00 {
		t.Errorf("expected consumption 13.00, got %v", e.Consumption)
	}
	if !e.HasConsumption() {
		t.Error("expected defined consumption")
	}
}

func TestNewEntry_ZeroLiters(t *testing.T) {
	e := NewEntry("2024-01-01", "08:30", 0, 520)

	if !math.IsNaN(e.Consumption) {
		t.Errorf("expected NaN consumption, got %v", e.Consumption)
	}
	if e.HasConsumption() {
		t.Error("expected undefined consumption")
	}
}

func TestConsumptionOf_Rounds(t *testing.T) {
	tests := []struct {
		distance, liters, want float64
	}{
		{520, 40, 13.00},
		{100, 3, 33.33},
		{200, 3, 66.67},
		{456.7, 35.2, 12.97},
	}
	for _, tt := range tests {
		got := ConsumptionOf(tt.distance, tt.liters)
		if got != tt.want {
			t.Errorf("ConsumptionOf(%v, %v) = %v, want %v", tt.distance, tt.liters, got, tt.want)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(2.005); got != 2.01 {
		t.Errorf("Round2(2.005) = %v, want 2.01", got)
	}
	if got := Round2(1.005); got != 1.01 {
		t.Errorf("Round2(1.005) = %v, want 1.01", got)
	}
	if got := Round2(-3.004); got != -3.00 {
		t.Errorf("Round2(-3.004) = %v, want -3", got)
	}
	if !math.IsNaN(Round2(math.NaN())) {
		t.Error("expected NaN to pass through")
	}
	if !math.IsInf(Round2(math.Inf(1)), 1) {
		t.Error("expected +Inf to pass through")
	}
}

func TestSortKey(t *testing.T) {
	e := Entry{Date: "2024-03-05", Time: "17:45"}
	if e.SortKey() != "2024-03-0517:45" {
		t.Errorf("unexpected sort key %q", e.SortKey())
	}

	legacy := Entry{Date: "2024-03-05"}
	if legacy.SortKey() >= e.SortKey() {
		t.Error("expected entry without time to sort before same-day entry with time")
	}
}

func TestValidateDate(t *testing.T) {
	valid := []string{"2024-01-01", "1999-12-31", "2024-02-29"}
	for _, s := range valid {
		if err := ValidateDate(s); err != nil {
			t.Errorf("ValidateDate(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{"", "   ", "2024-1-01", "2024-01-1", "24-01-01", "2023-02-29", "2024/01/01", "2024-13-01", "2024-01-01T00:00"}
	for _, s := range invalid {
		if err := ValidateDate(s); err == nil {
			t.Errorf("ValidateDate(%q) expected error", s)
		}
	}
}

func TestValidateTime(t *testing.T) {
	valid := []string{"00:00", "09:05", "23:59"}
	for _, s := range valid {
		if err := ValidateTime(s); err != nil {
			t.Errorf("ValidateTime(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{"", "9:05", "09:5", "24:00", "12:60", "12-30", "12:30:00"}
	for _, s := range invalid {
		if err := ValidateTime(s); err == nil {
			t.Errorf("ValidateTime(%q) expected error", s)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	if err := ValidateQuantity(0); err != nil {
		t.Errorf("zero should be accepted: %v", err)
	}
	if err := ValidateQuantity(42.5); err != nil {
		t.Errorf("positive should be accepted: %v", err)
	}
	if err := ValidateQuantity(-1); err == nil || !strings.Contains(err.Error(), "negative") {
		t.Errorf("expected negative error, got %v", err)
	}
	if err := ValidateQuantity(math.NaN()); err == nil {
		t.Error("expected error for NaN")
	}
	if err := ValidateQuantity(math.Inf(1)); err == nil {
		t.Error("expected error for Inf")
	}
}

func TestEntryJSON_ShortKeys(t *testing.T) {
	e := NewEntry("2024-01-01", "08:30", 40, 520)

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"d":"2024-01-01"`, `"t":"08:30"`, `"l":40`, `"km":520`, `"cons":13`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
}

func TestEntryJSON_UndefinedConsumptionIsNull(t *testing.T) {
	e := NewEntry("2024-01-01", "08:30", 0, 10)

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"cons":null`) {
		t.Errorf("expected null consumption, got %s", data)
	}

	var back Entry
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !math.IsNaN(back.Consumption) {
		t.Errorf("expected NaN after round-trip, got %v", back.Consumption)
	}
}

func TestEntryJSON_LegacyWithoutTime(t *testing.T) {
	var e Entry
	if err := json.Unmarshal([]byte(`{"d":"2023-05-01","l":30,"km":390,"cons":13}`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Time != "" {
		t.Errorf("expected empty time, got %q", e.Time)
	}
	if e.Consumption != 13 {
		t.Errorf("expected consumption 13, got %v", e.Consumption)
	}
}

func TestEntryDay(t *testing.T) {
	e := Entry{Date: "2024-01-05", Time: "23:59"}
	day, err := e.Day()
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if day.Day() != 5 || day.Hour() != 0 {
		t.Errorf("unexpected day %v", day)
	}
}

func TestRoundTo(t *testing.T) {
	if got := RoundTo(1234.56, 1); got != 1234.6 {
		t.Errorf("RoundTo(1234.56, 1) = %v, want 1234.6", got)
	}
	if got := RoundTo(0.125, 2); got != 0.13 {
		t.Errorf("RoundTo(0.125, 2) = %v, want 0.13", got)
	}
}
