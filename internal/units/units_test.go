package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		if !IsValid(u) {
			t.Errorf("expected %q to be valid", u)
		}
	}
	if IsValid("furlong") {
		t.Error("expected furlong to be invalid")
	}
}

func TestToMeters(t *testing.T) {
	cases := []struct {
		value float64
		unit  string
		want  float64
	}{
		{1, Meters, 1},
		{1, "", 1}, // empty unit defaults to meters
		{1000, Millimeters, 1},
		{100, Centimeters, 1},
		{1, Feet, 0.3048},
		{12, Inches, 0.3048},
	}
	for _, tc := range cases {
		got, err := ToMeters(tc.value, tc.unit)
		if err != nil {
			t.Fatalf("ToMeters(%v, %q): %v", tc.value, tc.unit, err)
		}
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("ToMeters(%v, %q) = %v, want %v", tc.value, tc.unit, got, tc.want)
		}
	}
}

func TestToMeters_UnknownUnit(t *testing.T) {
	if _, err := ToMeters(1, "furlong"); err == nil {
		t.Error("expected error for unknown unit")
	}
}
