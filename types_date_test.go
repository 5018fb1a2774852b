package ystocker

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := NewDate(2025, 7, 31)
	d2 := NewDate(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", NewDate(2025, time.January, 15), false},
		{" 2024-02-29 ", NewDate(2024, time.February, 29), false},
		{"2025-7-1", Date{}, true},
		{"2025-02-30", Date{}, true},
		{"invalid-date", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if got != tt.expected {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2025, time.December, 29)
	if got, want := d.AddWeeks(1), NewDate(2026, time.January, 5); got != want {
		t.Errorf("AddWeeks(1) = %v, want %v", got, want)
	}
	if got, want := NewDate(2025, time.March, 0), NewDate(2025, time.February, 28); got != want {
		t.Errorf("NewDate normalization = %v, want %v", got, want)
	}
	if !d.Before(d.Add(1)) || d.After(d.Add(1)) {
		t.Errorf("Before/After are inconsistent for %v", d)
	}
}

func TestDateQuarter(t *testing.T) {
	tests := map[string]string{
		"2025-01-01": "2025-Q1",
		"2025-03-31": "2025-Q1",
		"2025-09-30": "2025-Q3",
		"2025-12-31": "2025-Q4",
	}
	for in, want := range tests {
		if got := MustParseDate(in).Quarter(); got != want {
			t.Errorf("Quarter(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	type doc struct {
		On Date `json:"on"`
	}
	b, err := json.Marshal(doc{On: NewDate(2025, 9, 30)})
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if got, want := string(b), `{"on":"2025-09-30"}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
	var back doc
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if back.On != NewDate(2025, 9, 30) {
		t.Errorf("Unmarshal() = %v", back.On)
	}
	if err := json.Unmarshal([]byte(`{"on":"30/09/2025"}`), &back); err == nil {
		t.Errorf("Unmarshal() of a malformed date should fail")
	}
}
