package core

import (
	"errors"
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"week", Week, false},
		{"month", Month, false},
		{" month ", Month, false},
		{"year", "", true},
		{"Week", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPeriod) {
				t.Errorf("ParsePeriod(%q) error = %v, want ErrInvalidPeriod", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePeriod(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestNewExpenseRecord(t *testing.T) {
	if r := NewExpenseRecord(12, ""); r.Category != UncategorizedCategory || r.Amount != 12 {
		t.Errorf("NewExpenseRecord(12, \"\") = %+v", r)
	}
	if r := NewExpenseRecord(0, "Food"); r.Category != "Food" {
		t.Errorf("category = %q, want Food", r.Category)
	}
}

func TestPeriodWindow(t *testing.T) {
	// Thursday
	now := time.Date(2026, time.October, 15, 14, 30, 0, 0, time.UTC)

	t.Run("month", func(t *testing.T) {
		w, err := PeriodWindow(Month, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !w.Start.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("start = %v", w.Start)
		}
		if !w.End.Equal(time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("end = %v", w.End)
		}
	})

	t.Run("week starts on monday", func(t *testing.T) {
		w, err := PeriodWindow(Week, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !w.Start.Equal(time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("start = %v", w.Start)
		}
		if !w.End.Equal(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("end = %v", w.End)
		}
		if !w.Contains(now) || w.Contains(w.End) || !w.Contains(w.Start) {
			t.Errorf("window %v does not behave as half-open", w)
		}
	})

	t.Run("sunday belongs to the previous monday", func(t *testing.T) {
		sunday := time.Date(2026, time.October, 18, 23, 0, 0, 0, time.UTC)
		w, _ := PeriodWindow(Week, sunday)
		if !w.Start.Equal(time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("start = %v", w.Start)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := PeriodWindow(Period("year"), now); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("error = %v, want ErrInvalidPeriod", err)
		}
	})
}
