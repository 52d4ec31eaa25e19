package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Week  Period = "week"
	Month Period = "month"
)

// UncategorizedCategory is used for records that carry no category.
const UncategorizedCategory = "Uncategorized"

type (
	Period string

	// ExpenseRecord is a single expense after defaulting: Amount is 0 when
	// the source had none and Category is never empty.
	ExpenseRecord struct {
		Amount   float64
		Category string
	}

	// Window is a half-open [Start, End) time range.
	Window struct {
		Start time.Time
		End   time.Time
	}
)

var (
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidSalary = errors.New("invalid salary")
)

// Periods lists the accepted period selectors in display order.
func Periods() []Period {
	return []Period{Week, Month}
}

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.TrimSpace(s)); p {
	case Week, Month:
		return p, nil
	default:
		return "", ErrInvalidPeriod
	}
}

func (p Period) String() string {
	return string(p)
}

// NewExpenseRecord applies the category default. Amount is taken verbatim.
func NewExpenseRecord(amount float64, category string) ExpenseRecord {
	if category == "" {
		category = UncategorizedCategory
	}
	return ExpenseRecord{Amount: amount, Category: category}
}

// PeriodWindow returns the calendar window containing now: the ISO week
// (Monday to Monday) for Week, the calendar month for Month.
func PeriodWindow(p Period, now time.Time) (Window, error) {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case Month:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case Week:
		offset := (int(now.Weekday()) + 6) % 7 // days since Monday
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}, nil
	default:
		return Window{}, ErrInvalidPeriod
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
