package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Tier thresholds as percentage of income, upper bounds inclusive.
const (
	LowTierMaxPct    = 10.0
	MediumTierMaxPct = 25.0
)

type (
	Tier string

	// CategoryTotals maps a category name to its accumulated spend.
	CategoryTotals map[string]float64

	// ClassifiedItem is one category's spend and its share of income.
	// PctOfIncome is nil when income is unknown.
	ClassifiedItem struct {
		Category    string   `json:"category"`
		Spend       float64  `json:"spend"`
		PctOfIncome *float64 `json:"pctOfIncome"`
	}

	Tiers struct {
		Low    []ClassifiedItem `json:"low"`
		Medium []ClassifiedItem `json:"medium"`
		High   []ClassifiedItem `json:"high"`
	}

	// Result is the single artifact emitted per invocation.
	Result struct {
		TotalSpend float64 `json:"totalSpend"`
		Income     float64 `json:"income"`
		Remaining  float64 `json:"remaining"`
		Grouped    Tiers   `json:"grouped"`
		Suggestion string  `json:"suggestion"`
	}
)

// ErrNotFinite reports a figure that overflowed float64.
var ErrNotFinite = errors.New("amount total overflows")

// Validate reports the first figure that cannot be written as a JSON number.
func (r Result) Validate() error {
	totals := []struct {
		name  string
		value float64
	}{
		{"totalSpend", r.TotalSpend},
		{"income", r.Income},
		{"remaining", r.Remaining},
	}
	for _, t := range totals {
		if !finite(t.value) {
			return fmt.Errorf("%w: %s", ErrNotFinite, t.name)
		}
	}
	for _, items := range [][]ClassifiedItem{r.Grouped.Low, r.Grouped.Medium, r.Grouped.High} {
		for _, item := range items {
			if !finite(item.Spend) || (item.PctOfIncome != nil && !finite(*item.PctOfIncome)) {
				return fmt.Errorf("%w: category %s", ErrNotFinite, item.Category)
			}
		}
	}
	return nil
}

// MarshalJSON encodes empty tiers as [] rather than null.
func (t Tiers) MarshalJSON() ([]byte, error) {
	type plain Tiers
	return json.Marshal(plain{
		Low:    nonNil(t.Low),
		Medium: nonNil(t.Medium),
		High:   nonNil(t.High),
	})
}

// Len returns the number of classified categories across all tiers.
func (t Tiers) Len() int {
	return len(t.Low) + len(t.Medium) + len(t.High)
}

// Top returns the highest-spend item of the given tier.
func (t Tiers) Top(tier Tier) (ClassifiedItem, bool) {
	items := t.tier(tier)
	if len(items) == 0 {
		return ClassifiedItem{}, false
	}
	return items[0], true
}

func (t Tiers) tier(tier Tier) []ClassifiedItem {
	switch tier {
	case TierLow:
		return t.Low
	case TierMedium:
		return t.Medium
	case TierHigh:
		return t.High
	}
	return nil
}

func (t *Tiers) add(tier Tier, item ClassifiedItem) {
	switch tier {
	case TierMedium:
		t.Medium = append(t.Medium, item)
	case TierHigh:
		t.High = append(t.High, item)
	default:
		t.Low = append(t.Low, item)
	}
}

func nonNil(items []ClassifiedItem) []ClassifiedItem {
	if items == nil {
		return []ClassifiedItem{}
	}
	return items
}
