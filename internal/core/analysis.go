package core

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	lowTierMax    = decimal.NewFromFloat(LowTierMaxPct)
	mediumTierMax = decimal.NewFromFloat(MediumTierMaxPct)
)

// Aggregate sums spend per category and overall. Values are not rounded.
func Aggregate(records []ExpenseRecord) (CategoryTotals, float64) {
	totals := make(CategoryTotals, len(records))
	var total float64
	for _, r := range records {
		category := r.Category
		if category == "" {
			category = UncategorizedCategory
		}
		totals[category] += r.Amount
		total += r.Amount
	}
	return totals, total
}

// PctOfIncome returns amount as a percentage of income rounded to one
// decimal, or nil when income is not positive.
func PctOfIncome(amount, income float64) *float64 {
	if income <= 0 {
		return nil
	}
	pct := Round1(amount / income * 100)
	return &pct
}

// TierFor classifies amount by its share of income. The comparison uses the
// exact decimal percentage, so 25.01% is high even though it is reported as
// 25.0. Without a positive income everything stays low so categories remain
// visible before a salary is configured.
func TierFor(amount, income float64) Tier {
	if income <= 0 {
		return TierLow
	}
	if !finite(amount) || !finite(income) {
		// Overflowed totals cannot be represented as decimals.
		pct := amount / income * 100
		switch {
		case pct <= LowTierMaxPct:
			return TierLow
		case pct <= MediumTierMaxPct:
			return TierMedium
		}
		return TierHigh
	}
	pct := decimal.NewFromFloat(amount).Div(decimal.NewFromFloat(income)).Mul(hundred)
	switch {
	case pct.LessThanOrEqual(lowTierMax):
		return TierLow
	case pct.LessThanOrEqual(mediumTierMax):
		return TierMedium
	default:
		return TierHigh
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Classify places every category in exactly one tier and orders each tier
// by descending spend, then by category name.
func Classify(totals CategoryTotals, income float64) Tiers {
	var tiers Tiers
	for category, spend := range totals {
		item := ClassifiedItem{
			Category:    category,
			Spend:       Round2(spend),
			PctOfIncome: PctOfIncome(spend, income),
		}
		tiers.add(TierFor(spend, income), item)
	}
	sortBySpend(tiers.Low)
	sortBySpend(tiers.Medium)
	sortBySpend(tiers.High)
	return tiers
}

func sortBySpend(items []ClassifiedItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Spend != items[j].Spend {
			return items[i].Spend > items[j].Spend
		}
		return items[i].Category < items[j].Category
	})
}

// Analyze runs aggregation, classification and suggestion over records.
// Income is used verbatim for Remaining even when it is zero or negative.
func Analyze(records []ExpenseRecord, income float64) Result {
	totals, totalSpend := Aggregate(records)
	tiers := Classify(totals, income)
	return Result{
		TotalSpend: Round2(totalSpend),
		Income:     Round2(income),
		Remaining:  Round2(income - totalSpend),
		Grouped:    tiers,
		Suggestion: Suggest(SuggestionInput{
			TotalSpend: totalSpend,
			Income:     income,
			Tiers:      tiers,
		}),
	}
}
