package core

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestAggregate(t *testing.T) {
	records := []ExpenseRecord{
		{Amount: 10.5, Category: "Food"},
		{Amount: 4.5, Category: "Food"},
		{Amount: 100, Category: "Rent"},
		{Amount: -5, Category: "Refunds"},
		{Amount: 3, Category: ""},
	}

	totals, total := Aggregate(records)

	if total != 113 {
		t.Fatalf("total = %v, want 113", total)
	}
	want := map[string]float64{"Food": 15, "Rent": 100, "Refunds": -5, UncategorizedCategory: 3}
	if len(totals) != len(want) {
		t.Fatalf("got %d categories, want %d: %v", len(totals), len(want), totals)
	}
	for cat, amount := range want {
		if totals[cat] != amount {
			t.Errorf("totals[%q] = %v, want %v", cat, totals[cat], amount)
		}
	}
}

func TestPctOfIncome(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		income float64
		want   *float64
	}{
		{"zero income", 100, 0, nil},
		{"negative income", 100, -50, nil},
		{"quarter", 500, 2000, floatPtr(25)},
		{"rounded to one decimal", 123.45, 1000, floatPtr(12.3)},
		{"half rounds away from zero", 1.25, 100, floatPtr(1.3)},
		{"over income", 3000, 2000, floatPtr(150)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PctOfIncome(tt.amount, tt.income)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("PctOfIncome(%v, %v) = %v, want nil", tt.amount, tt.income, *got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Fatalf("PctOfIncome(%v, %v) = %v, want %v", tt.amount, tt.income, got, *tt.want)
			}
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		income float64
		want   Tier
	}{
		{"no income", 5000, 0, TierLow},
		{"negative income", 5000, -1, TierLow},
		{"below low bound", 99, 1000, TierLow},
		{"exactly ten percent", 100, 1000, TierLow},
		{"just above ten percent", 100.1, 1000, TierMedium},
		{"exactly twenty five percent", 250, 1000, TierMedium},
		{"twenty five point zero one percent", 500.2, 2000, TierHigh},
		{"far above", 1200, 2000, TierHigh},
		{"negative spend", -300, 1000, TierLow},
		{"seven percent", 7, 100, TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierFor(tt.amount, tt.income); got != tt.want {
				t.Errorf("TierFor(%v, %v) = %s, want %s", tt.amount, tt.income, got, tt.want)
			}
		})
	}
}

func TestTierFor_Overflow(t *testing.T) {
	if got := TierFor(math.Inf(1), 1000); got != TierHigh {
		t.Errorf("TierFor(+Inf) = %s, want high", got)
	}
}

func TestClassify_SortsByDescendingSpend(t *testing.T) {
	totals := CategoryTotals{
		"Coffee":    20,
		"Books":     50,
		"Snacks":    50,
		"Gym":       30,
		"Rent":      900,
		"Travel":    400,
		"Groceries": 150,
		"Phone":     120,
	}

	tiers := Classify(totals, 1000)

	wantLow := []string{"Books", "Snacks", "Gym", "Coffee"}
	wantMedium := []string{"Groceries", "Phone"}
	wantHigh := []string{"Rent", "Travel"}

	assertCategories(t, "low", tiers.Low, wantLow)
	assertCategories(t, "medium", tiers.Medium, wantMedium)
	assertCategories(t, "high", tiers.High, wantHigh)

	if tiers.Len() != len(totals) {
		t.Errorf("tiers hold %d categories, want %d", tiers.Len(), len(totals))
	}
}

func TestClassify_NoIncome(t *testing.T) {
	totals := CategoryTotals{"Rent": 1200, "Food": 500}

	tiers := Classify(totals, 0)

	if len(tiers.Medium) != 0 || len(tiers.High) != 0 {
		t.Fatalf("expected all categories in low, got %+v", tiers)
	}
	assertCategories(t, "low", tiers.Low, []string{"Rent", "Food"})
	for _, item := range tiers.Low {
		if item.PctOfIncome != nil {
			t.Errorf("%s: pctOfIncome = %v, want nil", item.Category, *item.PctOfIncome)
		}
	}
}

func TestClassify_RoundsSpend(t *testing.T) {
	tiers := Classify(CategoryTotals{"Food": 10.456}, 1000)
	if len(tiers.Medium) != 0 || len(tiers.Low) != 1 {
		t.Fatalf("unexpected tiers: %+v", tiers)
	}
	if got := tiers.Low[0].Spend; got != 10.46 {
		t.Errorf("spend = %v, want 10.46", got)
	}
}

func TestAnalyze_EndToEndExample(t *testing.T) {
	records := []ExpenseRecord{
		{Amount: 500, Category: "Food"},
		{Amount: 1200, Category: "Rent"},
	}

	res := Analyze(records, 2000)

	if res.TotalSpend != 1700 || res.Income != 2000 || res.Remaining != 300 {
		t.Fatalf("totals = %v/%v/%v, want 1700/2000/300", res.TotalSpend, res.Income, res.Remaining)
	}
	if len(res.Grouped.High) != 1 || res.Grouped.High[0].Category != "Rent" {
		t.Fatalf("high = %+v, want [Rent]", res.Grouped.High)
	}
	if pct := res.Grouped.High[0].PctOfIncome; pct == nil || *pct != 60 {
		t.Errorf("Rent pct = %v, want 60", pct)
	}
	if len(res.Grouped.Medium) != 1 || res.Grouped.Medium[0].Category != "Food" {
		t.Fatalf("medium = %+v, want [Food]", res.Grouped.Medium)
	}
	if pct := res.Grouped.Medium[0].PctOfIncome; pct == nil || *pct != 25 {
		t.Errorf("Food pct = %v, want 25", pct)
	}
	if len(res.Grouped.Low) != 0 {
		t.Errorf("low = %+v, want empty", res.Grouped.Low)
	}
	if !strings.Contains(res.Suggestion, "Rent") || !strings.Contains(res.Suggestion, "~60.0%") {
		t.Errorf("suggestion %q should mention Rent and ~60.0%%", res.Suggestion)
	}
}

func TestAnalyze_EmptyWithoutSalary(t *testing.T) {
	res := Analyze(nil, 0)

	if res.TotalSpend != 0 || res.Income != 0 || res.Remaining != 0 {
		t.Fatalf("expected zero totals, got %+v", res)
	}
	if res.Grouped.Len() != 0 {
		t.Fatalf("expected empty tiers, got %+v", res.Grouped)
	}
	if res.Suggestion != SalaryPromptText {
		t.Errorf("suggestion = %q, want salary prompt", res.Suggestion)
	}
}

func TestAnalyze_RemainingUsesNegativeIncome(t *testing.T) {
	res := Analyze([]ExpenseRecord{{Amount: 10.004, Category: "Food"}, {Amount: 0.1, Category: "Food"}}, -100)

	if diff := math.Abs(res.Remaining - (res.Income - res.TotalSpend)); diff > 0.005 {
		t.Errorf("remaining %v differs from income-totalSpend by %v", res.Remaining, diff)
	}
	if res.Income != -100 {
		t.Errorf("income = %v, want -100", res.Income)
	}
	if res.Suggestion != SalaryPromptText {
		t.Errorf("suggestion = %q, want salary prompt", res.Suggestion)
	}
}

func TestResult_JSONShape(t *testing.T) {
	data, err := json.Marshal(Analyze(nil, 0))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"totalSpend", "income", "remaining", "grouped", "suggestion"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if got := string(decoded["grouped"]); got != `{"low":[],"medium":[],"high":[]}` {
		t.Errorf("grouped = %s, want empty arrays", got)
	}

	item, err := json.Marshal(ClassifiedItem{Category: "Food", Spend: 12.5})
	if err != nil {
		t.Fatalf("marshal item: %v", err)
	}
	if got := string(item); got != `{"category":"Food","spend":12.5,"pctOfIncome":null}` {
		t.Errorf("item = %s", got)
	}
}

func TestResult_Validate_Overflow(t *testing.T) {
	if err := Analyze([]ExpenseRecord{{Amount: 500, Category: "Food"}}, 2000).Validate(); err != nil {
		t.Fatalf("Validate() on finite result = %v", err)
	}

	res := Analyze([]ExpenseRecord{
		{Amount: 1e308, Category: "A"},
		{Amount: 1e308, Category: "A"},
	}, 2000)
	err := res.Validate()
	if !errors.Is(err, ErrNotFinite) {
		t.Fatalf("Validate() = %v, want ErrNotFinite", err)
	}
	if !strings.Contains(err.Error(), "totalSpend") {
		t.Errorf("error should name the overflowing figure: %v", err)
	}
	if _, merr := json.Marshal(res); merr == nil {
		t.Error("an overflowed result should not be encodable")
	}
}

func assertCategories(t *testing.T, tier string, items []ClassifiedItem, want []string) {
	t.Helper()
	if len(items) != len(want) {
		t.Fatalf("%s tier has %d items, want %d: %+v", tier, len(items), len(want), items)
	}
	for i, item := range items {
		if item.Category != want[i] {
			t.Errorf("%s[%d] = %s, want %s", tier, i, item.Category, want[i])
		}
	}
}
