package core

import (
	"fmt"
	"strings"
)

const (
	SalaryPromptText    = "Add your monthly salary in Profile to unlock % based insights & AI suggestions."
	OverBudgetText      = "Your total expenses exceed your salary. Consider budgeting more strictly."
	UnderControlText    = "Your spending is under control. Keep tracking regularly."
	highSpendFormat     = "High spending detected in %s (~%s%% of salary). Try setting a category cap."
	moderateSpendFormat = "Moderate spending on %s (~%s%% of salary). Track it weekly to prevent overspending."
)

// SuggestionInput carries the aggregates the suggestion rules look at.
type SuggestionInput struct {
	TotalSpend float64
	Income     float64
	Tiers      Tiers
}

// suggestionRule yields a clause when it applies. A terminal rule that
// applies stops evaluation of the rules after it.
type suggestionRule struct {
	name     string
	terminal bool
	clause   func(SuggestionInput) (string, bool)
}

// suggestionRules is evaluated top to bottom.
var suggestionRules = []suggestionRule{
	{name: "salary_missing", terminal: true, clause: salaryMissing},
	{name: "over_budget", clause: overBudget},
	{name: "tier_focus", clause: tierFocus},
}

// Suggest composes the suggestion text from the ordered rule table.
func Suggest(in SuggestionInput) string {
	clauses := make([]string, 0, len(suggestionRules))
	for _, rule := range suggestionRules {
		text, ok := rule.clause(in)
		if !ok {
			continue
		}
		clauses = append(clauses, text)
		if rule.terminal {
			break
		}
	}
	return strings.TrimSpace(strings.Join(clauses, " "))
}

func salaryMissing(in SuggestionInput) (string, bool) {
	return SalaryPromptText, in.Income <= 0
}

func overBudget(in SuggestionInput) (string, bool) {
	return OverBudgetText, in.TotalSpend > in.Income
}

// tierFocus always yields exactly one clause: the top high category, else the
// top medium category, else the all-clear.
func tierFocus(in SuggestionInput) (string, bool) {
	if top, ok := in.Tiers.Top(TierHigh); ok {
		return fmt.Sprintf(highSpendFormat, top.Category, pctText(top)), true
	}
	if top, ok := in.Tiers.Top(TierMedium); ok {
		return fmt.Sprintf(moderateSpendFormat, top.Category, pctText(top)), true
	}
	return UnderControlText, true
}

func pctText(item ClassifiedItem) string {
	if item.PctOfIncome == nil {
		return FormatPct(0)
	}
	return FormatPct(*item.PctOfIncome)
}
