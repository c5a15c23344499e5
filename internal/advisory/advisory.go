// Package advisory produces short financial tips from the caller's relevant
// transaction subset. It stands in for a hosted analysis engine: callers get
// a small ordered list of suggestions and never an error.
package advisory

import (
	"sort"

	"github.com/shopspring/decimal"

	"finvue/internal/models"
)

// Suggestion is one advisory tip with its severity category.
type Suggestion struct {
	Tip      string `json:"tip"`
	Category string `json:"category"` // saving | warning | info
}

// Advisor analyzes an already-scoped, approved, non-Requisition subset.
type Advisor interface {
	Analyze(transactions []models.Transaction) []Suggestion
}

// Fallback is returned when analysis yields nothing useful.
var Fallback = []Suggestion{
	{Tip: "Stay consistent with tracking to see long-term patterns.", Category: "info"},
	{Tip: "Review your subscriptions; they often go unnoticed.", Category: "saving"},
}

// starter is shown before any data exists.
var starter = []Suggestion{
	{Tip: "Start adding your expenses to get personalized tips!", Category: "info"},
}

// RuleAdvisor is a deterministic heuristic advisor.
type RuleAdvisor struct{}

var _ Advisor = RuleAdvisor{}

// NewRuleAdvisor returns the heuristic advisor.
func NewRuleAdvisor() RuleAdvisor { return RuleAdvisor{} }

// Analyze derives up to three tips: spend-versus-income balance, category
// concentration, and channel concentration. It falls back to the fixed list
// rather than returning nothing.
func (RuleAdvisor) Analyze(transactions []models.Transaction) []Suggestion {
	if len(transactions) == 0 {
		return starter
	}

	income := decimal.Zero
	expense := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	byChannel := map[models.PaymentChannel]decimal.Decimal{}
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case models.TransactionTypeExpense:
			expense = expense.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
			byChannel[t.Channel] = byChannel[t.Channel].Add(t.Amount)
		}
	}

	var out []Suggestion

	if expense.GreaterThan(income) {
		out = append(out, Suggestion{
			Tip:      "Spending currently exceeds income; review large recent outflows.",
			Category: "warning",
		})
	} else if income.IsPositive() && expense.LessThan(income.Mul(decimal.NewFromFloat(0.5))) {
		out = append(out, Suggestion{
			Tip:      "You are spending under half of what comes in. Consider moving the surplus somewhere deliberate.",
			Category: "saving",
		})
	}

	if name, share := dominantShare(byCategory, expense); share >= 40 {
		out = append(out, Suggestion{
			Tip:      name + " accounts for a large share of spending; set a monthly cap for it.",
			Category: "warning",
		})
	}

	if ch, share := dominantChannelShare(byChannel, expense); share >= 80 {
		out = append(out, Suggestion{
			Tip:      "Nearly all spending flows through " + string(ch) + "; keep a secondary channel reconciled as a cross-check.",
			Category: "info",
		})
	}

	if len(out) == 0 {
		return Fallback
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func dominantShare(totals map[string]decimal.Decimal, overall decimal.Decimal) (string, int64) {
	if overall.IsZero() {
		return "", 0
	}
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	// Deterministic winner on equal totals.
	sort.Strings(names)

	best := ""
	bestAmount := decimal.Zero
	for _, name := range names {
		if totals[name].GreaterThan(bestAmount) {
			best = name
			bestAmount = totals[name]
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestAmount.Mul(decimal.NewFromInt(100)).Div(overall).IntPart()
}

func dominantChannelShare(totals map[models.PaymentChannel]decimal.Decimal, overall decimal.Decimal) (models.PaymentChannel, int64) {
	if overall.IsZero() {
		return "", 0
	}
	best := models.PaymentChannel("")
	bestAmount := decimal.Zero
	for _, ch := range models.PaymentChannels {
		if totals[ch].GreaterThan(bestAmount) {
			best = ch
			bestAmount = totals[ch]
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestAmount.Mul(decimal.NewFromInt(100)).Div(overall).IntPart()
}
