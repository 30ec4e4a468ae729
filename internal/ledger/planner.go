package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"gamyartha/internal/models"
)

// Suggestion is one proposed peer-to-peer transfer. Executing every suggestion
// in a plan would bring all balances in the snapshot to zero.
type Suggestion struct {
	FromUserID int             `json:"from_user_id"`
	ToUserID   int             `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// PlanSettlements computes a minimal set of transfers that zeroes out a
// balance snapshot, matching the largest creditor against the largest debtor
// greedily. Pure function: the snapshot is copied, never mutated, and the
// same input always yields the same plan. Members with a zero balance never
// appear in the output. A snapshot that does not sum to exactly zero (rounding
// drift upstream) produces a best-effort plan for whatever can be netted.
func PlanSettlements(balances []models.GroupBalance) []Suggestion {
	type stake struct {
		userID int
		amount decimal.Decimal // always positive
	}

	var creditors, debtors []stake
	for _, b := range balances {
		switch {
		case b.Balance.IsPositive():
			creditors = append(creditors, stake{b.UserID, b.Balance})
		case b.Balance.IsNegative():
			debtors = append(debtors, stake{b.UserID, b.Balance.Neg()})
		}
	}

	// Largest first; ties broken by user id so plans are reproducible.
	byMagnitude := func(s []stake) {
		sort.Slice(s, func(i, j int) bool {
			if !s[i].amount.Equal(s[j].amount) {
				return s[i].amount.GreaterThan(s[j].amount)
			}
			return s[i].userID < s[j].userID
		})
	}
	byMagnitude(creditors)
	byMagnitude(debtors)

	var suggestions []Suggestion
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		amount := creditors[i].amount
		if debtors[j].amount.LessThan(amount) {
			amount = debtors[j].amount
		}

		if amount.IsPositive() {
			suggestions = append(suggestions, Suggestion{
				FromUserID: debtors[j].userID,
				ToUserID:   creditors[i].userID,
				Amount:     amount,
			})
		}

		creditors[i].amount = creditors[i].amount.Sub(amount)
		debtors[j].amount = debtors[j].amount.Sub(amount)

		if !creditors[i].amount.IsPositive() {
			i++
		}
		if !debtors[j].amount.IsPositive() {
			j++
		}
	}

	return suggestions
}
