// Package summary derives a user's balance and per-category breakdown from
// aggregated transaction totals. It is pure: callers run the grouped-sum
// query and feed the rows in.
package summary

import "bankline/models"

// CategoryTotal is one row of a grouped-sum query: a category name with the
// summed amount (cents) of that category's transactions.
type CategoryTotal struct {
	Category string
	Total    int64
}

// Breakdown holds the per-category sums. Categories with no transactions
// stay zero so arithmetic never sees a missing value.
type Breakdown struct {
	Deposit    int64 `json:"deposit"`
	Payment    int64 `json:"payment"`
	Transfer   int64 `json:"transfer"`
	Withdrawal int64 `json:"withdrawal"`
}

// Summary is the derived net position: balance = inflow - outflow.
type Summary struct {
	Balance   int64     `json:"balance"`
	Breakdown Breakdown `json:"breakdown"`
}

// Zero returns the all-zero summary, used as the best-effort fallback when
// computation fails at the presentation boundary.
func Zero() Summary {
	return Summary{}
}

// Compute folds per-category totals into a Summary. Category names the
// direction table does not know are skipped and returned so the caller can
// log them; they never become an error.
func Compute(rows []CategoryTotal) (Summary, []string) {
	var s Summary
	var unknown []string
	var inflow, outflow int64
	for _, r := range rows {
		cat := models.Category(r.Category)
		dir, ok := models.Directions[cat]
		if !ok {
			unknown = append(unknown, r.Category)
			continue
		}
		switch cat {
		case models.CategoryDeposit:
			s.Breakdown.Deposit += r.Total
		case models.CategoryPayment:
			s.Breakdown.Payment += r.Total
		case models.CategoryTransfer:
			s.Breakdown.Transfer += r.Total
		case models.CategoryWithdrawal:
			s.Breakdown.Withdrawal += r.Total
		}
		if dir == models.DirectionInflow {
			inflow += r.Total
		} else {
			outflow += r.Total
		}
	}
	s.Balance = inflow - outflow
	return s, unknown
}
