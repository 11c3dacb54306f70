package ledger

import "github.com/shopspring/decimal"

// balanceTolerance is one monetary cent. Groups balance exactly by
// construction, so the tolerance only absorbs rounding noise from upstream
// data; anything at or above a cent is a mapping defect worth surfacing.
var balanceTolerance = decimal.New(1, -2)

// CheckBalance confirms aggregate debit equals aggregate credit across the
// entry list. An imbalance is reported, never corrected: it should be
// structurally impossible and its presence means a data or mapping defect to
// investigate, not something to block an export on.
func CheckBalance(entries []Entry) Balance {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	diff := debit.Sub(credit)
	return Balance{
		Balanced:   diff.Abs().LessThan(balanceTolerance),
		Difference: diff,
	}
}
