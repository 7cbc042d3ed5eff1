// Package ledger persists the append-only record of discount signals.
package ledger

import (
	"sort"

	"github.com/wonny/etfscan/internal/scan"
)

// StatusDiscountBuy labels entries created by the discount signal.
const StatusDiscountBuy = "discount-opportunity"

// Entry is one tracked position. Once written for a code it is never
// mutated or removed by the pipeline; cleanup is a manual action.
type Entry struct {
	Name     string  `json:"name"`
	BuyPrice float64 `json:"buyPrice"`
	BuyDate  string  `json:"buyDate"` // operator-local calendar date, 2006-01-02
	Status   string  `json:"status"`
}

// Ledger maps code to entry. The zero-length map is a valid empty ledger.
type Ledger map[string]Entry

// Codes returns the tracked codes in ascending order, for deterministic
// report rows.
func (l Ledger) Codes() []string {
	out := make([]string, 0, len(l))
	for code := range l {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Reconcile appends an entry for every reading that qualifies under rule
// and is not tracked yet. Existing entries are left untouched, so running
// the same readings twice is a no-op the second time. Returns the codes
// added, in reading order.
func Reconcile(l Ledger, readings []scan.Reading, rule scan.Rule, date string) []string {
	var added []string
	for _, rd := range readings {
		if !rule.Qualifies(rd) {
			continue
		}
		if _, exists := l[rd.Code]; exists {
			continue
		}
		l[rd.Code] = Entry{
			Name:     rd.Name,
			BuyPrice: rd.Price,
			BuyDate:  date,
			Status:   StatusDiscountBuy,
		}
		added = append(added, rd.Code)
	}
	return added
}
