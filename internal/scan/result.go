package scan

import "github.com/wonny/etfscan/internal/external/eastmoney"

// SkipReason explains why a code produced no reading. Skips are counted,
// never propagated: one dead code must not abort the run.
type SkipReason string

const (
	SkipQuoteUnavailable SkipReason = "quote_unavailable"
	SkipNAVUnavailable   SkipReason = "nav_unavailable"
	SkipNAVNotPositive   SkipReason = "nav_not_positive"
)

// Result is the outcome of fetching one code: either a Reading or a
// SkipReason, never both, never neither.
type Result struct {
	Code    string
	Reading *Reading
	Skip    SkipReason
}

// Skipped reports whether the code produced no reading.
func (r Result) Skipped() bool {
	return r.Reading == nil
}

// Merge is the single validation gate between raw upstream responses and
// a Reading. The quote must already exist (its absence is handled by the
// scanner); the NAV leg degrades here: a failed lookup or a non-positive
// value skips the code instead of failing the run.
func Merge(quote *eastmoney.Quote, nav float64, navErr error) Result {
	if navErr != nil {
		return Result{Code: quote.Code, Skip: SkipNAVUnavailable}
	}
	if nav <= 0 {
		return Result{Code: quote.Code, Skip: SkipNAVNotPositive}
	}

	return Result{
		Code: quote.Code,
		Reading: &Reading{
			Code:       quote.Code,
			Name:       quote.Name,
			Price:      quote.Price,
			NAV:        nav,
			ChangePct:  quote.ChangePct,
			Volume:     quote.Volume,
			PremiumPct: Premium(quote.Price, nav),
		},
	}
}
