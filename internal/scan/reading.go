// Package scan merges the two upstream lookups into validated instrument
// readings and drives the batched fetch over a full code list.
package scan

// Reading is one validated instrument observation. A Reading only exists
// once the quote parsed and the NAV estimate came back strictly positive,
// so PremiumPct is always well defined.
type Reading struct {
	Code      string
	Name      string
	Price     float64 // market price, CNY
	NAV       float64 // estimated unit NAV, always > 0
	ChangePct float64 // day change, percent
	Volume    float64 // traded value, 万元
	// PremiumPct is derived from Price and NAV, never stored on its own.
	PremiumPct float64
}

// Premium computes the premium/discount of price over nav, in percent.
// Negative means discount. Callers must guarantee nav > 0; the merge gate
// never constructs a reading otherwise.
func Premium(price, nav float64) float64 {
	return (price - nav) / nav * 100
}

// Rule is the qualification predicate shared by the alert report and the
// ledger reconciler: discount deeper than Threshold, and at least
// MinVolume of traded value when a floor is set.
type Rule struct {
	Threshold float64 // negative premium cutoff, percent
	MinVolume float64 // liquidity floor in 万元, 0 disables it
}

// Qualifies reports whether the reading triggers the discount signal.
func (r Rule) Qualifies(rd Reading) bool {
	if rd.PremiumPct >= r.Threshold {
		return false
	}
	if r.MinVolume > 0 && rd.Volume < r.MinVolume {
		return false
	}
	return true
}
