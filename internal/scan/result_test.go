package scan

import (
	"errors"
	"math"
	"testing"

	"github.com/wonny/etfscan/internal/external/eastmoney"
)

func TestMerge(t *testing.T) {
	quote := &eastmoney.Quote{
		Code:      "000001",
		Name:      "测试基金",
		Price:     2.000,
		ChangePct: 0.45,
		Volume:    5200,
	}

	t.Run("positive nav produces a reading", func(t *testing.T) {
		res := Merge(quote, 1.950, nil)
		if res.Skipped() {
			t.Fatalf("Merge() skipped with reason %s", res.Skip)
		}

		rd := res.Reading
		if rd.Code != "000001" || rd.Name != "测试基金" {
			t.Errorf("Merge() reading = %+v", rd)
		}
		if rd.NAV != 1.950 {
			t.Errorf("Merge() NAV = %f, want 1.950", rd.NAV)
		}
		if math.Abs(rd.PremiumPct-2.5641) > 0.0001 {
			t.Errorf("Merge() PremiumPct = %f, want 2.5641", rd.PremiumPct)
		}
	})

	t.Run("nav error degrades to a skip", func(t *testing.T) {
		res := Merge(quote, 0, errors.New("no envelope"))
		if !res.Skipped() || res.Skip != SkipNAVUnavailable {
			t.Errorf("Merge() = %+v, want skip %s", res, SkipNAVUnavailable)
		}
		if res.Code != "000001" {
			t.Errorf("Merge() Code = %s, want 000001", res.Code)
		}
	})

	t.Run("zero nav never becomes a reading", func(t *testing.T) {
		res := Merge(quote, 0, nil)
		if !res.Skipped() || res.Skip != SkipNAVNotPositive {
			t.Errorf("Merge() = %+v, want skip %s", res, SkipNAVNotPositive)
		}
	})

	t.Run("negative nav never becomes a reading", func(t *testing.T) {
		res := Merge(quote, -0.5, nil)
		if !res.Skipped() || res.Skip != SkipNAVNotPositive {
			t.Errorf("Merge() = %+v, want skip %s", res, SkipNAVNotPositive)
		}
	})
}
