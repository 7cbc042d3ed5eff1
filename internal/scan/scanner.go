package scan

import (
	"context"
	"sync"

	"github.com/wonny/etfscan/internal/external/eastmoney"
	"github.com/wonny/etfscan/pkg/logger"
)

// QuoteSource fetches the market quote leg for one code.
type QuoteSource interface {
	FetchQuote(ctx context.Context, code string) (*eastmoney.Quote, error)
}

// NAVSource fetches the estimated NAV leg for one code.
type NAVSource interface {
	FetchNAV(ctx context.Context, code string) (float64, error)
}

// ProgressFunc is called after each batch with cumulative progress.
type ProgressFunc func(done, total int)

// Summary aggregates a scan run. Per-code failure detail is dropped by
// design; only the reason counts survive.
type Summary struct {
	Total    int
	Readings int
	Skipped  map[SkipReason]int
}

// Scanner drives the two-source fetch over a code list in bounded
// batches. Codes within a batch are fetched concurrently, batches run
// strictly one after another, so peak outbound connections stay at
// 2×concurrency (both legs per code).
type Scanner struct {
	quotes      QuoteSource
	navs        NAVSource
	concurrency int
	logger      *logger.Logger
	progress    ProgressFunc
}

// NewScanner creates a Scanner with the given batch size.
func NewScanner(quotes QuoteSource, navs NAVSource, concurrency int, log *logger.Logger) *Scanner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scanner{
		quotes:      quotes,
		navs:        navs,
		concurrency: concurrency,
		logger:      log.WithField("module", "scanner"),
	}
}

// WithProgress sets the per-batch progress callback.
func (s *Scanner) WithProgress(fn ProgressFunc) *Scanner {
	s.progress = fn
	return s
}

// Scan fetches every code and returns the validated readings in input
// order, skipped codes silently elided. It never returns an error: all
// per-code failures degrade into the summary's skip counts.
func (s *Scanner) Scan(ctx context.Context, codeList []string) ([]Reading, Summary) {
	summary := Summary{
		Total:   len(codeList),
		Skipped: make(map[SkipReason]int),
	}
	readings := make([]Reading, 0, len(codeList))

	for start := 0; start < len(codeList); start += s.concurrency {
		end := start + s.concurrency
		if end > len(codeList) {
			end = len(codeList)
		}
		batch := codeList[start:end]

		// Indexed slice keeps input order regardless of completion order.
		results := make([]Result, len(batch))
		var wg sync.WaitGroup
		for i, code := range batch {
			wg.Add(1)
			go func(i int, code string) {
				defer wg.Done()
				results[i] = s.fetchOne(ctx, code)
			}(i, code)
		}
		wg.Wait()

		for _, res := range results {
			if res.Skipped() {
				summary.Skipped[res.Skip]++
				continue
			}
			readings = append(readings, *res.Reading)
		}

		if s.progress != nil {
			s.progress(end, summary.Total)
		}
		s.logger.WithFields(map[string]interface{}{
			"done":  end,
			"total": summary.Total,
		}).Debug("Batch completed")
	}

	summary.Readings = len(readings)

	s.logger.WithFields(map[string]interface{}{
		"total":    summary.Total,
		"readings": summary.Readings,
		"skipped":  summary.Total - summary.Readings,
	}).Info("Scan completed")

	return readings, summary
}

// fetchOne runs both legs for one code concurrently and merges them.
// The quote leg is mandatory, the NAV leg degrades inside Merge.
func (s *Scanner) fetchOne(ctx context.Context, code string) Result {
	type navResult struct {
		nav float64
		err error
	}
	navCh := make(chan navResult, 1)
	go func() {
		nav, err := s.navs.FetchNAV(ctx, code)
		navCh <- navResult{nav: nav, err: err}
	}()

	quote, err := s.quotes.FetchQuote(ctx, code)
	nr := <-navCh

	if err != nil {
		return Result{Code: code, Skip: SkipQuoteUnavailable}
	}

	return Merge(quote, nr.nav, nr.err)
}
