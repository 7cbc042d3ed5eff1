package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/etfscan/internal/ledger"
	"github.com/wonny/etfscan/internal/scan"
	"github.com/wonny/etfscan/pkg/config"
	"github.com/wonny/etfscan/pkg/logger"
)

var testTime = time.Date(2026, 8, 28, 14, 30, 0, 0, time.Local)

func testGenerator(t *testing.T) (*Generator, config.PathsConfig) {
	t.Helper()
	paths := config.PathsConfig{
		DataDir:      t.TempDir(),
		SnapshotFile: "all_valid_data.csv",
		AlertFile:    "high_premium_alert.csv",
		ProfitFile:   "profit_tracker.csv",
	}
	return NewGenerator(paths, logger.NewWriter(io.Discard)), paths
}

// readCSV strips the BOM (after checking it is present) and parses rows.
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	require.True(t, strings.HasPrefix(content, "\uFEFF"), "file must start with a UTF-8 BOM")

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(content, "\uFEFF"))).ReadAll()
	require.NoError(t, err)
	return rows
}

func reading(code string, price, nav, volume float64) scan.Reading {
	return scan.Reading{
		Code:       code,
		Name:       "fund " + code,
		Price:      price,
		NAV:        nav,
		Volume:     volume,
		PremiumPct: scan.Premium(price, nav),
	}
}

func TestWriteSnapshot(t *testing.T) {
	gen, paths := testGenerator(t)

	readings := []scan.Reading{
		reading("510300", 4.123, 4.2000, 3215),
		reading("159915", 2.000, 1.9500, 5000),
	}
	require.NoError(t, gen.WriteSnapshot(readings, testTime))

	rows := readCSV(t, filepath.Join(paths.DataDir, paths.SnapshotFile))
	require.Len(t, rows, 3)
	assert.Equal(t,
		[]string{"code", "name", "price", "nav", "premium_pct", "change_pct", "volume_wan", "updated_at"},
		rows[0])

	// Input order preserved
	assert.Equal(t, "510300", rows[1][0])
	assert.Equal(t, "159915", rows[2][0])

	// Fixed-width rendering
	assert.Equal(t, "4.123", rows[1][2])
	assert.Equal(t, "4.2000", rows[1][3])
	assert.Equal(t, "2026-08-28 14:30:00", rows[1][7])
}

func TestWriteAlertsSortedByDiscountDepth(t *testing.T) {
	gen, paths := testGenerator(t)
	rule := scan.Rule{Threshold: -1.3, MinVolume: 2000}

	readings := []scan.Reading{
		reading("510300", 0.985, 1.000, 3000), // -1.50
		reading("159915", 0.960, 1.000, 3000), // -4.00
		reading("512880", 0.970, 1.000, 3000), // -3.00
		reading("510500", 1.020, 1.000, 3000), // premium, excluded
		reading("588000", 0.950, 1.000, 100),  // illiquid, excluded
	}

	count, err := gen.WriteAlerts(readings, rule, testTime)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	rows := readCSV(t, filepath.Join(paths.DataDir, paths.AlertFile))
	require.Len(t, rows, 4)

	// Deepest discount first, strictly non-decreasing premium after that.
	assert.Equal(t, "159915", rows[1][0])
	assert.Equal(t, "512880", rows[2][0])
	assert.Equal(t, "510300", rows[3][0])

	prev := -1e9
	for _, row := range rows[1:] {
		premium, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, premium, prev)
		prev = premium
	}

	// Excluded codes never appear.
	for _, row := range rows[1:] {
		assert.NotEqual(t, "510500", row[0])
		assert.NotEqual(t, "588000", row[0])
	}
}

func TestWriteAlertsEmpty(t *testing.T) {
	gen, paths := testGenerator(t)

	count, err := gen.WriteAlerts([]scan.Reading{reading("510300", 1.02, 1.00, 3000)},
		scan.Rule{Threshold: -1.3}, testTime)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	rows := readCSV(t, filepath.Join(paths.DataDir, paths.AlertFile))
	assert.Len(t, rows, 1, "header only")
}

func TestWriteProfits(t *testing.T) {
	gen, paths := testGenerator(t)

	led := ledger.Ledger{
		"510300": {Name: "沪深300ETF", BuyPrice: 4.000, BuyDate: "2026-08-01", Status: ledger.StatusDiscountBuy},
		"159915": {Name: "创业板ETF", BuyPrice: 2.000, BuyDate: "2026-08-10", Status: ledger.StatusDiscountBuy},
		"512880": {Name: "证券ETF", BuyPrice: 1.000, BuyDate: "2026-08-15", Status: ledger.StatusDiscountBuy},
	}
	// 512880 has no reading this run: tracked but not fetchable.
	readings := []scan.Reading{
		reading("510300", 4.200, 4.300, 3000),
		reading("159915", 1.900, 1.950, 3000),
	}

	count, err := gen.WriteProfits(readings, led, testTime)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rows := readCSV(t, filepath.Join(paths.DataDir, paths.ProfitFile))
	require.Len(t, rows, 3)
	assert.Equal(t,
		[]string{"code", "name", "buy_date", "buy_price", "price", "profit_pct", "premium_pct", "updated_at"},
		rows[0])

	// Rows come out in code order.
	assert.Equal(t, "159915", rows[1][0])
	assert.Equal(t, "-5.00", rows[1][5]) // (1.9-2.0)/2.0
	assert.Equal(t, "510300", rows[2][0])
	assert.Equal(t, "5.00", rows[2][5]) // (4.2-4.0)/4.0
	assert.Equal(t, "2026-08-01", rows[2][2])
}

func TestReportsOverwritePreviousRun(t *testing.T) {
	gen, paths := testGenerator(t)

	require.NoError(t, gen.WriteSnapshot([]scan.Reading{
		reading("510300", 4.123, 4.200, 3215),
		reading("159915", 2.000, 1.950, 5000),
	}, testTime))
	require.NoError(t, gen.WriteSnapshot([]scan.Reading{
		reading("510300", 4.150, 4.200, 3300),
	}, testTime))

	rows := readCSV(t, filepath.Join(paths.DataDir, paths.SnapshotFile))
	assert.Len(t, rows, 2, "second run must fully replace the first")
}
