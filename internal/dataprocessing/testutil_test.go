package dataprocessing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSuffix = "__EQ__NSE__NSE__MINUTE.csv"

var baseTime = time.Date(2024, 3, 1, 9, 15, 0, 0, time.FixedZone("", 5*3600+30*60))

// writeCSV writes lines joined by newlines to dir/name and returns the path
func writeCSV(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

// risingBars builds n one-minute bars starting at start with closes
// startClose, startClose+1, ... and a constant volume
func risingBars(start time.Time, n int, startClose, volume float64) []string {
	return risingBarsLayout(start, n, startClose, volume, "2006-01-02 15:04:05-07:00")
}

// risingBarsLayout is risingBars with the timestamps written in layout
func risingBarsLayout(start time.Time, n int, startClose, volume float64, layout string) []string {
	lines := []string{"timestamp,open,high,low,close,volume"}
	for i := 0; i < n; i++ {
		c := startClose + float64(i)
		lines = append(lines, fmt.Sprintf("%s,%g,%g,%g,%g,%g",
			start.Add(time.Duration(i)*time.Minute).Format(layout),
			c, c+0.5, c-0.5, c, volume))
	}
	return lines
}

// writeStock writes a stock file named with the standard suffix
func writeStock(t *testing.T, dir, stock string, lines []string) string {
	t.Helper()
	return writeCSV(t, dir, stock+testSuffix, lines...)
}
