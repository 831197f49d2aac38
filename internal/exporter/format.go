package exporter

import (
	"math"
	"strconv"
	"time"

	"stockanalytica/pkg/contracts/domain"
)

// formatFloat formats a float64 with the shortest representation that
// parses back to the same value. Missing values are written as empty cells.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatTimestamp formats a timestamp in the dataset layout. Naive input
// timestamps stay naive.
func formatTimestamp(t time.Time) string {
	if t.Location() == domain.NaiveLocation {
		return t.Format(domain.NaiveTimestampLayout)
	}
	return t.Format(domain.TimestampLayout)
}

// rowToRecord converts a dataset row to CSV cells in domain.DatasetColumns order
func rowToRecord(row domain.LabeledBar) []string {
	return []string{
		formatTimestamp(row.Timestamp),
		formatFloat(row.Open),
		formatFloat(row.High),
		formatFloat(row.Low),
		formatFloat(row.Close),
		formatFloat(row.Volume),
		row.StockName,
		formatFloat(row.RollingAvg10),
		formatFloat(row.VolumeSum10),
		formatInt(row.Target),
	}
}

// nullableFloat maps NaN to nil for encoders without a NaN representation
func nullableFloat(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

func fromNullable(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
