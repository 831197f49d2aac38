package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"stockanalytica/internal/errors"
	"stockanalytica/pkg/contracts/domain"
)

// zonedLayouts carry an explicit offset and are tried first
var zonedLayouts = []string{
	domain.TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02 15:04:05Z07",
}

// naiveLayouts have no offset; they parse into domain.NaiveLocation
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	domain.NaiveTimestampLayout,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseStats counts what happened to the rows of one file
type ParseStats struct {
	RowsRead         int
	DroppedTimestamp int
	// FirstDropped is the TimestampParseError of the first dropped row
	FirstDropped error
}

// AllDropped reports whether every row read was dropped for its timestamp
func (s ParseStats) AllDropped() bool {
	return s.RowsRead > 0 && s.DroppedTimestamp == s.RowsRead
}

// ParseTimestamp parses a timestamp cell in any of the supported layouts.
// Offsets may be written as Z, +05:30, +0530 or +05. Fractional seconds
// are accepted after the seconds field. Values without an offset come back
// in domain.NaiveLocation so they are written back without one.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	var lastErr error
	for _, layout := range zonedLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	for _, layout := range naiveLayouts {
		t, err := time.ParseInLocation(layout, value, domain.NaiveLocation)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseFloat parses a numeric cell. Empty or malformed cells are missing
// values and come back as NaN.
func ParseFloat(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ParseBarsCSV reads one per-stock CSV file. Rows come back in file order.
func ParseBarsCSV(path, stockName string) ([]domain.Bar, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, errors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	return ReadBars(f, path, stockName)
}

// ReadBars reads bar rows from r. source names the input in errors.
//
// The timestamp column is checked first so a file without it reports that
// column. Extra columns are ignored. Rows whose timestamp cannot be parsed
// are dropped and counted in the returned stats.
func ReadBars(r io.Reader, source, stockName string) ([]domain.Bar, ParseStats, error) {
	var stats ParseStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, stats, errors.NewMissingColumnError(domain.ColumnTimestamp, source)
	}
	if err != nil {
		return nil, stats, errors.NewParsingError(fmt.Sprintf("failed to read header of %s", source), err)
	}

	index := ColumnIndex(header)
	if err := RequireColumns(index, domain.RawColumns, source); err != nil {
		return nil, stats, err
	}

	cell := func(record []string, column string) string {
		i := index[column]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var bars []domain.Bar
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, errors.NewParsingError(fmt.Sprintf("failed to read %s", source), err)
		}
		stats.RowsRead++

		raw := cell(record, domain.ColumnTimestamp)
		ts, err := ParseTimestamp(raw)
		if err != nil {
			if stats.FirstDropped == nil {
				stats.FirstDropped = errors.NewTimestampParseError(raw, stats.RowsRead, err)
			}
			stats.DroppedTimestamp++
			continue
		}

		bars = append(bars, domain.Bar{
			Timestamp: ts,
			Open:      ParseFloat(cell(record, domain.ColumnOpen)),
			High:      ParseFloat(cell(record, domain.ColumnHigh)),
			Low:       ParseFloat(cell(record, domain.ColumnLow)),
			Close:     ParseFloat(cell(record, domain.ColumnClose)),
			Volume:    ParseFloat(cell(record, domain.ColumnVolume)),
			StockName: stockName,
		})
	}

	return bars, stats, nil
}
