package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"stockanalytica/internal/dataprocessing"
	"stockanalytica/internal/errors"
	"stockanalytica/pkg/contracts/domain"
)

// TrainingColumns are the dataset columns the trainer cannot work without
var TrainingColumns = append(append([]string{domain.ColumnTimestamp}, domain.FeatureColumns...), domain.ColumnTarget)

// LoadDataset reads a combined dataset, choosing the format by extension
// (.parquet, .json, anything else is CSV). Rows keep their file order.
//
// A missing training column is an InvalidDatasetError wrapping the
// MissingColumnError, so both sentinels match.
func LoadDataset(path string) ([]domain.LabeledBar, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return loadParquet(path)
	case ".json":
		return loadJSON(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.NewStorageError(fmt.Sprintf("failed to open dataset %s", path), err)
		}
		defer f.Close()
		return ReadDatasetCSV(f, path)
	}
}

func invalidDataset(message string, cause error) *errors.AppError {
	return errors.NewAppError(errors.ErrTypeInvalidDataset, message, cause)
}

func missingColumn(column, source string) *errors.AppError {
	return invalidDataset(fmt.Sprintf("dataset %s is missing column %q", source, column),
		errors.NewMissingColumnError(column, source))
}

// ReadDatasetCSV reads dataset rows from CSV. source names the input in errors.
func ReadDatasetCSV(r io.Reader, source string) ([]domain.LabeledBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, missingColumn(domain.ColumnTimestamp, source)
	}
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read header of %s", source), err)
	}

	index := dataprocessing.ColumnIndex(header)
	for _, column := range TrainingColumns {
		if _, ok := index[column]; !ok {
			return nil, missingColumn(column, source)
		}
	}
	stockIdx, hasStock := index[domain.ColumnStockName]

	var rows []domain.LabeledBar
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read %s", source), err)
		}
		line++

		cell := func(column string) string {
			i := index[column]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		row, err := parseDatasetRow(cell)
		if err != nil {
			return nil, invalidDataset(fmt.Sprintf("%s line %d: %v", source, line, err), err)
		}
		if hasStock && stockIdx < len(record) {
			row.StockName = record[stockIdx]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseDatasetRow(cell func(string) string) (domain.LabeledBar, error) {
	var row domain.LabeledBar

	ts, err := dataprocessing.ParseTimestamp(cell(domain.ColumnTimestamp))
	if err != nil {
		return row, fmt.Errorf("invalid timestamp %q", cell(domain.ColumnTimestamp))
	}
	row.Timestamp = ts

	fields := []struct {
		column string
		dst    *float64
	}{
		{domain.ColumnOpen, &row.Open},
		{domain.ColumnHigh, &row.High},
		{domain.ColumnLow, &row.Low},
		{domain.ColumnClose, &row.Close},
		{domain.ColumnVolume, &row.Volume},
		{domain.ColumnRollingAvg10, &row.RollingAvg10},
		{domain.ColumnVolumeSum10, &row.VolumeSum10},
	}
	for _, f := range fields {
		v, err := parseNumber(cell(f.column))
		if err != nil {
			return row, fmt.Errorf("invalid %s: %w", f.column, err)
		}
		*f.dst = v
	}

	target, err := parseTarget(cell(domain.ColumnTarget))
	if err != nil {
		return row, err
	}
	row.Target = target

	return row, nil
}

// parseNumber parses a numeric cell; an empty cell is a missing value
func parseNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(value, 64)
}

// parseTarget accepts integral class labels, including "1.0"
func parseTarget(value string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid target %q", value)
	}
	return int(f), nil
}

func loadParquet(path string) ([]domain.LabeledBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open dataset %s", path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to stat dataset %s", path), err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, invalidDataset(fmt.Sprintf("%s is not a parquet file", path), err)
	}
	schema := pf.Schema()
	for _, column := range TrainingColumns {
		if _, ok := schema.Lookup(column); !ok {
			return nil, missingColumn(column, path)
		}
	}

	records, err := parquet.ReadFile[parquetRecord](path)
	if err != nil {
		return nil, invalidDataset(fmt.Sprintf("failed to read parquet dataset %s", path), err)
	}

	rows := make([]domain.LabeledBar, len(records))
	for i, rec := range records {
		ts, err := dataprocessing.ParseTimestamp(rec.Timestamp)
		if err != nil {
			return nil, invalidDataset(fmt.Sprintf("%s row %d: invalid timestamp %q", path, i, rec.Timestamp), err)
		}
		rows[i] = domain.LabeledBar{
			Timestamp:    ts,
			Open:         rec.Open,
			High:         rec.High,
			Low:          rec.Low,
			Close:        rec.Close,
			Volume:       rec.Volume,
			StockName:    rec.StockName,
			RollingAvg10: rec.RollingAvg10,
			VolumeSum10:  rec.VolumeSum10,
			Target:       int(rec.Target),
		}
	}
	return rows, nil
}

func loadJSON(path string) ([]domain.LabeledBar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to read dataset %s", path), err)
	}

	var records []jsonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, invalidDataset(fmt.Sprintf("failed to decode json dataset %s", path), err)
	}

	rows := make([]domain.LabeledBar, len(records))
	for i, rec := range records {
		if rec.Timestamp == nil {
			return nil, missingColumn(domain.ColumnTimestamp, path)
		}
		if rec.Target == nil {
			return nil, missingColumn(domain.ColumnTarget, path)
		}
		ts, err := dataprocessing.ParseTimestamp(*rec.Timestamp)
		if err != nil {
			return nil, invalidDataset(fmt.Sprintf("%s row %d: invalid timestamp %q", path, i, *rec.Timestamp), err)
		}
		rows[i] = domain.LabeledBar{
			Timestamp:    ts,
			Open:         fromNullable(rec.Open),
			High:         fromNullable(rec.High),
			Low:          fromNullable(rec.Low),
			Close:        fromNullable(rec.Close),
			Volume:       fromNullable(rec.Volume),
			StockName:    rec.StockName,
			RollingAvg10: fromNullable(rec.RollingAvg10),
			VolumeSum10:  fromNullable(rec.VolumeSum10),
			Target:       *rec.Target,
		}
	}
	return rows, nil
}
