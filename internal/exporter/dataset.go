package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"stockanalytica/internal/config"
	"stockanalytica/internal/errors"
	"stockanalytica/pkg/contracts/domain"
)

// DatasetSaver persists the combined labeled dataset in one file format
type DatasetSaver interface {
	Save(rows []domain.LabeledBar, path string) error
	Extension() string
}

// NewDatasetSaver returns the saver for format (csv, parquet, json), or nil
// when the format is not supported.
func NewDatasetSaver(format string) DatasetSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVDatasetSaver{}
	case "parquet":
		return ParquetDatasetSaver{}
	case "json":
		return JSONDatasetSaver{}
	default:
		return nil
	}
}

// CSVDatasetSaver writes the dataset as CSV with a header row
type CSVDatasetSaver struct{}

func (CSVDatasetSaver) Extension() string { return "csv" }

func (CSVDatasetSaver) Save(rows []domain.LabeledBar, path string) error {
	stream, err := NewCSVWriter("").CreateStreamWriter(path, domain.DatasetColumns)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create dataset %s", path), err)
	}

	for i, row := range rows {
		if err := stream.WriteRecord(rowToRecord(row)); err != nil {
			stream.Close()
			return errors.NewStorageError(fmt.Sprintf("failed to write dataset row %d", i), err)
		}
	}

	if err := stream.Close(); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to flush dataset %s", path), err)
	}
	return nil
}

// parquetRecord is the parquet row layout. The timestamp is kept as text in
// the dataset layout so the UTC offset survives a round trip.
type parquetRecord struct {
	Timestamp    string  `parquet:"timestamp"`
	Open         float64 `parquet:"open"`
	High         float64 `parquet:"high"`
	Low          float64 `parquet:"low"`
	Close        float64 `parquet:"close"`
	Volume       float64 `parquet:"volume"`
	StockName    string  `parquet:"stock_name"`
	RollingAvg10 float64 `parquet:"rolling_avg_10"`
	VolumeSum10  float64 `parquet:"volume_sum_10"`
	Target       int64   `parquet:"target"`
}

// ParquetDatasetSaver writes the dataset as a parquet file
type ParquetDatasetSaver struct{}

func (ParquetDatasetSaver) Extension() string { return "parquet" }

func (ParquetDatasetSaver) Save(rows []domain.LabeledBar, path string) error {
	if err := config.EnsureParentDir(path); err != nil {
		return errors.NewStorageError("failed to create dataset directory", err)
	}

	records := make([]parquetRecord, len(rows))
	for i, row := range rows {
		records[i] = parquetRecord{
			Timestamp:    formatTimestamp(row.Timestamp),
			Open:         row.Open,
			High:         row.High,
			Low:          row.Low,
			Close:        row.Close,
			Volume:       row.Volume,
			StockName:    row.StockName,
			RollingAvg10: row.RollingAvg10,
			VolumeSum10:  row.VolumeSum10,
			Target:       int64(row.Target),
		}
	}

	if err := parquet.WriteFile(path, records); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write parquet dataset %s", path), err)
	}
	return nil
}

// jsonRecord is the JSON row layout; missing values are null
type jsonRecord struct {
	Timestamp    *string  `json:"timestamp"`
	Open         *float64 `json:"open"`
	High         *float64 `json:"high"`
	Low          *float64 `json:"low"`
	Close        *float64 `json:"close"`
	Volume       *float64 `json:"volume"`
	StockName    string   `json:"stock_name"`
	RollingAvg10 *float64 `json:"rolling_avg_10"`
	VolumeSum10  *float64 `json:"volume_sum_10"`
	Target       *int     `json:"target"`
}

// JSONDatasetSaver writes the dataset as an indented JSON array
type JSONDatasetSaver struct{}

func (JSONDatasetSaver) Extension() string { return "json" }

func (JSONDatasetSaver) Save(rows []domain.LabeledBar, path string) error {
	if err := config.EnsureParentDir(path); err != nil {
		return errors.NewStorageError("failed to create dataset directory", err)
	}

	records := make([]jsonRecord, len(rows))
	for i, row := range rows {
		ts := formatTimestamp(row.Timestamp)
		target := row.Target
		records[i] = jsonRecord{
			Timestamp:    &ts,
			Open:         nullableFloat(row.Open),
			High:         nullableFloat(row.High),
			Low:          nullableFloat(row.Low),
			Close:        nullableFloat(row.Close),
			Volume:       nullableFloat(row.Volume),
			StockName:    row.StockName,
			RollingAvg10: nullableFloat(row.RollingAvg10),
			VolumeSum10:  nullableFloat(row.VolumeSum10),
			Target:       &target,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create dataset %s", path), err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write json dataset %s", path), err)
	}
	return nil
}
