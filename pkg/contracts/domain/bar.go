package domain

import (
	"time"
)

// Column names of the raw per-stock bar files and of the combined dataset.
const (
	ColumnTimestamp    = "timestamp"
	ColumnOpen         = "open"
	ColumnHigh         = "high"
	ColumnLow          = "low"
	ColumnClose        = "close"
	ColumnVolume       = "volume"
	ColumnStockName    = "stock_name"
	ColumnRollingAvg10 = "rolling_avg_10"
	ColumnVolumeSum10  = "volume_sum_10"
	ColumnTarget       = "target"
)

// TimestampLayout is the layout used when writing timestamps to the dataset.
// The fraction is omitted when zero.
const TimestampLayout = "2006-01-02 15:04:05.999999999-07:00"

// NaiveTimestampLayout is used for timestamps read without an offset
const NaiveTimestampLayout = "2006-01-02 15:04:05.999999999"

// NaiveLocation marks timestamps that carried no offset in the input.
// They compare as UTC instants and are written back without an offset.
var NaiveLocation = time.FixedZone("", 0)

// RawColumns are the columns every per-stock input file must carry
var RawColumns = []string{ColumnTimestamp, ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

// DatasetColumns is the column order of the combined dataset
var DatasetColumns = []string{
	ColumnTimestamp, ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume,
	ColumnStockName, ColumnRollingAvg10, ColumnVolumeSum10, ColumnTarget,
}

// FeatureColumns are the model inputs, in feature-vector order
var FeatureColumns = []string{
	ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume,
	ColumnRollingAvg10, ColumnVolumeSum10,
}

// Bar is one OHLCV observation for a stock. Missing values are NaN.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	StockName string    `json:"stock_name"`
}

// FeatureBar is a normalized bar extended with its trailing-window features
type FeatureBar struct {
	Bar
	RollingAvg10 float64 `json:"rolling_avg_10"`
	VolumeSum10  float64 `json:"volume_sum_10"`
}

// LabeledBar is a row of the combined dataset
type LabeledBar struct {
	Timestamp    time.Time `json:"timestamp"`
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	Close        float64   `json:"close"`
	Volume       float64   `json:"volume"`
	StockName    string    `json:"stock_name"`
	RollingAvg10 float64   `json:"rolling_avg_10"`
	VolumeSum10  float64   `json:"volume_sum_10"`
	Target       int       `json:"target"`
}

// Features returns the model feature vector in FeatureColumns order
func (b LabeledBar) Features() []float64 {
	return []float64{b.Open, b.High, b.Low, b.Close, b.Volume, b.RollingAvg10, b.VolumeSum10}
}
