package domain

import (
	"time"
)

// DatasetSummary describes a combined labeled dataset
type DatasetSummary struct {
	Rows         int            `json:"rows"`
	Columns      int            `json:"columns"`
	Stocks       int            `json:"stocks"`
	TimeMin      time.Time      `json:"time_min"`
	TimeMax      time.Time      `json:"time_max"`
	RowsPerStock map[string]int `json:"rows_per_stock"`
	PositiveRate float64        `json:"positive_rate"`
}

// ClassMetrics holds precision, recall and F1 for a single class
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassificationReport is the per-class breakdown of a classifier evaluation
type ClassificationReport struct {
	Classes     []ClassMetrics `json:"classes"`
	Accuracy    float64        `json:"accuracy"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	Support     int            `json:"support"`
}

// Evaluation is the result of a training run
type Evaluation struct {
	RunID      string               `json:"run_id"`
	TrainRows  int                  `json:"train_rows"`
	TestRows   int                  `json:"test_rows"`
	TrainStart time.Time            `json:"train_start"`
	TrainEnd   time.Time            `json:"train_end"`
	TestStart  time.Time            `json:"test_start"`
	TestEnd    time.Time            `json:"test_end"`
	Accuracy   float64              `json:"accuracy"`
	Report     ClassificationReport `json:"report"`
	ModelPath  string               `json:"model_path"`
	CreatedAt  time.Time            `json:"created_at"`
}
