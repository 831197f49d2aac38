package dataprocessing

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/stat"

	"stockanalytica/internal/config"
	"stockanalytica/internal/errors"
	"stockanalytica/pkg/contracts/domain"
)

// Summarize describes a labeled dataset: its shape, covered time range, rows
// per stock and the share of positive targets.
func Summarize(rows []domain.LabeledBar) domain.DatasetSummary {
	summary := domain.DatasetSummary{
		Rows:         len(rows),
		Columns:      len(domain.DatasetColumns),
		RowsPerStock: make(map[string]int),
	}
	if len(rows) == 0 {
		return summary
	}

	targets := make([]float64, len(rows))
	summary.TimeMin = rows[0].Timestamp
	summary.TimeMax = rows[0].Timestamp

	for i, row := range rows {
		summary.RowsPerStock[row.StockName]++
		targets[i] = float64(row.Target)
		if row.Timestamp.Before(summary.TimeMin) {
			summary.TimeMin = row.Timestamp
		}
		if row.Timestamp.After(summary.TimeMax) {
			summary.TimeMax = row.Timestamp
		}
	}

	summary.Stocks = len(summary.RowsPerStock)
	summary.PositiveRate = stat.Mean(targets, nil)
	return summary
}

// WriteSummary writes a dataset summary as indented JSON
func WriteSummary(summary domain.DatasetSummary, path string) error {
	if err := config.EnsureParentDir(path); err != nil {
		return errors.NewStorageError("failed to create summary directory", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write summary %s", path), err)
	}
	return nil
}
