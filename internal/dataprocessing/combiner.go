package dataprocessing

import (
	"sort"

	"stockanalytica/pkg/contracts/domain"
)

// CombineFrames concatenates labeled frames and stable-sorts the union by
// (timestamp, stock_name). Combining an already combined dataset with
// nothing else returns the same row order.
func CombineFrames(frames ...[]domain.LabeledBar) []domain.LabeledBar {
	total := 0
	for _, frame := range frames {
		total += len(frame)
	}

	combined := make([]domain.LabeledBar, 0, total)
	for _, frame := range frames {
		combined = append(combined, frame...)
	}

	SortDataset(combined)
	return combined
}

// SortDataset stable-sorts rows by (timestamp, stock_name) in place
func SortDataset(rows []domain.LabeledBar) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.StockName < b.StockName
	})
}

// IsSorted reports whether rows are ordered by (timestamp, stock_name)
func IsSorted(rows []domain.LabeledBar) bool {
	return sort.SliceIsSorted(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.StockName < b.StockName
	})
}
