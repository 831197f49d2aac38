package dataprocessing

import (
	"math"
	"sort"

	"stockanalytica/pkg/contracts/domain"
)

// barFields exposes the numeric fields of a bar for column-wise passes
var barFields = []func(*domain.Bar) *float64{
	func(b *domain.Bar) *float64 { return &b.Open },
	func(b *domain.Bar) *float64 { return &b.High },
	func(b *domain.Bar) *float64 { return &b.Low },
	func(b *domain.Bar) *float64 { return &b.Close },
	func(b *domain.Bar) *float64 { return &b.Volume },
}

// Normalize returns a copy of bars sorted by timestamp (ties keep their
// input order) with missing values forward-filled and then back-filled.
func Normalize(bars []domain.Bar) []domain.Bar {
	out := make([]domain.Bar, len(bars))
	copy(out, bars)

	SortBars(out)
	ForwardFill(out)
	BackwardFill(out)

	return out
}

// SortBars stable-sorts bars by timestamp in place
func SortBars(bars []domain.Bar) {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})
}

// ForwardFill replaces each missing value with the last valid value above it
func ForwardFill(bars []domain.Bar) {
	for _, field := range barFields {
		last := math.NaN()
		for i := range bars {
			v := field(&bars[i])
			if math.IsNaN(*v) {
				*v = last
			} else {
				last = *v
			}
		}
	}
}

// BackwardFill replaces each missing value with the next valid value below
// it. After ForwardFill this only touches the head of a column.
func BackwardFill(bars []domain.Bar) {
	for _, field := range barFields {
		next := math.NaN()
		for i := len(bars) - 1; i >= 0; i-- {
			v := field(&bars[i])
			if math.IsNaN(*v) {
				*v = next
			} else {
				next = *v
			}
		}
	}
}
