package dataprocessing

import (
	"time"

	"stockanalytica/pkg/contracts/domain"
)

// ComputeFeatures adds rolling_avg_10 and volume_sum_10 to a normalized,
// single-stock series. Each value covers the bars with timestamps in
// (t-window, t]; the current bar always counts, so there is no warm-up.
func ComputeFeatures(bars []domain.Bar, window time.Duration) []domain.FeatureBar {
	out := make([]domain.FeatureBar, len(bars))
	w := NewRollingWindow(window)

	for i, bar := range bars {
		w.Push(bar.Timestamp, bar.Close, bar.Volume)
		out[i] = domain.FeatureBar{
			Bar:          bar,
			RollingAvg10: w.CloseMean(),
			VolumeSum10:  w.VolumeSum(),
		}
	}

	return out
}
