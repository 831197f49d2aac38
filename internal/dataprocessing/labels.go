package dataprocessing

import (
	"math"

	"stockanalytica/pkg/contracts/domain"
)

// GenerateLabels compares each close with the close horizon rows later in
// the same single-stock series. target is 1 when the later close is strictly
// higher. The last horizon rows have no future close and are dropped, as are
// rows whose features or closes are missing. The future close itself is not
// part of the output.
func GenerateLabels(rows []domain.FeatureBar, horizon int) []domain.LabeledBar {
	if horizon < 1 || len(rows) <= horizon {
		return nil
	}

	out := make([]domain.LabeledBar, 0, len(rows)-horizon)
	for i := 0; i+horizon < len(rows); i++ {
		row := rows[i]
		future := rows[i+horizon].Close

		if math.IsNaN(row.RollingAvg10) || math.IsNaN(row.VolumeSum10) ||
			math.IsNaN(row.Close) || math.IsNaN(future) {
			continue
		}

		target := 0
		if future > row.Close {
			target = 1
		}

		out = append(out, domain.LabeledBar{
			Timestamp:    row.Timestamp,
			Open:         row.Open,
			High:         row.High,
			Low:          row.Low,
			Close:        row.Close,
			Volume:       row.Volume,
			StockName:    row.StockName,
			RollingAvg10: row.RollingAvg10,
			VolumeSum10:  row.VolumeSum10,
			Target:       target,
		})
	}

	return out
}
