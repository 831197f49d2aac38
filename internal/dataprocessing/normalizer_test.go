package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockanalytica/pkg/contracts/domain"
)

func bar(minute int, close float64) domain.Bar {
	return domain.Bar{
		Timestamp: baseTime.Add(time.Duration(minute) * time.Minute),
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
		Volume:    100,
		StockName: "ABC",
	}
}

func TestNormalize_SortsStably(t *testing.T) {
	bars := []domain.Bar{bar(3, 1), bar(1, 2), bar(3, 3), bar(2, 4), bar(1, 5)}

	out := Normalize(bars)

	closes := make([]float64, len(out))
	for i, b := range out {
		closes[i] = b.Close
	}
	// Ties keep input order: minute 1 -> 2 then 5, minute 3 -> 1 then 3
	assert.Equal(t, []float64{2, 5, 4, 1, 3}, closes)

	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].Timestamp.Before(out[i-1].Timestamp))
	}

	// Input is untouched
	assert.Equal(t, 1.0, bars[0].Close)
}

func TestNormalize_FillsGaps(t *testing.T) {
	nan := math.NaN()
	bars := []domain.Bar{bar(0, nan), bar(1, nan), bar(2, 10), bar(3, nan), bar(4, 12), bar(5, nan)}
	bars[4].Volume = nan
	bars[0].Volume = nan

	out := Normalize(bars)

	closes := make([]float64, len(out))
	for i, b := range out {
		closes[i] = b.Close
	}
	// Head back-filled from the first valid value, interior and tail forward-filled
	assert.Equal(t, []float64{10, 10, 10, 10, 12, 12}, closes)
	assert.Equal(t, 100.0, out[0].Volume)
	assert.Equal(t, 100.0, out[4].Volume)
}

func TestForwardFillBeforeBackwardFill(t *testing.T) {
	nan := math.NaN()
	bars := []domain.Bar{bar(0, 1), bar(1, nan), bar(2, 3)}

	ForwardFill(bars)
	BackwardFill(bars)

	// Interior gap takes the previous value, not the next one
	assert.Equal(t, 1.0, bars[1].Close)
}

func TestNormalize_AllMissingColumnStaysMissing(t *testing.T) {
	nan := math.NaN()
	bars := []domain.Bar{bar(0, 1), bar(1, 2)}
	for i := range bars {
		bars[i].Volume = nan
	}

	out := Normalize(bars)
	require.Len(t, out, 2)
	assert.True(t, math.IsNaN(out[0].Volume))
	assert.True(t, math.IsNaN(out[1].Volume))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}
