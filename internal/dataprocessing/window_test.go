package dataprocessing

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingWindow_EvictsAtBoundary(t *testing.T) {
	w := NewRollingWindow(10 * time.Minute)

	w.Push(baseTime, 1, 10)
	w.Push(baseTime.Add(5*time.Minute), 2, 20)
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, 1.5, w.CloseMean())
	assert.Equal(t, 30.0, w.VolumeSum())

	// Exactly ten minutes after the first entry: (t-10m, t] excludes it
	w.Push(baseTime.Add(10*time.Minute), 3, 30)
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, 2.5, w.CloseMean())
	assert.Equal(t, 50.0, w.VolumeSum())

	// A long gap empties everything but the new entry
	w.Push(baseTime.Add(2*time.Hour), 7, 70)
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, 7.0, w.CloseMean())
	assert.Equal(t, 70.0, w.VolumeSum())
}

func TestRollingWindow_DuplicateTimestamps(t *testing.T) {
	w := NewRollingWindow(10 * time.Minute)

	w.Push(baseTime, 1, 1)
	w.Push(baseTime, 3, 1)
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, 2.0, w.CloseMean())
	assert.Equal(t, 2.0, w.VolumeSum())
}

func TestRollingWindow_SkipsMissing(t *testing.T) {
	w := NewRollingWindow(10 * time.Minute)

	w.Push(baseTime, math.NaN(), math.NaN())
	assert.True(t, math.IsNaN(w.CloseMean()))
	assert.True(t, math.IsNaN(w.VolumeSum()))

	w.Push(baseTime.Add(time.Minute), 4, math.NaN())
	assert.Equal(t, 4.0, w.CloseMean())
	assert.True(t, math.IsNaN(w.VolumeSum()))
	assert.Equal(t, 2, w.Len())
}

// naiveWindow recomputes the aggregates by scanning every earlier entry
func naiveWindow(ts []time.Time, closes, volumes []float64, i int, span time.Duration) (float64, float64) {
	var sum, vol float64
	var n int
	cutoff := ts[i].Add(-span)
	for j := 0; j <= i; j++ {
		if ts[j].After(cutoff) {
			sum += closes[j]
			vol += volumes[j]
			n++
		}
	}
	return sum / float64(n), vol
}

func TestRollingWindow_MatchesNaiveScanOnIrregularSpacing(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	span := 10 * time.Minute

	n := 2000
	ts := make([]time.Time, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)

	current := baseTime
	for i := 0; i < n; i++ {
		// Gaps from 0 (duplicate) to 15 minutes, in whole seconds
		current = current.Add(time.Duration(rng.Intn(15*60)) * time.Second)
		if rng.Intn(20) == 0 {
			current = current.Add(3 * time.Hour)
		}
		ts[i] = current
		closes[i] = 100 + rng.Float64()*50
		volumes[i] = float64(rng.Intn(10000))
	}

	w := NewRollingWindow(span)
	for i := 0; i < n; i++ {
		w.Push(ts[i], closes[i], volumes[i])
		wantMean, wantVol := naiveWindow(ts, closes, volumes, i, span)
		require.InDelta(t, wantMean, w.CloseMean(), 1e-9, "mean at %d", i)
		require.InDelta(t, wantVol, w.VolumeSum(), 1e-6, "volume at %d", i)
	}
}
