package dataprocessing

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFeatures_RisingMinuteBars(t *testing.T) {
	lines := risingBars(baseTime, 20, 100, 100)
	bars, _, err := ReadBars(strings.NewReader(strings.Join(lines, "\n")), "ABC.csv", "ABC")
	require.NoError(t, err)

	rows := ComputeFeatures(Normalize(bars), 10*time.Minute)
	require.Len(t, rows, 20)

	// Warm-up rows use every bar seen so far
	assert.Equal(t, 100.0, rows[0].VolumeSum10)
	assert.Equal(t, 100.0, rows[0].RollingAvg10)
	assert.Equal(t, 500.0, rows[4].VolumeSum10)
	assert.Equal(t, 102.0, rows[4].RollingAvg10)

	// Row 15 covers minutes 6..15
	assert.Equal(t, 1000.0, rows[15].VolumeSum10)
	assert.Equal(t, 110.5, rows[15].RollingAvg10)

	for i := 9; i < 20; i++ {
		assert.Equal(t, 1000.0, rows[i].VolumeSum10, "row %d", i)
	}
}

func TestComputeFeatures_IrregularSpacing(t *testing.T) {
	offsets := []time.Duration{0, time.Minute, 2 * time.Minute, 11 * time.Minute, 11 * time.Minute, 30 * time.Minute}
	closes := []float64{1, 2, 3, 4, 5, 6}

	input := make([]string, 0, len(offsets)+1)
	input = append(input, "timestamp,open,high,low,close,volume")
	for i, off := range offsets {
		input = append(input, fmt.Sprintf("%s,1,1,1,%g,10",
			baseTime.Add(off).Format("2006-01-02 15:04:05-07:00"), closes[i]))
	}
	parsed, _, err := ReadBars(strings.NewReader(strings.Join(input, "\n")), "ABC.csv", "ABC")
	require.NoError(t, err)

	rows := ComputeFeatures(Normalize(parsed), 10*time.Minute)
	require.Len(t, rows, 6)

	// Minute 11 window (1m, 11m] holds minutes 2 and 11, then the duplicate 11
	assert.Equal(t, 3.5, rows[3].RollingAvg10)
	assert.Equal(t, 20.0, rows[3].VolumeSum10)
	assert.Equal(t, 4.0, rows[4].RollingAvg10)
	assert.Equal(t, 30.0, rows[4].VolumeSum10)

	// After a 19 minute gap only the current bar remains
	assert.Equal(t, 6.0, rows[5].RollingAvg10)
	assert.Equal(t, 10.0, rows[5].VolumeSum10)
}
