package dataprocessing

import (
	"math"
	"time"
)

type windowEntry struct {
	ts     time.Time
	close  float64
	volume float64
}

// kahan is a compensated running sum that supports removal
type kahan struct {
	sum, c float64
}

func (k *kahan) add(x float64) {
	y := x - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

func (k *kahan) reset() {
	k.sum, k.c = 0, 0
}

// RollingWindow is a trailing time window over (t-span, t] fed with bars in
// non-decreasing timestamp order. It keeps the entries as a deque and
// maintains running close and volume sums, so each Push is amortized O(1)
// regardless of how irregular the spacing is.
//
// Missing (NaN) values stay in the deque but are skipped by the aggregates.
type RollingWindow struct {
	span    time.Duration
	entries []windowEntry
	head    int

	closeSum    kahan
	closeCount  int
	volumeSum   kahan
	volumeCount int
}

// NewRollingWindow creates a window covering the given span
func NewRollingWindow(span time.Duration) *RollingWindow {
	return &RollingWindow{span: span}
}

// Push adds an observation at ts and evicts every entry at or before ts-span
func (w *RollingWindow) Push(ts time.Time, close, volume float64) {
	w.entries = append(w.entries, windowEntry{ts: ts, close: close, volume: volume})
	if !math.IsNaN(close) {
		w.closeSum.add(close)
		w.closeCount++
	}
	if !math.IsNaN(volume) {
		w.volumeSum.add(volume)
		w.volumeCount++
	}

	cutoff := ts.Add(-w.span)
	for w.head < len(w.entries) && !w.entries[w.head].ts.After(cutoff) {
		w.evict(w.entries[w.head])
		w.head++
	}

	// Reclaim the evicted prefix once it dominates the backing array
	if w.head > 64 && w.head*2 > len(w.entries) {
		n := copy(w.entries, w.entries[w.head:])
		w.entries = w.entries[:n]
		w.head = 0
	}
}

func (w *RollingWindow) evict(e windowEntry) {
	if !math.IsNaN(e.close) {
		w.closeCount--
		if w.closeCount == 0 {
			w.closeSum.reset()
		} else {
			w.closeSum.add(-e.close)
		}
	}
	if !math.IsNaN(e.volume) {
		w.volumeCount--
		if w.volumeCount == 0 {
			w.volumeSum.reset()
		} else {
			w.volumeSum.add(-e.volume)
		}
	}
}

// Len returns the number of observations currently in the window
func (w *RollingWindow) Len() int {
	return len(w.entries) - w.head
}

// CloseMean returns the mean close in the window, NaN with no valid close
func (w *RollingWindow) CloseMean() float64 {
	if w.closeCount == 0 {
		return math.NaN()
	}
	return w.closeSum.sum / float64(w.closeCount)
}

// VolumeSum returns the total volume in the window, NaN with no valid volume
func (w *RollingWindow) VolumeSum() float64 {
	if w.volumeCount == 0 {
		return math.NaN()
	}
	return w.volumeSum.sum
}
