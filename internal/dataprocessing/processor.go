package dataprocessing

import (
	"math"
)

// FillStats describes what FillGaps had to do
type FillStats struct {
	Interpolated  int
	Backfilled    int
	ForwardFilled int
	ZeroFilled    int
}

// Total is the number of samples that were missing
func (s FillStats) Total() int {
	return s.Interpolated + s.Backfilled + s.ForwardFilled + s.ZeroFilled
}

// IsMissing reports whether v marks a missing sample
func IsMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// FillGaps replaces missing (NaN) samples in place. Interior runs are linearly
// interpolated over the index axis between their known neighbours; a leading
// run takes the first known value and a trailing run the last known value.
// A series with no known value at all becomes all zeros.
func FillGaps(samples []float64) FillStats {
	var stats FillStats

	first := -1
	last := -1
	for i, v := range samples {
		if !IsMissing(v) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if first < 0 {
		for i := range samples {
			samples[i] = 0
		}
		stats.ZeroFilled = len(samples)
		return stats
	}

	for i := 0; i < first; i++ {
		samples[i] = samples[first]
		stats.Backfilled++
	}
	for i := last + 1; i < len(samples); i++ {
		samples[i] = samples[last]
		stats.ForwardFilled++
	}

	// Interior gaps between first and last
	prev := first
	for i := first + 1; i <= last; i++ {
		if IsMissing(samples[i]) {
			continue
		}
		if gap := i - prev; gap > 1 {
			left, right := samples[prev], samples[i]
			step := (right - left) / float64(gap)
			for k := prev + 1; k < i; k++ {
				samples[k] = left + step*float64(k-prev)
				stats.Interpolated++
			}
		}
		prev = i
	}

	return stats
}

// ReplaceAt sets samples at the given indices to v. Indices outside the
// series are ignored and counted.
func ReplaceAt(samples []float64, indices []int, v float64) (outOfRange int) {
	for _, idx := range indices {
		if idx < 0 || idx >= len(samples) {
			outOfRange++
			continue
		}
		samples[idx] = v
	}
	return outOfRange
}
