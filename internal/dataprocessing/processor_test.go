package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillGaps(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name     string
		input    []float64
		expected []float64
		stats    FillStats
	}{
		{
			name:     "no gaps",
			input:    []float64{1, 2, 3},
			expected: []float64{1, 2, 3},
		},
		{
			name:     "interior run is interpolated",
			input:    []float64{0, nan, nan, 3},
			expected: []float64{0, 1, 2, 3},
			stats:    FillStats{Interpolated: 2},
		},
		{
			name:     "leading run is backfilled",
			input:    []float64{nan, nan, 5, 6},
			expected: []float64{5, 5, 5, 6},
			stats:    FillStats{Backfilled: 2},
		},
		{
			name:     "trailing run is forward filled",
			input:    []float64{1, 2, nan, nan},
			expected: []float64{1, 2, 2, 2},
			stats:    FillStats{ForwardFilled: 2},
		},
		{
			name:     "both ends and interior",
			input:    []float64{nan, 2, nan, 4, nan},
			expected: []float64{2, 2, 3, 4, 4},
			stats:    FillStats{Interpolated: 1, Backfilled: 1, ForwardFilled: 1},
		},
		{
			name:     "all missing becomes zero",
			input:    []float64{nan, nan},
			expected: []float64{0, 0},
			stats:    FillStats{ZeroFilled: 2},
		},
		{
			name:     "infinite values count as missing",
			input:    []float64{1, math.Inf(1), 3},
			expected: []float64{1, 2, 3},
			stats:    FillStats{Interpolated: 1},
		},
		{
			name:     "empty",
			input:    []float64{},
			expected: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := FillGaps(tt.input)
			assert.InDeltaSlice(t, tt.expected, tt.input, 1e-12)
			assert.Equal(t, tt.stats, stats)
			for i, v := range tt.input {
				assert.False(t, IsMissing(v), "sample %d still missing", i)
			}
		})
	}
}

func TestFillStats_Total(t *testing.T) {
	assert.Equal(t, 10, FillStats{Interpolated: 1, Backfilled: 2, ForwardFilled: 3, ZeroFilled: 4}.Total())
}

func TestReplaceAt(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	outOfRange := ReplaceAt(samples, []int{0, 2, 7, -1}, math.NaN())

	assert.Equal(t, 2, outOfRange)
	assert.True(t, math.IsNaN(samples[0]))
	assert.Equal(t, 2.0, samples[1])
	assert.True(t, math.IsNaN(samples[2]))
	assert.Equal(t, 4.0, samples[3])
}
