package dataprocessing

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Finite returns the finite values of x in order
func Finite(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// MeanStd returns the mean and sample standard deviation (n-1) of the finite
// values of x. With no finite value both are 0; with one, std is 0.
func MeanStd(x []float64) (mean, std float64) {
	vals := Finite(x)
	switch len(vals) {
	case 0:
		return 0, 0
	case 1:
		return vals[0], 0
	}
	mean, std = stat.MeanStdDev(vals, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// MeanMax returns the mean and maximum of x, or 0, 0 when x is empty
func MeanMax(x []float64) (mean, max float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return stat.Mean(x, nil), floats.Max(x)
}

// Abs returns |x| elementwise in a new slice; NaN stays NaN
func Abs(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Abs(v)
	}
	return out
}
