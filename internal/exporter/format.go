package exporter

import (
	"fmt"
	"strconv"
)

// formatSample formats a chunk sample with exactly 6 decimal places
func formatSample(f float64) string {
	return fmt.Sprintf("%.6f", f)
}

// formatStat formats a statistic with the shortest representation that
// round-trips exactly
func formatStat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
