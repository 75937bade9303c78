// Package cleaning removes cross-channel artifacts from a raw chunk.
//
// An artifact is a timepoint where the sum over all channels is far outside
// its usual range. Those timepoints are removed from every live channel and
// the gaps are bridged by linear interpolation. Dead channels take part in the
// sum as zeros and are dropped from the output.
package cleaning

import (
	"context"
	"log/slog"
	"math"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	"github.com/Sania-2000/sma-artifact-removal/internal/dataprocessing"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Cleaner masks artifact timepoints and interpolates over them
type Cleaner struct {
	dead   map[string]bool
	zScore float64
	logger *slog.Logger
}

// Result is the outcome of cleaning one chunk
type Result struct {
	Chunk *domain.Chunk
	// Mask is true at every artifact timepoint
	Mask          []bool
	Mean          float64
	Std           float64
	Threshold     float64
	ArtifactCount int
	// DeadPresent lists the dead channels that were found in the input, in input order
	DeadPresent []string
	Fill        map[string]dataprocessing.FillStats
}

// New creates a Cleaner from the pipeline thresholds
func New(cfg config.PipelineConfig, logger *slog.Logger) *Cleaner {
	dead := make(map[string]bool, len(cfg.DeadChannels))
	for _, label := range cfg.DeadChannels {
		dead[label] = true
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		dead:   dead,
		zScore: cfg.ArtifactZScore,
		logger: logger.With("component", "cleaning"),
	}
}

// IsDead reports whether label is a known faulty channel
func (c *Cleaner) IsDead(label string) bool {
	return c.dead[label]
}

// Clean returns a new chunk holding the timestamps and the live channels with
// artifact timepoints interpolated away. The input chunk is not modified.
func (c *Cleaner) Clean(ctx context.Context, chunk *domain.Chunk) (*Result, error) {
	if err := chunk.Validate(); err != nil {
		return nil, apperrors.NewAppValidationError(err.Error())
	}

	n := chunk.Len()
	labels := chunk.Channels()

	// Cross-channel sum; dead channels and missing samples contribute 0
	sum := make([]float64, n)
	var live, dead []string
	for _, label := range labels {
		if c.IsDead(label) {
			dead = append(dead, label)
			continue
		}
		live = append(live, label)
		samples, _ := chunk.Samples(label)
		for i, v := range samples {
			if !dataprocessing.IsMissing(v) {
				sum[i] += v
			}
		}
	}

	mean, std := dataprocessing.MeanStd(sum)
	threshold := mean + c.zScore*std
	if std == 0 && n > 0 {
		c.logger.DebugContext(ctx, "artifact threshold degenerates to the mean",
			slog.String("chunk", chunk.Name),
			slog.String("detail", apperrors.NewDegenerateError("zero variance in channel sum").Error()))
	}

	mask := make([]bool, n)
	artifacts := 0
	for i, v := range sum {
		if math.Abs(v) > threshold {
			mask[i] = true
			artifacts++
		}
	}

	ts := make([]float64, n)
	copy(ts, chunk.Timestamps)
	out := domain.NewChunk(chunk.Name, ts)
	fill := make(map[string]dataprocessing.FillStats, len(live))
	filled := 0

	for _, label := range live {
		samples, _ := chunk.Samples(label)
		cleaned := make([]float64, n)
		for i, v := range samples {
			if mask[i] {
				cleaned[i] = math.NaN()
			} else {
				cleaned[i] = v
			}
		}
		fill[label] = dataprocessing.FillGaps(cleaned)
		filled += fill[label].Total()
		if err := out.AddChannel(label, cleaned); err != nil {
			return nil, apperrors.NewAppValidationError(err.Error())
		}
	}

	c.logger.DebugContext(ctx, "chunk cleaned",
		slog.String("chunk", chunk.Name),
		slog.Int("samples", n),
		slog.Int("live_channels", len(live)),
		slog.Int("dead_channels", len(dead)),
		slog.Int("artifact_timepoints", artifacts),
		slog.Int("filled_samples", filled),
		slog.Float64("threshold", threshold))

	return &Result{
		Chunk:         out,
		Mask:          mask,
		Mean:          mean,
		Std:           std,
		Threshold:     threshold,
		ArtifactCount: artifacts,
		DeadPresent:   dead,
		Fill:          fill,
	}, nil
}
