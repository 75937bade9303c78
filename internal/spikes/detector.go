// Package spikes flags per-channel threshold crossings in a cleaned chunk.
package spikes

import (
	"context"
	"log/slog"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	"github.com/Sania-2000/sma-artifact-removal/internal/dataprocessing"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Detector finds samples above mean + k*std of their own channel
type Detector struct {
	zScore float64
	policy domain.SpikePolicy
	logger *slog.Logger
}

// Result is the outcome of detecting spikes in one chunk
type Result struct {
	Records *domain.SpikeTable
	// Signal holds the values the threshold was computed on: the cleaned
	// samples for the raw policy, their absolute values for abs.
	Signal *domain.Chunk
	Total  int
}

// New creates a Detector from the pipeline thresholds. An unknown policy
// falls back to raw.
func New(cfg config.PipelineConfig, logger *slog.Logger) *Detector {
	policy := domain.SpikePolicy(cfg.SpikePolicy)
	if !policy.Valid() {
		policy = domain.SpikePolicyRaw
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		zScore: cfg.SpikeZScore,
		policy: policy,
		logger: logger.With("component", "spikes", "policy", string(policy)),
	}
}

// Policy returns the signal policy in effect
func (d *Detector) Policy() domain.SpikePolicy {
	return d.policy
}

// Detect returns one record per channel in column order. Channels without
// spikes get a zero record; the input chunk is not modified.
func (d *Detector) Detect(ctx context.Context, chunk *domain.Chunk) (*Result, error) {
	if err := chunk.Validate(); err != nil {
		return nil, apperrors.NewAppValidationError(err.Error())
	}

	ts := make([]float64, chunk.Len())
	copy(ts, chunk.Timestamps)
	signal := domain.NewChunk(chunk.Name, ts)
	records := domain.NewChannelTable[domain.SpikeRecord]()
	total := 0

	for _, label := range chunk.Channels() {
		samples, _ := chunk.Samples(label)

		var values []float64
		if d.policy == domain.SpikePolicyAbs {
			values = dataprocessing.Abs(samples)
		} else {
			values = make([]float64, len(samples))
			copy(values, samples)
		}

		rec := d.detectChannel(ctx, chunk.Name, label, values)
		records.Set(label, rec)
		total += rec.Count

		if err := signal.AddChannel(label, values); err != nil {
			return nil, apperrors.NewAppValidationError(err.Error())
		}
	}

	d.logger.DebugContext(ctx, "spikes detected",
		slog.String("chunk", chunk.Name),
		slog.Int("channels", records.Len()),
		slog.Int("spikes", total))

	return &Result{Records: records, Signal: signal, Total: total}, nil
}

func (d *Detector) detectChannel(ctx context.Context, chunk, label string, values []float64) domain.SpikeRecord {
	mean, std := dataprocessing.MeanStd(values)
	threshold := mean + d.zScore*std
	if std == 0 {
		d.logger.DebugContext(ctx, "spike threshold degenerates to the mean",
			slog.String("chunk", chunk),
			slog.String("channel", label))
	}

	rec := domain.SpikeRecord{Channel: label, Indices: []int{}}
	var amplitudes []float64
	for i, v := range values {
		if dataprocessing.IsMissing(v) {
			continue
		}
		if v > threshold {
			rec.Indices = append(rec.Indices, i)
			amplitudes = append(amplitudes, v)
		}
	}
	rec.Count = len(rec.Indices)
	rec.MeanAmplitude, rec.MaxAmplitude = dataprocessing.MeanMax(amplitudes)
	return rec
}
