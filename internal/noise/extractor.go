// Package noise measures the background amplitude of each channel once its
// spike samples are masked out.
package noise

import (
	"context"
	"log/slog"
	"math"

	"github.com/Sania-2000/sma-artifact-removal/internal/dataprocessing"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Extractor computes noise statistics from a signal chunk and its spike table
type Extractor struct {
	logger *slog.Logger
}

// Result is the outcome of noise extraction for one chunk
type Result struct {
	Records *domain.NoiseTable
	// NoiseOnly holds every measured channel with spike samples (and missing
	// samples) replaced by 0.0.
	NoiseOnly *domain.Chunk
	// Missing lists chunk channels that had no spike record
	Missing []string
	// Malformed lists channels whose spike record claims spikes but carries no indices
	Malformed []string
	// AllSpike lists channels with no sample left after masking
	AllSpike []string
	// OutOfRange counts spike indices that fell outside the chunk
	OutOfRange int
}

// New creates an Extractor
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With("component", "noise")}
}

// Extract measures mean and max |x| over the non-spike samples of every
// channel present in both chunk and spikes, in chunk column order.
func (e *Extractor) Extract(ctx context.Context, chunk *domain.Chunk, spikes *domain.SpikeTable) (*Result, error) {
	if err := chunk.Validate(); err != nil {
		return nil, apperrors.NewAppValidationError(err.Error())
	}

	n := chunk.Len()
	ts := make([]float64, n)
	copy(ts, chunk.Timestamps)

	res := &Result{
		Records:   domain.NewChannelTable[domain.NoiseRecord](),
		NoiseOnly: domain.NewChunk(chunk.Name, ts),
	}

	for _, label := range chunk.Channels() {
		rec, ok := spikes.Get(label)
		if !ok {
			res.Missing = append(res.Missing, label)
			continue
		}
		if rec.Count > 0 && len(rec.Indices) == 0 {
			res.Malformed = append(res.Malformed, label)
			e.logger.WarnContext(ctx, "spike record has no indices",
				slog.String("chunk", chunk.Name),
				slog.String("channel", label),
				slog.String("error", apperrors.NewMalformedRecordError("spike indices absent", nil).Error()))
			continue
		}

		samples, _ := chunk.Samples(label)
		masked := make([]float64, n)
		copy(masked, samples)
		res.OutOfRange += dataprocessing.ReplaceAt(masked, rec.Indices, math.NaN())

		abs := dataprocessing.Abs(dataprocessing.Finite(masked))
		meanNoise, maxNoise := dataprocessing.MeanMax(abs)
		if len(abs) == 0 {
			res.AllSpike = append(res.AllSpike, label)
			e.logger.DebugContext(ctx, "no noise samples left after masking",
				slog.String("chunk", chunk.Name),
				slog.String("channel", label))
		}
		res.Records.Set(label, domain.NoiseRecord{
			Channel:   label,
			MeanNoise: meanNoise,
			MaxNoise:  maxNoise,
		})

		for i, v := range masked {
			if dataprocessing.IsMissing(v) {
				masked[i] = 0
			}
		}
		if err := res.NoiseOnly.AddChannel(label, masked); err != nil {
			return nil, apperrors.NewAppValidationError(err.Error())
		}
	}

	if res.OutOfRange > 0 {
		e.logger.WarnContext(ctx, "ignored out-of-range spike indices",
			slog.String("chunk", chunk.Name),
			slog.Int("count", res.OutOfRange))
	}
	e.logger.DebugContext(ctx, "noise extracted",
		slog.String("chunk", chunk.Name),
		slog.Int("channels", res.Records.Len()),
		slog.Int("missing", len(res.Missing)))

	return res, nil
}
