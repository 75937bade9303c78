// Package snr combines spike and noise statistics into per-channel
// signal-to-noise ratios and explains every channel it rejects.
package snr

import (
	"fmt"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Calculator applies the noise floor and SNR ceiling
type Calculator struct {
	noiseFloor      float64
	maxSNR          float64
	reportUnmatched bool
}

// Result holds the accepted and rejected channels of one chunk
type Result struct {
	Accepted []domain.SNRRecord
	Skipped  []domain.SkipRecord
}

// New creates a Calculator from the pipeline thresholds
func New(cfg config.PipelineConfig) *Calculator {
	return &Calculator{
		noiseFloor:      cfg.NoiseFloor,
		maxSNR:          cfg.MaxSNR,
		reportUnmatched: cfg.ReportUnmatched,
	}
}

// Compute walks the spike table in order. A channel is skipped when its mean
// noise is below the floor (or not positive) or its SNR exceeds the ceiling;
// values equal to either limit are accepted. Channels found in only one table are dropped
// unless reportUnmatched is set.
func (c *Calculator) Compute(chunk string, spikes *domain.SpikeTable, noise *domain.NoiseTable) *Result {
	res := &Result{
		Accepted: []domain.SNRRecord{},
		Skipped:  []domain.SkipRecord{},
	}
	var unmatched []domain.SkipRecord

	spikes.Each(func(channel string, sp domain.SpikeRecord) {
		nr, ok := noise.Get(channel)
		if !ok {
			unmatched = append(unmatched, domain.SkipRecord{Channel: channel, Reason: domain.ReasonMissingNoise})
			return
		}

		// A non-positive mean noise has no finite ratio, even with a zero floor
		if nr.MeanNoise < c.noiseFloor || !(nr.MeanNoise > 0) {
			res.Skipped = append(res.Skipped, domain.SkipRecord{Channel: channel, Reason: domain.ReasonNoiseTooLow})
			return
		}

		ratio := sp.MeanAmplitude / nr.MeanNoise
		if ratio > c.maxSNR {
			res.Skipped = append(res.Skipped, domain.SkipRecord{
				Channel: channel,
				Reason:  domain.ReasonSNRTooHighPrefix + fmt.Sprintf("%.2f", ratio),
			})
			return
		}

		res.Accepted = append(res.Accepted, domain.SNRRecord{
			Chunk:     chunk,
			Channel:   channel,
			MeanSpike: sp.MeanAmplitude,
			MeanNoise: nr.MeanNoise,
			SNR:       ratio,
		})
	})

	if !c.reportUnmatched {
		return res
	}

	noise.Each(func(channel string, _ domain.NoiseRecord) {
		if !spikes.Has(channel) {
			unmatched = append(unmatched, domain.SkipRecord{Channel: channel, Reason: domain.ReasonMissingSpikes})
		}
	})
	res.Skipped = append(res.Skipped, unmatched...)
	return res
}
