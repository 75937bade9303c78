package domain

// SpikeRecord holds the spike statistics of one channel in one chunk.
type SpikeRecord struct {
	Channel       string  `json:"channel"`
	Count         int     `json:"count"`
	MaxAmplitude  float64 `json:"max_amplitude"`
	MeanAmplitude float64 `json:"mean_amplitude"`
	Indices       []int   `json:"indices"`
}

// NoiseRecord holds absolute noise amplitudes over the non-spike samples of one channel.
type NoiseRecord struct {
	Channel   string  `json:"channel"`
	MeanNoise float64 `json:"mean_noise"`
	MaxNoise  float64 `json:"max_noise"`
}

// SNRRecord is an accepted signal-to-noise measurement.
type SNRRecord struct {
	Chunk     string  `json:"chunk"`
	Channel   string  `json:"channel"`
	MeanSpike float64 `json:"mean_spike"`
	MeanNoise float64 `json:"mean_noise"`
	SNR       float64 `json:"snr"`
}

// SkipRecord explains why a channel produced no SNRRecord.
type SkipRecord struct {
	Channel string `json:"channel"`
	Reason  string `json:"reason"`
}

// Skip reasons produced by the SNR stage.
const (
	ReasonNoiseTooLow      = "mean_noise too low"
	ReasonSNRTooHighPrefix = "SNR too high: "
	ReasonMissingNoise     = "missing noise stats"
	ReasonMissingSpikes    = "missing spike stats"
)

// SpikePolicy selects which signal the spike threshold is computed on.
type SpikePolicy string

const (
	// SpikePolicyRaw thresholds the signed samples.
	SpikePolicyRaw SpikePolicy = "raw"
	// SpikePolicyAbs thresholds the absolute value of the samples.
	SpikePolicyAbs SpikePolicy = "abs"
)

// Valid reports whether p is a known policy.
func (p SpikePolicy) Valid() bool {
	return p == SpikePolicyRaw || p == SpikePolicyAbs
}
