package config

// Application constants
const (
	AppName    = "SMA Artifact Removal"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable (SMA_PIPELINE_SPIKE_Z_SCORE, ...)
	EnvPrefix = "SMA"

	// DefaultConfigFile is looked up in the working directory when no -config flag is given
	DefaultConfigFile = "sma.yaml"
)

// File naming convention shared by every stage. A chunk identifier is the raw
// file name without its ".csv" extension; every derived file is the chunk
// identifier plus one of these suffixes.
const (
	RawSuffix           = ".csv"
	CleanedSuffix       = "_cleaned.csv"
	SignalSuffixFormat  = "_%s.csv"        // policy: raw | abs
	SpikeStatsSuffixFmt = "_spikes_%s.txt" // policy: raw | abs
	NoiseStatsSuffix    = "_noise_stats.txt"
	NoiseOnlySuffix     = "_noise_only.csv"
	SNRSuffix           = "_snr_final.csv"
	SkippedSuffix       = "_skipped_channels.csv"
	PreviewSuffix       = "_preview.xlsx"
	CombinedSNRFile     = "snr_all.csv"
	SummaryWorkbookFile = "snr_summary.xlsx"
)

// Numeric defaults of the four pipeline stages
const (
	DefaultArtifactZScore = 5.5
	DefaultSpikeZScore    = 4.0
	DefaultNoiseFloor     = 1e-3
	DefaultMaxSNR         = 1000.0
)

// Raw recording schema defaults
const (
	DefaultRawTimestampColumn = "highpass_A-000_timestamps"
	DefaultRawChannelPrefix   = "highpass_"
	DefaultRawChannelSuffix   = "_values"
)

// Preview defaults
const (
	DefaultChannelsPerPlot = 6
	DefaultPreviewDuration = 10.0
	DefaultPreviewStart    = 0.0
	DefaultDownsample      = 50
)

// DefaultDeadChannels lists the electrodes known to be faulty on the reference array.
var DefaultDeadChannels = []string{
	"A023", "A024", "A025", "A026", "A027", "A028", "A029", "A030", "A031",
	"B016", "B023", "C023", "C024", "D020", "D023",
}
