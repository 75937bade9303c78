package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Schema    SchemaConfig    `yaml:"schema" envconfig:"SCHEMA"`
	Execution ExecutionConfig `yaml:"execution" envconfig:"EXECUTION"`
	Preview   PreviewConfig   `yaml:"preview" envconfig:"PREVIEW"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
}

// PipelineConfig holds the thresholds of the four numeric stages
type PipelineConfig struct {
	DeadChannels    []string `yaml:"dead_channels" envconfig:"DEAD_CHANNELS" validate:"dive,required"`
	ArtifactZScore  float64  `yaml:"artifact_z_score" envconfig:"ARTIFACT_Z_SCORE" validate:"gt=0"`
	SpikeZScore     float64  `yaml:"spike_z_score" envconfig:"SPIKE_Z_SCORE" validate:"gt=0"`
	SpikePolicy     string   `yaml:"spike_policy" envconfig:"SPIKE_POLICY" validate:"oneof=raw abs"`
	NoiseFloor      float64  `yaml:"noise_floor" envconfig:"NOISE_FLOOR" validate:"gte=0"`
	MaxSNR          float64  `yaml:"max_snr" envconfig:"MAX_SNR" validate:"gt=0"`
	ReportUnmatched bool     `yaml:"report_unmatched" envconfig:"REPORT_UNMATCHED"`
}

// SchemaConfig describes how channel columns are named in raw recordings
type SchemaConfig struct {
	RawTimestampColumn string `yaml:"raw_timestamp_column" envconfig:"RAW_TIMESTAMP_COLUMN" validate:"required"`
	RawChannelPrefix   string `yaml:"raw_channel_prefix" envconfig:"RAW_CHANNEL_PREFIX"`
	RawChannelSuffix   string `yaml:"raw_channel_suffix" envconfig:"RAW_CHANNEL_SUFFIX"`
}

// ExecutionConfig controls how chunks are scheduled
type ExecutionConfig struct {
	Mode    string `yaml:"mode" envconfig:"MODE" validate:"oneof=sequential parallel"`
	Workers int    `yaml:"workers" envconfig:"WORKERS" validate:"gte=0"`
}

// PreviewConfig controls the spreadsheet previews of cleaned chunks
type PreviewConfig struct {
	Enabled         bool    `yaml:"enabled" envconfig:"ENABLED"`
	ChannelsPerPlot int     `yaml:"channels_per_plot" envconfig:"CHANNELS_PER_PLOT" validate:"gt=0"`
	DurationSeconds float64 `yaml:"duration_seconds" envconfig:"DURATION_SECONDS" validate:"gt=0"`
	StartSeconds    float64 `yaml:"start_seconds" envconfig:"START_SECONDS"`
	Downsample      int     `yaml:"downsample" envconfig:"DOWNSAMPLE" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
}

// ServerConfig contains the results server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" validate:"gt=0"`
}

// Load builds the configuration from defaults, then the YAML file at path (or
// DefaultConfigFile when path is empty and that file exists), then SMA_*
// environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" && FileExists(DefaultConfigFile) {
		path = DefaultConfigFile
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field against its validate tag
func (c *Config) Validate() error {
	// Per-process JSON logging is the only supported format
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/pipeline.log"
	}

	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	dead := make([]string, len(DefaultDeadChannels))
	copy(dead, DefaultDeadChannels)

	return &Config{
		Pipeline: PipelineConfig{
			DeadChannels:   dead,
			ArtifactZScore: DefaultArtifactZScore,
			SpikeZScore:    DefaultSpikeZScore,
			SpikePolicy:    "raw",
			NoiseFloor:     DefaultNoiseFloor,
			MaxSNR:         DefaultMaxSNR,
		},
		Paths: PathsConfig{
			RootDir:    ".",
			RawDir:     "CSV chunks",
			CleanedDir: "cleaned_chunks",
			SpikeDir:   "spike_results/data",
			NoiseDir:   "noise_results",
			SNRDir:     "snr_results",
			PreviewDir: "cleaned_plots",
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
		Schema: SchemaConfig{
			RawTimestampColumn: DefaultRawTimestampColumn,
			RawChannelPrefix:   DefaultRawChannelPrefix,
			RawChannelSuffix:   DefaultRawChannelSuffix,
		},
		Execution: ExecutionConfig{
			Mode: "sequential",
		},
		Preview: PreviewConfig{
			ChannelsPerPlot: DefaultChannelsPerPlot,
			DurationSeconds: DefaultPreviewDuration,
			StartSeconds:    DefaultPreviewStart,
			Downsample:      DefaultDownsample,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/pipeline.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "sma-artifact-removal",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
		Server: ServerConfig{
			Port:            8090,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitRPS:    50,
			RateLimitBurst:  25,
		},
	}
}
