package config

import (
	"os"
	"path/filepath"
)

// PathsConfig contains the directories the pipeline reads from and writes to.
// Relative directories are resolved against RootDir.
type PathsConfig struct {
	RootDir    string `yaml:"root_dir" envconfig:"ROOT_DIR" validate:"required"`
	RawDir     string `yaml:"raw_dir" envconfig:"RAW_DIR" validate:"required"`
	CleanedDir string `yaml:"cleaned_dir" envconfig:"CLEANED_DIR" validate:"required"`
	SpikeDir   string `yaml:"spike_dir" envconfig:"SPIKE_DIR" validate:"required"`
	NoiseDir   string `yaml:"noise_dir" envconfig:"NOISE_DIR" validate:"required"`
	SNRDir     string `yaml:"snr_dir" envconfig:"SNR_DIR" validate:"required"`
	PreviewDir string `yaml:"preview_dir" envconfig:"PREVIEW_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// Resolve joins dir onto RootDir unless dir is already absolute
func (p PathsConfig) Resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	root := p.RootDir
	if root == "" {
		root = "."
	}
	return filepath.Join(root, dir)
}

// Raw returns the resolved raw chunk directory
func (p PathsConfig) Raw() string { return p.Resolve(p.RawDir) }

// Cleaned returns the resolved cleaned chunk directory
func (p PathsConfig) Cleaned() string { return p.Resolve(p.CleanedDir) }

// Spikes returns the resolved spike output directory
func (p PathsConfig) Spikes() string { return p.Resolve(p.SpikeDir) }

// Noise returns the resolved noise output directory
func (p PathsConfig) Noise() string { return p.Resolve(p.NoiseDir) }

// SNR returns the resolved SNR output directory
func (p PathsConfig) SNR() string { return p.Resolve(p.SNRDir) }

// Preview returns the resolved preview directory
func (p PathsConfig) Preview() string { return p.Resolve(p.PreviewDir) }

// Reports returns the resolved directory for combined reports
func (p PathsConfig) Reports() string { return p.Resolve(p.ReportsDir) }

// Logs returns the resolved log directory
func (p PathsConfig) Logs() string { return p.Resolve(p.LogsDir) }

// OutputDirectories lists every directory the pipeline writes to. The raw
// directory is input only and is not included.
func (p PathsConfig) OutputDirectories() []string {
	return []string{
		p.Cleaned(),
		p.Spikes(),
		p.Noise(),
		p.SNR(),
		p.Preview(),
		p.Reports(),
		p.Logs(),
	}
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
