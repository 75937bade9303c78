package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Manager derives every per-chunk file path from a chunk identifier and
// performs the pipeline's file writes.
type Manager struct {
	paths config.PathsConfig
}

// NewManager creates a new file manager instance
func NewManager(paths config.PathsConfig) *Manager {
	return &Manager{paths: paths}
}

// Paths returns the directory layout the manager was built with
func (m *Manager) Paths() config.PathsConfig {
	return m.paths
}

// RawFile is the raw recording of chunk
func (m *Manager) RawFile(chunk string) string {
	return filepath.Join(m.paths.Raw(), chunk+config.RawSuffix)
}

// CleanedFile is the artifact-cleaned chunk table
func (m *Manager) CleanedFile(chunk string) string {
	return filepath.Join(m.paths.Cleaned(), chunk+config.CleanedSuffix)
}

// SignalFile is the detector's signal table for policy
func (m *Manager) SignalFile(chunk string, policy domain.SpikePolicy) string {
	return filepath.Join(m.paths.Spikes(), chunk+SignalSuffix(policy))
}

// SpikeStatsFile is the per-channel spike statistics for policy
func (m *Manager) SpikeStatsFile(chunk string, policy domain.SpikePolicy) string {
	return filepath.Join(m.paths.Spikes(), chunk+SpikeStatsSuffix(policy))
}

// NoiseStatsFile is the per-channel noise statistics
func (m *Manager) NoiseStatsFile(chunk string) string {
	return filepath.Join(m.paths.Noise(), chunk+config.NoiseStatsSuffix)
}

// NoiseOnlyFile is the chunk table with spike samples zeroed
func (m *Manager) NoiseOnlyFile(chunk string) string {
	return filepath.Join(m.paths.Noise(), chunk+config.NoiseOnlySuffix)
}

// SNRFile holds the accepted SNR records of chunk
func (m *Manager) SNRFile(chunk string) string {
	return filepath.Join(m.paths.SNR(), chunk+config.SNRSuffix)
}

// SkippedFile holds the skip records of chunk
func (m *Manager) SkippedFile(chunk string) string {
	return filepath.Join(m.paths.SNR(), chunk+config.SkippedSuffix)
}

// PreviewFile is the preview workbook of a cleaned chunk
func (m *Manager) PreviewFile(chunk string) string {
	return filepath.Join(m.paths.Preview(), chunk+config.PreviewSuffix)
}

// CombinedSNRFile is the SNR table concatenated across chunks
func (m *Manager) CombinedSNRFile() string {
	return filepath.Join(m.paths.Reports(), config.CombinedSNRFile)
}

// SummaryWorkbookFile is the run summary spreadsheet
func (m *Manager) SummaryWorkbookFile() string {
	return filepath.Join(m.paths.Reports(), config.SummaryWorkbookFile)
}

// SignalSuffix is the file suffix of a detector signal table
func SignalSuffix(policy domain.SpikePolicy) string {
	return fmt.Sprintf(config.SignalSuffixFormat, policy)
}

// SpikeStatsSuffix is the file suffix of a spike statistics file
func SpikeStatsSuffix(policy domain.SpikePolicy) string {
	return fmt.Sprintf(config.SpikeStatsSuffixFmt, policy)
}

// RequireFiles returns a MissingInput error naming the first absent path
func (m *Manager) RequireFiles(chunk string, paths ...string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			return apperrors.NewMissingInputError(chunk, p)
		}
	}
	return nil
}

// WriteFile writes path through write. Output goes to a temporary sibling
// that is renamed into place, so readers never observe a partial file.
func (m *Manager) WriteFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create temp file for %s", path), err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError(fmt.Sprintf("failed to sync %s", path), err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to close %s", path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", path), err)
	}

	return nil
}

// RemoveIfExists deletes path, ignoring a missing file
func (m *Manager) RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.NewStorageError(fmt.Sprintf("failed to remove %s", path), err)
	}
	return nil
}
