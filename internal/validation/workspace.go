// Package validation checks the pipeline workspace before a run touches it.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
)

// WorkspaceValidator checks input and output directories
type WorkspaceValidator struct {
	logger *slog.Logger
}

// NewWorkspaceValidator creates a validator. A nil logger means slog.Default().
func NewWorkspaceValidator(logger *slog.Logger) *WorkspaceValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceValidator{logger: logger.With(slog.String("component", "workspace_validator"))}
}

// ValidateInputDirectory checks that dir exists and is a directory
func (v *WorkspaceValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return apperrors.NewStorageError(fmt.Sprintf("input directory %s does not exist", dir), err)
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		return apperrors.NewStorageError(fmt.Sprintf("%s is not a directory", dir), nil)
	}
	return nil
}

// ValidateOutputDirectory creates dir if needed and verifies it is writable
func (v *WorkspaceValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	v.logger.Debug("output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateOutputDirectories validates every directory, stopping at the first failure
func (v *WorkspaceValidator) ValidateOutputDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := v.ValidateOutputDirectory(filepath.Clean(dir)); err != nil {
			v.logger.Error("output directory unusable",
				slog.String("directory", dir),
				slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}
