package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	"github.com/Sania-2000/sma-artifact-removal/internal/dataprocessing"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/internal/files"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// ChunkSummary describes the SNR output available for one chunk
type ChunkSummary struct {
	Chunk      string `json:"chunk"`
	HasSNR     bool   `json:"has_snr"`
	HasSkipped bool   `json:"has_skipped"`
}

// ResultsService reads the SNR stage output
type ResultsService struct {
	files     *files.Manager
	discovery *files.Discovery
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewResultsService creates a results service over the directories in paths
func NewResultsService(paths config.PathsConfig, logger *slog.Logger) *ResultsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultsService{
		files:     files.NewManager(paths),
		discovery: files.NewDiscovery(""),
		validate:  validator.New(),
		logger:    logger.With(slog.String("component", "results_service")),
	}
}

// ListChunks returns every chunk with an SNR or skipped-channel file, sorted.
// A missing SNR directory means no results yet, not an error.
func (s *ResultsService) ListChunks(ctx context.Context) ([]ChunkSummary, error) {
	dir := s.files.Paths().SNR()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []ChunkSummary{}, nil
	}

	withSNR, err := s.discovery.FindChunks(dir, config.SNRSuffix)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list snr results", err)
	}
	withSkipped, err := s.discovery.FindChunks(dir, config.SkippedSuffix)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list skipped channel reports", err)
	}

	byChunk := make(map[string]*ChunkSummary)
	get := func(chunk string) *ChunkSummary {
		if cs, ok := byChunk[chunk]; ok {
			return cs
		}
		cs := &ChunkSummary{Chunk: chunk}
		byChunk[chunk] = cs
		return cs
	}
	for _, c := range withSNR {
		get(c).HasSNR = true
	}
	for _, c := range withSkipped {
		get(c).HasSkipped = true
	}

	out := make([]ChunkSummary, 0, len(byChunk))
	for _, cs := range byChunk {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Chunk < out[j].Chunk })

	s.logger.DebugContext(ctx, "listed chunks", slog.Int("count", len(out)))
	return out, nil
}

// ChunkSNR returns the accepted SNR records of chunk. A chunk whose SNR file
// is absent but whose skipped report exists had every channel rejected and
// yields an empty list.
func (s *ResultsService) ChunkSNR(ctx context.Context, chunk string) ([]domain.SNRRecord, error) {
	var records []domain.SNRRecord
	err := s.readTable(ctx, chunk, s.files.SNRFile(chunk), s.files.SkippedFile(chunk), func(r io.Reader) error {
		var err error
		records, err = dataprocessing.ParseSNRTable(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.SNRRecord{}
	}
	return records, nil
}

// ChunkSkipped returns the skipped-channel records of chunk, empty when every
// channel was accepted.
func (s *ResultsService) ChunkSkipped(ctx context.Context, chunk string) ([]domain.SkipRecord, error) {
	var records []domain.SkipRecord
	err := s.readTable(ctx, chunk, s.files.SkippedFile(chunk), s.files.SNRFile(chunk), func(r io.Reader) error {
		var err error
		records, err = dataprocessing.ParseSkippedTable(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.SkipRecord{}
	}
	return records, nil
}

// readTable parses path with parse. When path is absent but sibling exists the
// table is treated as empty; when both are absent the chunk is unknown.
func (s *ResultsService) readTable(ctx context.Context, chunk, path, sibling string, parse func(io.Reader) error) error {
	if err := s.ValidateChunk(chunk); err != nil {
		return err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		if _, serr := os.Stat(sibling); serr == nil {
			return nil
		}
		return apperrors.NewAppError(apperrors.ErrTypeNotFound, fmt.Sprintf("no results for chunk %s", chunk), ErrChunkNotFound).
			WithContext("chunk", chunk)
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	if err := parse(f); err != nil {
		s.logger.WarnContext(ctx, "unreadable results table",
			slog.String("chunk", chunk),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ValidateChunk rejects identifiers that could escape the SNR directory
func (s *ResultsService) ValidateChunk(chunk string) error {
	if err := s.validate.Var(chunk, `required,max=255,excludesall=/\`); err != nil || strings.Contains(chunk, "..") {
		return apperrors.NewAppError(apperrors.ErrTypeValidation, fmt.Sprintf("invalid chunk identifier %q", chunk), ErrInvalidChunk).
			WithContext("chunk", chunk)
	}
	return nil
}
