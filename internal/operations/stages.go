package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Sania-2000/sma-artifact-removal/internal/cleaning"
	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	"github.com/Sania-2000/sma-artifact-removal/internal/dataprocessing"
	"github.com/Sania-2000/sma-artifact-removal/internal/exporter"
	"github.com/Sania-2000/sma-artifact-removal/internal/files"
	"github.com/Sania-2000/sma-artifact-removal/internal/infrastructure"
	"github.com/Sania-2000/sma-artifact-removal/internal/noise"
	"github.com/Sania-2000/sma-artifact-removal/internal/snr"
	"github.com/Sania-2000/sma-artifact-removal/internal/spikes"
	"github.com/Sania-2000/sma-artifact-removal/internal/statsfile"
	"github.com/Sania-2000/sma-artifact-removal/internal/validation"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Step names
const (
	StageNameClean  = "Artifact Cleaner"
	StageNameDetect = "Spike Detector"
	StageNameNoise  = "Noise Extractor"
	StageNameSNR    = "SNR Calculator"
)

// Services bundles the collaborators every stage needs
type Services struct {
	Config    *config.Config
	Files     *files.Manager
	Discovery *files.Discovery
	Writer    *exporter.CSVWriter
	Cleaner   *cleaning.Cleaner
	Detector  *spikes.Detector
	Extractor *noise.Extractor
	SNR       *snr.Calculator
	Workspace *validation.WorkspaceValidator
	Metrics   *infrastructure.PipelineMetrics
	Logger    *slog.Logger
}

// NewServices wires the stage collaborators from cfg. metrics may be nil.
func NewServices(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	manager := files.NewManager(cfg.Paths)
	return &Services{
		Config:    cfg,
		Files:     manager,
		Discovery: files.NewDiscovery(""),
		Writer:    exporter.NewCSVWriter(manager),
		Cleaner:   cleaning.New(cfg.Pipeline, logger),
		Detector:  spikes.New(cfg.Pipeline, logger),
		Extractor: noise.New(logger),
		SNR:       snr.New(cfg.Pipeline),
		Workspace: validation.NewWorkspaceValidator(logger),
		Metrics:   metrics,
		Logger:    logger,
	}
}

// NewDefaultRegistry registers the four pipeline stages
func NewDefaultRegistry(s *Services) (*Registry, error) {
	registry := NewRegistry()
	for _, step := range []Step{
		NewCleanStage(s),
		NewDetectStage(s),
		NewNoiseStage(s),
		NewSNRStage(s),
	} {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (s *Services) policy() domain.SpikePolicy {
	return s.Detector.Policy()
}

// CleanStage removes artifacts from raw chunks
type CleanStage struct {
	BaseStage
	svc *Services
}

// NewCleanStage creates the cleaning Step
func NewCleanStage(s *Services) *CleanStage {
	return &CleanStage{
		BaseStage: NewBaseStage(StageClean, StageNameClean, nil),
		svc:       s,
	}
}

// Discover lists the raw chunks
func (c *CleanStage) Discover() ([]string, error) {
	raw := c.svc.Config.Paths.Raw()
	if err := c.svc.Workspace.ValidateInputDirectory(raw); err != nil {
		return nil, err
	}
	return c.svc.Discovery.FindChunks(raw, config.RawSuffix)
}

// Process cleans one raw chunk and writes the cleaned table and, when
// enabled, its preview workbook
func (c *CleanStage) Process(ctx context.Context, chunk string) (*ChunkResult, error) {
	raw := c.svc.Files.RawFile(chunk)
	if err := c.svc.Files.RequireFiles(chunk, raw); err != nil {
		return nil, err
	}

	input, err := dataprocessing.ParseChunkFile(raw, chunk, dataprocessing.RawSchema(c.svc.Config.Schema))
	if err != nil {
		return nil, err
	}

	res, err := c.svc.Cleaner.Clean(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(res.DeadPresent) > 0 {
		c.svc.Logger.InfoContext(ctx, "dropped dead channels",
			slog.String("chunk", chunk),
			slog.String("channels", strings.Join(res.DeadPresent, ",")))
	}
	c.svc.Metrics.RecordArtifacts(ctx, res.ArtifactCount)

	if err := c.svc.Writer.ExportChunk(c.svc.Files.CleanedFile(chunk), res.Chunk); err != nil {
		return nil, err
	}

	if c.svc.Config.Preview.Enabled {
		if err := c.svc.Writer.ExportPreview(c.svc.Files.PreviewFile(chunk), res.Chunk, c.svc.Config.Preview); err != nil {
			infrastructure.WithError(c.svc.Logger, err).WarnContext(ctx, "failed to write preview",
				slog.String("chunk", chunk))
		}
	}

	return &ChunkResult{
		Detail: fmt.Sprintf("%d artifact timepoints, %d live channels", res.ArtifactCount, res.Chunk.ChannelCount()),
	}, nil
}

// DetectStage finds spikes in cleaned chunks
type DetectStage struct {
	BaseStage
	svc *Services
}

// NewDetectStage creates the spike detection Step
func NewDetectStage(s *Services) *DetectStage {
	return &DetectStage{
		BaseStage: NewBaseStage(StageDetect, StageNameDetect, []string{StageClean}),
		svc:       s,
	}
}

// Discover lists the cleaned chunks
func (d *DetectStage) Discover() ([]string, error) {
	return d.svc.Discovery.FindChunks(d.svc.Config.Paths.Cleaned(), config.CleanedSuffix)
}

// Process detects spikes in one cleaned chunk and writes the signal table
// and the spike statistics
func (d *DetectStage) Process(ctx context.Context, chunk string) (*ChunkResult, error) {
	cleaned := d.svc.Files.CleanedFile(chunk)
	if err := d.svc.Files.RequireFiles(chunk, cleaned); err != nil {
		return nil, err
	}

	input, err := dataprocessing.ParseChunkFile(cleaned, chunk, dataprocessing.CleanedSchema())
	if err != nil {
		return nil, err
	}

	res, err := d.svc.Detector.Detect(ctx, input)
	if err != nil {
		return nil, err
	}
	policy := d.svc.policy()
	d.svc.Metrics.RecordSpikes(ctx, string(policy), res.Total)

	if err := d.svc.Writer.ExportChunk(d.svc.Files.SignalFile(chunk, policy), res.Signal); err != nil {
		return nil, err
	}
	if err := d.svc.Files.WriteFile(d.svc.Files.SpikeStatsFile(chunk, policy), func(w io.Writer) error {
		return statsfile.WriteSpikeStats(w, res.Records)
	}); err != nil {
		return nil, err
	}

	return &ChunkResult{
		Detail: fmt.Sprintf("%d spikes over %d channels", res.Total, res.Records.Len()),
	}, nil
}

// NoiseStage measures background noise around detected spikes
type NoiseStage struct {
	BaseStage
	svc *Services
}

// NewNoiseStage creates the noise extraction Step
func NewNoiseStage(s *Services) *NoiseStage {
	return &NoiseStage{
		BaseStage: NewBaseStage(StageNoise, StageNameNoise, []string{StageDetect}),
		svc:       s,
	}
}

// Discover lists the chunks with spike statistics
func (n *NoiseStage) Discover() ([]string, error) {
	return n.svc.Discovery.FindChunks(n.svc.Config.Paths.Spikes(), files.SpikeStatsSuffix(n.svc.policy()))
}

// Process extracts noise statistics for one chunk and writes them with the
// noise-only table
func (n *NoiseStage) Process(ctx context.Context, chunk string) (*ChunkResult, error) {
	policy := n.svc.policy()
	signalPath := n.svc.Files.SignalFile(chunk, policy)
	spikePath := n.svc.Files.SpikeStatsFile(chunk, policy)
	if err := n.svc.Files.RequireFiles(chunk, signalPath, spikePath); err != nil {
		return nil, err
	}

	table, lineErrs, err := statsfile.ReadSpikeStatsFile(spikePath, chunk)
	if err != nil {
		return nil, err
	}
	logLineErrors(ctx, n.svc.Logger, chunk, spikePath, lineErrs)

	signal, err := dataprocessing.ParseChunkFile(signalPath, chunk, dataprocessing.CleanedSchema())
	if err != nil {
		return nil, err
	}

	res, err := n.svc.Extractor.Extract(ctx, signal, table)
	if err != nil {
		return nil, err
	}
	for _, ch := range res.Missing {
		n.svc.Logger.WarnContext(ctx, "channel has no spike statistics",
			slog.String("chunk", chunk),
			slog.String("channel", ch))
	}

	if err := n.svc.Files.WriteFile(n.svc.Files.NoiseStatsFile(chunk), func(w io.Writer) error {
		return statsfile.WriteNoiseStats(w, res.Records)
	}); err != nil {
		return nil, err
	}
	if err := n.svc.Writer.ExportChunk(n.svc.Files.NoiseOnlyFile(chunk), res.NoiseOnly); err != nil {
		return nil, err
	}

	return &ChunkResult{
		Detail: fmt.Sprintf("%d channels measured, %d without spike statistics, %d malformed",
			res.Records.Len(), len(res.Missing), len(res.Malformed)),
	}, nil
}

// SNRStage combines spike and noise statistics
type SNRStage struct {
	BaseStage
	svc *Services
}

// NewSNRStage creates the SNR Step
func NewSNRStage(s *Services) *SNRStage {
	return &SNRStage{
		BaseStage: NewBaseStage(StageSNR, StageNameSNR, []string{StageNoise}),
		svc:       s,
	}
}

// Discover lists the chunks with spike statistics; a missing noise file is
// reported per chunk
func (s *SNRStage) Discover() ([]string, error) {
	return s.svc.Discovery.FindChunks(s.svc.Config.Paths.Spikes(), files.SpikeStatsSuffix(s.svc.policy()))
}

// Process computes the SNR table of one chunk and writes the accepted and
// skipped reports
func (s *SNRStage) Process(ctx context.Context, chunk string) (*ChunkResult, error) {
	spikePath := s.svc.Files.SpikeStatsFile(chunk, s.svc.policy())
	noisePath := s.svc.Files.NoiseStatsFile(chunk)
	if err := s.svc.Files.RequireFiles(chunk, spikePath, noisePath); err != nil {
		return nil, err
	}

	spikeTable, lineErrs, err := statsfile.ReadSpikeStatsFile(spikePath, chunk)
	if err != nil {
		return nil, err
	}
	logLineErrors(ctx, s.svc.Logger, chunk, spikePath, lineErrs)

	noiseTable, lineErrs, err := statsfile.ReadNoiseStatsFile(noisePath, chunk)
	if err != nil {
		return nil, err
	}
	logLineErrors(ctx, s.svc.Logger, chunk, noisePath, lineErrs)

	res := s.svc.SNR.Compute(chunk, spikeTable, noiseTable)

	byReason := make(map[string]int)
	for _, skip := range res.Skipped {
		reason := skip.Reason
		if strings.HasPrefix(reason, domain.ReasonSNRTooHighPrefix) {
			reason = strings.TrimSuffix(domain.ReasonSNRTooHighPrefix, ": ")
		}
		byReason[reason]++
		s.svc.Logger.InfoContext(ctx, "channel skipped",
			slog.String("chunk", chunk),
			slog.String("channel", skip.Channel),
			slog.String("reason", skip.Reason))
	}
	s.svc.Metrics.RecordSNR(ctx, len(res.Accepted), byReason)

	if _, err := s.svc.Writer.ExportSNR(s.svc.Files.SNRFile(chunk), res.Accepted); err != nil {
		return nil, err
	}
	if _, err := s.svc.Writer.ExportSkipped(s.svc.Files.SkippedFile(chunk), res.Skipped); err != nil {
		return nil, err
	}

	return &ChunkResult{
		Detail:  fmt.Sprintf("%d accepted, %d skipped", len(res.Accepted), len(res.Skipped)),
		SNR:     res.Accepted,
		Skipped: res.Skipped,
	}, nil
}

func logLineErrors(ctx context.Context, logger *slog.Logger, chunk, path string, errs []statsfile.LineError) {
	for _, e := range errs {
		infrastructure.WithError(logger, e.Err).WarnContext(ctx, "skipped malformed stats line",
			slog.String("chunk", chunk),
			slog.String("file", path),
			slog.Int("line", e.Line))
	}
}
