package operations

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	"github.com/Sania-2000/sma-artifact-removal/internal/infrastructure"
)

// Pipeline wires the four stages to a Manager and writes the run-level reports
type Pipeline struct {
	svc     *Services
	manager *Manager
}

// NewPipeline builds the stages from cfg. metrics and tracer may be nil.
func NewPipeline(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.PipelineMetrics, tracer trace.Tracer) (*Pipeline, error) {
	svc := NewServices(cfg, logger, metrics)
	registry, err := NewDefaultRegistry(svc)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		svc:     svc,
		manager: NewManager(registry, cfg.Execution, svc.Logger, metrics, tracer),
	}, nil
}

// Run executes stage and then writes the combined SNR table (when the snr
// stage ran) and the summary workbook. Report files are written even when
// the run was cut short.
func (p *Pipeline) Run(ctx context.Context, stage string) (*RunReport, error) {
	if err := p.svc.Workspace.ValidateOutputDirectories(p.svc.Config.Paths.OutputDirectories()...); err != nil {
		return nil, err
	}

	report, runErr := p.manager.Execute(ctx, stage)
	if len(report.Stages) == 0 {
		return report, runErr
	}

	if err := p.writeReports(report); err != nil {
		if runErr != nil {
			return report, fmt.Errorf("%w (reports: %v)", runErr, err)
		}
		return report, err
	}

	p.svc.Logger.InfoContext(ctx, "pipeline run finished",
		slog.String("run_id", report.RunID),
		slog.Int("outcomes", len(report.Outcomes)),
		slog.Int("failed", len(report.Failed())),
		slog.Int("snr_records", len(report.SNRRecords())),
		slog.Duration("duration", report.Duration))

	return report, runErr
}

func (p *Pipeline) writeReports(report *RunReport) error {
	if report.Ran(StageSNR) {
		if err := p.svc.Writer.ExportCombinedSNR(p.svc.Files.CombinedSNRFile(), report.SNRRecords()); err != nil {
			return err
		}
	}
	return p.svc.Writer.ExportSummary(p.svc.Files.SummaryWorkbookFile(), report.Summary())
}
