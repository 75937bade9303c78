package operations

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/internal/infrastructure"
)

// Execution modes
const (
	ExecutionModeSequential = "sequential"
	ExecutionModeParallel   = "parallel"
)

// Manager runs registered steps over every chunk they discover
type Manager struct {
	registry *Registry
	config   config.ExecutionConfig
	logger   *slog.Logger
	metrics  *infrastructure.PipelineMetrics
	tracer   trace.Tracer
}

// NewManager creates a manager. metrics and tracer may be nil.
func NewManager(registry *Registry, cfg config.ExecutionConfig, logger *slog.Logger, metrics *infrastructure.PipelineMetrics, tracer trace.Tracer) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: registry,
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// Workers returns the chunk concurrency of parallel mode
func (m *Manager) Workers() int {
	if m.config.Workers > 0 {
		return m.config.Workers
	}
	return runtime.NumCPU()
}

// Execute runs stage (a step ID or StageAll). Chunk failures are recorded in
// the report and never stop sibling chunks or later steps; the returned error
// covers unknown stages, unreadable input directories and cancellation.
func (m *Manager) Execute(ctx context.Context, stage string) (*RunReport, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	report := &RunReport{
		RunID:   infrastructure.GetTraceID(ctx),
		Started: time.Now(),
	}

	steps, err := m.registry.Select(stage)
	if err != nil {
		return report, apperrors.NewConfigError(fmt.Sprintf("cannot run stage %q", stage), err)
	}

	m.logger.InfoContext(ctx, "pipeline run started",
		slog.String("stage", stage),
		slog.Int("step_count", len(steps)),
		slog.String("mode", m.mode()))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(report.Started)
			return report, err
		}

		chunks, err := step.Discover()
		if err != nil {
			report.Duration = time.Since(report.Started)
			return report, apperrors.NewStorageError(fmt.Sprintf("step %s cannot list its inputs", step.ID()), err)
		}

		m.logger.InfoContext(ctx, "executing stage",
			slog.String("step", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)),
			slog.Int("chunks", len(chunks)))

		var outcomes []ChunkOutcome
		if m.mode() == ExecutionModeParallel {
			outcomes = m.executeParallel(ctx, step, chunks)
		} else {
			outcomes = m.executeSequential(ctx, step, chunks)
		}
		report.Stages = append(report.Stages, step.ID())
		report.Outcomes = append(report.Outcomes, outcomes...)

		failed := 0
		for _, o := range outcomes {
			if o.Status == StepStatusFailed {
				failed++
			}
		}
		m.logger.InfoContext(ctx, "stage completed",
			slog.String("step", step.ID()),
			slog.Int("chunks", len(outcomes)),
			slog.Int("failed", failed))
	}

	report.Duration = time.Since(report.Started)
	return report, ctx.Err()
}

func (m *Manager) mode() string {
	if m.config.Mode == ExecutionModeParallel {
		return ExecutionModeParallel
	}
	return ExecutionModeSequential
}

// executeSequential processes chunks one by one
func (m *Manager) executeSequential(ctx context.Context, step Step, chunks []string) []ChunkOutcome {
	outcomes := make([]ChunkOutcome, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			outcomes[i] = cancelledOutcome(step, chunk, err)
			continue
		}
		outcomes[i] = m.executeChunk(ctx, step, chunk)
	}
	return outcomes
}

// executeParallel processes chunks on a bounded worker pool. Outcomes keep
// the discovery order.
func (m *Manager) executeParallel(ctx context.Context, step Step, chunks []string) []ChunkOutcome {
	outcomes := make([]ChunkOutcome, len(chunks))

	// A plain group: one chunk's failure must not cancel the others
	var g errgroup.Group
	g.SetLimit(m.Workers())
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			outcomes[i] = cancelledOutcome(step, chunk, err)
			continue
		}
		i, chunk := i, chunk
		g.Go(func() error {
			outcomes[i] = m.executeChunk(ctx, step, chunk)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// executeChunk runs one step on one chunk, converting errors and panics into
// a failed outcome
func (m *Manager) executeChunk(ctx context.Context, step Step, chunk string) (outcome ChunkOutcome) {
	ctx, logger := infrastructure.ChunkContext(ctx, m.logger, step.ID(), chunk)
	ctx, span := infrastructure.StartStageSpan(ctx, m.tracer, step.ID(), chunk)
	defer span.End()

	start := time.Now()
	outcome = ChunkOutcome{Stage: step.ID(), Chunk: chunk}

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("panic in step %s: %v", step.ID(), r)
		}
		outcome.Duration = time.Since(start)
		m.metrics.RecordChunk(ctx, step.ID(), outcome.Duration, outcome.Err)

		if outcome.Err != nil {
			outcome.Status = StepStatusFailed
			outcome.Result = nil
			infrastructure.RecordError(ctx, outcome.Err)
			infrastructure.WithError(logger, outcome.Err).WarnContext(ctx, "chunk failed",
				slog.String("chunk", chunk),
				slog.String("error_type", string(apperrors.TypeOf(outcome.Err))))
			return
		}
		outcome.Status = StepStatusCompleted
		logger.InfoContext(ctx, "chunk processed",
			slog.String("chunk", chunk),
			slog.String("detail", outcome.Detail()),
			slog.Duration("duration", outcome.Duration))
	}()

	outcome.Result, outcome.Err = step.Process(ctx, chunk)
	return outcome
}

func cancelledOutcome(step Step, chunk string, err error) ChunkOutcome {
	return ChunkOutcome{
		Stage:  step.ID(),
		Chunk:  chunk,
		Status: StepStatusSkipped,
		Err:    err,
	}
}
