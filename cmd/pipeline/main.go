// Command pipeline runs the artifact removal, spike detection, noise
// extraction and SNR stages over a directory of chunked recordings.
//
//	pipeline -stage all -config sma.yaml -parallel
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/internal/infrastructure"
	"github.com/Sania-2000/sma-artifact-removal/internal/operations"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one pipeline invocation. Chunk failures are reported but do
// not change the exit code; only configuration, input directory and
// cancellation errors do.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pipeline", flag.ContinueOnError)
	fs.SetOutput(stderr)
	stage := fs.String("stage", operations.StageAll, "stage to run: clean, detect, noise, snr or all")
	configPath := fs.String("config", "", "YAML config file (defaults to "+config.DefaultConfigFile+" when present)")
	parallel := fs.Bool("parallel", false, "process chunks of a stage concurrently")
	workers := fs.Int("workers", 0, "worker bound for parallel mode (0 means one per CPU)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "pipeline: %v\n", err)
		return exitUsage
	}
	if *parallel {
		cfg.Execution.Mode = operations.ExecutionModeParallel
	}
	if *workers > 0 {
		cfg.Execution.Workers = *workers
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "pipeline: %v\n", err)
		return exitUsage
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to initialize telemetry", slog.String("error", err.Error()))
		return exitUsage
	}
	defer func() {
		if err := providers.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create pipeline metrics", slog.String("error", err.Error()))
		return exitFailed
	}

	pipeline, err := operations.NewPipeline(cfg, logger, metrics, providers.Tracer)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build pipeline", slog.String("error", err.Error()))
		return exitFailed
	}

	report, runErr := pipeline.Run(ctx, *stage)
	printReport(stdout, report)

	if runErr != nil {
		logger.ErrorContext(ctx, "pipeline run failed", slog.String("error", runErr.Error()))
		if apperrors.IsType(runErr, apperrors.ErrTypeConfig) {
			return exitUsage
		}
		return exitFailed
	}
	return exitOK
}

func printReport(w io.Writer, report *operations.RunReport) {
	if report == nil {
		return
	}
	fmt.Fprintf(w, "run %s: %d stage(s), %d chunk outcome(s), %d not completed, %d SNR record(s) in %s\n",
		report.RunID, len(report.Stages), len(report.Outcomes), len(report.Failed()),
		len(report.SNRRecords()), report.Duration.Round(time.Millisecond))
	for _, o := range report.Failed() {
		fmt.Fprintf(w, "  %s %s %s: %s\n", o.Stage, o.Chunk, o.Status, o.Detail())
	}
}
