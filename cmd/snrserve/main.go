// Command snrserve serves the SNR stage output as a read-only JSON API.
//
//	snrserve -config sma.yaml -port 8090
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

	"github.com/Sania-2000/sma-artifact-removal/internal/app"
	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	"github.com/Sania-2000/sma-artifact-removal/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run serves until ctx is cancelled. It returns 2 for configuration errors
// and 1 when the server fails.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("snrserve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file (defaults to "+config.DefaultConfigFile+" when present)")
	port := fs.Int("port", 0, "listen port (overrides server.port)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "snrserve: %v\n", err)
		return 2
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "snrserve: %v\n", err)
		return 2
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to initialize telemetry", slog.String("error", err.Error()))
		return 2
	}
	defer func() {
		if err := providers.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create metrics", slog.String("error", err.Error()))
		return 1
	}

	server := app.NewServer(cfg, logger, providers, metrics)
	if err := server.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "results server failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
