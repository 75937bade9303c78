package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     config.PathsConfig
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents the health of one dependency
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, paths config.PathsConfig, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck reports "ok" when the SNR directory is readable and "degraded"
// otherwise. The server keeps serving in both cases.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
		Services: map[string]ServiceHealth{
			"snr_results": checkDir(hs.paths.SNR()),
		},
	}

	for name, svc := range status.Services {
		if svc.Status != "ready" {
			status.Status = "degraded"
			hs.logger.WarnContext(ctx, "health check degraded",
				slog.String("service", name),
				slog.String("message", svc.Message))
		}
	}

	return status
}

func checkDir(dir string) ServiceHealth {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return ServiceHealth{Status: "empty", Message: "no results written yet"}
	case err != nil:
		return ServiceHealth{Status: "error", Message: err.Error()}
	case !info.IsDir():
		return ServiceHealth{Status: "error", Message: dir + " is not a directory"}
	}
	if _, err := os.ReadDir(dir); err != nil {
		return ServiceHealth{Status: "error", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready"}
}
