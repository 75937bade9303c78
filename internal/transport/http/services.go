package http

import (
	"context"

	"github.com/Sania-2000/sma-artifact-removal/internal/services"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// ResultsServiceInterface defines the read operations over SNR output
type ResultsServiceInterface interface {
	ListChunks(ctx context.Context) ([]services.ChunkSummary, error)
	ChunkSNR(ctx context.Context, chunk string) ([]domain.SNRRecord, error)
	ChunkSkipped(ctx context.Context, chunk string) ([]domain.SkipRecord, error)
}

// HealthServiceInterface defines the health probe
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
}
