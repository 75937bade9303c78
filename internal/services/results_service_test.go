package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/internal/shared/testutil"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// newResultsFixture lays out an SNR directory with:
//   - demo1: accepted and skipped tables
//   - demo2: skipped only (every channel rejected)
//   - demo3: a corrupt SNR table
func newResultsFixture(t *testing.T) (*ResultsService, config.PathsConfig) {
	t.Helper()

	paths := config.Default().Paths
	paths.RootDir = t.TempDir()
	dir := paths.SNR()
	require.NoError(t, os.MkdirAll(dir, 0755))

	testutil.WriteCSV(t, dir, "demo1_snr_final.csv",
		[]string{"chunk", "channel", "mean_spike", "mean_noise", "SNR"},
		[][]string{{"demo1", "A001", "2.0", "0.5", "4.0"}})
	testutil.WriteCSV(t, dir, "demo1_skipped_channels.csv",
		[]string{"channel", "reason"},
		[][]string{{"A002", "mean_noise too low"}})
	testutil.WriteCSV(t, dir, "demo2_skipped_channels.csv",
		[]string{"channel", "reason"},
		[][]string{{"B001", "SNR too high: 1500.00"}})
	testutil.WriteFile(t, dir, "demo3_snr_final.csv", "chunk,channel,mean_spike,mean_noise,SNR\ndemo3,A001,x,0.5,4.0\n")
	testutil.WriteFile(t, dir, "notes.txt", "ignored")

	logger, _ := testutil.NewTestLogger(t)
	return NewResultsService(paths, logger), paths
}

func TestResultsService_ListChunks(t *testing.T) {
	svc, _ := newResultsFixture(t)

	chunks, err := svc.ListChunks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []ChunkSummary{
		{Chunk: "demo1", HasSNR: true, HasSkipped: true},
		{Chunk: "demo2", HasSNR: false, HasSkipped: true},
		{Chunk: "demo3", HasSNR: true, HasSkipped: false},
	}, chunks)
}

func TestResultsService_ListChunksWithoutOutput(t *testing.T) {
	paths := config.Default().Paths
	paths.RootDir = t.TempDir()

	chunks, err := NewResultsService(paths, nil).ListChunks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.NotNil(t, chunks)
}

func TestResultsService_ChunkSNR(t *testing.T) {
	svc, _ := newResultsFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		chunk   string
		want    []domain.SNRRecord
		errType apperrors.ErrorType
	}{
		{
			name:  "accepted records",
			chunk: "demo1",
			want:  []domain.SNRRecord{{Chunk: "demo1", Channel: "A001", MeanSpike: 2, MeanNoise: 0.5, SNR: 4}},
		},
		{name: "every channel rejected", chunk: "demo2", want: []domain.SNRRecord{}},
		{name: "corrupt table", chunk: "demo3", errType: apperrors.ErrTypeMalformed},
		{name: "unknown chunk", chunk: "demo9", errType: apperrors.ErrTypeNotFound},
		{name: "path traversal", chunk: "../etc", errType: apperrors.ErrTypeValidation},
		{name: "empty id", chunk: "", errType: apperrors.ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ChunkSNR(ctx, tt.chunk)
			if tt.errType != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.errType), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResultsService_ChunkSkipped(t *testing.T) {
	svc, _ := newResultsFixture(t)
	ctx := context.Background()

	got, err := svc.ChunkSkipped(ctx, "demo1")
	require.NoError(t, err)
	assert.Equal(t, []domain.SkipRecord{{Channel: "A002", Reason: "mean_noise too low"}}, got)

	got, err = svc.ChunkSkipped(ctx, "demo3")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.ChunkSkipped(ctx, "demo9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChunkNotFound))
}

func TestHealthService_HealthCheck(t *testing.T) {
	_, paths := newResultsFixture(t)
	logger, _ := testutil.NewTestLogger(t)

	status := NewHealthService("1.0.0", paths, logger).HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, "ready", status.Services["snr_results"].Status)

	empty := config.Default().Paths
	empty.RootDir = t.TempDir()
	status = NewHealthService("1.0.0", empty, logger).HealthCheck(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "empty", status.Services["snr_results"].Status)
}
