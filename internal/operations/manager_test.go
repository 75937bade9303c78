package operations_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/internal/operations"
	"github.com/Sania-2000/sma-artifact-removal/internal/operations/testutil"
	sharedtestutil "github.com/Sania-2000/sma-artifact-removal/internal/shared/testutil"
)

func newManager(t *testing.T, mode string, workers int, stages ...operations.Step) (*operations.Manager, *sharedtestutil.BufferedSlogHandler) {
	t.Helper()
	registry, err := testutil.CreateRegistry(stages...)
	require.NoError(t, err)
	logger, handler := sharedtestutil.NewTestLogger(t)
	return operations.NewManager(registry, config.ExecutionConfig{Mode: mode, Workers: workers}, logger, nil, nil), handler
}

func TestManagerExecute_FailureIsolation(t *testing.T) {
	for _, mode := range []string{operations.ExecutionModeSequential, operations.ExecutionModeParallel} {
		t.Run(mode, func(t *testing.T) {
			chunks := []string{"c1", "c2", "c3", "c4"}
			clean := testutil.CreateFailingStage("clean", chunks, map[string]error{
				"c2": apperrors.NewMalformedRecordError("bad row", nil),
			})
			detect := testutil.CreateSuccessfulStage("detect", []string{"c1", "c3", "c4"}, "clean")

			manager, handler := newManager(t, mode, 2, detect, clean)
			report, err := manager.Execute(context.Background(), operations.StageAll)
			require.NoError(t, err)

			assert.Equal(t, []string{"clean", "detect"}, report.Stages)
			assert.NotEmpty(t, report.RunID)
			require.Len(t, report.Outcomes, 7)

			// outcomes keep discovery order in both modes
			for i, chunk := range chunks {
				assert.Equal(t, chunk, report.Outcomes[i].Chunk)
				assert.Equal(t, "clean", report.Outcomes[i].Stage)
			}

			failed := report.Failed()
			require.Len(t, failed, 1)
			assert.Equal(t, "c2", failed[0].Chunk)
			assert.Equal(t, operations.StepStatusFailed, failed[0].Status)
			assert.Contains(t, failed[0].Detail(), "bad row")
			assert.True(t, apperrors.IsType(failed[0].Err, apperrors.ErrTypeMalformed))

			assert.Equal(t, 3, report.Completed("clean"))
			assert.Equal(t, 3, report.Completed("detect"))
			assert.ElementsMatch(t, chunks, clean.Processed())

			assert.True(t, handler.ContainsMessage("chunk failed"))
			assert.True(t, handler.ContainsAttr("error_type", string(apperrors.ErrTypeMalformed)))
		})
	}
}

func TestManagerExecute_PanicBecomesFailure(t *testing.T) {
	stage := testutil.CreateSuccessfulStage("clean", []string{"c1", "c2"})
	stage.ProcessFunc = func(_ context.Context, chunk string) (*operations.ChunkResult, error) {
		if chunk == "c1" {
			panic("boom")
		}
		return &operations.ChunkResult{Detail: "ok"}, nil
	}

	manager, _ := newManager(t, operations.ExecutionModeParallel, 0, stage)
	report, err := manager.Execute(context.Background(), "clean")
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, operations.StepStatusFailed, report.Outcomes[0].Status)
	assert.Contains(t, report.Outcomes[0].Detail(), "boom")
	assert.Equal(t, operations.StepStatusCompleted, report.Outcomes[1].Status)
	assert.Equal(t, "ok", report.Outcomes[1].Detail())
}

func TestManagerExecute_ParallelBound(t *testing.T) {
	var active, peak int32
	chunks := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	stage := testutil.CreateSuccessfulStage("clean", chunks)
	stage.ProcessFunc = func(_ context.Context, _ string) (*operations.ChunkResult, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return &operations.ChunkResult{}, nil
	}

	manager, _ := newManager(t, operations.ExecutionModeParallel, 3, stage)
	assert.Equal(t, 3, manager.Workers())

	report, err := manager.Execute(context.Background(), "clean")
	require.NoError(t, err)
	assert.Equal(t, len(chunks), report.Completed("clean"))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestManagerExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stage := testutil.CreateSuccessfulStage("clean", []string{"c1", "c2", "c3"})
	stage.ProcessFunc = func(_ context.Context, chunk string) (*operations.ChunkResult, error) {
		if chunk == "c1" {
			cancel()
		}
		return &operations.ChunkResult{}, nil
	}
	next := testutil.CreateSuccessfulStage("detect", []string{"c1"}, "clean")

	manager, _ := newManager(t, operations.ExecutionModeSequential, 0, stage, next)
	report, err := manager.Execute(ctx, operations.StageAll)
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, operations.StepStatusCompleted, report.Outcomes[0].Status)
	assert.Equal(t, operations.StepStatusSkipped, report.Outcomes[1].Status)
	assert.Equal(t, operations.StepStatusSkipped, report.Outcomes[2].Status)
	assert.Empty(t, next.Processed())
	assert.False(t, report.Ran("detect"))
}

func TestManagerExecute_Errors(t *testing.T) {
	broken := testutil.CreateSuccessfulStage("clean", nil)
	broken.DiscoverErr = errors.New("no such directory")
	manager, _ := newManager(t, operations.ExecutionModeSequential, 0, broken)

	_, err := manager.Execute(context.Background(), "plot")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))

	_, err = manager.Execute(context.Background(), "clean")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestManagerWorkersDefault(t *testing.T) {
	manager := operations.NewManager(nil, config.ExecutionConfig{Mode: "parallel"}, nil, nil, nil)
	assert.Positive(t, manager.Workers())
}
