package exporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

func TestWriteSummaryWorkbook(t *testing.T) {
	summary := Summary{
		SNR: []domain.SNRRecord{
			{Chunk: "demo1", Channel: "A001", MeanSpike: 2, MeanNoise: 0.5, SNR: 4},
		},
		Skipped: []ChunkSkip{
			{Chunk: "demo1", SkipRecord: domain.SkipRecord{Channel: "A002", Reason: "mean_noise too low"}},
		},
		Runs: []RunRow{
			{Chunk: "demo1", Stage: "clean", Status: "ok", Duration: 1500 * time.Microsecond},
			{Chunk: "demo2", Stage: "clean", Status: "failed", Detail: "missing input"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryWorkbook(&buf, summary))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSNR, SheetSkipped, SheetRuns}, f.GetSheetList())

	rows, err := f.GetRows(SheetSNR)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, SNRHeader, rows[0])
	assert.Equal(t, []string{"demo1", "A001", "2", "0.5", "4"}, rows[1])

	rows, err = f.GetRows(SheetSkipped)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"demo1", "A002", "mean_noise too low"}, rows[1])

	rows, err = f.GetRows(SheetRuns)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"demo1", "clean", "ok", "1.5"}, rows[1][:4])
	assert.Equal(t, "missing input", rows[2][4])
}

func TestPreviewWindow(t *testing.T) {
	ts := make([]float64, 20)
	for i := range ts {
		ts[i] = float64(i) * 0.5
	}

	tests := []struct {
		name string
		opts config.PreviewConfig
		want []int
	}{
		{name: "whole range", opts: config.PreviewConfig{DurationSeconds: 100, Downsample: 1}, want: seq(0, 20, 1)},
		{name: "downsampled", opts: config.PreviewConfig{DurationSeconds: 100, Downsample: 5}, want: []int{0, 5, 10, 15}},
		{name: "offset window inclusive", opts: config.PreviewConfig{StartSeconds: 2, DurationSeconds: 1, Downsample: 1}, want: []int{4, 5, 6}},
		{name: "offset and step", opts: config.PreviewConfig{StartSeconds: 2, DurationSeconds: 3, Downsample: 2}, want: []int{4, 6, 8, 10}},
		{name: "outside", opts: config.PreviewConfig{StartSeconds: 50, DurationSeconds: 1, Downsample: 1}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviewWindow(ts, tt.opts))
		})
	}
}

func seq(from, to, step int) []int {
	var out []int
	for i := from; i < to; i += step {
		out = append(out, i)
	}
	return out
}

func TestWritePreviewWorkbook(t *testing.T) {
	chunk := sampleChunk(t)
	opts := config.Default().Preview
	opts.Downsample = 10
	opts.ChannelsPerPlot = 1

	var buf bytes.Buffer
	require.NoError(t, WritePreviewWorkbook(&buf, chunk, opts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPreviewData, SheetPreviewCharts}, f.GetSheetList())
	rows, err := f.GetRows(SheetPreviewData)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"timestamps", "A001", "B002"}, rows[0])
}

func TestWritePreviewWorkbook_EmptyWindow(t *testing.T) {
	opts := config.Default().Preview
	opts.StartSeconds = 1000

	var buf bytes.Buffer
	require.NoError(t, WritePreviewWorkbook(&buf, sampleChunk(t), opts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetPreviewData)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
