package dataprocessing

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/internal/shared/testutil"
)

func TestSchema_Label(t *testing.T) {
	raw := RawSchema(config.Default().Schema)
	cleaned := CleanedSchema()

	tests := []struct {
		name   string
		schema Schema
		cell   string
		label  string
		ok     bool
	}{
		{"raw channel", raw, "highpass_A023_values", "A023", true},
		{"raw timestamp", raw, "highpass_A-000_timestamps", "", false},
		{"raw unrelated column", raw, "lowpass_A001_values", "", false},
		{"raw empty label", raw, "highpass__values", "", false},
		{"raw overlapping affixes", raw, "highpass_values", "", false},
		{"cleaned channel", cleaned, "B016", "B016", true},
		{"cleaned timestamp", cleaned, "timestamps", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, ok := tt.schema.Label(tt.cell)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestParseChunk_RawSchema(t *testing.T) {
	input := "\ufeff highpass_A-000_timestamps , highpass_A001_values,highpass_B002_values,comment\n" +
		"0.0,1.5,-2,x\n" +
		"0.1,,nan,y\n" +
		"0.2,3,NaN,z\n"

	chunk, err := ParseChunk(strings.NewReader(input), "demo1", RawSchema(config.Default().Schema))
	require.NoError(t, err)

	assert.Equal(t, "demo1", chunk.Name)
	assert.Equal(t, []float64{0, 0.1, 0.2}, chunk.Timestamps)
	assert.Equal(t, []string{"A001", "B002"}, chunk.Channels())

	a, _ := chunk.Samples("A001")
	assert.Equal(t, 1.5, a[0])
	assert.True(t, math.IsNaN(a[1]))
	assert.Equal(t, 3.0, a[2])

	b, _ := chunk.Samples("B002")
	assert.Equal(t, -2.0, b[0])
	assert.True(t, math.IsNaN(b[1]))
	assert.True(t, math.IsNaN(b[2]))
	assert.NoError(t, chunk.Validate())
}

func TestParseChunk_HeaderOnly(t *testing.T) {
	chunk, err := ParseChunk(strings.NewReader("timestamps,A001\n"), "empty", CleanedSchema())
	require.NoError(t, err)
	assert.Equal(t, 0, chunk.Len())
	assert.Equal(t, 1, chunk.ChannelCount())
}

func TestParseChunk_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"no timestamp column", "time,A001\n0,1\n"},
		{"duplicate channel", "timestamps,A001,A001\n0,1,2\n"},
		{"ragged row", "timestamps,A001\n0,1\n0.1\n"},
		{"bad sample", "timestamps,A001\n0,abc\n"},
		{"bad timestamp", "timestamps,A001\nnow,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChunk(strings.NewReader(tt.input), "demo1", CleanedSchema())
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMalformed), err.Error())
		})
	}
}

func TestParseChunkFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteChunkCSV(t, dir, "demo1_cleaned.csv",
		[]string{"timestamps", "A001"},
		[][]float64{{0, 1}, {5, 6}})

	chunk, err := ParseChunkFile(path, "demo1", CleanedSchema())
	require.NoError(t, err)
	s, _ := chunk.Samples("A001")
	assert.Equal(t, []float64{5, 6}, s)

	_, err = ParseChunkFile(filepath.Join(dir, "absent.csv"), "absent", CleanedSchema())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))

	bad := testutil.WriteFile(t, dir, "bad.csv", "timestamps,A001\n0,x\n")
	_, err = ParseChunkFile(bad, "bad", CleanedSchema())
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, bad, appErr.Context["file"])
}

func TestParseSNRTable(t *testing.T) {
	input := "chunk,channel,mean_spike,mean_noise,SNR\n" +
		"demo1,A001,2.000000,0.500000,4.000000\n" +
		"demo1,B002,1,0.25,4\n"

	records, err := ParseSNRTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A001", records[0].Channel)
	assert.Equal(t, "demo1", records[0].Chunk)
	assert.Equal(t, 2.0, records[0].MeanSpike)
	assert.Equal(t, 0.5, records[0].MeanNoise)
	assert.Equal(t, 4.0, records[1].SNR)

	_, err = ParseSNRTable(strings.NewReader("chunk,channel\n"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMalformed))

	_, err = ParseSNRTable(strings.NewReader("chunk,channel,mean_spike,mean_noise,SNR\ndemo1,A001,x,1,1\n"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMalformed))
}

func TestParseSkippedTable(t *testing.T) {
	input := "channel,reason\nA001,mean_noise too low\nB002,SNR too high: 1500.00\n"

	records, err := ParseSkippedTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "SNR too high: 1500.00", records[1].Reason)

	_, err = ParseSkippedTable(strings.NewReader(""))
	assert.Error(t, err)
}
