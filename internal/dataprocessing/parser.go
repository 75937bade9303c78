package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Schema names the columns of a chunk table. A header cell is a channel when
// it is not the timestamp column and reads <ChannelPrefix><label><ChannelSuffix>.
type Schema struct {
	TimestampColumn string
	ChannelPrefix   string
	ChannelSuffix   string
}

// RawSchema is the schema of acquisition exports
func RawSchema(cfg config.SchemaConfig) Schema {
	return Schema{
		TimestampColumn: cfg.RawTimestampColumn,
		ChannelPrefix:   cfg.RawChannelPrefix,
		ChannelSuffix:   cfg.RawChannelSuffix,
	}
}

// CleanedSchema is the schema of every table the pipeline writes
func CleanedSchema() Schema {
	return Schema{TimestampColumn: domain.TimestampColumn}
}

// Label returns the channel label of a header cell
func (s Schema) Label(cell string) (string, bool) {
	if cell == s.TimestampColumn {
		return "", false
	}
	if len(cell) < len(s.ChannelPrefix)+len(s.ChannelSuffix) ||
		!strings.HasPrefix(cell, s.ChannelPrefix) ||
		!strings.HasSuffix(cell, s.ChannelSuffix) {
		return "", false
	}
	label := strings.TrimSpace(cell[len(s.ChannelPrefix) : len(cell)-len(s.ChannelSuffix)])
	return label, label != ""
}

type channelColumn struct {
	index int
	label string
}

// ParseChunk reads a chunk table. Empty and "nan" channel cells become NaN;
// columns that are neither the timestamp column nor a channel are ignored.
func ParseChunk(r io.Reader, name string, schema Schema) (*domain.Chunk, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewMalformedRecordError(fmt.Sprintf("chunk %s: empty table", name), nil)
	}
	if err != nil {
		return nil, apperrors.NewMalformedRecordError(fmt.Sprintf("chunk %s: unreadable header", name), err)
	}

	// Map columns by name, header cells are trimmed
	tsIndex := -1
	var columns []channelColumn
	seen := make(map[string]bool)
	for i, cell := range header {
		cell = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if cell == schema.TimestampColumn {
			tsIndex = i
			continue
		}
		label, ok := schema.Label(cell)
		if !ok {
			continue
		}
		if seen[label] {
			return nil, apperrors.NewMalformedRecordError(
				fmt.Sprintf("chunk %s: duplicate channel %s", name, label), nil)
		}
		seen[label] = true
		columns = append(columns, channelColumn{index: i, label: label})
	}
	if tsIndex < 0 {
		return nil, apperrors.NewMalformedRecordError(
			fmt.Sprintf("chunk %s: missing timestamp column %q", name, schema.TimestampColumn), nil)
	}

	var timestamps []float64
	samples := make([][]float64, len(columns))

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewMalformedRecordError(fmt.Sprintf("chunk %s: line %d", name, line), err)
		}

		ts, err := strconv.ParseFloat(strings.TrimSpace(record[tsIndex]), 64)
		if err != nil {
			return nil, apperrors.NewMalformedRecordError(
				fmt.Sprintf("chunk %s: line %d: bad timestamp %q", name, line, record[tsIndex]), err)
		}
		timestamps = append(timestamps, ts)

		for j, col := range columns {
			v, err := parseSample(record[col.index])
			if err != nil {
				return nil, apperrors.NewMalformedRecordError(
					fmt.Sprintf("chunk %s: line %d: channel %s", name, line, col.label), err)
			}
			samples[j] = append(samples[j], v)
		}
	}

	chunk := domain.NewChunk(name, timestamps)
	for j, col := range columns {
		s := samples[j]
		if s == nil {
			s = []float64{}
		}
		if err := chunk.AddChannel(col.label, s); err != nil {
			return nil, apperrors.NewMalformedRecordError(err.Error(), nil)
		}
	}
	if chunk.Timestamps == nil {
		chunk.Timestamps = []float64{}
	}
	return chunk, nil
}

// ParseChunkFile opens path and parses it as a chunk table
func ParseChunkFile(path, name string, schema Schema) (*domain.Chunk, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.NewMissingInputError(name, path)
	}
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	chunk, err := ParseChunk(f, name, schema)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("file", path)
		}
		return nil, err
	}
	return chunk, nil
}

func parseSample(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

// ParseSNRTable reads an SNR results table. Columns are located by name.
func ParseSNRTable(r io.Reader) ([]domain.SNRRecord, error) {
	rows, cols, err := readNamedTable(r, "chunk", "channel", "mean_spike", "mean_noise", "SNR")
	if err != nil {
		return nil, err
	}

	records := make([]domain.SNRRecord, 0, len(rows))
	for i, row := range rows {
		rec := domain.SNRRecord{
			Chunk:   row[cols["chunk"]],
			Channel: row[cols["channel"]],
		}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"mean_spike", &rec.MeanSpike},
			{"mean_noise", &rec.MeanNoise},
			{"SNR", &rec.SNR},
		} {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[cols[f.col]]), 64)
			if err != nil {
				return nil, apperrors.NewMalformedRecordError(fmt.Sprintf("snr table row %d: %s", i+1, f.col), err)
			}
			*f.dst = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseSkippedTable reads a skipped-channel report
func ParseSkippedTable(r io.Reader) ([]domain.SkipRecord, error) {
	rows, cols, err := readNamedTable(r, "channel", "reason")
	if err != nil {
		return nil, err
	}

	records := make([]domain.SkipRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.SkipRecord{
			Channel: row[cols["channel"]],
			Reason:  row[cols["reason"]],
		})
	}
	return records, nil
}

// readNamedTable reads a CSV whose header must contain every required column
func readNamedTable(r io.Reader, required ...string) ([][]string, map[string]int, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, apperrors.NewMalformedRecordError("unreadable table", err)
	}
	if len(records) == 0 {
		return nil, nil, apperrors.NewMalformedRecordError("empty table", nil)
	}

	cols := make(map[string]int)
	for i, cell := range records[0] {
		cols[strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, apperrors.NewMalformedRecordError(fmt.Sprintf("missing column %q", name), nil)
		}
	}
	return records[1:], cols, nil
}
