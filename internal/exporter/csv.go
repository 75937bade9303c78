package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Sania-2000/sma-artifact-removal/internal/files"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Table headers
var (
	SNRHeader        = []string{"chunk", "channel", "mean_spike", "mean_noise", "SNR"}
	SkippedHeader    = []string{"channel", "reason"}
	ChunkSkipHeader  = []string{"chunk", "channel", "reason"}
	RunOutcomeHeader = []string{"chunk", "stage", "status", "duration_ms", "detail"}
)

// CSVWriter writes pipeline tables through the file manager so every
// output file appears atomically
type CSVWriter struct {
	files *files.Manager
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(manager *files.Manager) *CSVWriter {
	return &CSVWriter{files: manager}
}

// WriteChunk writes a chunk table: "timestamps" followed by one column per
// channel, every value with 6 decimals.
func WriteChunk(w io.Writer, chunk *domain.Chunk) error {
	writer := csv.NewWriter(w)

	labels := chunk.Channels()
	header := make([]string, 0, len(labels)+1)
	header = append(header, domain.TimestampColumn)
	header = append(header, labels...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	columns := make([][]float64, len(labels))
	for j, label := range labels {
		columns[j], _ = chunk.Samples(label)
	}

	row := make([]string, len(header))
	for i, ts := range chunk.Timestamps {
		row[0] = formatSample(ts)
		for j, col := range columns {
			row[j+1] = formatSample(col[i])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSNR writes accepted SNR records
func WriteSNR(w io.Writer, records []domain.SNRRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Chunk, r.Channel, formatStat(r.MeanSpike), formatStat(r.MeanNoise), formatStat(r.SNR)})
	}
	return writeTable(w, SNRHeader, rows)
}

// WriteSkipped writes the skipped channels of one chunk
func WriteSkipped(w io.Writer, records []domain.SkipRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Channel, r.Reason})
	}
	return writeTable(w, SkippedHeader, rows)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportChunk writes chunk to path
func (w *CSVWriter) ExportChunk(path string, chunk *domain.Chunk) error {
	return w.files.WriteFile(path, func(out io.Writer) error {
		return WriteChunk(out, chunk)
	})
}

// ExportSNR writes records to path when there is at least one record; an
// empty result removes any stale file. It reports whether a file was written.
func (w *CSVWriter) ExportSNR(path string, records []domain.SNRRecord) (bool, error) {
	if len(records) == 0 {
		return false, w.files.RemoveIfExists(path)
	}
	err := w.files.WriteFile(path, func(out io.Writer) error {
		return WriteSNR(out, records)
	})
	return err == nil, err
}

// ExportSkipped writes records to path when there is at least one record,
// with the same stale-file handling as ExportSNR.
func (w *CSVWriter) ExportSkipped(path string, records []domain.SkipRecord) (bool, error) {
	if len(records) == 0 {
		return false, w.files.RemoveIfExists(path)
	}
	err := w.files.WriteFile(path, func(out io.Writer) error {
		return WriteSkipped(out, records)
	})
	return err == nil, err
}
