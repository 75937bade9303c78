package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Summary workbook sheet names
const (
	SheetSNR     = "SNR"
	SheetSkipped = "Skipped"
	SheetRuns    = "Runs"
)

// ChunkSkip is a skipped channel tagged with its chunk
type ChunkSkip struct {
	Chunk string
	domain.SkipRecord
}

// RunRow is the outcome of one stage on one chunk
type RunRow struct {
	Chunk    string
	Stage    string
	Status   string
	Duration time.Duration
	Detail   string
}

// Summary is everything the run-level workbook reports
type Summary struct {
	SNR     []domain.SNRRecord
	Skipped []ChunkSkip
	Runs    []RunRow
}

// WriteSummaryWorkbook renders s as an xlsx workbook with one sheet per table
func WriteSummaryWorkbook(w io.Writer, s Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSNR); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{SheetSkipped, SheetRuns} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	snrRows := make([][]interface{}, 0, len(s.SNR))
	for _, r := range s.SNR {
		snrRows = append(snrRows, []interface{}{r.Chunk, r.Channel, r.MeanSpike, r.MeanNoise, r.SNR})
	}
	skipRows := make([][]interface{}, 0, len(s.Skipped))
	for _, r := range s.Skipped {
		skipRows = append(skipRows, []interface{}{r.Chunk, r.Channel, r.Reason})
	}
	runRows := make([][]interface{}, 0, len(s.Runs))
	for _, r := range s.Runs {
		runRows = append(runRows, []interface{}{r.Chunk, r.Stage, r.Status, float64(r.Duration.Microseconds()) / 1000, r.Detail})
	}

	for _, sheet := range []struct {
		name   string
		header []string
		rows   [][]interface{}
	}{
		{SheetSNR, SNRHeader, snrRows},
		{SheetSkipped, ChunkSkipHeader, skipRows},
		{SheetRuns, RunOutcomeHeader, runRows},
	} {
		if err := writeSheet(f, sheet.name, sheet.header, sheet.rows); err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet.name, 1, 1, bold); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet.name, err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// ExportSummary writes the summary workbook to path
func (w *CSVWriter) ExportSummary(path string, s Summary) error {
	return w.files.WriteFile(path, func(out io.Writer) error {
		return WriteSummaryWorkbook(out, s)
	})
}

// ExportCombinedSNR writes the SNR records of every chunk to path. The
// header is written even when no channel was accepted.
func (w *CSVWriter) ExportCombinedSNR(path string, records []domain.SNRRecord) error {
	return w.files.WriteFile(path, func(out io.Writer) error {
		return WriteSNR(out, records)
	})
}
