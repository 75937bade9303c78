package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Sania-2000/sma-artifact-removal/internal/config"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Preview workbook sheet names
const (
	SheetPreviewData   = "Data"
	SheetPreviewCharts = "Charts"
)

const chartRowSpan = 18

// PreviewWindow returns the sample indices inside [start, start+duration],
// keeping every downsample-th one starting with the first.
func PreviewWindow(timestamps []float64, opts config.PreviewConfig) []int {
	step := opts.Downsample
	if step < 1 {
		step = 1
	}
	end := opts.StartSeconds + opts.DurationSeconds

	var idx []int
	seen := 0
	for i, ts := range timestamps {
		if ts < opts.StartSeconds || ts > end {
			continue
		}
		if seen%step == 0 {
			idx = append(idx, i)
		}
		seen++
	}
	return idx
}

// WritePreviewWorkbook renders a downsampled window of chunk as a data sheet
// plus one line chart per group of channels.
func WritePreviewWorkbook(w io.Writer, chunk *domain.Chunk, opts config.PreviewConfig) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPreviewData); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetPreviewCharts); err != nil {
		return fmt.Errorf("failed to create chart sheet: %w", err)
	}

	labels := chunk.Channels()
	window := PreviewWindow(chunk.Timestamps, opts)

	rows := make([][]interface{}, 0, len(window))
	for _, i := range window {
		row := make([]interface{}, 0, len(labels)+1)
		row = append(row, chunk.Timestamps[i])
		for _, label := range labels {
			s, _ := chunk.Samples(label)
			row = append(row, s[i])
		}
		rows = append(rows, row)
	}
	header := append([]string{domain.TimestampColumn}, labels...)
	if err := writeSheet(f, SheetPreviewData, header, rows); err != nil {
		return err
	}

	if len(window) > 0 {
		perPlot := opts.ChannelsPerPlot
		if perPlot < 1 {
			perPlot = 1
		}
		lastRow := len(window) + 1
		categories := fmt.Sprintf("%s!$A$2:$A$%d", SheetPreviewData, lastRow)

		for start := 0; start < len(labels); start += perPlot {
			end := min(start+perPlot, len(labels))

			series := make([]excelize.ChartSeries, 0, end-start)
			for j := start; j < end; j++ {
				col, err := excelize.ColumnNumberToName(j + 2)
				if err != nil {
					return err
				}
				series = append(series, excelize.ChartSeries{
					Name:       fmt.Sprintf("%s!$%s$1", SheetPreviewData, col),
					Categories: categories,
					Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetPreviewData, col, col, lastRow),
				})
			}

			anchor, err := excelize.CoordinatesToCellName(1, 1+(start/perPlot)*chartRowSpan)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("%s - Cleaned Channels %d-%d", chunk.Name, start+1, end)
			if err := f.AddChart(SheetPreviewCharts, anchor, &excelize.Chart{
				Type:      excelize.Line,
				Series:    series,
				Title:     []excelize.RichTextRun{{Text: title}},
				Legend:    excelize.ChartLegend{Position: "right"},
				Dimension: excelize.ChartDimension{Width: 960, Height: 320},
			}); err != nil {
				return fmt.Errorf("failed to add chart %q: %w", title, err)
			}
		}
	}

	return f.Write(w)
}

// ExportPreview writes the preview workbook of chunk to path
func (w *CSVWriter) ExportPreview(path string, chunk *domain.Chunk, opts config.PreviewConfig) error {
	return w.files.WriteFile(path, func(out io.Writer) error {
		return WritePreviewWorkbook(out, chunk, opts)
	})
}
