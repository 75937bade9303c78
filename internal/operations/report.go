package operations

import (
	"time"

	"github.com/Sania-2000/sma-artifact-removal/internal/exporter"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// RunReport collects the outcome of every chunk of one pipeline run
type RunReport struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	// Stages lists the steps that ran, in order
	Stages   []string
	Outcomes []ChunkOutcome
}

// Ran reports whether stage was executed
func (r *RunReport) Ran(stage string) bool {
	for _, s := range r.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Failed returns the failed and cancelled outcomes
func (r *RunReport) Failed() []ChunkOutcome {
	var out []ChunkOutcome
	for _, o := range r.Outcomes {
		if o.Status != StepStatusCompleted {
			out = append(out, o)
		}
	}
	return out
}

// Completed counts the chunks stage processed successfully
func (r *RunReport) Completed(stage string) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Stage == stage && o.Status == StepStatusCompleted {
			n++
		}
	}
	return n
}

// SNRRecords concatenates the accepted records of every chunk in chunk order
func (r *RunReport) SNRRecords() []domain.SNRRecord {
	out := []domain.SNRRecord{}
	for _, o := range r.Outcomes {
		if o.Stage == StageSNR && o.Result != nil {
			out = append(out, o.Result.SNR...)
		}
	}
	return out
}

// SkippedChannels returns every skip record tagged with its chunk
func (r *RunReport) SkippedChannels() []exporter.ChunkSkip {
	var out []exporter.ChunkSkip
	for _, o := range r.Outcomes {
		if o.Stage != StageSNR || o.Result == nil {
			continue
		}
		for _, s := range o.Result.Skipped {
			out = append(out, exporter.ChunkSkip{Chunk: o.Chunk, SkipRecord: s})
		}
	}
	return out
}

// Summary converts the report into the summary workbook tables
func (r *RunReport) Summary() exporter.Summary {
	runs := make([]exporter.RunRow, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		runs = append(runs, exporter.RunRow{
			Chunk:    o.Chunk,
			Stage:    o.Stage,
			Status:   string(o.Status),
			Duration: o.Duration,
			Detail:   o.Detail(),
		})
	}
	return exporter.Summary{
		SNR:     r.SNRRecords(),
		Skipped: r.SkippedChannels(),
		Runs:    runs,
	}
}
