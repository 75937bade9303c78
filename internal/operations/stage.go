package operations

import (
	"context"
	"time"

	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Stage identifiers in pipeline order
const (
	StageClean  = "clean"
	StageDetect = "detect"
	StageNoise  = "noise"
	StageSNR    = "snr"

	// StageAll runs every registered stage in dependency order
	StageAll = "all"
)

// Step represents a single stage of the pipeline, applied to every chunk it
// discovers
type Step interface {
	// ID returns the unique identifier for this Step
	ID() string

	// Name returns the human-readable name for this Step
	Name() string

	// GetDependencies returns the IDs of steps whose outputs this Step reads
	GetDependencies() []string

	// Discover lists the chunks whose inputs are present, sorted
	Discover() ([]string, error)

	// Process runs the Step on one chunk
	Process(ctx context.Context, chunk string) (*ChunkResult, error)
}

// StepStatus represents the outcome of a Step on one chunk
type StepStatus string

const (
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// ChunkResult is what a Step reports for a processed chunk
type ChunkResult struct {
	Detail  string
	SNR     []domain.SNRRecord
	Skipped []domain.SkipRecord
}

// ChunkOutcome records one Step run on one chunk
type ChunkOutcome struct {
	Stage    string
	Chunk    string
	Status   StepStatus
	Duration time.Duration
	Err      error
	Result   *ChunkResult
}

// Detail returns the error text for failed chunks and the step detail otherwise
func (o ChunkOutcome) Detail() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	if o.Result != nil {
		return o.Result.Detail
	}
	return ""
}

// BaseStage provides common functionality for Step implementations
type BaseStage struct {
	id           string
	name         string
	dependencies []string
}

// NewBaseStage creates a new base Step
func NewBaseStage(id, name string, dependencies []string) BaseStage {
	if dependencies == nil {
		dependencies = []string{}
	}
	return BaseStage{
		id:           id,
		name:         name,
		dependencies: dependencies,
	}
}

// ID returns the Step ID
func (b *BaseStage) ID() string {
	if b == nil {
		return ""
	}
	return b.id
}

// Name returns the Step name
func (b *BaseStage) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// GetDependencies returns the Step dependencies
func (b *BaseStage) GetDependencies() []string {
	if b == nil {
		return nil
	}
	return b.dependencies
}
