package testutil

import (
	"context"

	"github.com/Sania-2000/sma-artifact-removal/internal/operations"
)

// CreateSuccessfulStage creates a step that succeeds on every chunk
func CreateSuccessfulStage(id string, chunks []string, deps ...string) *MockStage {
	return &MockStage{
		IDValue:           id,
		NameValue:         id,
		DependenciesValue: deps,
		ChunksValue:       chunks,
	}
}

// CreateFailingStage creates a step that fails on the listed chunks
func CreateFailingStage(id string, chunks []string, failOn map[string]error, deps ...string) *MockStage {
	stage := CreateSuccessfulStage(id, chunks, deps...)
	stage.ProcessFunc = func(_ context.Context, chunk string) (*operations.ChunkResult, error) {
		if err, ok := failOn[chunk]; ok {
			return nil, err
		}
		return &operations.ChunkResult{Detail: "ok"}, nil
	}
	return stage
}

// CreateRegistry registers the given stages in order
func CreateRegistry(stages ...operations.Step) (*operations.Registry, error) {
	registry := operations.NewRegistry()
	for _, s := range stages {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
