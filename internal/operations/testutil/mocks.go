// Package testutil provides step doubles for exercising the operations manager.
package testutil

import (
	"context"
	"sync"

	"github.com/Sania-2000/sma-artifact-removal/internal/operations"
)

// MockStage is a configurable mock implementation of the Step interface
type MockStage struct {
	IDValue           string
	NameValue         string
	DependenciesValue []string
	ChunksValue       []string
	DiscoverErr       error

	// ProcessFunc handles one chunk; nil means success
	ProcessFunc func(ctx context.Context, chunk string) (*operations.ChunkResult, error)

	// Call tracking
	mu        sync.Mutex
	processed []string
}

// ID returns the step ID
func (m *MockStage) ID() string {
	return m.IDValue
}

// Name returns the step name
func (m *MockStage) Name() string {
	return m.NameValue
}

// GetDependencies returns the step dependencies
func (m *MockStage) GetDependencies() []string {
	if m.DependenciesValue == nil {
		return []string{}
	}
	return m.DependenciesValue
}

// Discover returns the configured chunks
func (m *MockStage) Discover() ([]string, error) {
	if m.DiscoverErr != nil {
		return nil, m.DiscoverErr
	}
	return m.ChunksValue, nil
}

// Process records the call and runs ProcessFunc
func (m *MockStage) Process(ctx context.Context, chunk string) (*operations.ChunkResult, error) {
	m.mu.Lock()
	m.processed = append(m.processed, chunk)
	m.mu.Unlock()

	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, chunk)
	}
	return &operations.ChunkResult{Detail: "ok"}, nil
}

// Processed returns the chunks Process was called with, in call order
func (m *MockStage) Processed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.processed))
	copy(out, m.processed)
	return out
}
