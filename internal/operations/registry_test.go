package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sania-2000/sma-artifact-removal/internal/operations"
	"github.com/Sania-2000/sma-artifact-removal/internal/operations/testutil"
)

func stepIDs(steps []operations.Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	return ids
}

func TestRegistryRegister(t *testing.T) {
	registry := operations.NewRegistry()
	assert.Equal(t, 0, registry.Count())

	stage1 := testutil.CreateSuccessfulStage("stage1", nil)
	stage2 := testutil.CreateSuccessfulStage("stage2", nil)
	require.NoError(t, registry.Register(stage1))
	require.NoError(t, registry.Register(stage2))

	assert.Equal(t, 2, registry.Count())
	assert.Equal(t, []string{"stage1", "stage2"}, registry.ListIDs())
	assert.True(t, registry.Has("stage1"))

	got, err := registry.Get("stage1")
	require.NoError(t, err)
	assert.Same(t, stage1, got)

	_, err = registry.Get("missing")
	assert.Error(t, err)
}

func TestRegistryRegisterErrors(t *testing.T) {
	registry := operations.NewRegistry()
	require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("dup", nil)))

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(testutil.CreateSuccessfulStage("", nil)))
	assert.Error(t, registry.Register(testutil.CreateSuccessfulStage("dup", nil)))
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryDependencyOrder(t *testing.T) {
	tests := []struct {
		name    string
		stages  []operations.Step
		want    []string
		wantErr bool
	}{
		{
			name: "reverse registration",
			stages: []operations.Step{
				testutil.CreateSuccessfulStage("snr", nil, "noise"),
				testutil.CreateSuccessfulStage("noise", nil, "detect"),
				testutil.CreateSuccessfulStage("detect", nil, "clean"),
				testutil.CreateSuccessfulStage("clean", nil),
			},
			want: []string{"clean", "detect", "noise", "snr"},
		},
		{
			name: "independent steps keep registration order",
			stages: []operations.Step{
				testutil.CreateSuccessfulStage("b", nil),
				testutil.CreateSuccessfulStage("a", nil),
				testutil.CreateSuccessfulStage("c", nil, "a", "b"),
			},
			want: []string{"b", "a", "c"},
		},
		{
			name: "missing dependency",
			stages: []operations.Step{
				testutil.CreateSuccessfulStage("detect", nil, "clean"),
			},
			wantErr: true,
		},
		{
			name: "cycle",
			stages: []operations.Step{
				testutil.CreateSuccessfulStage("a", nil, "b"),
				testutil.CreateSuccessfulStage("b", nil, "a"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := testutil.CreateRegistry(tt.stages...)
			require.NoError(t, err)

			ordered, err := registry.GetDependencyOrder()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, stepIDs(ordered))
		})
	}
}

func TestRegistrySelect(t *testing.T) {
	registry, err := testutil.CreateRegistry(
		testutil.CreateSuccessfulStage("detect", nil, "clean"),
		testutil.CreateSuccessfulStage("clean", nil),
	)
	require.NoError(t, err)

	all, err := registry.Select(operations.StageAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "detect"}, stepIDs(all))

	all, err = registry.Select("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := registry.Select("detect")
	require.NoError(t, err)
	assert.Equal(t, []string{"detect"}, stepIDs(one))

	_, err = registry.Select("plot")
	assert.Error(t, err)
}
