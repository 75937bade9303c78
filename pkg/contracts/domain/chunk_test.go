package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_AddChannel(t *testing.T) {
	c := NewChunk("demo1", []float64{0, 0.1, 0.2})

	require.NoError(t, c.AddChannel("A001", []float64{1, 2, 3}))
	require.NoError(t, c.AddChannel("A002", []float64{4, 5, 6}))

	assert.Equal(t, []string{"A001", "A002"}, c.Channels())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.ChannelCount())

	s, ok := c.Samples("A002")
	require.True(t, ok)
	assert.Equal(t, []float64{4, 5, 6}, s)

	_, ok = c.Samples("B001")
	assert.False(t, ok)
}

func TestChunk_AddChannelErrors(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		samples []float64
	}{
		{name: "empty label", label: "", samples: []float64{1, 2}},
		{name: "short channel", label: "A002", samples: []float64{1}},
		{name: "duplicate label", label: "A001", samples: []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunk("demo1", []float64{0, 1})
			require.NoError(t, c.AddChannel("A001", []float64{0, 0}))
			assert.Error(t, c.AddChannel(tt.label, tt.samples))
			assert.Equal(t, 1, c.ChannelCount())
		})
	}
}

func TestChunk_Validate(t *testing.T) {
	c := NewChunk("demo1", []float64{0, 1})
	require.NoError(t, c.AddChannel("A001", []float64{0, 0}))
	assert.NoError(t, c.Validate())

	c.samples["A001"] = []float64{0}
	assert.Error(t, c.Validate())

	var nilChunk *Chunk
	assert.Error(t, nilChunk.Validate())
}

func TestChunk_ChannelsIsACopy(t *testing.T) {
	c := NewChunk("demo1", []float64{0})
	require.NoError(t, c.AddChannel("A001", []float64{1}))

	labels := c.Channels()
	labels[0] = "mutated"
	assert.Equal(t, []string{"A001"}, c.Channels())
}

func TestChannelTable_Order(t *testing.T) {
	table := NewChannelTable[NoiseRecord]()
	table.Set("C001", NoiseRecord{Channel: "C001", MeanNoise: 1})
	table.Set("A001", NoiseRecord{Channel: "A001", MeanNoise: 2})
	table.Set("B001", NoiseRecord{Channel: "B001", MeanNoise: 3})
	table.Set("C001", NoiseRecord{Channel: "C001", MeanNoise: 4})

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"C001", "A001", "B001"}, table.Channels())

	got, ok := table.Get("C001")
	require.True(t, ok)
	assert.Equal(t, 4.0, got.MeanNoise)
	assert.True(t, table.Has("A001"))
	assert.False(t, table.Has("Z999"))

	values := table.Values()
	require.Len(t, values, 3)
	assert.Equal(t, "B001", values[2].Channel)
}

func TestChannelTable_NilSafe(t *testing.T) {
	var table *ChannelTable[SpikeRecord]
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Channels())
	assert.False(t, table.Has("A001"))
}

func TestSpikePolicy_Valid(t *testing.T) {
	assert.True(t, SpikePolicyRaw.Valid())
	assert.True(t, SpikePolicyAbs.Valid())
	assert.False(t, SpikePolicy("median").Valid())
}
