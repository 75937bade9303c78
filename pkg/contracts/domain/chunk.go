package domain

import (
	"fmt"
)

// TimestampColumn is the name of the shared time axis in every derived chunk table.
const TimestampColumn = "timestamps"

// Chunk is one file's worth of a multichannel recording. Every channel holds
// exactly one sample per timestamp.
type Chunk struct {
	Name       string
	Timestamps []float64

	labels  []string
	samples map[string][]float64
}

// NewChunk creates an empty chunk over the given time axis.
func NewChunk(name string, timestamps []float64) *Chunk {
	return &Chunk{
		Name:       name,
		Timestamps: timestamps,
		samples:    make(map[string][]float64),
	}
}

// AddChannel appends a channel column. The sample slice is stored as given.
func (c *Chunk) AddChannel(label string, samples []float64) error {
	if label == "" {
		return fmt.Errorf("chunk %s: empty channel label", c.Name)
	}
	if _, exists := c.samples[label]; exists {
		return fmt.Errorf("chunk %s: duplicate channel %s", c.Name, label)
	}
	if len(samples) != len(c.Timestamps) {
		return fmt.Errorf("chunk %s: channel %s has %d samples, want %d",
			c.Name, label, len(samples), len(c.Timestamps))
	}
	c.labels = append(c.labels, label)
	c.samples[label] = samples
	return nil
}

// Channels returns the channel labels in column order.
func (c *Chunk) Channels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Samples returns the samples of one channel.
func (c *Chunk) Samples(label string) ([]float64, bool) {
	s, ok := c.samples[label]
	return s, ok
}

// Len returns the number of samples per channel.
func (c *Chunk) Len() int {
	return len(c.Timestamps)
}

// ChannelCount returns the number of channels.
func (c *Chunk) ChannelCount() int {
	return len(c.labels)
}

// Validate checks the equal-length invariant across the time axis and all channels.
func (c *Chunk) Validate() error {
	if c == nil {
		return fmt.Errorf("nil chunk")
	}
	if len(c.labels) != len(c.samples) {
		return fmt.Errorf("chunk %s: %d labels for %d channels", c.Name, len(c.labels), len(c.samples))
	}
	for _, label := range c.labels {
		s, ok := c.samples[label]
		if !ok {
			return fmt.Errorf("chunk %s: channel %s has no samples", c.Name, label)
		}
		if len(s) != len(c.Timestamps) {
			return fmt.Errorf("chunk %s: channel %s has %d samples, want %d",
				c.Name, label, len(s), len(c.Timestamps))
		}
	}
	return nil
}
