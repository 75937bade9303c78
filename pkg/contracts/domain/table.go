package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ChannelTable is an insertion-ordered map from channel label to a per-channel record.
type ChannelTable[T any] struct {
	m *orderedmap.OrderedMap[string, T]
}

// NewChannelTable returns an empty table.
func NewChannelTable[T any]() *ChannelTable[T] {
	return &ChannelTable[T]{m: orderedmap.New[string, T]()}
}

// Set stores v under channel. Re-setting a channel keeps its original position.
func (t *ChannelTable[T]) Set(channel string, v T) {
	t.m.Set(channel, v)
}

// Get returns the value stored under channel.
func (t *ChannelTable[T]) Get(channel string) (T, bool) {
	if t == nil || t.m == nil {
		var zero T
		return zero, false
	}
	return t.m.Get(channel)
}

// Has reports whether channel is present.
func (t *ChannelTable[T]) Has(channel string) bool {
	_, ok := t.Get(channel)
	return ok
}

// Len returns the number of channels.
func (t *ChannelTable[T]) Len() int {
	if t == nil || t.m == nil {
		return 0
	}
	return t.m.Len()
}

// Channels returns the labels in insertion order.
func (t *ChannelTable[T]) Channels() []string {
	out := make([]string, 0, t.Len())
	t.Each(func(channel string, _ T) {
		out = append(out, channel)
	})
	return out
}

// Values returns the records in insertion order.
func (t *ChannelTable[T]) Values() []T {
	out := make([]T, 0, t.Len())
	t.Each(func(_ string, v T) {
		out = append(out, v)
	})
	return out
}

// Each calls fn for every entry in insertion order.
func (t *ChannelTable[T]) Each(fn func(channel string, v T)) {
	if t == nil || t.m == nil {
		return
	}
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// SpikeTable maps channel labels to spike statistics.
type SpikeTable = ChannelTable[SpikeRecord]

// NoiseTable maps channel labels to noise statistics.
type NoiseTable = ChannelTable[NoiseRecord]
