package statsfile

import (
	"math"
	"sort"
	"testing"
)

func FuzzParseSpikeLine(f *testing.F) {
	f.Add("A001\tSpikes: 3\tMax Amplitude: 2.500\tMean Amplitude: 2.000\tSpike Indices: [10,42,97]")
	f.Add("A001\tSpikes: 0\tMax Amplitude: 0.000\tMean Amplitude: 0.000")
	f.Add("  B002 Spikes:1 Mean Amplitude: -1e3 Max Amplitude: .5 Spike Indices: [0]")
	f.Add("Spikes: 1")
	f.Add("A001\tSpikes: 99999999999999999999\tMax Amplitude: 1\tMean Amplitude: 1")
	f.Add("")

	f.Fuzz(func(t *testing.T, line string) {
		rec, err := ParseSpikeLine(line)
		if err != nil {
			return
		}
		if rec.Channel == "" {
			t.Fatalf("accepted line without channel: %q", line)
		}
		if rec.Count < 0 {
			t.Fatalf("negative count %d from %q", rec.Count, line)
		}
		if math.IsNaN(rec.MaxAmplitude) || math.IsInf(rec.MaxAmplitude, 0) ||
			math.IsNaN(rec.MeanAmplitude) || math.IsInf(rec.MeanAmplitude, 0) {
			t.Fatalf("non-finite amplitude from %q", line)
		}
		if rec.Indices != nil {
			if len(rec.Indices) != rec.Count {
				t.Fatalf("%d indices for count %d", len(rec.Indices), rec.Count)
			}
			if !sort.IntsAreSorted(rec.Indices) {
				t.Fatalf("unsorted indices from %q", line)
			}
		}

		// Formatting an accepted record must parse back to the same shape
		again, err := ParseSpikeLine(FormatSpikeLine(rec))
		if err != nil {
			t.Fatalf("re-parse of formatted record failed: %v", err)
		}
		if again.Channel != rec.Channel || again.Count != rec.Count {
			t.Fatalf("re-parse changed record: %+v vs %+v", again, rec)
		}
	})
}

func FuzzParseNoiseLine(f *testing.F) {
	f.Add("A001\tMean Noise: 0.500000\tMax Noise: 1.250000")
	f.Add("A001 Max Noise: 1 Mean Noise: 2")
	f.Add("Mean Noise: 1")

	f.Fuzz(func(t *testing.T, line string) {
		rec, err := ParseNoiseLine(line)
		if err != nil {
			return
		}
		if rec.Channel == "" || math.IsNaN(rec.MeanNoise) || math.IsInf(rec.MaxNoise, 0) {
			t.Fatalf("accepted invalid record %+v from %q", rec, line)
		}
	})
}
