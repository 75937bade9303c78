// Package statsfile reads and writes the per-channel statistics text files
// exchanged between the spike, noise and SNR stages.
//
// Each line describes one channel: the channel label followed by labeled
// fields separated by tabs.
//
//	A001	Spikes: 3	Max Amplitude: 2.500	Mean Amplitude: 2.000	Spike Indices: [10,42,97]
//	A001	Mean Noise: 0.500000	Max Noise: 1.250000
//
// Fields are located by label, so their order and the amount of whitespace
// between them do not matter. Grammar of a field: Label ':' space* Number.
package statsfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/Sania-2000/sma-artifact-removal/internal/errors"
	"github.com/Sania-2000/sma-artifact-removal/pkg/contracts/domain"
)

// Field labels
const (
	LabelSpikes        = "Spikes"
	LabelMaxAmplitude  = "Max Amplitude"
	LabelMeanAmplitude = "Mean Amplitude"
	LabelSpikeIndices  = "Spike Indices"
	LabelMeanNoise     = "Mean Noise"
	LabelMaxNoise      = "Max Noise"
)

const number = `([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)`

var (
	spikesField        = fieldRegexp(LabelSpikes, `([-+]?\d+)`)
	maxAmplitudeField  = fieldRegexp(LabelMaxAmplitude, number)
	meanAmplitudeField = fieldRegexp(LabelMeanAmplitude, number)
	indicesField       = fieldRegexp(LabelSpikeIndices, `\[([^\]]*)\]`)
	meanNoiseField     = fieldRegexp(LabelMeanNoise, number)
	maxNoiseField      = fieldRegexp(LabelMaxNoise, number)
)

// fieldRegexp matches `Label: value` where the label starts a field
func fieldRegexp(label, value string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(label) + `\s*:\s*` + value + `(?:\s|$)`)
}

// maxLineBytes bounds a single line; index lists of long chunks are large
const maxLineBytes = 64 << 20

// FormatSpikeLine renders one spike statistics line without a trailing newline
func FormatSpikeLine(rec domain.SpikeRecord) string {
	idx := make([]string, len(rec.Indices))
	for i, v := range rec.Indices {
		idx[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%s\t%s: %d\t%s: %.3f\t%s: %.3f\t%s: [%s]",
		rec.Channel,
		LabelSpikes, rec.Count,
		LabelMaxAmplitude, rec.MaxAmplitude,
		LabelMeanAmplitude, rec.MeanAmplitude,
		LabelSpikeIndices, strings.Join(idx, ","))
}

// FormatNoiseLine renders one noise statistics line without a trailing newline
func FormatNoiseLine(rec domain.NoiseRecord) string {
	return fmt.Sprintf("%s\t%s: %.6f\t%s: %.6f",
		rec.Channel,
		LabelMeanNoise, rec.MeanNoise,
		LabelMaxNoise, rec.MaxNoise)
}

// WriteSpikeStats writes one line per record in table order
func WriteSpikeStats(w io.Writer, table *domain.SpikeTable) error {
	bw := bufio.NewWriter(w)
	var err error
	table.Each(func(_ string, rec domain.SpikeRecord) {
		if err == nil {
			_, err = fmt.Fprintln(bw, FormatSpikeLine(rec))
		}
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// WriteNoiseStats writes one line per record in table order
func WriteNoiseStats(w io.Writer, table *domain.NoiseTable) error {
	bw := bufio.NewWriter(w)
	var err error
	table.Each(func(_ string, rec domain.NoiseRecord) {
		if err == nil {
			_, err = fmt.Fprintln(bw, FormatNoiseLine(rec))
		}
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// channelOf returns the leading label of a line
func channelOf(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", apperrors.NewMalformedRecordError("empty line", nil)
	}
	if strings.Contains(fields[0], ":") {
		return "", apperrors.NewMalformedRecordError("line does not start with a channel label", nil)
	}
	return fields[0], nil
}

func floatField(re *regexp.Regexp, label, line string) (float64, error) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, apperrors.NewMalformedRecordError(fmt.Sprintf("missing field %q", label), nil)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, apperrors.NewMalformedRecordError(fmt.Sprintf("field %q is not a finite number", label), err)
	}
	return v, nil
}

// ParseSpikeLine parses one spike statistics line. The index list is optional;
// when present it must hold Count ascending, non-negative indices.
func ParseSpikeLine(line string) (domain.SpikeRecord, error) {
	var rec domain.SpikeRecord

	channel, err := channelOf(line)
	if err != nil {
		return rec, err
	}
	rec.Channel = channel

	m := spikesField.FindStringSubmatch(line)
	if m == nil {
		return rec, apperrors.NewMalformedRecordError(fmt.Sprintf("missing field %q", LabelSpikes), nil)
	}
	count, err := strconv.Atoi(m[1])
	if err != nil || count < 0 {
		return rec, apperrors.NewMalformedRecordError(fmt.Sprintf("field %q is not a non-negative integer", LabelSpikes), err)
	}
	rec.Count = count

	if rec.MaxAmplitude, err = floatField(maxAmplitudeField, LabelMaxAmplitude, line); err != nil {
		return rec, err
	}
	if rec.MeanAmplitude, err = floatField(meanAmplitudeField, LabelMeanAmplitude, line); err != nil {
		return rec, err
	}

	if m := indicesField.FindStringSubmatch(line); m != nil {
		indices, err := parseIndices(m[1])
		if err != nil {
			return rec, err
		}
		if len(indices) != rec.Count {
			return rec, apperrors.NewMalformedRecordError(
				fmt.Sprintf("%d spike indices for %d spikes", len(indices), rec.Count), nil)
		}
		rec.Indices = indices
	}

	return rec, nil
}

func parseIndices(list string) ([]int, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return []int{}, nil
	}
	parts := strings.Split(list, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return nil, apperrors.NewMalformedRecordError(fmt.Sprintf("bad spike index %q", p), err)
		}
		if len(out) > 0 && v <= out[len(out)-1] {
			return nil, apperrors.NewMalformedRecordError("spike indices are not strictly ascending", nil)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseNoiseLine parses one noise statistics line
func ParseNoiseLine(line string) (domain.NoiseRecord, error) {
	var rec domain.NoiseRecord

	channel, err := channelOf(line)
	if err != nil {
		return rec, err
	}
	rec.Channel = channel

	if rec.MeanNoise, err = floatField(meanNoiseField, LabelMeanNoise, line); err != nil {
		return rec, err
	}
	if rec.MaxNoise, err = floatField(maxNoiseField, LabelMaxNoise, line); err != nil {
		return rec, err
	}
	return rec, nil
}

// LineError is a malformed line that was skipped while reading a stats file
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// scanLines calls fn for every non-blank line and collects its errors
func scanLines(r io.Reader, fn func(line string) error) ([]LineError, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var skipped []LineError
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(line); err != nil {
			skipped = append(skipped, LineError{Line: n, Err: err})
		}
	}
	if err := scanner.Err(); err != nil {
		return skipped, apperrors.NewParsingError("failed to read statistics", err)
	}
	return skipped, nil
}

// ReadSpikeStats parses every line of r. Malformed lines are skipped and
// returned; a repeated channel keeps its first position and its last value.
func ReadSpikeStats(r io.Reader) (*domain.SpikeTable, []LineError, error) {
	table := domain.NewChannelTable[domain.SpikeRecord]()
	skipped, err := scanLines(r, func(line string) error {
		rec, err := ParseSpikeLine(line)
		if err != nil {
			return err
		}
		table.Set(rec.Channel, rec)
		return nil
	})
	return table, skipped, err
}

// ReadNoiseStats parses every line of r. Malformed lines are skipped and returned.
func ReadNoiseStats(r io.Reader) (*domain.NoiseTable, []LineError, error) {
	table := domain.NewChannelTable[domain.NoiseRecord]()
	skipped, err := scanLines(r, func(line string) error {
		rec, err := ParseNoiseLine(line)
		if err != nil {
			return err
		}
		table.Set(rec.Channel, rec)
		return nil
	})
	return table, skipped, err
}

// ReadSpikeStatsFile reads the spike statistics of chunk from path
func ReadSpikeStatsFile(path, chunk string) (*domain.SpikeTable, []LineError, error) {
	f, err := openStats(path, chunk)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadSpikeStats(f)
}

// ReadNoiseStatsFile reads the noise statistics of chunk from path
func ReadNoiseStatsFile(path, chunk string) (*domain.NoiseTable, []LineError, error) {
	f, err := openStats(path, chunk)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadNoiseStats(f)
}

func openStats(path, chunk string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.NewMissingInputError(chunk, path)
	}
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	return f, nil
}
