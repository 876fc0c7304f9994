package encode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/fluidlab/godaq/pkg/daq"
)

// DecodeBinary decodes one fixed-layout binary record. channels is the
// channel count agreed out of band; rec must be exactly RecordSize(channels)
// bytes. Float values round-trip bit for bit.
//
// The wire format carries no explicit fault mask; the device stores NaN for
// a channel it failed to read, so NaN values are flagged as faults here.
func DecodeBinary(rec []byte, channels int) (daq.Sample, error) {
	if len(rec) != RecordSize(channels) {
		return daq.Sample{}, fmt.Errorf("binary record: expected %d bytes for %d channels, got %d",
			RecordSize(channels), channels, len(rec))
	}

	s := daq.Sample{
		Millis: uint32(rec[0]) | uint32(rec[1])<<8 | uint32(rec[2])<<16 | uint32(rec[3])<<24,
		Values: make([]float32, channels),
	}
	for i := range s.Values {
		off := 4 + 4*i
		bits := uint32(rec[off]) | uint32(rec[off+1])<<8 | uint32(rec[off+2])<<16 | uint32(rec[off+3])<<24
		s.Values[i] = math32.Float32frombits(bits)
		if math32.IsNaN(s.Values[i]) {
			s.Faults |= 1 << uint(i)
		}
	}

	return s, nil
}

// ParseText decodes one CSV line produced by the text encoder. channels is
// the expected value count; a line with a different field count is rejected.
func ParseText(line string, channels int) (daq.Sample, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != channels+1 {
		return daq.Sample{}, fmt.Errorf("text record: expected %d comma-separated fields, got %d",
			channels+1, len(parts))
	}

	millis, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return daq.Sample{}, fmt.Errorf("invalid timestamp %q: %w", parts[0], err)
	}

	s := daq.Sample{
		Millis: uint32(millis),
		Values: make([]float32, channels),
	}
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return daq.Sample{}, fmt.Errorf("invalid value %q: %w", p, err)
		}
		s.Values[i] = float32(v)
		// The text encoder prints NaN for a channel the device failed to read
		if math32.IsNaN(s.Values[i]) {
			s.Faults |= 1 << uint(i)
		}
	}

	return s, nil
}
