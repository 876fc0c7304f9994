// Package encode serializes samples onto the serial link and decodes them on
// the receiving side.
//
// Two mutually exclusive encodings exist, selected at configuration time:
//
//   - Text: "<millis>,<v0>,...,<vN-1>\n" with each value printed to two
//     decimal places. Meant for direct inspection on a serial monitor.
//   - Binary: a fixed-width little-endian record, a uint32 millisecond
//     timestamp followed by one IEEE-754 float32 per channel. No delimiters,
//     no length prefix, no checksum; the receiver must know the channel
//     count and order out of band.
//
// Both encodings carry the same sample; only the serialization differs.
package encode

import (
	"encoding/binary"
	"io"
	"strconv"

	"github.com/chewxy/math32"

	"github.com/fluidlab/godaq/pkg/daq"
)

// Mode selects the wire encoding.
type Mode int

const (
	// Text emits human-readable CSV lines.
	Text Mode = iota
	// Binary emits fixed-layout little-endian records.
	Binary
)

// RecordSize returns the byte size of one binary record for the given
// channel count.
func RecordSize(channels int) int {
	return 4 + 4*channels
}

// New returns the encoder for the given mode.
func New(mode Mode) daq.Encoder {
	if mode == Binary {
		return &BinaryEncoder{}
	}
	return &TextEncoder{}
}

// TextEncoder writes samples as CSV lines. The scratch buffer is reused
// across calls, so a TextEncoder must not be shared between goroutines.
type TextEncoder struct {
	buf []byte
}

// Encode writes one CSV line for the sample.
func (e *TextEncoder) Encode(w io.Writer, s daq.Sample) error {
	e.buf = e.buf[:0]
	e.buf = strconv.AppendUint(e.buf, uint64(s.Millis), 10)
	for _, v := range s.Values {
		e.buf = append(e.buf, ',')
		e.buf = strconv.AppendFloat(e.buf, float64(v), 'f', 2, 32)
	}
	e.buf = append(e.buf, '\n')

	_, err := w.Write(e.buf)
	return err
}

// BinaryEncoder writes samples as fixed-layout little-endian records. The
// scratch buffer is reused across calls, so a BinaryEncoder must not be
// shared between goroutines.
type BinaryEncoder struct {
	buf []byte
}

// Encode writes one binary record for the sample.
func (e *BinaryEncoder) Encode(w io.Writer, s daq.Sample) error {
	size := RecordSize(len(s.Values))
	if cap(e.buf) < size {
		e.buf = make([]byte, size)
	}
	e.buf = e.buf[:size]

	binary.LittleEndian.PutUint32(e.buf[0:4], s.Millis)
	for i, v := range s.Values {
		off := 4 + 4*i
		binary.LittleEndian.PutUint32(e.buf[off:off+4], math32.Float32bits(v))
	}

	_, err := w.Write(e.buf)
	return err
}
