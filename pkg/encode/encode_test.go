package encode

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluidlab/godaq/pkg/daq"
)

func TestTextEncoder(t *testing.T) {
	tests := []struct {
		name   string
		sample daq.Sample
		want   string
	}{
		{
			name:   "two channels",
			sample: daq.Sample{Millis: 1234, Values: []float32{100.0, 0.0}},
			want:   "1234,100.00,0.00\n",
		},
		{
			name:   "negative value, no clamping upstream",
			sample: daq.Sample{Millis: 0, Values: []float32{-25.0}},
			want:   "0,-25.00\n",
		},
		{
			name:   "five channel record",
			sample: daq.Sample{Millis: 90, Values: []float32{12.5, 11.5, 499.8, 21.25, 22.0}},
			want:   "90,12.50,11.50,499.80,21.25,22.00\n",
		},
		{
			name:   "no channels",
			sample: daq.Sample{Millis: 42},
			want:   "42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := &TextEncoder{}
			require.NoError(t, enc.Encode(&buf, tt.sample))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTextEncoder_ReusedBuffer(t *testing.T) {
	var buf bytes.Buffer
	enc := &TextEncoder{}

	require.NoError(t, enc.Encode(&buf, daq.Sample{Millis: 1, Values: []float32{1.0}}))
	require.NoError(t, enc.Encode(&buf, daq.Sample{Millis: 2, Values: []float32{2.0}}))

	assert.Equal(t, "1,1.00\n2,2.00\n", buf.String())
}

func TestBinaryEncoder_Layout(t *testing.T) {
	var buf bytes.Buffer
	enc := &BinaryEncoder{}
	sample := daq.Sample{Millis: 0x04030201, Values: []float32{100.0, 0.0}}

	require.NoError(t, enc.Encode(&buf, sample))

	rec := buf.Bytes()
	require.Len(t, rec, RecordSize(2))

	// Little-endian uint32 timestamp first
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, rec[0:4])

	// One little-endian float32 per channel, positional
	assert.Equal(t, math32.Float32bits(100.0), binary.LittleEndian.Uint32(rec[4:8]))
	assert.Equal(t, math32.Float32bits(0.0), binary.LittleEndian.Uint32(rec[8:12]))
}

func TestBinaryRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		sample daq.Sample
	}{
		{
			name:   "two channels",
			sample: daq.Sample{Millis: 1234, Values: []float32{100.0, 0.0}},
		},
		{
			name:   "five channels",
			sample: daq.Sample{Millis: 4294967290, Values: []float32{12.5, 11.5, 499.8, 21.25, -3.75}},
		},
		{
			name:   "faulted channel carries NaN",
			sample: daq.Sample{Millis: 10, Values: []float32{math32.NaN(), 5.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := &BinaryEncoder{}
			require.NoError(t, enc.Encode(&buf, tt.sample))

			got, err := DecodeBinary(buf.Bytes(), len(tt.sample.Values))
			require.NoError(t, err)

			assert.Equal(t, tt.sample.Millis, got.Millis)
			require.Len(t, got.Values, len(tt.sample.Values))
			for i := range tt.sample.Values {
				// Bit-for-bit, including NaN payloads
				assert.Equal(t,
					math32.Float32bits(tt.sample.Values[i]),
					math32.Float32bits(got.Values[i]),
					"value %d", i)
			}
		})
	}
}

func TestDecodeBinary_NaNMarksFault(t *testing.T) {
	var buf bytes.Buffer
	enc := &BinaryEncoder{}
	require.NoError(t, enc.Encode(&buf, daq.Sample{
		Millis: 10,
		Values: []float32{math32.NaN(), 5.0, math32.NaN()},
	}))

	got, err := DecodeBinary(buf.Bytes(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b101), got.Faults)
	assert.True(t, got.Faulted(0))
	assert.False(t, got.Faulted(1))
}

func TestDecodeBinary_WrongSize(t *testing.T) {
	_, err := DecodeBinary(make([]byte, 10), 2)
	assert.Error(t, err)

	_, err = DecodeBinary(make([]byte, RecordSize(3)), 2)
	assert.Error(t, err)
}

func TestParseText(t *testing.T) {
	s, err := ParseText("1234,100.00,0.00\n", 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), s.Millis)
	assert.Equal(t, []float32{100.0, 0.0}, s.Values)
	assert.Zero(t, s.Faults)
}

func TestParseText_NaNMarksFault(t *testing.T) {
	s, err := ParseText("1234,NaN,3.50\n", 2)
	require.NoError(t, err)
	assert.True(t, s.Faulted(0))
	assert.True(t, math32.IsNaN(s.Values[0]))
	assert.Equal(t, uint32(1), s.Faults)
}

func TestParseText_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "too few fields", line: "1234,1.00"},
		{name: "too many fields", line: "1234,1.00,2.00,3.00"},
		{name: "bad timestamp", line: "abc,1.00,2.00"},
		{name: "negative timestamp", line: "-5,1.00,2.00"},
		{name: "bad value", line: "1234,1.00,x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseText(tt.line, 2)
			assert.Error(t, err)
		})
	}
}

func TestNew(t *testing.T) {
	assert.IsType(t, &TextEncoder{}, New(Text))
	assert.IsType(t, &BinaryEncoder{}, New(Binary))
}

func TestRecordSize(t *testing.T) {
	assert.Equal(t, 8, RecordSize(1))  // single flow meter rig
	assert.Equal(t, 24, RecordSize(5)) // five channel rig
}
