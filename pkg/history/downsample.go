package history

import "github.com/fluidlab/godaq/pkg/stream"

// Downsample decimates records to at most maxPoints for display.
// Destination-based: reuses dst if it has sufficient capacity, otherwise
// allocates new. Returns the destination slice. If len(records) <=
// maxPoints, all records are copied to dst.
func Downsample(dst []stream.Record, records []stream.Record, maxPoints int) []stream.Record {
	if len(records) <= maxPoints {
		if cap(dst) >= len(records) {
			dst = dst[:len(records)]
			copy(dst, records)
			return dst
		}
		result := make([]stream.Record, len(records))
		copy(result, records)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0] // Reset length but keep capacity
	} else {
		dst = make([]stream.Record, 0, maxPoints)
	}

	// Simple decimation
	step := float64(len(records)) / float64(maxPoints)
	for i := 0; i < maxPoints; i++ {
		idx := int(float64(i) * step)
		if idx < len(records) {
			dst = append(dst, records[idx])
		}
	}

	return dst
}
