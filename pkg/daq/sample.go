package daq

// Sample is one reading event: a monotonic millisecond timestamp and exactly
// one physical value per configured channel, in channel-table order. Samples
// are immutable after creation and have no identity beyond their position in
// the output stream.
type Sample struct {
	// Millis is milliseconds since process start. It wraps at 2^32 and must
	// be compared with modular arithmetic.
	Millis uint32
	// Values holds one physical value per channel, in configured order.
	// A value is NaN when the corresponding fault bit is set.
	Values []float32
	// Faults has bit i set when channel i's driver reported a read fault.
	Faults uint32
}

// Faulted reports whether the channel at index i faulted during this sample.
func (s Sample) Faulted(i int) bool {
	return s.Faults&(1<<uint(i)) != 0
}
