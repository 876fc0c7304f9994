package daq

import "io"

// Encoder serializes one Sample onto the transport.
type Encoder interface {
	Encode(w io.Writer, s Sample) error
}

// Loop is the acquisition scheduler: a single-threaded, cooperative,
// fixed-period emitter. It does not sleep; the surrounding loop drives it by
// calling Tick with free-running clock reads as fast as it can, and the loop
// emits whenever the configured interval has elapsed since the last
// emission.
//
// This makes it an at-least-every-interval scheduler: emissions are never
// closer together than the interval, and the gap beyond the interval is
// bounded by one tick of the surrounding loop. Missed intervals are not
// caught up.
type Loop struct {
	sampler    *Sampler
	enc        Encoder
	w          io.Writer
	intervalMs uint32

	last uint32

	// OnWriteError, if set, is called when a transport write fails. The
	// failure never interrupts the sampling cadence.
	OnWriteError func(error)
	// OnFault, if set, is called with the fault bitmask of any emitted
	// sample that had channel read faults.
	OnFault func(uint32)
}

// NewLoop creates an acquisition loop emitting at most once every intervalMs
// milliseconds. The first emission happens once the clock reaches the
// interval (immediately for a zero interval).
func NewLoop(sampler *Sampler, enc Encoder, w io.Writer, intervalMs uint32) *Loop {
	return &Loop{
		sampler:    sampler,
		enc:        enc,
		w:          w,
		intervalMs: intervalMs,
	}
}

// Tick checks whether the interval has elapsed and, if so, performs one
// emission: take a sample, encode it, write it. Returns true when an
// emission happened. The elapsed check uses unsigned modular subtraction so
// it stays correct across clock wraparound.
func (l *Loop) Tick(now uint32) bool {
	if now-l.last < l.intervalMs {
		return false
	}

	sample := l.sampler.TakeSample(now)
	if sample.Faults != 0 && l.OnFault != nil {
		l.OnFault(sample.Faults)
	}

	if err := l.enc.Encode(l.w, sample); err != nil && l.OnWriteError != nil {
		l.OnWriteError(err)
	}

	l.last = now
	return true
}

// Run drives the loop from the given clock until the process is reset. It is
// a tight poll-check-act cycle with no blocking waits; the jitter bound
// depends on it running as fast as possible.
func (l *Loop) Run(clock Clock) {
	for {
		l.Tick(clock.Millis())
	}
}
