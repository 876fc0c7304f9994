package stream

import (
	"time"

	"github.com/fluidlab/godaq/pkg/daq"
)

// Record is one decoded acquisition sample as seen by the host.
type Record struct {
	Received time.Time  // Host arrival time
	Sample   daq.Sample // Decoded device sample
}

// Source defines the interface for acquisition sources (real or mocked).
type Source interface {
	Connect() error
	Close() error
	Records() <-chan Record
	IsConnected() bool
}

// Ensure Serial implements Source.
var _ Source = (*Serial)(nil)

// Ensure Mock implements Source.
var _ Source = (*Mock)(nil)
