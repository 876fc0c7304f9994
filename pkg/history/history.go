// Package history maintains the host-side windowed buffer of decoded
// records for live display and session logging.
package history

import (
	"sync"
	"time"

	"github.com/fluidlab/godaq/pkg/stream"
)

// History buffers incoming records, trims them to a sliding time window and
// notifies registered callbacks on every update.
//
// The buffer is FIFO and exposed as an ordered slice: oldest record at index
// 0, newest at the end. Removal is based on arrival timestamp, not count.
type History struct {
	mu      sync.RWMutex
	records []stream.Record
	window  time.Duration

	faultRecords uint64 // Records that carried at least one channel fault

	// Update callbacks receive the current window contents directly.
	callbacks []func(records []stream.Record)
	cbMu      sync.RWMutex

	// Shutdown control
	shutdown bool // Set when the input channel closes, prevents further callbacks
}

// New creates a History keeping records within the given time window.
func New(window time.Duration) *History {
	return &History{
		records: make([]stream.Record, 0),
		window:  window,
	}
}

// Process consumes records from the input channel until it closes. When the
// input channel closes, it sets the shutdown flag to prevent further
// callbacks.
func (h *History) Process(in <-chan stream.Record) {
	for rec := range in {
		h.processRecord(rec)
	}
	h.mu.Lock()
	h.shutdown = true
	h.mu.Unlock()
}

// processRecord appends one record, trims the window and notifies callbacks.
func (h *History) processRecord(rec stream.Record) {
	h.mu.Lock()

	h.records = append(h.records, rec)
	if rec.Sample.Faults != 0 {
		h.faultRecords++
	}

	// Remove records outside the time window (based on timestamp, not count)
	cutoff := rec.Received.Add(-h.window)
	cutoffIndex := 0
	for i, r := range h.records {
		if r.Received.After(cutoff) {
			cutoffIndex = i
			break
		}
	}
	if cutoffIndex > 0 {
		h.records = h.records[cutoffIndex:]
	}

	shouldNotify := !h.shutdown
	h.mu.Unlock()

	if shouldNotify {
		h.notifyCallbacks()
	}
}

// Records returns a copy of the current window contents.
func (h *History) Records() []stream.Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]stream.Record, len(h.records))
	copy(result, h.records)
	return result
}

// FaultRecords returns how many buffered-or-expired records carried channel
// faults since the History was created.
func (h *History) FaultRecords() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.faultRecords
}

// OnUpdate registers a callback invoked after every processed record. The
// callback should copy data quickly and return as fast as possible.
func (h *History) OnUpdate(callback func(records []stream.Record)) {
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	h.callbacks = append(h.callbacks, callback)
}

// ResetShutdown resets the shutdown flag, allowing callbacks to be sent
// again. This should be called before starting a new acquisition chain.
func (h *History) ResetShutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdown = false
}

// notifyCallbacks invokes all registered callbacks with a copy of the
// current data, without holding any locks during the calls.
func (h *History) notifyCallbacks() {
	h.mu.RLock()
	recordsCopy := make([]stream.Record, len(h.records))
	copy(recordsCopy, h.records)
	h.mu.RUnlock()

	h.cbMu.RLock()
	callbacks := make([]func(records []stream.Record), len(h.callbacks))
	copy(callbacks, h.callbacks)
	h.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(recordsCopy)
		}
	}
}
