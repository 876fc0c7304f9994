package history

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluidlab/godaq/pkg/daq"
	"github.com/fluidlab/godaq/pkg/stream"
)

func makeRecord(received time.Time, millis uint32, faults uint32) stream.Record {
	return stream.Record{
		Received: received,
		Sample: daq.Sample{
			Millis: millis,
			Values: []float32{1.0, 2.0},
			Faults: faults,
		},
	}
}

func TestHistory_AppendOrder(t *testing.T) {
	h := New(time.Minute)
	base := time.Now()

	for i := 0; i < 5; i++ {
		h.processRecord(makeRecord(base.Add(time.Duration(i)*time.Millisecond), uint32(i*10), 0))
	}

	records := h.Records()
	require.Len(t, records, 5)
	for i, rec := range records {
		assert.Equal(t, uint32(i*10), rec.Sample.Millis)
	}
}

func TestHistory_WindowTrim(t *testing.T) {
	h := New(10 * time.Second)
	base := time.Now()

	h.processRecord(makeRecord(base, 0, 0))
	h.processRecord(makeRecord(base.Add(6*time.Second), 6000, 0))
	h.processRecord(makeRecord(base.Add(15*time.Second), 15000, 0))

	// The first record is now older than the window and must be gone.
	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, uint32(6000), records[0].Sample.Millis)
	assert.Equal(t, uint32(15000), records[1].Sample.Millis)
}

func TestHistory_FaultCounter(t *testing.T) {
	h := New(time.Minute)
	base := time.Now()

	h.processRecord(makeRecord(base, 0, 0))
	h.processRecord(makeRecord(base.Add(time.Millisecond), 10, 1<<2))
	h.processRecord(makeRecord(base.Add(2*time.Millisecond), 20, 0b11))
	h.processRecord(makeRecord(base.Add(3*time.Millisecond), 30, 0))

	// Counts faulted records, not faulted channels.
	assert.Equal(t, uint64(2), h.FaultRecords())
}

func TestHistory_Callbacks(t *testing.T) {
	h := New(time.Minute)

	var mu sync.Mutex
	var lengths []int
	h.OnUpdate(func(records []stream.Record) {
		mu.Lock()
		lengths = append(lengths, len(records))
		mu.Unlock()
	})

	base := time.Now()
	h.processRecord(makeRecord(base, 0, 0))
	h.processRecord(makeRecord(base.Add(time.Millisecond), 10, 0))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, lengths)
}

func TestHistory_ProcessDrainsChannel(t *testing.T) {
	h := New(time.Minute)

	in := make(chan stream.Record, 3)
	base := time.Now()
	for i := 0; i < 3; i++ {
		in <- makeRecord(base.Add(time.Duration(i)*time.Millisecond), uint32(i), 0)
	}
	close(in)

	done := make(chan struct{})
	go func() {
		h.Process(in)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Process did not return after channel close")
	}
	assert.Len(t, h.Records(), 3)
}

func TestHistory_ShutdownSuppressesCallbacks(t *testing.T) {
	h := New(time.Minute)

	calls := 0
	h.OnUpdate(func([]stream.Record) { calls++ })

	in := make(chan stream.Record)
	close(in)
	h.Process(in) // Sets the shutdown flag

	h.processRecord(makeRecord(time.Now(), 0, 0))
	assert.Zero(t, calls)

	h.ResetShutdown()
	h.processRecord(makeRecord(time.Now(), 10, 0))
	assert.Equal(t, 1, calls)
}

func TestHistory_RecordsReturnsCopy(t *testing.T) {
	h := New(time.Minute)
	h.processRecord(makeRecord(time.Now(), 5, 0))

	records := h.Records()
	records[0].Sample.Millis = 999

	assert.Equal(t, uint32(5), h.Records()[0].Sample.Millis)
}
