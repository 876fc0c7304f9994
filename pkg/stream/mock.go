package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/fluidlab/godaq/pkg/config"
	"github.com/fluidlab/godaq/pkg/daq"
)

// Mock simulates the acquisition rig for development without hardware.
// It produces records shaped like a cold-flow test: a periodic flow ramp,
// pressures that track the flow, and slowly drifting thermocouple readings.
type Mock struct {
	cfg      *config.MockConfig
	channels []daq.Channel

	records   chan Record
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{} // Closed when the generator goroutine exits
	connected bool

	// Simulation state
	startTime time.Time
	millis    uint32
	count     int
}

// NewMock creates a new mocked source producing values for the given
// channel table.
func NewMock(cfg *config.MockConfig, channels []daq.Channel) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			SampleRate: 10 * time.Millisecond,
			NoiseLevel: 0.05,
			FlowPeriod: 20 * time.Second,
			BasePress:  12.5,
			BaseTempC:  21.0,
		}
	}

	return &Mock{
		cfg:      cfg,
		channels: channels,
		records:  make(chan Record, DefaultBufferSize),
	}
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	// Fresh context and channel so a source can be reconnected after Close.
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.records = make(chan Record, DefaultBufferSize)

	m.connected = true
	m.startTime = time.Now()
	m.millis = 0
	m.count = 0
	m.done = make(chan struct{})

	go m.generateRecords()

	return nil
}

// Close stops the mocked source and closes the records channel once the
// generator has stopped sending.
func (m *Mock) Close() error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}
	m.cancel()
	m.connected = false
	done := m.done
	m.mu.Unlock()

	<-done
	close(m.records)

	return nil
}

// Records returns the channel for reading records. Call after Connect; a
// reconnect replaces the channel.
func (m *Mock) Records() <-chan Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records
}

// IsConnected returns whether the source is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateRecords produces simulated records at the configured rate.
func (m *Mock) generateRecords() {
	defer close(m.done)

	ticker := time.NewTicker(m.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			rec := m.generateRecord()
			select {
			case m.records <- rec:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// generateRecord produces a single simulated record.
func (m *Mock) generateRecord() Record {
	m.mu.Lock()
	m.millis += uint32(m.cfg.SampleRate.Milliseconds())
	m.count++
	millis := m.millis
	count := m.count
	m.mu.Unlock()

	t := float32(millis) / 1000
	period := float32(m.cfg.FlowPeriod.Seconds())

	// Flow ramps up and down once per period; pressures follow the flow with
	// a fixed drop across the line, temperatures drift slowly.
	phase := 2 * math32.Pi * t / period
	flowFrac := 0.5 * (1 - math32.Cos(phase)) // 0..1..0 over one period

	sample := daq.Sample{
		Millis: millis,
		Values: make([]float32, len(m.channels)),
	}

	for i, ch := range m.channels {
		var v float32
		switch {
		case ch.Kind == daq.Thermocouple:
			v = float32(m.cfg.BaseTempC) + 3*math32.Sin(phase/4) + float32(ch.Unit)
		case ch.FullScale > 100:
			// Flow meter
			v = flowFrac * ch.FullScale * 0.6
		case i > 0:
			// Downstream pressure tap: slightly below the previous one
			v = float32(m.cfg.BasePress) * (1 + flowFrac) * 0.92
		default:
			v = float32(m.cfg.BasePress) * (1 + flowFrac)
		}

		// Deterministic pseudo-noise, same trick as a pair of detuned sines
		noise := (math32.Sin(t*997) + math32.Cos(t*1277)) * float32(m.cfg.NoiseLevel) * 0.5
		sample.Values[i] = v + noise
	}

	// Optional fault injection to exercise the monitor's fault display
	if m.cfg.FaultEveryN > 0 && count%m.cfg.FaultEveryN == 0 {
		sample.Values[0] = math32.NaN()
		sample.Faults |= 1
	}

	return Record{Received: time.Now(), Sample: sample}
}
