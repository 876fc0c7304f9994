package stream

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluidlab/godaq/pkg/config"
	"github.com/fluidlab/godaq/pkg/daq"
)

var mockChannels = []daq.Channel{
	{Name: "PT1 (bar)", Kind: daq.CurrentLoop, ADCChannel: 0, FullScale: 68.9476},
	{Name: "PT2 (bar)", Kind: daq.CurrentLoop, ADCChannel: 1, FullScale: 68.9476},
	{Name: "FM (g/s)", Kind: daq.CurrentLoop, ADCChannel: 2, FullScale: 833},
	{Name: "TC1 (degC)", Kind: daq.Thermocouple, Unit: 0},
	{Name: "TC2 (degC)", Kind: daq.Thermocouple, Unit: 1},
}

func fastMockConfig() *config.MockConfig {
	return &config.MockConfig{
		SampleRate: time.Millisecond,
		NoiseLevel: 0,
		FlowPeriod: time.Second,
		BasePress:  12.5,
		BaseTempC:  21.0,
	}
}

func TestMock_ConnectClose(t *testing.T) {
	m := NewMock(fastMockConfig(), mockChannels)

	assert.False(t, m.IsConnected())
	require.NoError(t, m.Connect())
	assert.True(t, m.IsConnected())

	assert.Error(t, m.Connect(), "double connect must fail")

	require.NoError(t, m.Close())
	assert.False(t, m.IsConnected())
	require.NoError(t, m.Close(), "close is idempotent")
}

func TestMock_ProducesRecords(t *testing.T) {
	m := NewMock(fastMockConfig(), mockChannels)
	require.NoError(t, m.Connect())
	defer m.Close()

	timeout := time.After(2 * time.Second)
	var records []Record
	for len(records) < 10 {
		select {
		case rec := <-m.Records():
			records = append(records, rec)
		case <-timeout:
			t.Fatal("timed out waiting for records")
		}
	}

	prev := uint32(0)
	for _, rec := range records {
		require.Len(t, rec.Sample.Values, len(mockChannels))
		assert.Greater(t, rec.Sample.Millis, prev, "device timestamps increase")
		prev = rec.Sample.Millis

		// Plausible rig values: positive pressures and flow, room-ish temps
		assert.Greater(t, rec.Sample.Values[0], float32(0))
		assert.GreaterOrEqual(t, rec.Sample.Values[2], float32(0))
		assert.InDelta(t, 21.0, rec.Sample.Values[3], 5)
		assert.InDelta(t, 22.0, rec.Sample.Values[4], 5)
	}
}

func TestMock_FaultInjection(t *testing.T) {
	cfg := fastMockConfig()
	cfg.FaultEveryN = 3
	m := NewMock(cfg, mockChannels)
	require.NoError(t, m.Connect())
	defer m.Close()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case rec := <-m.Records():
			if rec.Sample.Faults == 0 {
				continue
			}
			assert.True(t, rec.Sample.Faulted(0))
			assert.True(t, math32.IsNaN(rec.Sample.Values[0]))
			return
		case <-timeout:
			t.Fatal("no faulted record produced")
		}
	}
}

func TestMock_CloseEndsStream(t *testing.T) {
	m := NewMock(fastMockConfig(), mockChannels)
	require.NoError(t, m.Connect())
	require.NoError(t, m.Close())

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-m.Records():
			if !ok {
				return // Channel closed as expected
			}
		case <-timeout:
			t.Fatal("records channel never closed")
		}
	}
}

func TestMock_NilConfigUsesDefaults(t *testing.T) {
	m := NewMock(nil, mockChannels)
	require.NoError(t, m.Connect())
	assert.True(t, m.IsConnected())
	require.NoError(t, m.Close())
}
