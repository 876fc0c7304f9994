package daq

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeADC returns canned raw codes per multiplexer channel and counts
// transactions. Voltage treats the raw code as millivolts.
type fakeADC struct {
	raw   map[int]int16
	errs  map[int]error
	reads int
}

func (f *fakeADC) ReadChannel(channel int) (int16, error) {
	f.reads++
	if err := f.errs[channel]; err != nil {
		return 0, err
	}
	return f.raw[channel], nil
}

func (f *fakeADC) Voltage(raw int16) float32 {
	return float32(raw) / 1000
}

// fakeThermo returns a canned temperature and counts reads.
type fakeThermo struct {
	tempC float32
	err   error
	reads int
}

func (f *fakeThermo) TemperatureC() (float32, error) {
	f.reads++
	return f.tempC, f.err
}

var testChannels = []Channel{
	{Name: "PT1 (bar)", Kind: CurrentLoop, ADCChannel: 0, FullScale: 68.9476},
	{Name: "FM (slm)", Kind: CurrentLoop, ADCChannel: 2, FullScale: 200},
	{Name: "TC1 (degC)", Kind: Thermocouple, Unit: 0},
}

func TestTakeSample_Order(t *testing.T) {
	adc := &fakeADC{raw: map[int]int16{
		0: 600,  // 4 mA across 150 ohm: physical zero
		2: 1800, // 12 mA: half scale
	}}
	thermo := &fakeThermo{tempC: 21.25}

	sampler := NewSampler(adc, []Thermometer{thermo}, testChannels, 150)
	sample := sampler.TakeSample(1234)

	assert.Equal(t, uint32(1234), sample.Millis)
	require.Len(t, sample.Values, 3)
	assert.Zero(t, sample.Faults)

	// Values follow channel table order exactly
	assert.InDelta(t, 0.0, sample.Values[0], 1e-4)   // PT1: loop floor
	assert.InDelta(t, 100.0, sample.Values[1], 0.01) // FM: midpoint
	assert.InDelta(t, 21.25, sample.Values[2], 1e-4) // TC1: pass-through
}

func TestTakeSample_FreshReadsEveryCall(t *testing.T) {
	adc := &fakeADC{raw: map[int]int16{0: 600, 2: 600}}
	thermo := &fakeThermo{tempC: 20}

	sampler := NewSampler(adc, []Thermometer{thermo}, testChannels, 150)
	sampler.TakeSample(10)
	sampler.TakeSample(20)

	// Two current-loop channels, two calls: four ADC transactions
	assert.Equal(t, 4, adc.reads)
	assert.Equal(t, 2, thermo.reads)
}

func TestTakeSample_FaultMarksChannel(t *testing.T) {
	adc := &fakeADC{
		raw:  map[int]int16{0: 1800, 2: 1800},
		errs: map[int]error{2: assert.AnError},
	}
	thermo := &fakeThermo{err: assert.AnError}

	sampler := NewSampler(adc, []Thermometer{thermo}, testChannels, 150)
	sample := sampler.TakeSample(50)

	// Channels 1 (FM) and 2 (TC1) faulted, channel 0 still read
	assert.True(t, sample.Faulted(1))
	assert.True(t, sample.Faulted(2))
	assert.False(t, sample.Faulted(0))
	assert.Equal(t, uint32(0b110), sample.Faults)

	assert.True(t, math32.IsNaN(sample.Values[1]))
	assert.True(t, math32.IsNaN(sample.Values[2]))
	assert.InDelta(t, 34.4738, sample.Values[0], 0.001) // 12 mA on PT1: half scale
}

func TestTakeSample_NoFaultSentinelPropagation(t *testing.T) {
	// Out-of-range but numerically valid driver values pass through
	// unmodified: a broken 4-20 mA wire reads as a large negative quantity.
	adc := &fakeADC{raw: map[int]int16{0: 0, 2: 0}}
	thermo := &fakeThermo{tempC: 0}

	sampler := NewSampler(adc, []Thermometer{thermo}, testChannels, 150)
	sample := sampler.TakeSample(0)

	assert.Zero(t, sample.Faults)
	assert.InDelta(t, -17.2369, sample.Values[0], 0.001) // 0 mA: below loop floor
	assert.InDelta(t, -50.0, sample.Values[1], 0.001)
}
