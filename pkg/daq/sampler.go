package daq

import (
	"github.com/chewxy/math32"

	"github.com/fluidlab/godaq/pkg/units"
)

// Sampler reads every configured channel in fixed order and packages the
// readings into one timestamped Sample. Every call performs fresh peripheral
// reads; nothing is cached or retried across ticks.
type Sampler struct {
	adc       ADC
	thermos   []Thermometer
	channels  []Channel
	shuntOhms float32
}

// NewSampler creates a Sampler over the given peripheral handles. channels
// fixes the value order of every Sample produced. thermos is indexed by
// Channel.Unit for thermocouple channels.
func NewSampler(adc ADC, thermos []Thermometer, channels []Channel, shuntOhms float32) *Sampler {
	return &Sampler{
		adc:       adc,
		thermos:   thermos,
		channels:  channels,
		shuntOhms: shuntOhms,
	}
}

// Channels returns the configured channel table.
func (s *Sampler) Channels() []Channel {
	return s.channels
}

// TakeSample reads all channels in order and returns one Sample stamped with
// millis. A driver fault marks the channel's fault bit and stores NaN; the
// remaining channels are still read. Reads are issued back to back with no
// intervening yield.
func (s *Sampler) TakeSample(millis uint32) Sample {
	sample := Sample{
		Millis: millis,
		Values: make([]float32, len(s.channels)),
	}

	for i, ch := range s.channels {
		value, err := s.readChannel(ch)
		if err != nil {
			sample.Values[i] = math32.NaN()
			sample.Faults |= 1 << uint(i)
			continue
		}
		sample.Values[i] = value
	}

	return sample
}

// readChannel performs one peripheral transaction for the channel and
// converts the reading to physical units.
func (s *Sampler) readChannel(ch Channel) (float32, error) {
	switch ch.Kind {
	case Thermocouple:
		return s.thermos[ch.Unit].TemperatureC()
	default:
		raw, err := s.adc.ReadChannel(ch.ADCChannel)
		if err != nil {
			return 0, err
		}
		voltage := s.adc.Voltage(raw)
		return units.LoopToPhysical(voltage, s.shuntOhms, ch.FullScale), nil
	}
}
