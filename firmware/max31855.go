package main

import (
	"errors"

	"machine"
)

// MAX31855 thermocouple-to-digital converter, read-only SPI. Each
// thermocouple has its own converter sharing the SPI bus, selected by a
// dedicated chip-select line.
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/MAX31855.pdf

var (
	errTCOpenCircuit  = errors.New("max31855: thermocouple open circuit")
	errTCShortToGND   = errors.New("max31855: thermocouple shorted to GND")
	errTCShortToVCC   = errors.New("max31855: thermocouple shorted to VCC")
	errTCUnknownFault = errors.New("max31855: fault")
)

// spiBus is the subset of machine.SPI the driver needs.
type spiBus interface {
	Tx(w, r []byte) error
}

// max31855 implements daq.Thermometer.
type max31855 struct {
	bus spiBus
	cs  machine.Pin
}

func newMAX31855(bus spiBus, cs machine.Pin) *max31855 {
	return &max31855{bus: bus, cs: cs}
}

// TemperatureC performs one 32-bit read and returns the thermocouple
// temperature with 0.25 degC resolution. Fault conditions reported by the
// chip surface as errors.
func (t *max31855) TemperatureC() (float32, error) {
	var buf [4]byte
	t.cs.Low()
	err := t.bus.Tx(nil, buf[:])
	t.cs.High()
	if err != nil {
		return 0, err
	}

	word := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])

	if word&(1<<16) != 0 {
		switch {
		case word&1 != 0:
			return 0, errTCOpenCircuit
		case word&2 != 0:
			return 0, errTCShortToGND
		case word&4 != 0:
			return 0, errTCShortToVCC
		}
		return 0, errTCUnknownFault
	}

	// Upper 14 bits are the signed thermocouple temperature in 0.25 degC.
	return float32(int32(word)>>18) * 0.25, nil
}
