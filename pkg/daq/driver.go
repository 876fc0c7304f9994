package daq

// ADC is the interface to the shared analog-to-digital converter peripheral.
// Implementations are assumed non-reentrant and must only be accessed from
// the single acquisition loop. No timeouts are applied: a hung bus stalls
// the loop.
type ADC interface {
	// ReadChannel performs one conversion on the given multiplexer channel
	// and returns the raw signed code.
	ReadChannel(channel int) (int16, error)
	// Voltage converts a raw code to volts for the ADC's configured gain.
	Voltage(raw int16) float32
}

// Thermometer is the interface to a direct-digital temperature converter
// (thermocouple amplifier). It returns degrees Celsius; no further unit
// conversion is applied.
type Thermometer interface {
	TemperatureC() (float32, error)
}

// Clock provides a free-running monotonic millisecond counter. It is
// unsigned and wraps; all interval arithmetic on its values must use
// modular subtraction.
type Clock interface {
	Millis() uint32
}
