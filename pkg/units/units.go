// Package units converts raw electrical readings from the analog front-end
// into physical quantities.
//
// All current-loop sensors on the rig (pressure transducers, flow meters)
// follow the 4-20 mA convention: the loop current encodes the physical value
// linearly between a zero point at 4 mA and full scale at 20 mA. The current
// itself is measured as a voltage drop across a known shunt resistor.
//
// The functions are pure and total: out-of-range inputs produce out-of-range
// but well-defined outputs. No clamping is applied.
package units

const (
	// LoopZeroMA is the 4-20 mA loop floor current, representing physical zero.
	LoopZeroMA = 4.0
	// LoopSpanMA is the usable loop range (20 mA - 4 mA).
	LoopSpanMA = 16.0
)

// VoltageToCurrent converts the voltage measured across a shunt resistor to
// the loop current in milliamps. shuntOhms must be positive.
func VoltageToCurrent(voltage, shuntOhms float32) float32 {
	return voltage / shuntOhms * 1000
}

// CurrentToPhysical maps a loop current in milliamps to a physical quantity
// using the generic linear 4-20 mA mapping. fullScale is the physical value
// corresponding to the loop's maximum current (zeroMA + spanMA).
func CurrentToPhysical(currentMA, zeroMA, spanMA, fullScale float32) float32 {
	return (currentMA - zeroMA) * fullScale / spanMA
}

// LoopToPhysical converts a shunt voltage directly to a physical quantity
// using the standard 4-20 mA zero and span.
func LoopToPhysical(voltage, shuntOhms, fullScale float32) float32 {
	return CurrentToPhysical(VoltageToCurrent(voltage, shuntOhms), LoopZeroMA, LoopSpanMA, fullScale)
}
