package daq

// Kind identifies how a channel's physical value is obtained.
type Kind int

const (
	// CurrentLoop channels are read as a raw code from the shared ADC at the
	// channel's multiplexer index and converted through the 4-20 mA map.
	CurrentLoop Kind = iota
	// Thermocouple channels are read directly in degrees Celsius from a
	// dedicated converter chip.
	Thermocouple
)

// Channel describes one physical input of the rig. Channels are assembled
// once at startup and never change; their order in the channel table fixes
// the positional order of values in every Sample and in the binary record
// layout.
type Channel struct {
	// Name is the channel's role, e.g. "PT1 (bar)" or "FM (g/s)".
	Name string
	// Kind selects the conversion path.
	Kind Kind
	// ADCChannel is the multiplexer index on the shared ADC (current-loop
	// channels only).
	ADCChannel int
	// Unit is the index of the thermocouple converter to read (thermocouple
	// channels only). Each thermocouple has its own chip-select line.
	Unit int
	// FullScale is the physical quantity at 20 mA loop current, e.g.
	// 68.9476 bar for a 1000 psi pressure transducer or 833 g/s for a mass
	// flow meter. Unused for thermocouple channels.
	FullScale float32
}
