package main

import "machine"

const (
	// Acquisition configuration
	SAMPLE_INTERVAL_MS = 10  // Minimum milliseconds between emissions
	SHUNT_OHMS         = 150 // Current-loop shunt resistance in ohms

	// Output encoding: true emits fixed binary records for the monitor app,
	// false emits CSV lines readable on a plain serial monitor.
	BINARY_OUTPUT = true

	// ADS1115 configuration
	ADS1115_ADDR = 0x48 // Default I2C address (ADDR pin to GND)
	ADS1115_GAIN = 1    // PGA setting 1 = +/-4.096 V full scale

	// Thermocouple chip-select pins (MAX31855, shared SPI bus)
	PIN_TC1_CS = machine.D2
	PIN_TC2_CS = machine.D3

	// Serial configuration
	// Binary record: 4 bytes timestamp + 4 bytes per channel = 24 bytes at
	// 5 channels. 100 records/sec * 24 bytes = 2,400 bytes/sec.
	// UART 8N1: 10 bits/byte = 24,000 baud minimum. 115200 gives ~4.8x
	// headroom and matches the monitor app's default.
	UART_BAUD_RATE = 115200
)

// Full-scale calibration values (physical quantity at 20 mA loop current).
// Per-deployment: the single-flow-meter rig uses 200 slm here instead.
const (
	FULL_SCALE_PRESSURE_BAR = 68.9476 // 1000 psi transducer
	FULL_SCALE_FLOW_GPS     = 833     // Mass flow meter, g/s
)
