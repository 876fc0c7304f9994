//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"github.com/fluidlab/godaq/pkg/daq"
	"github.com/fluidlab/godaq/pkg/encode"
)

var uart = machine.UART0

// channels fixes the wire order of every emitted record. The monitor app's
// config must list the same channels in the same order.
var channels = []daq.Channel{
	{Name: "PT1", Kind: daq.CurrentLoop, ADCChannel: 0, FullScale: FULL_SCALE_PRESSURE_BAR},
	{Name: "PT2", Kind: daq.CurrentLoop, ADCChannel: 1, FullScale: FULL_SCALE_PRESSURE_BAR},
	{Name: "FM", Kind: daq.CurrentLoop, ADCChannel: 2, FullScale: FULL_SCALE_FLOW_GPS},
	{Name: "TC1", Kind: daq.Thermocouple, Unit: 0},
	{Name: "TC2", Kind: daq.Thermocouple, Unit: 1},
}

// millisClock implements daq.Clock from the runtime's monotonic clock.
type millisClock struct {
	start time.Time
}

func (c *millisClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

func main() {
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz})
	machine.SPI0.Configure(machine.SPIConfig{Frequency: 1000000, Mode: 0})

	// Chip selects idle high
	PIN_TC1_CS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_TC1_CS.High()
	PIN_TC2_CS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_TC2_CS.High()

	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	machine.LED.Low()

	adc := newADS1115(machine.I2C0, ADS1115_ADDR)
	thermos := []daq.Thermometer{
		newMAX31855(machine.SPI0, PIN_TC1_CS),
		newMAX31855(machine.SPI0, PIN_TC2_CS),
	}

	sampler := daq.NewSampler(adc, thermos, channels, SHUNT_OHMS)

	mode := encode.Text
	if BINARY_OUTPUT {
		mode = encode.Binary
	}

	loop := daq.NewLoop(sampler, encode.New(mode), uart, SAMPLE_INTERVAL_MS)

	// The LED flags channel read faults; there is no other fault reporting
	// channel distinct from the data stream.
	loop.OnFault = func(uint32) {
		machine.LED.High()
	}

	if !BINARY_OUTPUT {
		// Only in text mode: any banner would break binary record alignment.
		uart.Write([]byte("DAQ is ready.\r\n"))
	}

	loop.Run(&millisClock{start: time.Now()})
}
