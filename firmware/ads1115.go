package main

// ADS1115 16-bit I2C ADC. All current-loop sensors share this converter
// through its input multiplexer.
//
// Datasheet: https://www.ti.com/lit/ds/symlink/ads1115.pdf

const (
	adsRegConversion = 0x00
	adsRegConfig     = 0x01

	adsConfigOS         = 0x8000 // Write: start single conversion. Read: conversion ready.
	adsConfigMuxSingle  = 0x4000 // AINx vs GND
	adsConfigModeSingle = 0x0100
	adsConfigDR860SPS   = 0x00E0 // Data rate 7
	adsConfigCompOff    = 0x0003
)

// i2cBus is the subset of machine.I2C the driver needs.
type i2cBus interface {
	Tx(addr uint16, w, r []byte) error
}

// ads1115 implements daq.ADC over a shared I2C bus.
type ads1115 struct {
	bus  i2cBus
	addr uint16
}

func newADS1115(bus i2cBus, addr uint16) *ads1115 {
	return &ads1115{bus: bus, addr: addr}
}

// ReadChannel starts one single-shot conversion on the given multiplexer
// channel and blocks until the result is ready. There is no timeout: a hung
// bus stalls the acquisition loop.
func (a *ads1115) ReadChannel(channel int) (int16, error) {
	cfg := uint16(adsConfigOS | adsConfigMuxSingle |
		adsConfigModeSingle | adsConfigDR860SPS | adsConfigCompOff)
	cfg |= uint16(channel&0x3) << 12
	cfg |= uint16(ADS1115_GAIN&0x7) << 9

	if err := a.bus.Tx(a.addr, []byte{adsRegConfig, byte(cfg >> 8), byte(cfg)}, nil); err != nil {
		return 0, err
	}

	// Poll the OS bit; it reads back high once the conversion completes
	// (~1.2 ms at 860 SPS).
	var rb [2]byte
	for {
		if err := a.bus.Tx(a.addr, []byte{adsRegConfig}, rb[:]); err != nil {
			return 0, err
		}
		if rb[0]&0x80 != 0 {
			break
		}
	}

	if err := a.bus.Tx(a.addr, []byte{adsRegConversion}, rb[:]); err != nil {
		return 0, err
	}
	return int16(uint16(rb[0])<<8 | uint16(rb[1])), nil
}

// Voltage converts a raw code to volts. With the PGA at gain setting 1 the
// full-scale range is +/-4.096 V, so one LSB is 125 uV.
func (a *ads1115) Voltage(raw int16) float32 {
	return float32(raw) * 4.096 / 32768
}
