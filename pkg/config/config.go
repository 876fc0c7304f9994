package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fluidlab/godaq/pkg/daq"
	"github.com/fluidlab/godaq/pkg/encode"
)

// Config represents the application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Channels    []ChannelConfig   `yaml:"channels"`
	Plot        PlotConfig        `yaml:"plot"`
	Influx      InfluxConfig      `yaml:"influx"`
	Mock        MockConfig        `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// AcquisitionConfig mirrors the firmware's acquisition settings. The host
// needs them to decode the stream (channel count and encoding) and to label
// it correctly; they do not reconfigure the device at runtime.
type AcquisitionConfig struct {
	IntervalMs int     `yaml:"interval_ms"` // Minimum milliseconds between emissions
	ShuntOhms  float64 `yaml:"shunt_ohms"`  // Current-loop shunt resistance
	Encoding   string  `yaml:"encoding"`    // "binary" or "text"
}

// ChannelConfig describes one sensor channel. Order in the list is the
// positional order of values on the wire.
type ChannelConfig struct {
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"` // "current_loop" or "thermocouple"
	ADCChannel int     `yaml:"adc_channel"`
	Unit       int     `yaml:"unit"`
	FullScale  float64 `yaml:"full_scale"`
}

// PlotConfig contains live plot parameters.
type PlotConfig struct {
	WindowSeconds float64 `yaml:"window_seconds"`
	MaxPoints     int     `yaml:"max_points"` // Display downsampling limit
}

// InfluxConfig contains the optional InfluxDB sink configuration.
type InfluxConfig struct {
	Enabled     bool   `yaml:"enabled"`
	URL         string `yaml:"url"`
	Token       string `yaml:"token"`
	Org         string `yaml:"org"`
	Bucket      string `yaml:"bucket"`
	Measurement string `yaml:"measurement"`
}

// MockConfig contains mock source configuration.
type MockConfig struct {
	SampleRate  time.Duration `yaml:"sample_rate"`   // Time between simulated samples
	NoiseLevel  float64       `yaml:"noise_level"`   // Noise amplitude in physical units
	FlowPeriod  time.Duration `yaml:"flow_period"`   // Period of the simulated flow ramp
	BasePress   float64       `yaml:"base_press"`    // Baseline pressure (bar)
	BaseTempC   float64       `yaml:"base_temp_c"`   // Baseline temperature (degC)
	FaultEveryN int           `yaml:"fault_every_n"` // Inject a fault every N samples (0 = never)
}

// Default returns a default configuration for the five-channel rig
// (two pressure transducers, one mass flow meter, two thermocouples).
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			BaudRate: 115200,
		},
		Acquisition: AcquisitionConfig{
			IntervalMs: 10,
			ShuntOhms:  150,
			Encoding:   "binary",
		},
		Channels: []ChannelConfig{
			{Name: "PT1 (bar)", Kind: "current_loop", ADCChannel: 0, FullScale: 68.9476},
			{Name: "PT2 (bar)", Kind: "current_loop", ADCChannel: 1, FullScale: 68.9476},
			{Name: "FM (g/s)", Kind: "current_loop", ADCChannel: 2, FullScale: 833},
			{Name: "TC1 (degC)", Kind: "thermocouple", Unit: 0},
			{Name: "TC2 (degC)", Kind: "thermocouple", Unit: 1},
		},
		Plot: PlotConfig{
			WindowSeconds: 30,
			MaxPoints:     1000,
		},
		Influx: InfluxConfig{
			Enabled:     false,
			URL:         "http://localhost:8086",
			Org:         "fluidlab",
			Bucket:      "daq",
			Measurement: "sample",
		},
		Mock: MockConfig{
			SampleRate: 10 * time.Millisecond,
			NoiseLevel: 0.05,
			FlowPeriod: 20 * time.Second,
			BasePress:  12.5,
			BaseTempC:  21.0,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// A channel list in the file replaces the default list entirely.
	cfg.Channels = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Acquisition.IntervalMs == 0 {
		c.Acquisition.IntervalMs = def.Acquisition.IntervalMs
	}
	if c.Acquisition.ShuntOhms == 0 {
		c.Acquisition.ShuntOhms = def.Acquisition.ShuntOhms
	}
	if c.Acquisition.Encoding == "" {
		c.Acquisition.Encoding = def.Acquisition.Encoding
	}

	if len(c.Channels) == 0 {
		c.Channels = def.Channels
	}

	if c.Plot.WindowSeconds == 0 {
		c.Plot.WindowSeconds = def.Plot.WindowSeconds
	}
	if c.Plot.MaxPoints == 0 {
		c.Plot.MaxPoints = def.Plot.MaxPoints
	}

	if c.Influx.URL == "" {
		c.Influx.URL = def.Influx.URL
	}
	if c.Influx.Measurement == "" {
		c.Influx.Measurement = def.Influx.Measurement
	}

	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
	if c.Mock.FlowPeriod == 0 {
		c.Mock.FlowPeriod = def.Mock.FlowPeriod
	}
}

// EncodingMode returns the configured wire encoding.
func (c *Config) EncodingMode() encode.Mode {
	if c.Acquisition.Encoding == "text" {
		return encode.Text
	}
	return encode.Binary
}

// DAQChannels converts the channel list to the core channel table.
func (c *Config) DAQChannels() []daq.Channel {
	channels := make([]daq.Channel, len(c.Channels))
	for i, ch := range c.Channels {
		kind := daq.CurrentLoop
		if ch.Kind == "thermocouple" {
			kind = daq.Thermocouple
		}
		channels[i] = daq.Channel{
			Name:       ch.Name,
			Kind:       kind,
			ADCChannel: ch.ADCChannel,
			Unit:       ch.Unit,
			FullScale:  float32(ch.FullScale),
		}
	}
	return channels
}

// ChannelNames returns the configured channel names in wire order.
func (c *Config) ChannelNames() []string {
	names := make([]string, len(c.Channels))
	for i, ch := range c.Channels {
		names[i] = ch.Name
	}
	return names
}
