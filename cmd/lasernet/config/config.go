package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"Lasernet/internel/utils"
	"Lasernet/pkg/capture"
	"Lasernet/pkg/device"
	"Lasernet/pkg/layers"
	"Lasernet/pkg/pulse"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

const (
	DriverSim      = "sim"
	DriverLoopback = "loopback"
	DriverGPIO     = "gpio"
	DriverASIO     = "asio"
)

// Durations are in microseconds.
type Timing struct {
	Scale       int   `yaml:"scale" toml:"scale"`
	Lead        int64 `yaml:"lead" toml:"lead"`
	Initiation  int64 `yaml:"initiation" toml:"initiation"`
	Gap         int64 `yaml:"gap" toml:"gap"`
	Zero        int64 `yaml:"zero" toml:"zero"`
	One         int64 `yaml:"one" toml:"one"`
	Termination int64 `yaml:"termination" toml:"termination"`
}

type Bands struct {
	ShortMax       int64 `yaml:"short_max" toml:"short_max"`
	LongMax        int64 `yaml:"long_max" toml:"long_max"`
	InitiationMin  int64 `yaml:"initiation_min" toml:"initiation_min"`
	TerminationMin int64 `yaml:"termination_min" toml:"termination_min"`
}

type Config struct {
	Message     string `yaml:"message" toml:"message"`
	MessageFile string `yaml:"message_file" toml:"message_file"`

	Line struct {
		Driver     string  `yaml:"driver" toml:"driver"`
		SampleRate float64 `yaml:"sample_rate" toml:"sample_rate"`
		Amplitude  float64 `yaml:"amplitude" toml:"amplitude"`
		BufferSize int     `yaml:"buffer_size" toml:"buffer_size"`
		SpinBelow  int64   `yaml:"spin_below" toml:"spin_below"` // µs
		PinCPU     *int    `yaml:"pin_cpu" toml:"pin_cpu"`

		GPIO struct {
			Chip     string `yaml:"chip" toml:"chip"`
			TxOffset int    `yaml:"tx_offset" toml:"tx_offset"`
			RxOffset int    `yaml:"rx_offset" toml:"rx_offset"`
		} `yaml:"gpio" toml:"gpio"`

		ASIO struct {
			DeviceName string `yaml:"device_name" toml:"device_name"`
			InChannel  int    `yaml:"in_channel" toml:"in_channel"`
			OutChannel int    `yaml:"out_channel" toml:"out_channel"`
		} `yaml:"asio" toml:"asio"`

		Sim struct {
			Jitter   float64 `yaml:"jitter" toml:"jitter"` // µs
			DropRate float64 `yaml:"drop_rate" toml:"drop_rate"`
			Seed     uint64  `yaml:"seed" toml:"seed"`
			Fast     bool    `yaml:"fast" toml:"fast"` // do not pace the wire by the wall clock
		} `yaml:"sim" toml:"sim"`
	} `yaml:"line" toml:"line"`

	Timing Timing `yaml:"timing" toml:"timing"`
	Bands  *Bands `yaml:"bands" toml:"bands"`

	Interval         int    `yaml:"interval" toml:"interval"` // ms
	Capture          string `yaml:"capture" toml:"capture"`
	ReportBufferSize int    `yaml:"report_buffer_size" toml:"report_buffer_size"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// LoadConfig reads a YAML file, or a TOML file if the name ends in .toml, and
// fills in defaults for everything left out.
func LoadConfig(filename string) (*Config, error) {
	var config Config

	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		if _, err := toml.DecodeFile(filename, &config); err != nil {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Line.Driver == "" {
		c.Line.Driver = DriverSim
	}
	if c.Line.SampleRate == 0 {
		c.Line.SampleRate = 1e6
	}
	if c.Line.Amplitude == 0 {
		c.Line.Amplitude = 1
	}
	if c.Line.BufferSize == 0 {
		c.Line.BufferSize = 4096
	}
	if c.Line.SpinBelow == 0 {
		c.Line.SpinBelow = 1000
	}
	if c.Line.GPIO.Chip == "" {
		c.Line.GPIO.Chip = "gpiochip0"
		if c.Line.GPIO.TxOffset == 0 && c.Line.GPIO.RxOffset == 0 {
			c.Line.GPIO.TxOffset = 18
			c.Line.GPIO.RxOffset = 23
		}
	}

	d := pulse.DefaultTiming()
	t := &c.Timing
	if t.Scale == 0 {
		t.Scale = 1
	}
	setDefault(&t.Lead, d.Lead)
	setDefault(&t.Initiation, d.Initiation)
	setDefault(&t.Gap, d.Gap)
	setDefault(&t.Zero, d.Zero)
	setDefault(&t.One, d.One)
	setDefault(&t.Termination, d.Termination)

	if c.Interval == 0 {
		c.Interval = 2000
	}
	if c.ReportBufferSize == 0 {
		c.ReportBufferSize = 16
	}
}

func setDefault(us *int64, d time.Duration) {
	if *us == 0 {
		*us = d.Microseconds()
	}
}

func micros(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}

// PulseTiming is the configured timing, scaled.
func (c *Config) PulseTiming() pulse.Timing {
	t := c.Timing
	return pulse.Timing{
		Lead:        micros(t.Lead),
		Initiation:  micros(t.Initiation),
		Gap:         micros(t.Gap),
		Zero:        micros(t.Zero),
		One:         micros(t.One),
		Termination: micros(t.Termination),
	}.Scale(t.Scale)
}

// PulseBands is nil unless bands were configured explicitly.  Explicit bands
// are not scaled.
func (c *Config) PulseBands() *pulse.Bands {
	if c.Bands == nil {
		return nil
	}
	return &pulse.Bands{
		ShortMax:       micros(c.Bands.ShortMax),
		LongMax:        micros(c.Bands.LongMax),
		InitiationMin:  micros(c.Bands.InitiationMin),
		TerminationMin: micros(c.Bands.TerminationMin),
	}
}

func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Millisecond
}

// Validate reports the first problem found.
func (c *Config) Validate() error {
	if c.Message == "" && c.MessageFile == "" {
		return fmt.Errorf("%w: message or message_file is required", ErrInvalidConfig)
	}
	if !utf8.ValidString(c.Message) {
		return fmt.Errorf("%w: message is not valid UTF-8", ErrInvalidConfig)
	}
	switch c.Line.Driver {
	case DriverSim, DriverLoopback, DriverGPIO, DriverASIO:
	default:
		return fmt.Errorf("%w: unknown line driver %q", ErrInvalidConfig, c.Line.Driver)
	}
	if c.Interval < 0 {
		return fmt.Errorf("%w: negative interval %d ms", ErrInvalidConfig, c.Interval)
	}
	if c.Timing.Scale < 1 {
		return fmt.Errorf("%w: timing scale %d must be at least 1", ErrInvalidConfig, c.Timing.Scale)
	}
	if c.Line.Sim.DropRate < 0 || c.Line.Sim.DropRate >= 1 {
		return fmt.Errorf("%w: drop rate %v must be in [0, 1)", ErrInvalidConfig, c.Line.Sim.DropRate)
	}
	if c.Line.Amplitude <= 0 || c.Line.Amplitude > 1 {
		return fmt.Errorf("%w: amplitude %v must be in (0, 1]", ErrInvalidConfig, c.Line.Amplitude)
	}

	timing := c.PulseTiming()
	if err := timing.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if bands := c.PulseBands(); bands != nil {
		if err := bands.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if c.Line.Driver == DriverLoopback || c.Line.Driver == DriverASIO {
		if c.Line.SampleRate <= 0 {
			return fmt.Errorf("%w: sample rate %v must be positive", ErrInvalidConfig, c.Line.SampleRate)
		}
		sample := time.Duration(float64(time.Second) / c.Line.SampleRate)
		if sample >= (timing.One-timing.Zero)/2 {
			return fmt.Errorf("%w: a sample of %v cannot tell a %v pulse from a %v pulse, raise timing.scale",
				ErrInvalidConfig, sample, timing.Zero, timing.One)
		}
	}
	return nil
}

// LoadMessage returns the message to send.
func (c *Config) LoadMessage() (string, error) {
	if c.Message != "" {
		return c.Message, nil
	}
	return utils.ReadMessage(c.MessageFile)
}

// Line is an opened physical line.
type Line struct {
	Output device.Output
	Input  device.Input
	Clock  device.Clock

	closers []func()
}

// Close releases the line.  The input's edge stream ends, which stops a
// receiver waiting on it.
func (l *Line) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		l.closers[i]()
	}
	l.closers = nil
}

// CreateLine opens the configured line driver.  Failing to acquire the line
// returns an error wrapping device.ErrLineUnavailable.
func CreateLine(c *Config) (*Line, error) {
	switch c.Line.Driver {
	case DriverSim:
		wire := &device.Wire{
			Jitter:     time.Duration(c.Line.Sim.Jitter * float64(time.Microsecond)),
			DropRate:   c.Line.Sim.DropRate,
			Seed:       c.Line.Sim.Seed,
			BufferSize: c.Line.BufferSize,
		}
		var clock device.Clock = wire
		if !c.Line.Sim.Fast {
			clock = device.Clocks{wire, device.SpinClock{SpinBelow: micros(c.Line.SpinBelow)}}
		}
		return &Line{Output: wire, Input: wire, Clock: clock, closers: []func(){wire.Close}}, nil

	case DriverLoopback:
		return sampleLine(c, loopbackDevice(c)), nil

	case DriverASIO:
		dev, err := device.NewASIOMono(c.Line.ASIO.DeviceName, c.Line.SampleRate, c.Line.ASIO.InChannel, c.Line.ASIO.OutChannel)
		if err != nil {
			return nil, err
		}
		return sampleLine(c, dev), nil

	case DriverGPIO:
		out, err := device.OpenGPIOOutput(c.Line.GPIO.Chip, c.Line.GPIO.TxOffset)
		if err != nil {
			return nil, err
		}
		in, err := device.OpenGPIOInput(c.Line.GPIO.Chip, c.Line.GPIO.RxOffset, c.Line.BufferSize)
		if err != nil {
			out.Close()
			return nil, err
		}
		return &Line{
			Output:  out,
			Input:   in,
			Clock:   device.SpinClock{SpinBelow: micros(c.Line.SpinBelow)},
			closers: []func(){func() { out.Close() }, func() { in.Close() }},
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown line driver %q", ErrInvalidConfig, c.Line.Driver)
}

// loopbackDevice runs its callbacks at the rate a sound card would.
func loopbackDevice(c *Config) *device.Loopback {
	return &device.Loopback{
		CallbackRate: c.Line.SampleRate / device.BufferSize,
		BufferSize:   device.BufferSize,
	}
}

func sampleLine(c *Config, dev device.Device) *Line {
	line := &device.SampleLine{
		Device:          dev,
		SampleRate:      c.Line.SampleRate,
		Amplitude:       int32(c.Line.Amplitude * 0x7fffffff),
		InputBufferSize: c.Line.BufferSize,
	}
	line.Open()
	return &Line{Output: line, Input: line, Clock: line, closers: []func(){line.Close}}
}

// CreateLink opens the capture file, if any, and builds the link over line.
// The returned function closes the capture file.
func CreateLink(c *Config, message string, line *Line) (*layers.Link, func(), error) {
	lc := layers.LinkConfig{
		Timing:           c.PulseTiming(),
		Bands:            c.PulseBands(),
		Interval:         c.IntervalDuration(),
		Output:           line.Output,
		Clock:            line.Clock,
		Input:            line.Input,
		ReportBufferSize: c.ReportBufferSize,
		PinCPU:           c.Line.PinCPU,
	}

	closeCapture := func() {}
	if c.Capture != "" {
		p, err := capture.Create(c.Capture)
		if err != nil {
			return nil, nil, err
		}
		lc.Capture = p
		closeCapture = func() { p.Close() }
	}

	link, err := layers.NewLink(message, lc)
	if err != nil {
		closeCapture()
		return nil, nil, err
	}
	return link, closeCapture, nil
}
