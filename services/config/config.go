// Package config resolves one invocation's types.Config from built-in
// defaults, an optional YAML file and command-line flags.
//
// Out-of-range numeric values never abort: the setter records a warning
// and keeps the built-in default. A malformed payload is an error.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"arduipi-go/errcode"
	"arduipi-go/platform"
	"arduipi-go/types"
	"arduipi-go/x/conv"
	"arduipi-go/x/mathx"
)

const (
	minAddress  = 0x01
	maxAddress  = 0x7F
	minSpeedKHz = 1
	maxSpeedKHz = 10000
	maxDelay    = 0xFFFF
	maxBits     = 64
)

// Builder accumulates settings. Later calls override earlier ones, so the
// caller applies sources lowest precedence first.
type Builder struct {
	cfg      types.Config
	warnings []string
}

func NewBuilder() *Builder {
	return &Builder{cfg: types.DefaultConfig()}
}

// Warnings returns the rejected-value notices collected so far.
func (b *Builder) Warnings() []string { return b.warnings }

func (b *Builder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// parseInt reads an integer the way strtol(s, _, 0) does: 0x hex,
// leading 0 octal, decimal otherwise.
func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	return v, err == nil
}

// ranged parses s and checks it against [lo, hi]. Text that does not parse
// or lies outside the range yields def and false.
func ranged(s string, lo, hi, def int64) (int64, bool) {
	v, ok := parseInt(s)
	if !ok {
		return def, false
	}
	return mathx.OrDefault(v, lo, hi, def)
}

func (b *Builder) SetDevice(path string) { b.cfg.Device = path }

func (b *Builder) SetProto(p types.Proto) { b.cfg.Proto = p }

func (b *Builder) SetMode(m types.Mode) { b.cfg.Mode = m }

func (b *Builder) SetVerbose(v bool) { b.cfg.Verbose = v }

func (b *Builder) SetHex(v bool) { b.cfg.Hex = v }

// SetSPIBit turns one spidev mode bit on or off.
func (b *Builder) SetSPIBit(bit types.SPIMode, on bool) {
	if on {
		b.cfg.SPI.Mode |= bit
	} else {
		b.cfg.SPI.Mode &^= bit
	}
}

func (b *Builder) SetAddress(s string) {
	v, ok := ranged(s, minAddress, maxAddress, types.DefaultAddress)
	b.cfg.Address = uint16(v)
	if ok {
		return
	}
	if n, parsed := parseInt(s); parsed && n >= 0 {
		b.warnf("--address %d (0x%02x) ignored.", n, n)
	} else {
		b.warnf("--address %s ignored.", strings.TrimSpace(s))
	}
	b.warnf("--address must be between 0x%02x and 0x%02x, setting slave to default 0x%02x",
		minAddress, maxAddress, types.DefaultAddress)
}

// SetMaxSpeedKHz takes the clock limit in KHz.
func (b *Builder) SetMaxSpeedKHz(s string) {
	v, ok := ranged(s, minSpeedKHz, maxSpeedKHz, types.DefaultSPISpeed/1000)
	b.cfg.SPI.SpeedHz = uint32(v) * 1000
	if ok {
		return
	}
	b.warnf("--maxspeed %s Khz ignored.", s)
	b.warnf("--maxspeed must be between %d and %d (KHz), setting max speed to default %d Khz",
		minSpeedKHz, maxSpeedKHz, types.DefaultSPISpeed/1000)
}

// SetDelay takes the inter-transfer delay in microseconds.
func (b *Builder) SetDelay(s string) {
	v, ok := ranged(s, 0, maxDelay, types.DefaultSPIDelay)
	b.cfg.SPI.DelayUsec = uint16(v)
	if ok {
		return
	}
	b.warnf("--delay %sus ignored.", s)
	b.warnf("--setting delay to default %d us", types.DefaultSPIDelay)
}

func (b *Builder) SetBits(s string) {
	v, ok := ranged(s, 0, maxBits, types.DefaultSPIBits)
	b.cfg.SPI.Bits = uint8(v)
	if ok {
		return
	}
	b.warnf("--bits %s ignored.", s)
	b.warnf("--setting bits per word to default %d", types.DefaultSPIBits)
}

// SetData parses a payload (see conv.ParsePayload).
func (b *Builder) SetData(s string) error {
	d, err := conv.ParsePayload(s)
	if err != nil {
		return err
	}
	b.cfg.Data = d
	return nil
}

func (b *Builder) SetPollInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return errcode.Wrap(errcode.InvalidParams, "config", "poll interval "+strconv.Quote(s), err)
	}
	b.cfg.Poll.Interval = d
	return nil
}

func (b *Builder) SetPollRegister(s string) error {
	v, ok := parseInt(s)
	if !ok || !mathx.Within(v, 0, 0xFF) {
		return errcode.Wrap(errcode.InvalidParams, "config", "poll register "+strconv.Quote(s), nil)
	}
	b.cfg.Poll.Register = uint8(v)
	return nil
}

// Resolve fills the device path from the board when none was given and
// returns the final configuration.
func (b *Builder) Resolve(board platform.Board) types.Config {
	c := b.cfg
	switch c.Proto {
	case types.ProtoSPI:
		if c.Device == "" || platform.IsI2CDevice(c.Device) {
			c.Device = types.DefaultSPIDevice
		}
	default:
		if c.Device == "" {
			if !board.Known() {
				b.warnf("unable to detect board revision, using %s", types.DefaultI2CDevice1)
			}
			c.Device = platform.DefaultI2CDevice(board)
		}
	}
	c.Data = append([]byte(nil), c.Data...)
	return c
}
