package types

import "time"

// ---- Bus protocol ----

type Proto string

const (
	ProtoI2C Proto = "i2c"
	ProtoSPI Proto = "spi"
)

// ---- Transaction mode ----

type Mode string

const (
	ModeQuick   Mode = "quick"
	ModeAck     Mode = "ack"
	ModeSet     Mode = "set"
	ModeGetByte Mode = "getbyte"
	ModeGetWord Mode = "getword"
	ModePoll    Mode = "poll"
)

// String returns the label used in the verbose dump.
func (m Mode) String() string {
	switch m {
	case ModeQuick:
		return "quick ack"
	case ModeAck:
		return "read ack"
	case ModeSet:
		return "set"
	case ModeGetByte:
		return "get byte"
	case ModeGetWord:
		return "get word"
	case ModePoll:
		return "poll"
	default:
		return string(m)
	}
}

// Probe reports whether m only checks for device presence.
func (m Mode) Probe() bool { return m == ModeQuick || m == ModeAck }

// ParseMode accepts the config-file spelling of a mode.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeQuick, ModeAck, ModeSet, ModeGetByte, ModeGetWord, ModePoll:
		return m, true
	}
	return "", false
}

// ---- SPI mode bits (linux/spi/spidev.h) ----

type SPIMode uint8

const (
	SPICPHA     SPIMode = 0x01
	SPICPOL     SPIMode = 0x02
	SPICSHigh   SPIMode = 0x04
	SPILSBFirst SPIMode = 0x08
	SPI3Wire    SPIMode = 0x10
	SPILoop     SPIMode = 0x20
	SPINoCS     SPIMode = 0x40
	SPIReady    SPIMode = 0x80
)

// ---- Defaults ----

const (
	DefaultAddress  = 0x2A
	DefaultSPIBits  = 8
	DefaultSPISpeed = 1_000_000 // Hz
	DefaultSPIDelay = 0         // µs

	DefaultPollInterval = 5 * time.Second
	DefaultPollRegister = 0x01

	DefaultSPIDevice  = "/dev/spidev0.0"
	DefaultI2CDevice0 = "/dev/i2c-0"
	DefaultI2CDevice1 = "/dev/i2c-1"
)

// ---- Configuration record ----

type SPIConfig struct {
	Mode      SPIMode
	Bits      uint8
	SpeedHz   uint32
	DelayUsec uint16
}

type PollConfig struct {
	Interval time.Duration
	Register uint8
}

// Config is the resolved configuration for one invocation.
type Config struct {
	Device  string
	Address uint16
	Proto   Proto
	Mode    Mode
	Data    []byte

	SPI  SPIConfig
	Poll PollConfig

	Verbose bool
	Hex     bool
}

// DefaultConfig returns the built-in defaults. Device is left empty and is
// resolved from the board revision once all sources have been applied.
func DefaultConfig() Config {
	return Config{
		Address: DefaultAddress,
		Proto:   ProtoI2C,
		Mode:    ModeQuick,
		SPI: SPIConfig{
			Bits:      DefaultSPIBits,
			SpeedHz:   DefaultSPISpeed,
			DelayUsec: DefaultSPIDelay,
		},
		Poll: PollConfig{
			Interval: DefaultPollInterval,
			Register: DefaultPollRegister,
		},
	}
}

// Command returns the first payload byte, or 0 when there is no payload.
func (c Config) Command() byte {
	if len(c.Data) == 0 {
		return 0
	}
	return c.Data[0]
}
