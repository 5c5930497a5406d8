package main

import (
	"strconv"

	"arduipi-go/services/config"
	"arduipi-go/types"

	"github.com/spf13/pflag"
)

// step is one flag occurrence, replayed onto the builder after the config
// file so that flags win and later flags win over earlier ones.
type step func(b *config.Builder) error

type steps []step

func (s *steps) add(f step) { *s = append(*s, f) }

func (s steps) apply(b *config.Builder) error {
	for _, f := range s {
		if err := f(b); err != nil {
			return err
		}
	}
	return nil
}

// valueFlag records a flag that takes an argument.
type valueFlag struct {
	steps *steps
	typ   string
	last  string
	to    func(b *config.Builder, v string) error
}

func (f *valueFlag) String() string { return f.last }
func (f *valueFlag) Type() string   { return f.typ }

func (f *valueFlag) Set(v string) error {
	f.last = v
	f.steps.add(func(b *config.Builder) error { return f.to(b, v) })
	return nil
}

// switchFlag records an argument-less flag.
type switchFlag struct {
	steps *steps
	on    bool
	to    func(b *config.Builder, on bool)
}

func (f *switchFlag) String() string { return strconv.FormatBool(f.on) }
func (f *switchFlag) Type() string   { return "bool" }

func (f *switchFlag) Set(v string) error {
	on, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	f.on = on
	f.steps.add(func(b *config.Builder) error { f.to(b, on); return nil })
	return nil
}

func addValue(fs *pflag.FlagSet, s *steps, name, short, typ, usage string, to func(*config.Builder, string) error) {
	fs.VarP(&valueFlag{steps: s, typ: typ, to: to}, name, short, usage)
}

func addSwitch(fs *pflag.FlagSet, s *steps, name, short, usage string, to func(*config.Builder, bool)) {
	fl := fs.VarPF(&switchFlag{steps: s, to: to}, name, short, usage)
	fl.NoOptDefVal = "true"
}

func warnOnly(set func(*config.Builder, string)) func(*config.Builder, string) error {
	return func(b *config.Builder, v string) error { set(b, v); return nil }
}

func modeSwitch(m types.Mode) func(*config.Builder, bool) {
	return func(b *config.Builder, on bool) {
		if on {
			b.SetMode(m)
		}
	}
}

func protoSwitch(p types.Proto) func(*config.Builder, bool) {
	return func(b *config.Builder, on bool) {
		if on {
			b.SetProto(p)
		}
	}
}

func spiBit(bit types.SPIMode) func(*config.Builder, bool) {
	return func(b *config.Builder, on bool) { b.SetSPIBit(bit, on) }
}

// options holds flags that steer the command rather than the bus.
type options struct {
	configPath string
	version    bool
}

// registerFlags binds every option of the tool to fs.
func registerFlags(fs *pflag.FlagSet, s *steps, o *options) {
	fs.SortFlags = false

	addValue(fs, s, "device", "D", "path", "device name, i2c or spi", func(b *config.Builder, v string) error {
		b.SetDevice(v)
		return nil
	})
	addValue(fs, s, "address", "a", "int", "i2c device address (default 0x2A)", warnOnly((*config.Builder).SetAddress))
	addValue(fs, s, "data", "d", "data", "data to send (0x.. for hex bytes, otherwise a string)", (*config.Builder).SetData)

	addSwitch(fs, s, "i2c", "I", "set protocol to i2c (default)", protoSwitch(types.ProtoI2C))
	addSwitch(fs, s, "spi", "S", "set protocol to spi", protoSwitch(types.ProtoSPI))

	addSwitch(fs, s, "set", "s", "set value (byte, word or block by data size)", modeSwitch(types.ModeSet))
	addSwitch(fs, s, "getbyte", "g", "get byte value", modeSwitch(types.ModeGetByte))
	addSwitch(fs, s, "getword", "G", "get word value", modeSwitch(types.ModeGetWord))
	addSwitch(fs, s, "quick", "q", "quick check device", modeSwitch(types.ModeQuick))
	addSwitch(fs, s, "ack", "k", "check if device sent ack", modeSwitch(types.ModeAck))
	addSwitch(fs, s, "poll", "P", "read --register every --interval until interrupted", modeSwitch(types.ModePoll))

	addValue(fs, s, "maxspeed", "x", "khz", "max spi speed (in KHz)", warnOnly((*config.Builder).SetMaxSpeedKHz))
	addValue(fs, s, "delay", "y", "usec", "spi delay (usec)", warnOnly((*config.Builder).SetDelay))
	addValue(fs, s, "bits", "b", "int", "spi bits per word", warnOnly((*config.Builder).SetBits))

	addSwitch(fs, s, "loop", "l", "spi loopback", spiBit(types.SPILoop))
	addSwitch(fs, s, "cpha", "H", "spi clock phase", spiBit(types.SPICPHA))
	addSwitch(fs, s, "cpol", "O", "spi clock polarity", spiBit(types.SPICPOL))
	addSwitch(fs, s, "lsb", "L", "spi least significant bit first", spiBit(types.SPILSBFirst))
	addSwitch(fs, s, "cs-high", "C", "spi chip select active high", spiBit(types.SPICSHigh))
	addSwitch(fs, s, "3wire", "3", "spi SI/SO signals shared", spiBit(types.SPI3Wire))
	addSwitch(fs, s, "no-cs", "N", "spi no chip select", spiBit(types.SPINoCS))
	addSwitch(fs, s, "ready", "R", "spi ready", spiBit(types.SPIReady))

	addValue(fs, s, "interval", "", "duration", "poll interval (default 5s)", (*config.Builder).SetPollInterval)
	addValue(fs, s, "register", "", "int", "poll register (default 0x01)", (*config.Builder).SetPollRegister)

	addSwitch(fs, s, "verbose", "v", "speak more to user", (*config.Builder).SetVerbose)
	addSwitch(fs, s, "hex", "X", "show return values in hexadecimal format", (*config.Builder).SetHex)

	fs.StringVar(&o.configPath, "config", "", "YAML file applied before flags")
	fs.BoolVarP(&o.version, "version", "V", false, "show program version and board revision")
}
