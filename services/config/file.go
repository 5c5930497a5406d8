package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"arduipi-go/errcode"
	"arduipi-go/types"

	"gopkg.in/yaml.v3"
)

// File is the on-disk form. Numeric and payload fields are kept as raw
// text so they go through the same validators as flags.
type File struct {
	Device   string   `yaml:"device"`
	Address  string   `yaml:"address"`
	Protocol string   `yaml:"protocol"`
	Mode     string   `yaml:"mode"`
	Data     string   `yaml:"data"`
	Hex      *bool    `yaml:"hex"`
	Verbose  *bool    `yaml:"verbose"`
	SPI      SPIFile  `yaml:"spi"`
	Poll     PollFile `yaml:"poll"`
}

type SPIFile struct {
	Bits        string `yaml:"bits"`
	MaxSpeedKHz string `yaml:"max_speed_khz"`
	DelayUsec   string `yaml:"delay_us"`

	CPHA      bool `yaml:"cpha"`
	CPOL      bool `yaml:"cpol"`
	LSBFirst  bool `yaml:"lsb_first"`
	CSHigh    bool `yaml:"cs_high"`
	ThreeWire bool `yaml:"3wire"`
	NoCS      bool `yaml:"no_cs"`
	Loop      bool `yaml:"loop"`
	Ready     bool `yaml:"ready"`
}

type PollFile struct {
	Interval string `yaml:"interval"`
	Register string `yaml:"register"`
}

// LoadFile reads path and applies it.
func (b *Builder) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errcode.Wrap(errcode.OpenFailed, "config", path, err)
	}
	return b.LoadYAML(bytes.NewReader(raw))
}

// LoadYAML decodes one document from r and applies it. Unknown keys are
// rejected. An empty document changes nothing.
func (b *Builder) LoadYAML(r io.Reader) error {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return errcode.Wrap(errcode.InvalidParams, "config", "yaml", err)
	}
	return b.Apply(f)
}

// Apply copies every field set in f onto the builder.
func (b *Builder) Apply(f File) error {
	if f.Device != "" {
		b.SetDevice(f.Device)
	}
	if f.Address != "" {
		b.SetAddress(f.Address)
	}
	switch types.Proto(f.Protocol) {
	case "":
	case types.ProtoI2C, types.ProtoSPI:
		b.SetProto(types.Proto(f.Protocol))
	default:
		return errcode.Wrap(errcode.InvalidParams, "config", "protocol "+f.Protocol, nil)
	}
	if f.Mode != "" {
		m, ok := types.ParseMode(f.Mode)
		if !ok {
			return errcode.Wrap(errcode.InvalidParams, "config", "mode "+f.Mode, nil)
		}
		b.SetMode(m)
	}
	if f.Data != "" {
		if err := b.SetData(f.Data); err != nil {
			return err
		}
	}
	if f.Hex != nil {
		b.SetHex(*f.Hex)
	}
	if f.Verbose != nil {
		b.SetVerbose(*f.Verbose)
	}

	s := f.SPI
	if s.Bits != "" {
		b.SetBits(s.Bits)
	}
	if s.MaxSpeedKHz != "" {
		b.SetMaxSpeedKHz(s.MaxSpeedKHz)
	}
	if s.DelayUsec != "" {
		b.SetDelay(s.DelayUsec)
	}
	for _, mb := range []struct {
		on  bool
		bit types.SPIMode
	}{
		{s.CPHA, types.SPICPHA},
		{s.CPOL, types.SPICPOL},
		{s.CSHigh, types.SPICSHigh},
		{s.LSBFirst, types.SPILSBFirst},
		{s.ThreeWire, types.SPI3Wire},
		{s.Loop, types.SPILoop},
		{s.NoCS, types.SPINoCS},
		{s.Ready, types.SPIReady},
	} {
		if mb.on {
			b.SetSPIBit(mb.bit, true)
		}
	}

	if f.Poll.Interval != "" {
		if err := b.SetPollInterval(f.Poll.Interval); err != nil {
			return err
		}
	}
	if f.Poll.Register != "" {
		if err := b.SetPollRegister(f.Poll.Register); err != nil {
			return err
		}
	}
	return nil
}
