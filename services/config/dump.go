package config

import (
	"fmt"
	"io"

	"arduipi-go/types"
	"arduipi-go/x/conv"
)

// Dump writes the human-readable configuration shown by --verbose.
func Dump(w io.Writer, c types.Config) {
	switch c.Proto {
	case types.ProtoI2C:
		fmt.Fprintln(w, "-- i2c Stuff --")
		fmt.Fprintf(w, "i2c bus       : %s\n", c.Device)
		fmt.Fprintf(w, "slave address : 0x%02X\n", c.Address)
	case types.ProtoSPI:
		fmt.Fprintln(w, "-- spi Stuff --")
		fmt.Fprintf(w, "spi bus       : %s\n", c.Device)
		fmt.Fprintf(w, "spi mode      : %d\n", c.SPI.Mode)
		fmt.Fprintf(w, "bits per word : %d\n", c.SPI.Bits)
		fmt.Fprintf(w, "max speed     : %d Hz (%d KHz)\n", c.SPI.SpeedHz, c.SPI.SpeedHz/1000)
		fmt.Fprintf(w, "delay         : %d us\n", c.SPI.DelayUsec)
	}
	if c.Mode == types.ModePoll {
		fmt.Fprintf(w, "poll          : register 0x%02X every %s\n", c.Poll.Register, c.Poll.Interval)
	}
	fmt.Fprintf(w, "mode          : %s\n", c.Mode)
	fmt.Fprintf(w, "protocol      : %s\n", c.Proto)
	fmt.Fprintf(w, "verbose       : %s\n", yesNo(c.Verbose))
	fmt.Fprintf(w, "data (%02d)     : %s\n", len(c.Data), conv.FormatBytes(c.Data))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
