// Package spidev drives one chip select of a Linux spidev node
// (/dev/spidevB.C).
//
// Open writes mode, bits-per-word and max speed and reads each back; a mode
// or word size the controller silently rejected is reported as an error.
// Exchange runs one full-duplex message in place. Tx and Transfer make *Dev
// a tinygo.org/x/drivers.SPI.
package spidev

import (
	"tinygo.org/x/drivers"
)

// Config holds the electrical parameters applied at Open and used for every
// message.
type Config struct {
	Mode      uint8
	Bits      uint8
	SpeedHz   uint32
	DelayUsec uint16
}

const (
	iocMagic = 'k'

	iocWrite = 1
	iocRead  = 2

	// sizeof(struct spi_ioc_transfer)
	transferSize = 32
)

// ioc mirrors the generic _IOC() encoding used on arm, arm64 and x86.
func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | iocMagic<<8 | nr
}

var (
	iocWrMode        = ioc(iocWrite, 1, 1)
	iocRdMode        = ioc(iocRead, 1, 1)
	iocWrBitsPerWord = ioc(iocWrite, 3, 1)
	iocRdBitsPerWord = ioc(iocRead, 3, 1)
	iocWrMaxSpeedHz  = ioc(iocWrite, 4, 4)
	iocRdMaxSpeedHz  = ioc(iocRead, 4, 4)
)

// iocMessage is SPI_IOC_MESSAGE(n).
func iocMessage(n uintptr) uintptr {
	return ioc(iocWrite, 0, n*transferSize)
}

// Conn is an open spidev handle.
type Conn interface {
	drivers.SPI
	Exchange(buf []byte) (int, error)
	Close() error
}

var _ Conn = (*Dev)(nil)
