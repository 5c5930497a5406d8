// Package i2cdev talks to a single I²C slave through the Linux i2c-dev
// character device (/dev/i2c-N).
//
// Two access styles are offered on the same handle:
//
//	d.ReadWordData(0x01)        // SMBus transactions (ioctl I2C_SMBUS)
//	d.Tx(addr, w, r)            // raw combined transfer (ioctl I2C_RDWR)
//
// Tx makes *Dev usable wherever a tinygo.org/x/drivers.I2C is expected.
package i2cdev

import (
	"tinygo.org/x/drivers"
)

// Request numbers and SMBus transaction kinds (linux/i2c-dev.h, linux/i2c.h).
const (
	ioctlSlave = 0x0703
	ioctlRDWR  = 0x0707
	ioctlSMBus = 0x0720

	smbusWrite = 0
	smbusRead  = 1

	sizeQuick          = 0
	sizeByte           = 1
	sizeByteData       = 2
	sizeWordData       = 3
	sizeI2CBlockBroken = 6

	msgRead = 0x0001

	// BlockMax is the SMBus block payload limit.
	BlockMax = 32
)

// SMBus is the transaction set the tool issues against one slave. Tx
// addresses any slave on the same adapter.
type SMBus interface {
	drivers.I2C
	WriteQuick(bit byte) error
	ReadByte() (byte, error)
	WriteByte(b byte) error
	WriteByteData(cmd, b byte) error
	ReadWordData(cmd byte) (uint16, error)
	WriteBlockData(cmd byte, b []byte) error
	Close() error
}

var _ SMBus = (*Dev)(nil)
