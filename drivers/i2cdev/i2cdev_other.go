//go:build !linux

package i2cdev

import "arduipi-go/errcode"

// Dev is unavailable off Linux; Open always fails.
type Dev struct{}

func Open(path string, addr uint16) (*Dev, error) {
	return nil, errcode.Wrap(errcode.Unsupported, "i2c_init", "i2c-dev requires linux", nil)
}

func (d *Dev) Close() error                      { return nil }
func (d *Dev) WriteQuick(byte) error             { return errcode.Unsupported }
func (d *Dev) ReadByte() (byte, error)           { return 0, errcode.Unsupported }
func (d *Dev) WriteByte(byte) error              { return errcode.Unsupported }
func (d *Dev) WriteByteData(byte, byte) error    { return errcode.Unsupported }
func (d *Dev) ReadWordData(byte) (uint16, error) { return 0, errcode.Unsupported }
func (d *Dev) WriteBlockData(byte, []byte) error { return errcode.Unsupported }
func (d *Dev) Tx(addr uint16, w, r []byte) error { return errcode.Unsupported }
