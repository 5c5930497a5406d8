//go:build !linux

package spidev

import "arduipi-go/errcode"

// Dev is unavailable off Linux; Open always fails.
type Dev struct{}

func Open(path string, cfg Config) (*Dev, error) {
	return nil, errcode.Wrap(errcode.Unsupported, "spi_init", "spidev requires linux", nil)
}

func (d *Dev) Close() error                     { return nil }
func (d *Dev) Exchange(buf []byte) (int, error) { return 0, errcode.Unsupported }
func (d *Dev) Tx(w, r []byte) error             { return errcode.Unsupported }
func (d *Dev) Transfer(b byte) (byte, error)    { return 0, errcode.Unsupported }
