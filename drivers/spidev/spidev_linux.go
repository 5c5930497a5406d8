//go:build linux

package spidev

import (
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"arduipi-go/errcode"

	"golang.org/x/sys/unix"
)

// struct spi_ioc_transfer
type iocTransfer struct {
	txBuf       uint64
	rxBuf       uint64
	length      uint32
	speedHz     uint32
	delayUsecs  uint16
	bitsPerWord uint8
	csChange    uint8
	txNbits     uint8
	rxNbits     uint8
	wordDelay   uint8
	_           uint8
}

// Dev is an open, configured spidev handle.
type Dev struct {
	f    *os.File
	path string
	cfg  Config
}

// Open opens path and applies cfg. The speed the driver reports back
// replaces cfg.SpeedHz.
func Open(path string, cfg Config) (*Dev, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errcode.Wrap(errcode.OpenFailed, "spi_init", path, err)
	}
	d := &Dev{f: f, path: path, cfg: cfg}
	if err := d.configure(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return d, nil
}

func (d *Dev) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *Dev) configure() error {
	mode := d.cfg.Mode
	if err := d.ioctl(iocWrMode, unsafe.Pointer(&mode)); err != nil {
		return errcode.Wrap(errcode.ConfigFailed, "spi_init", fmt.Sprintf("%s: writing mode %02X", d.path, d.cfg.Mode), err)
	}
	var got uint8
	if err := d.ioctl(iocRdMode, unsafe.Pointer(&got)); err != nil || got != d.cfg.Mode {
		return errcode.Wrap(errcode.ConfigFailed, "spi_init",
			fmt.Sprintf("%s: checking mode %02X, found %02X", d.path, d.cfg.Mode, got), err)
	}

	bits := d.cfg.Bits
	if err := d.ioctl(iocWrBitsPerWord, unsafe.Pointer(&bits)); err != nil {
		return errcode.Wrap(errcode.ConfigFailed, "spi_init", fmt.Sprintf("%s: setting bits per word %d", d.path, d.cfg.Bits), err)
	}
	got = 0
	if err := d.ioctl(iocRdBitsPerWord, unsafe.Pointer(&got)); err != nil || got != d.cfg.Bits {
		return errcode.Wrap(errcode.ConfigFailed, "spi_init",
			fmt.Sprintf("%s: checking bits per word %d, found %d", d.path, d.cfg.Bits, got), err)
	}

	speed := d.cfg.SpeedHz
	if err := d.ioctl(iocWrMaxSpeedHz, unsafe.Pointer(&speed)); err != nil {
		return errcode.Wrap(errcode.ConfigFailed, "spi_init", fmt.Sprintf("%s: setting max speed %d Hz", d.path, d.cfg.SpeedHz), err)
	}
	if err := d.ioctl(iocRdMaxSpeedHz, unsafe.Pointer(&speed)); err != nil {
		return errcode.Wrap(errcode.ConfigFailed, "spi_init", fmt.Sprintf("%s: reading max speed", d.path), err)
	}
	d.cfg.SpeedHz = speed
	return nil
}

func (d *Dev) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

func (d *Dev) message(tx, rx []byte, n int) (int, error) {
	tr := iocTransfer{
		length:      uint32(n),
		speedHz:     d.cfg.SpeedHz,
		delayUsecs:  d.cfg.DelayUsec,
		bitsPerWord: d.cfg.Bits,
	}
	if len(tx) > 0 {
		tr.txBuf = uint64(uintptr(unsafe.Pointer(&tx[0])))
	}
	if len(rx) > 0 {
		tr.rxBuf = uint64(uintptr(unsafe.Pointer(&rx[0])))
	}
	r, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), iocMessage(1), uintptr(unsafe.Pointer(&tr)))
	// The buffers are only referenced by address inside tr.
	runtime.KeepAlive(tx)
	runtime.KeepAlive(rx)
	if errno != 0 {
		return 0, errcode.Wrap(errcode.TransferFailed, "spi_transfer", d.path, errno)
	}
	return int(r), nil
}

// Exchange clocks buf out and overwrites it with the bytes clocked in.
// It returns the number of bytes transferred.
func (d *Dev) Exchange(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	return d.message(buf, buf, len(buf))
}

// Tx transmits w while receiving into r. Either may be nil; otherwise the
// lengths must match.
func (d *Dev) Tx(w, r []byte) error {
	n := len(w)
	if n == 0 {
		n = len(r)
	} else if len(r) > 0 && len(r) != n {
		return errcode.Wrap(errcode.InvalidParams, "spi tx", fmt.Sprintf("w=%d r=%d", len(w), len(r)), nil)
	}
	if n == 0 {
		return nil
	}
	_, err := d.message(w, r, n)
	return err
}

// Transfer exchanges a single byte.
func (d *Dev) Transfer(b byte) (byte, error) {
	buf := []byte{b}
	if _, err := d.Exchange(buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}
