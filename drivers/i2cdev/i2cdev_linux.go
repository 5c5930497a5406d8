//go:build linux

package i2cdev

import (
	"encoding/binary"
	"os"
	"strconv"
	"unsafe"

	"arduipi-go/errcode"

	"golang.org/x/sys/unix"
)

// i2c_smbus_ioctl_data
type smbusIoctlData struct {
	readWrite uint8
	command   uint8
	size      uint32
	data      *smbusData
}

// union i2c_smbus_data: byte, word or block[0]=len + 32 bytes + PEC.
type smbusData [BlockMax + 2]byte

// struct i2c_msg
type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   unsafe.Pointer
}

// struct i2c_rdwr_ioctl_data
type rdwrIoctlData struct {
	msgs  unsafe.Pointer
	nmsgs uint32
}

// Dev is an open i2c-dev handle bound to one slave address.
type Dev struct {
	f    *os.File
	path string
}

// Open opens path read/write and binds the handle to addr.
func Open(path string, addr uint16) (*Dev, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errcode.Wrap(errcode.OpenFailed, "i2c_init", path, err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), ioctlSlave, int(addr)); err != nil {
		_ = f.Close()
		return nil, errcode.Wrap(errcode.ConfigFailed, "i2c_init",
			"setting slave address 0x"+strconv.FormatUint(uint64(addr), 16), err)
	}
	return &Dev{f: f, path: path}, nil
}

func (d *Dev) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

func (d *Dev) access(rw, cmd uint8, size uint32, data *smbusData) error {
	args := smbusIoctlData{readWrite: rw, command: cmd, size: size, data: data}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), ioctlSMBus, uintptr(unsafe.Pointer(&args)))
	if errno != 0 {
		return errno
	}
	return nil
}

// WriteQuick sends only the address with bit as the R/W flag.
func (d *Dev) WriteQuick(bit byte) error {
	return d.access(bit, 0, sizeQuick, nil)
}

func (d *Dev) ReadByte() (byte, error) {
	var data smbusData
	if err := d.access(smbusRead, 0, sizeByte, &data); err != nil {
		return 0, err
	}
	return data[0], nil
}

func (d *Dev) WriteByte(b byte) error {
	return d.access(smbusWrite, b, sizeByte, nil)
}

func (d *Dev) WriteByteData(cmd, b byte) error {
	var data smbusData
	data[0] = b
	return d.access(smbusWrite, cmd, sizeByteData, &data)
}

// ReadWordData returns the word as the kernel stores it, in host order.
func (d *Dev) ReadWordData(cmd byte) (uint16, error) {
	var data smbusData
	if err := d.access(smbusRead, cmd, sizeWordData, &data); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint16(data[:2]), nil
}

// WriteBlockData writes up to BlockMax bytes after cmd without a length byte
// on the wire (i2c_smbus_write_i2c_block_data).
func (d *Dev) WriteBlockData(cmd byte, b []byte) error {
	if len(b) > BlockMax {
		return errcode.Wrap(errcode.PayloadTooLarge, "i2c block write", strconv.Itoa(len(b))+" bytes", nil)
	}
	var data smbusData
	data[0] = byte(len(b))
	copy(data[1:], b)
	return d.access(smbusWrite, cmd, sizeI2CBlockBroken, &data)
}

// Tx performs a write, a read, or a write followed by a repeated-start read
// to addr in a single I2C_RDWR call.
func (d *Dev) Tx(addr uint16, w, r []byte) error {
	msgs := make([]i2cMsg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, i2cMsg{addr: addr, len: uint16(len(w)), buf: unsafe.Pointer(&w[0])})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2cMsg{addr: addr, flags: msgRead, len: uint16(len(r)), buf: unsafe.Pointer(&r[0])})
	}
	if len(msgs) == 0 {
		return d.WriteQuick(smbusWrite)
	}
	args := rdwrIoctlData{msgs: unsafe.Pointer(&msgs[0]), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), ioctlRDWR, uintptr(unsafe.Pointer(&args)))
	if errno != 0 {
		return errcode.Wrap(errcode.TransferFailed, "i2c tx", d.path, errno)
	}
	return nil
}
