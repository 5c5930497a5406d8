package runner

import (
	"context"
	"fmt"

	"arduipi-go/drivers/i2cdev"
	"arduipi-go/errcode"
	"arduipi-go/types"
)

func (r *Runner) runI2C(ctx context.Context) error {
	dev, err := r.open.OpenI2C(r.cfg.Device, r.cfg.Address)
	if err != nil {
		return err
	}
	defer dev.Close()
	r.log.InfoContext(ctx, "i2c Init succeeded", "device", r.cfg.Device, "address", fmt.Sprintf("0x%02X", r.cfg.Address))

	switch {
	case r.cfg.Mode.Probe():
		if err := r.probeI2C(dev); err != nil {
			r.log.DebugContext(ctx, "probe failed", "code", errcode.Of(err), "error", err)
			r.report(ctx, fmt.Sprintf("i2c device 0x%02x was not found", r.cfg.Address))
			return nil
		}
		r.report(ctx, fmt.Sprintf("i2c device 0x%02x is detected", r.cfg.Address))
		return nil
	case r.cfg.Mode == types.ModePoll:
		return r.poll(ctx, i2cRegister{bus: dev, addr: r.cfg.Address})
	}

	v, err := r.transactI2C(dev)
	if err != nil {
		return err
	}
	r.reportValue(ctx, v, r.cfg.Mode == types.ModeGetWord)
	return nil
}

// probeI2C checks presence only. A missing device comes back as
// errcode.NoDevice, which the caller reports without failing the run.
func (r *Runner) probeI2C(dev i2cdev.SMBus) error {
	op := "i2c_smbus_write_quick"
	var err error
	if r.cfg.Mode == types.ModeQuick {
		err = dev.WriteQuick(0)
	} else {
		op = "i2c_smbus_read_byte"
		_, err = dev.ReadByte()
	}
	if err != nil {
		return errcode.Wrap(errcode.NoDevice, op, fmt.Sprintf("no answer from 0x%02x", r.cfg.Address), err)
	}
	return nil
}

func (r *Runner) transactI2C(dev i2cdev.SMBus) (int, error) {
	cmd := r.cfg.Command()
	switch r.cfg.Mode {
	case types.ModeGetByte:
		if err := dev.WriteByte(cmd); err != nil {
			return 0, r.deviceErr("i2c_smbus_write_byte", err)
		}
		b, err := dev.ReadByte()
		if err != nil {
			return 0, r.deviceErr("i2c_smbus_read_byte", err)
		}
		return int(b), nil

	case types.ModeGetWord:
		w, err := dev.ReadWordData(cmd)
		if err != nil {
			return 0, r.deviceErr("i2c_smbus_read_word_data", err)
		}
		return int(w), nil

	case types.ModeSet:
		data := r.cfg.Data
		var err error
		switch len(data) {
		case 0:
			return 0, errcode.Wrap(errcode.InvalidParams, "set", "no data to send, use --data", nil)
		case 1:
			err = dev.WriteByte(data[0])
		case 2:
			err = dev.WriteByteData(data[0], data[1])
		default:
			err = dev.WriteBlockData(data[0], data[1:])
		}
		if err != nil {
			return 0, r.deviceErr("set", err)
		}
		return 0, nil
	}
	return 0, errcode.Wrap(errcode.InvalidParams, "i2c", fmt.Sprintf("unsupported mode %q", r.cfg.Mode), nil)
}

func (r *Runner) deviceErr(op string, err error) error {
	return errcode.Wrap(errcode.TransferFailed, op, fmt.Sprintf("error from device 0x%02x", r.cfg.Address), err)
}
