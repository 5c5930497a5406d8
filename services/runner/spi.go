package runner

import (
	"context"
	"fmt"

	"arduipi-go/drivers/spidev"
	"arduipi-go/errcode"
	"arduipi-go/types"
)

// PingCommand is sent for presence checks; SPI has no address phase, so the
// peer firmware is expected to answer it.
const PingCommand = 0xE0

// filler is clocked out while the peer shifts its answer in.
const filler = 0xFF

func (r *Runner) runSPI(ctx context.Context) error {
	cfg := spidev.Config{
		Mode:      uint8(r.cfg.SPI.Mode),
		Bits:      r.cfg.SPI.Bits,
		SpeedHz:   r.cfg.SPI.SpeedHz,
		DelayUsec: r.cfg.SPI.DelayUsec,
	}
	dev, err := r.open.OpenSPI(r.cfg.Device, cfg)
	if err != nil {
		return err
	}
	defer dev.Close()
	r.log.InfoContext(ctx, "spi Init succeeded", "device", r.cfg.Device)

	if r.cfg.Mode == types.ModePoll {
		return r.poll(ctx, spiRegister{bus: dev})
	}

	v, err := r.transactSPI(dev)
	if err != nil {
		return err
	}
	r.reportValue(ctx, v, r.cfg.Mode == types.ModeGetWord)
	return nil
}

func (r *Runner) transactSPI(dev spidev.Conn) (int, error) {
	var buf []byte
	switch mode := r.cfg.Mode; {
	case mode.Probe():
		buf = []byte{PingCommand}
	case mode == types.ModeGetByte:
		buf = []byte{r.cfg.Command(), filler}
	case mode == types.ModeGetWord:
		buf = []byte{r.cfg.Command(), filler, filler}
	case mode == types.ModeSet:
		if len(r.cfg.Data) == 0 {
			return 0, errcode.Wrap(errcode.InvalidParams, "set", "no data to send, use --data", nil)
		}
		buf = append([]byte(nil), r.cfg.Data...)
	default:
		return 0, errcode.Wrap(errcode.InvalidParams, "spi", fmt.Sprintf("unsupported mode %q", r.cfg.Mode), nil)
	}

	n, err := dev.Exchange(buf)
	if err != nil {
		return 0, errcode.Wrap(errcode.TransferFailed, "spi_transfer", "error from spi device "+r.cfg.Device, err)
	}

	switch r.cfg.Mode {
	case types.ModeGetByte:
		return int(buf[1]), nil
	case types.ModeGetWord:
		return int(buf[1]) | int(buf[2])<<8, nil
	case types.ModeSet:
		return n, nil
	default:
		return int(buf[0]), nil
	}
}
