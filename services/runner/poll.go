package runner

import (
	"context"
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

// register reads one byte-wide register from the peer.
type register interface {
	read(reg byte) (byte, error)
}

type i2cRegister struct {
	bus  drivers.I2C
	addr uint16
}

func (p i2cRegister) read(reg byte) (byte, error) {
	var r [1]byte
	if err := p.bus.Tx(p.addr, []byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

type spiRegister struct {
	bus drivers.SPI
}

func (p spiRegister) read(reg byte) (byte, error) {
	w := []byte{reg, filler}
	r := make([]byte, len(w))
	if err := p.bus.Tx(w, r); err != nil {
		return 0, err
	}
	return r[1], nil
}

// poll reads the configured register every interval until ctx is done.
// Read errors are logged and the loop keeps going.
func (r *Runner) poll(ctx context.Context, src register) error {
	every := r.cfg.Poll.Interval
	if every <= 0 {
		every = time.Second
	}
	reg := r.cfg.Poll.Register
	r.log.InfoContext(ctx, "polling", "register", fmt.Sprintf("0x%02X", reg), "interval", every)

	tick := time.NewTicker(every)
	defer tick.Stop()

	for {
		if ctx.Err() != nil {
			r.log.InfoContext(ctx, "Program terminated")
			return nil
		}

		v, err := src.read(reg)
		if err != nil {
			r.log.WarnContext(ctx, "poll read failed", "register", fmt.Sprintf("0x%02X", reg), "error", err)
		} else {
			r.reportValue(ctx, int(v), false)
		}

		select {
		case <-ctx.Done():
		case <-tick.C:
		}
	}
}
