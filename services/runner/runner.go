// Package runner performs the single bus transaction an invocation asks
// for: open the configured device, issue the transaction, print the result.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"arduipi-go/drivers/i2cdev"
	"arduipi-go/drivers/spidev"
	"arduipi-go/errcode"
	"arduipi-go/types"
	"arduipi-go/x/conv"
)

// Opener hands out open bus handles. platform.Devfs is the real one.
type Opener interface {
	OpenI2C(path string, addr uint16) (i2cdev.SMBus, error)
	OpenSPI(path string, cfg spidev.Config) (spidev.Conn, error)
}

type Runner struct {
	cfg  types.Config
	open Opener
	out  io.Writer
	log  *slog.Logger
}

func New(cfg types.Config, open Opener, out io.Writer, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{cfg: cfg, open: open, out: out, log: log}
}

// Run executes the configured transaction. Poll mode blocks until ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	switch r.cfg.Proto {
	case types.ProtoI2C:
		return r.runI2C(ctx)
	case types.ProtoSPI:
		return r.runSPI(ctx)
	default:
		return errcode.Wrap(errcode.InvalidParams, "run", fmt.Sprintf("unknown protocol %q", r.cfg.Proto), nil)
	}
}

// report prints one result line and mirrors it to the journal.
func (r *Runner) report(ctx context.Context, line string) {
	fmt.Fprintln(r.out, line)
	r.log.DebugContext(ctx, line)
}

func (r *Runner) reportValue(ctx context.Context, v int, word bool) {
	r.report(ctx, conv.FormatValue(v, r.cfg.Hex, word))
}
