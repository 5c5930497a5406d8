// Command arduipi probes or exercises a peripheral on a single-board
// computer's I2C (i2c-dev) or SPI (spidev) bus.
//
//	arduipi --i2c --getbyte --hex --data 0xe0
//
// sends a ping command and prints the reply in hex.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"arduipi-go/errcode"
	"arduipi-go/platform"
	"arduipi-go/services/config"
	"arduipi-go/services/runner"
	"arduipi-go/x/logx"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

const (
	progName    = "arduipi"
	progVersion = "1.0"
	envFlags    = "ARDUIPI_FLAGS"
)

// env is what the command needs from the outside world.
type env struct {
	stdout, stderr io.Writer
	getenv         func(string) string
	board          func() platform.Board
	open           runner.Opener
	journal        func() io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], env{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		getenv:  os.Getenv,
		board:   platform.DetectBoard,
		open:    platform.Devfs{},
		journal: openJournal,
	})
	stop()
	os.Exit(code)
}

func openJournal() io.Writer {
	j, err := logx.OpenJournal(progName)
	if err != nil {
		return nil
	}
	return j
}

var errUnrecognized = errors.New("unrecognized option")

// run executes one invocation and returns the exit status.
func run(ctx context.Context, args []string, e env) int {
	var journal io.Writer
	if e.journal != nil {
		journal = e.journal()
	}
	if c, ok := journal.(io.Closer); ok {
		defer c.Close()
	}
	jlog := logx.New(logx.Options{Journal: journal})

	fatal := func(err error) int {
		fmt.Fprintf(e.stderr, "FATAL: %s\n", err)
		jlog.ErrorContext(ctx, "FATAL: "+err.Error(), "code", errcode.Of(err))
		closing := "Closing " + progName + " due to error"
		fmt.Fprintln(e.stdout, closing)
		jlog.InfoContext(ctx, closing)
		return errcode.ExitStatus(err)
	}

	extra, err := shlex.Split(e.getenv(envFlags))
	if err != nil {
		return fatal(errcode.Wrap(errcode.InvalidParams, "env", envFlags, err))
	}

	var (
		st   steps
		opts options
	)
	cmd := &cobra.Command{
		Use:           progName + " [protocol] [mode] [options]",
		Short:         "Probe or exercise an I2C or SPI peripheral",
		Example:       progName + " --i2c --getbyte --hex --data 0xe0",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, rest []string) error {
			return execute(cmd.Context(), st, opts, rest, journal, e)
		},
	}
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)
	// A nil slice would make cobra fall back to os.Args.
	argv := append(append([]string{}, extra...), args...)
	cmd.SetArgs(argv)
	cmd.SetFlagErrorFunc(func(*cobra.Command, error) error { return errUnrecognized })
	registerFlags(cmd.Flags(), &st, &opts)

	err = cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUnrecognized):
		fmt.Fprintln(e.stderr, "Unrecognized option.")
		fmt.Fprintln(e.stderr, "Run with '--help'.")
		return 1
	default:
		return fatal(err)
	}
}

// execute resolves the configuration and runs it. Positional arguments are
// not options and are ignored with a warning.
func execute(ctx context.Context, st steps, opts options, rest []string, journal io.Writer, e env) error {
	board := e.board()
	if opts.version {
		fmt.Fprintf(e.stdout, "%s v%s\n", progName, progVersion)
		fmt.Fprintf(e.stdout, "Raspberry Board Revision : %04x\n", board.Code)
		return nil
	}

	b := config.NewBuilder()
	if opts.configPath != "" {
		if err := b.LoadFile(opts.configPath); err != nil {
			return err
		}
	}
	if err := st.apply(b); err != nil {
		return err
	}
	cfg := b.Resolve(board)

	log := logx.New(logx.Options{Console: e.stderr, Verbose: cfg.Verbose, Journal: journal})
	for _, a := range rest {
		log.WarnContext(ctx, "argument ignored", "arg", a)
	}
	for _, w := range b.Warnings() {
		log.WarnContext(ctx, w)
	}
	if cfg.Verbose {
		config.Dump(e.stdout, cfg)
	}
	log.DebugContext(ctx, "starting", "proto", cfg.Proto, "mode", cfg.Mode.String(), "device", cfg.Device)

	return runner.New(cfg, e.open, e.stdout, log).Run(ctx)
}
