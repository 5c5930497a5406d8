package runner

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"arduipi-go/errcode"
	"arduipi-go/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i2cConfig(mode types.Mode, data ...byte) types.Config {
	cfg := types.DefaultConfig()
	cfg.Device = "/dev/i2c-1"
	cfg.Mode = mode
	cfg.Data = data
	return cfg
}

func spiConfig(mode types.Mode, data ...byte) types.Config {
	cfg := i2cConfig(mode, data...)
	cfg.Proto = types.ProtoSPI
	cfg.Device = types.DefaultSPIDevice
	return cfg
}

func run(t *testing.T, cfg types.Config, open *fakeOpener) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := New(cfg, open, &out, nil).Run(context.Background())
	return out.String(), err
}

func TestI2CProbe(t *testing.T) {
	tests := []struct {
		name     string
		mode     types.Mode
		fail     string
		wantCall string
		wantLine string
	}{
		{"quick detected", types.ModeQuick, "", "quick", "i2c device 0x2a is detected\n"},
		{"quick missing", types.ModeQuick, "quick", "quick", "i2c device 0x2a was not found\n"},
		{"ack detected", types.ModeAck, "", "read_byte", "i2c device 0x2a is detected\n"},
		{"ack missing", types.ModeAck, "read_byte", "read_byte", "i2c device 0x2a was not found\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeSMBus()
			if tt.fail != "" {
				bus.fail[tt.fail] = errNACK
			}
			open := &fakeOpener{i2c: bus}

			out, err := run(t, i2cConfig(tt.mode), open)
			require.NoError(t, err, "a missing device is reported, not failed")
			assert.Equal(t, tt.wantLine, out)
			assert.Equal(t, []string{tt.wantCall}, bus.calls)
			assert.Equal(t, uint16(0x2a), open.addr)
			assert.Equal(t, "/dev/i2c-1", open.path)
			assert.True(t, bus.closed)
		})
	}
}

func TestI2CProbeMissingIsNoDevice(t *testing.T) {
	bus := newFakeSMBus()
	bus.fail["quick"] = errNACK
	r := New(i2cConfig(types.ModeQuick), &fakeOpener{i2c: bus}, &bytes.Buffer{}, nil)

	err := r.probeI2C(bus)
	assert.Equal(t, errcode.NoDevice, errcode.Of(err))
	assert.ErrorIs(t, err, errNACK)

	var logs, out bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	require.NoError(t, New(i2cConfig(types.ModeQuick), &fakeOpener{i2c: bus}, &out, log).Run(context.Background()))
	assert.Equal(t, "i2c device 0x2a was not found\n", out.String())
	assert.Contains(t, logs.String(), "code=no_device")
}

func TestI2CGetByte(t *testing.T) {
	bus := newFakeSMBus()
	bus.regs[0xe0] = 0x2a
	cfg := i2cConfig(types.ModeGetByte, 0xe0)

	out, err := run(t, cfg, &fakeOpener{i2c: bus})
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
	assert.Equal(t, []string{"write_byte", "read_byte"}, bus.calls)

	cfg.Hex = true
	bus.calls = nil
	out, err = run(t, cfg, &fakeOpener{i2c: bus})
	require.NoError(t, err)
	assert.Equal(t, "0x2A\n", out)
}

func TestI2CGetByteWriteFailure(t *testing.T) {
	bus := newFakeSMBus()
	bus.fail["write_byte"] = errNACK

	out, err := run(t, i2cConfig(types.ModeGetByte, 0x01), &fakeOpener{i2c: bus})
	require.Error(t, err)
	assert.Equal(t, errcode.TransferFailed, errcode.Of(err))
	assert.ErrorIs(t, err, errNACK)
	assert.Contains(t, err.Error(), "i2c_smbus_write_byte")
	assert.Empty(t, out)
	assert.Equal(t, []string{"write_byte"}, bus.calls, "no read after a failed command write")
}

func TestI2CGetWord(t *testing.T) {
	bus := newFakeSMBus()
	bus.word = 0x1234
	cfg := i2cConfig(types.ModeGetWord, 0x05)
	cfg.Hex = true

	out, err := run(t, cfg, &fakeOpener{i2c: bus})
	require.NoError(t, err)
	assert.Equal(t, "0x1234\n", out)
	assert.Equal(t, byte(0x05), bus.last)
}

func TestI2CGetWordWithoutDataUsesCommandZero(t *testing.T) {
	bus := newFakeSMBus()
	bus.last = 0xff
	bus.word = 7

	out, err := run(t, i2cConfig(types.ModeGetWord), &fakeOpener{i2c: bus})
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
	assert.Equal(t, byte(0), bus.last)
}

func TestI2CSet(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantCall string
	}{
		{"one byte", []byte{0x10}, "write_byte"},
		{"two bytes", []byte{0x10, 0x20}, "write_byte_data"},
		{"block", []byte{0x10, 0x20, 0x21, 0x22}, "write_block_data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeSMBus()
			out, err := run(t, i2cConfig(types.ModeSet, tt.data...), &fakeOpener{i2c: bus})
			require.NoError(t, err)
			assert.Equal(t, "0\n", out)
			assert.Equal(t, []string{tt.wantCall}, bus.calls)
		})
	}

	bus := newFakeSMBus()
	_, err := run(t, i2cConfig(types.ModeSet, 0x10, 0xaa, 0xbb), &fakeOpener{i2c: bus})
	require.NoError(t, err)
	assert.Equal(t, byte(0xaa), bus.regs[0x10])
	assert.Equal(t, byte(0xbb), bus.regs[0x11])
}

func TestI2CSetWithoutData(t *testing.T) {
	bus := newFakeSMBus()
	_, err := run(t, i2cConfig(types.ModeSet), &fakeOpener{i2c: bus})
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
	assert.Empty(t, bus.calls)
}

func TestOpenFailurePropagates(t *testing.T) {
	openErr := errcode.Wrap(errcode.OpenFailed, "i2c_init", "/dev/i2c-1", nil)
	_, err := run(t, i2cConfig(types.ModeQuick), &fakeOpener{err: openErr})
	assert.Equal(t, errcode.OpenFailed, errcode.Of(err))

	_, err = run(t, spiConfig(types.ModeQuick), &fakeOpener{err: openErr})
	assert.Equal(t, errcode.OpenFailed, errcode.Of(err))
}

func TestUnknownProtocol(t *testing.T) {
	cfg := i2cConfig(types.ModeQuick)
	cfg.Proto = "serial"
	_, err := run(t, cfg, &fakeOpener{})
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}

func TestSPIConfigIsPassedThrough(t *testing.T) {
	cfg := spiConfig(types.ModeQuick)
	cfg.SPI = types.SPIConfig{
		Mode:      types.SPICPHA | types.SPICPOL,
		Bits:      16,
		SpeedHz:   500_000,
		DelayUsec: 10,
	}
	open := &fakeOpener{spi: &fakeSPI{}}

	_, err := run(t, cfg, open)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x03), open.spiConf.Mode)
	assert.Equal(t, uint8(16), open.spiConf.Bits)
	assert.Equal(t, uint32(500_000), open.spiConf.SpeedHz)
	assert.Equal(t, uint16(10), open.spiConf.DelayUsec)
	assert.Equal(t, types.DefaultSPIDevice, open.path)
}

func TestSPIPing(t *testing.T) {
	dev := &fakeSPI{respond: func(buf []byte) { buf[0] = 0x2a }}
	cfg := spiConfig(types.ModeAck)
	cfg.Hex = true

	out, err := run(t, cfg, &fakeOpener{spi: dev})
	require.NoError(t, err)
	assert.Equal(t, "0x2A\n", out)
	assert.Equal(t, [][]byte{{PingCommand}}, dev.sent)
	assert.True(t, dev.closed)
}

func TestSPIGetByteAndWord(t *testing.T) {
	echo := func(buf []byte) {
		for i := 1; i < len(buf); i++ {
			buf[i] = buf[0] + byte(i)
		}
	}

	dev := &fakeSPI{respond: echo}
	out, err := run(t, spiConfig(types.ModeGetByte, 0x10), &fakeOpener{spi: dev})
	require.NoError(t, err)
	assert.Equal(t, "17\n", out)
	assert.Equal(t, [][]byte{{0x10, 0xff}}, dev.sent)

	dev = &fakeSPI{respond: echo}
	cfg := spiConfig(types.ModeGetWord, 0x10)
	cfg.Hex = true
	out, err = run(t, cfg, &fakeOpener{spi: dev})
	require.NoError(t, err)
	assert.Equal(t, "0x1211\n", out, "low byte first")
	assert.Equal(t, [][]byte{{0x10, 0xff, 0xff}}, dev.sent)
}

func TestSPISet(t *testing.T) {
	dev := &fakeSPI{}
	out, err := run(t, spiConfig(types.ModeSet, 'h', 'i', '\n'), &fakeOpener{spi: dev})
	require.NoError(t, err)
	assert.Equal(t, "3\n", out, "set reports the bytes transferred")
	assert.Equal(t, [][]byte{[]byte("hi\n")}, dev.sent)
}

func TestSPITransferFailure(t *testing.T) {
	dev := &fakeSPI{err: errNACK}
	out, err := run(t, spiConfig(types.ModeGetByte, 1), &fakeOpener{spi: dev})
	assert.Equal(t, errcode.TransferFailed, errcode.Of(err))
	assert.ErrorIs(t, err, errNACK)
	assert.Empty(t, out)
}

func TestPollI2CStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newFakeSMBus()
	bus.regs[0x01] = 0x33
	reads := 0
	bus.onTx = func() {
		reads++
		if reads == 3 {
			cancel()
		}
	}
	cfg := i2cConfig(types.ModePoll)
	cfg.Poll = types.PollConfig{Interval: time.Millisecond, Register: 0x01}

	var out bytes.Buffer
	err := New(cfg, &fakeOpener{i2c: bus}, &out, nil).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "51\n51\n51\n", out.String())
	assert.True(t, bus.closed)
}

func TestPollSPIKeepsGoingAfterReadError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dev := &fakeSPI{respond: func(buf []byte) { buf[1] = 0x7f }}
	reads := 0
	dev.onTx = func() {
		reads++
		switch reads {
		case 1:
			dev.err = errNACK
		case 2:
			dev.err = nil
			cancel()
		}
	}
	cfg := spiConfig(types.ModePoll)
	cfg.Hex = true
	cfg.Poll = types.PollConfig{Interval: time.Millisecond, Register: 0x02}

	var out bytes.Buffer
	err := New(cfg, &fakeOpener{spi: dev}, &out, nil).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0x7F\n", out.String())
	assert.Equal(t, []byte{0x02, 0xff}, dev.sent[0])
}
