package logx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleThreshold(t *testing.T) {
	var console, journal bytes.Buffer
	log := New(Options{Console: &console, Journal: &journal})

	log.Info("i2c Init succeeded", "device", "/dev/i2c-1")
	log.Warn("--address 300 (0x12c) ignored.")
	log.Debug("42")

	assert.NotContains(t, console.String(), "Init succeeded")
	assert.Contains(t, console.String(), "ignored")
	assert.NotContains(t, console.String(), "time=")

	assert.Contains(t, journal.String(), "i2c Init succeeded")
	assert.Contains(t, journal.String(), "device=/dev/i2c-1")
	assert.Contains(t, journal.String(), "ignored")
	assert.Contains(t, journal.String(), "msg=42")
}

func TestVerboseConsole(t *testing.T) {
	var console bytes.Buffer
	log := New(Options{Console: &console, Verbose: true})

	log.Info("spi Init succeeded")
	log.Debug("0x2A")

	assert.Contains(t, console.String(), "spi Init succeeded")
	assert.NotContains(t, console.String(), "0x2A", "results are journal-only")
}

func TestWithAttrsReachesEverySink(t *testing.T) {
	var console, journal bytes.Buffer
	log := New(Options{Console: &console, Journal: &journal}).With("proto", "i2c")

	log.Error("transfer failed")

	assert.Contains(t, console.String(), "proto=i2c")
	assert.Contains(t, journal.String(), "proto=i2c")
}

func TestNoSinks(t *testing.T) {
	log := New(Options{})
	log.Error("dropped")
}
