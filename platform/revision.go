// Package platform knows about the board the tool runs on: which Raspberry
// Pi generation it is, which bus nodes are the sensible defaults, and how
// to open real devices.
package platform

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"arduipi-go/types"
)

const cpuinfoPath = "/proc/cpuinfo"

// Board describes the detected board revision.
type Board struct {
	// Code is the raw "Revision" value from /proc/cpuinfo (0 if unknown).
	Code uint32
	// Generation is 1 for the first board revision (codes < 4), 2 for
	// everything later, and 0 when the revision is unknown.
	Generation int
}

func (b Board) Known() bool { return b.Generation != 0 }

// DetectBoard reads the board revision from /proc/cpuinfo.
func DetectBoard() Board {
	f, err := os.Open(cpuinfoPath)
	if err != nil {
		return Board{}
	}
	defer f.Close()
	return ParseCPUInfo(f)
}

// ParseCPUInfo extracts the first "Revision : xxxx" line.
func ParseCPUInfo(r io.Reader) Board {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Revision" {
			continue
		}
		code, err := strconv.ParseUint(strings.TrimSpace(val), 16, 32)
		if err != nil {
			return Board{}
		}
		b := Board{Code: uint32(code), Generation: 2}
		if code < 4 {
			b.Generation = 1
		}
		return b
	}
	return Board{}
}

// DefaultI2CDevice picks the header I²C bus for the board. Unknown boards
// get /dev/i2c-1, the bus every board since the second revision exposes.
func DefaultI2CDevice(b Board) string {
	if b.Generation == 1 {
		return types.DefaultI2CDevice0
	}
	return types.DefaultI2CDevice1
}

// IsI2CDevice reports whether path names an i2c-dev node.
func IsI2CDevice(path string) bool {
	return strings.HasPrefix(path, "/dev/i2c")
}
