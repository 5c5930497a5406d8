//go:build windows || plan9

package logx

import (
	"errors"
	"io"
)

func OpenJournal(tag string) (io.WriteCloser, error) {
	return nil, errors.New("syslog not available on this platform")
}
