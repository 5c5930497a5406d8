//go:build !windows && !plan9

package logx

import (
	"io"
	"log/syslog"
)

// OpenJournal connects to the local syslog daemon as tag, facility USER.
func OpenJournal(tag string) (io.WriteCloser, error) {
	return syslog.New(syslog.LOG_INFO|syslog.LOG_USER, tag)
}
