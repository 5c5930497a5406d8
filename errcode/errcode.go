package errcode

import "errors"

// Code is a stable, operator-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK              Code = "ok"
	Unsupported     Code = "unsupported"
	InvalidParams   Code = "invalid_params"
	InvalidPayload  Code = "invalid_payload"
	PayloadTooLarge Code = "payload_too_large"

	OpenFailed     Code = "open_failed"
	ConfigFailed   Code = "config_failed"
	TransferFailed Code = "transfer_failed"
	NoDevice       Code = "no_device"

	Error Code = "error" // generic fallback
)

// E keeps a Code together with the failing operation and its cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap builds an *E. A nil cause is allowed.
func Wrap(c Code, op, msg string, err error) error {
	return &E{C: c, Op: op, Msg: msg, Err: err}
}

// Of extracts a Code from an error chain, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// ExitStatus maps an error to the process exit status.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
