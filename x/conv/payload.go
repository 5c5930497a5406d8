package conv

import (
	"arduipi-go/errcode"
)

// MaxPayload is the capacity of the request/response buffer.
const MaxPayload = 32

// ParsePayload converts an operator data argument into bytes.
//
// A "0x" (or "0X") prefix selects hex: two digits per byte, and a trailing
// odd digit becomes a byte of its own ("0xabc" -> AB 0C). Anything else is
// taken literally with a terminating '\n' appended.
func ParsePayload(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return parseHex(s[2:])
	}
	if len(s)+1 > MaxPayload {
		return nil, errcode.Wrap(errcode.PayloadTooLarge, "data", s, nil)
	}
	out := make([]byte, 0, len(s)+1)
	out = append(out, s...)
	return append(out, '\n'), nil
}

func parseHex(digits string) ([]byte, error) {
	if len(digits) == 0 {
		return nil, errcode.Wrap(errcode.InvalidPayload, "data", "no hex digits after 0x", nil)
	}
	if (len(digits)+1)/2 > MaxPayload {
		return nil, errcode.Wrap(errcode.PayloadTooLarge, "data", "0x"+digits, nil)
	}
	out := make([]byte, 0, (len(digits)+1)/2)
	for i := 0; i < len(digits); i += 2 {
		hi, ok := hexDigit(digits[i])
		if !ok {
			return nil, errcode.Wrap(errcode.InvalidPayload, "data", "bad hex digit "+string(digits[i]), nil)
		}
		if i+1 == len(digits) {
			out = append(out, hi)
			break
		}
		lo, ok := hexDigit(digits[i+1])
		if !ok {
			return nil, errcode.Wrap(errcode.InvalidPayload, "data", "bad hex digit "+string(digits[i+1]), nil)
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
