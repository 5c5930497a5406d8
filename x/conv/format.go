package conv

import "strconv"

// FormatValue renders a transaction result the way the tool prints it:
// decimal by default, "0x%02X" for bytes or "0x%04X" for words in hex mode.
func FormatValue(v int, hex, word bool) string {
	if !hex {
		return strconv.Itoa(v)
	}
	width := 2
	if word {
		width = 4
	}
	return "0x" + padHex(uint64(v), width)
}

// FormatBytes renders b as space separated "0xNN" tokens.
func FormatBytes(b []byte) string {
	if len(b) == 0 {
		return "NULL"
	}
	out := make([]byte, 0, len(b)*5)
	for i, c := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, "0x"+padHex(uint64(c), 2)...)
	}
	return string(out)
}

const hexd = "0123456789ABCDEF"

func padHex(n uint64, width int) string {
	var buf [16]byte
	i := len(buf)
	for n > 0 || len(buf)-i < width {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
	}
	return string(buf[i:])
}
