package mathx

import "golang.org/x/exp/constraints"

// Within reports lo <= v && v <= hi (order-insensitive).
func Within[T constraints.Integer](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// OrDefault returns v when it lies in [lo, hi], otherwise def.
// The second result reports whether v was accepted.
func OrDefault[T constraints.Integer](v, lo, hi, def T) (T, bool) {
	if Within(v, lo, hi) {
		return v, true
	}
	return def, false
}
