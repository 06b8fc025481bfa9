package buf

import "math"

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int64.
// File offsets in thumbcache records are attacker controlled, so every
// position computed from a declared size goes through here.
func AddOverflowSafe(a, b int64) (int64, bool) {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return 0, false
	case b < 0 && a < math.MinInt64-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Within reports whether the range [off, off+n) lies inside a file of size bytes.
func Within(off, n, size int64) bool {
	if off < 0 || n < 0 || off > size {
		return false
	}
	end, ok := AddOverflowSafe(off, n)
	return ok && end <= size
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if !Within(int64(off), int64(n), int64(len(b))) {
		return nil, false
	}
	return b[off : off+n], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
