package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Inside reports lo < v && v < hi (exclusive, order-insensitive).
func Inside[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v > lo && v < hi
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// RoundDiv divides a by b rounding half away from zero. b must be positive.
func RoundDiv[T constraints.Signed](a, b T) T {
	if a < 0 {
		return -((-a + b/2) / b)
	}
	return (a + b/2) / b
}
