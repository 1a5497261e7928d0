//go:build rp2040 || rp2350

package strconvx

// Minimal, allocation-aware helpers with identical signatures.
// Supported bases: 2..36.
// FormatFloat only renders fixed notation; use it for display values.

func Itoa(i int) string { return FormatInt(int64(i), 10) }

func FormatInt(i int64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	neg := i < 0
	var u uint64
	if neg {
		u = uint64(-i)
	} else {
		u = uint64(i)
	}
	s := formatUint(u, base)
	if neg {
		return "-" + s
	}
	return s
}

func FormatUint(u uint64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	return formatUint(u, base)
}

func formatUint(u uint64, base int) string {
	if u == 0 {
		return "0"
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return string(buf[i:])
}

// FormatFloat renders f in fixed notation whatever fmt asks for. Rounding is
// applied to the scaled value so a carry propagates into the integer part
// (12.96 at prec 1 gives "13.0").
func FormatFloat(f float64, _ byte, prec, _ int) string {
	if prec < 0 {
		prec = 6
	}
	if prec > 9 {
		prec = 9
	}
	neg := false
	if f < 0 {
		neg = true
		f = -f
	}
	pow := uint64(1)
	for i := 0; i < prec; i++ {
		pow *= 10
	}
	n := uint64(f*float64(pow) + 0.5)
	intp, frac := n/pow, n%pow
	if n == 0 {
		neg = false
	}

	out := FormatUint(intp, 10)
	if prec > 0 {
		fs := FormatUint(frac, 10)
		var z [9]byte
		pad := z[:0]
		for len(pad)+len(fs) < prec {
			pad = append(pad, '0')
		}
		out += "." + string(pad) + fs
	}
	if neg {
		return "-" + out
	}
	return out
}
