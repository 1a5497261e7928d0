//go:build rp2040 || rp2350

package fmtx

import (
	"io"

	"datalogger-go/x/strconvx"
)

// --- Public API (signatures match fmt) ---

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a...)
	return string(b.buf)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	var b builder
	b.format(format, a...)
	return w.Write(b.buf)
}

// Errorf does not support %w; the cause is rendered as text.
func Errorf(format string, a ...any) error {
	return &stringError{Sprintf(format, a...)}
}

func Sprint(a ...any) string {
	var b builder
	for i, v := range a {
		// fmt.Sprint only separates operands when neither is a string.
		if i > 0 && !isString(a[i-1]) && !isString(v) {
			b.byte(' ')
		}
		b.any(v)
	}
	return string(b.buf)
}

// --- Internals: tiny formatter subset ---
// Supports: %s %d %f %x %v %t %% with the '0' and '-' flags, width for all
// verbs and precision for %s and %f. Enough for CSV records and timestamps.

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

type builder struct{ buf []byte }

func (b *builder) byte(c byte)  { b.buf = append(b.buf, c) }
func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func (b *builder) any(v any) {
	switch x := v.(type) {
	case string:
		b.str(x)
	case []byte:
		b.buf = append(b.buf, x...)
	case error:
		b.str(x.Error())
	case bool:
		b.str(boolStr(x))
	case float32:
		b.str(strconvx.FormatFloat(float64(x), 'f', 6, 32))
	case float64:
		b.str(strconvx.FormatFloat(x, 'f', 6, 64))
	case interface{ String() string }:
		b.str(x.String())
	default:
		if n, ok := toI64(v); ok {
			b.str(strconvx.FormatInt(n, 10))
			return
		}
		b.str("<unk>")
	}
}

type directive struct {
	zero, left bool
	width      int
	prec       int
	hasPrec    bool
}

// pad writes s aligned to the directive width. Zero padding keeps a leading sign
// in front of the zeros, as fmt does.
func (b *builder) pad(s string, sp directive) {
	n := sp.width - len(s)
	if n <= 0 {
		b.str(s)
		return
	}
	if sp.left {
		b.str(s)
		for ; n > 0; n-- {
			b.byte(' ')
		}
		return
	}
	if sp.zero {
		if len(s) > 0 && s[0] == '-' {
			b.byte('-')
			s = s[1:]
		}
		for ; n > 0; n-- {
			b.byte('0')
		}
		b.str(s)
		return
	}
	for ; n > 0; n-- {
		b.byte(' ')
	}
	b.str(s)
}

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); {
		if format[i] != '%' {
			b.byte(format[i])
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.byte('%')
			i += 2
			continue
		}
		i++
		var sp directive
		for i < len(format) && (format[i] == '0' || format[i] == '-') {
			if format[i] == '0' {
				sp.zero = true
			} else {
				sp.left = true
			}
			i++
		}
		i = parseNum(format, i, &sp.width)
		if i < len(format) && format[i] == '.' {
			i++
			sp.hasPrec = true
			i = parseNum(format, i, &sp.prec)
		}
		if i >= len(format) || ai >= len(args) {
			return
		}
		verb := format[i]
		arg := args[ai]
		ai++
		i++

		switch verb {
		case 's', 'v':
			var sb builder
			sb.any(arg)
			s := string(sb.buf)
			if verb == 's' && sp.hasPrec && sp.prec < len(s) {
				s = s[:sp.prec]
			}
			sp.zero = false
			b.pad(s, sp)
		case 'd':
			n, _ := toI64(arg)
			b.pad(strconvx.FormatInt(n, 10), sp)
		case 'x':
			n, _ := toI64(arg)
			b.pad(strconvx.FormatUint(uint64(n), 16), sp)
		case 'f':
			prec := 6
			if sp.hasPrec {
				prec = sp.prec
			}
			f, _ := toF64(arg)
			b.pad(strconvx.FormatFloat(f, 'f', prec, 64), sp)
		case 't':
			v, _ := arg.(bool)
			b.pad(boolStr(v), sp)
		default:
			// Unknown verb: write it literally to aid debugging.
			b.byte('%')
			b.byte(verb)
		}
	}
}

func boolStr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func toI64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), true
	default:
		return 0, false
	}
}

func toF64(v any) (float64, bool) {
	switch t := v.(type) {
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		n, ok := toI64(v)
		return float64(n), ok
	}
}

func parseNum(s string, i int, out *int) int {
	n := 0
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i > start {
		*out = n
	}
	return i
}
