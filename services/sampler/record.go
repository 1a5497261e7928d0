package sampler

import (
	"strings"

	"datalogger-go/errcode"
	"datalogger-go/x/fmtx"
)

// Sentinels substituted when a reading is unavailable.
const (
	SentinelTempF    = -459.67 // absolute zero
	SentinelPressure = 0.0
	SentinelMilliV   = 0
)

// Record is one sample. Immutable once produced.
type Record struct {
	Timestamp    string // YYYY-MM-DDTHH:MM:SS.mmm
	MilliVolts   int32
	TempF        float64
	PressureInHg float64
}

// Line renders the CSV form without a terminator:
// "timestamp, mV(5d), tempF(5.1f), pressure(5.2f)".
func (r Record) Line() string {
	return fmtx.Sprintf("%s, %5d, %5.1f, %5.2f", r.Timestamp, r.MilliVolts, r.TempF, r.PressureInHg)
}

// DateOf returns the calendar date of a serialised record line
// ("2025-03-24T22:25:40.123, ..." gives "2025-03-24").
func DateOf(line string) (string, error) {
	ts := line
	if i := strings.IndexByte(ts, ','); i >= 0 {
		ts = ts[:i]
	}
	i := strings.IndexByte(ts, 'T')
	if i < 0 {
		return "", &errcode.E{C: errcode.InvalidRecord, Op: "sampler.date", Msg: "no date in timestamp"}
	}
	date := strings.TrimSpace(ts[:i])
	if len(date) != len("2006-01-02") || date[4] != '-' || date[7] != '-' {
		return "", &errcode.E{C: errcode.InvalidRecord, Op: "sampler.date", Msg: date}
	}
	return date, nil
}

// CelsiusToF converts °C to °F.
func CelsiusToF(c float64) float64 { return c*9/5 + 32 }

// PascalToInHg converts Pa to inches of mercury.
func PascalToInHg(pa float64) float64 { return pa * 0.0002953 }
