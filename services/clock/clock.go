// Package clock keeps the host clock in step with the battery-backed DS3231.
//
// The external clock is the source of truth. The host clock is set from it
// exactly once per boot and never corrected afterwards, so drift within a
// session accumulates; DetectDrift only reports it.
package clock

import (
	"context"
	"time"

	"datalogger-go/drivers/ds3231"
	"datalogger-go/errcode"
)

// Layouts for the two timestamp forms in use.
const (
	ISOLayout   = "2006-01-02T15:04:05.000" // sample records
	StampLayout = "2006-01-02 15:04:05"     // diagnostic log lines
)

// External is the calendar interface of the battery-backed clock.
type External interface {
	ReadCalendar() (ds3231.Calendar, error)
	WriteCalendar(c ds3231.Calendar) error
}

// Host is the volatile running clock of the microcontroller.
type Host interface {
	Now() time.Time
	Set(t time.Time) error
}

// Sync couples one external clock with the host clock.
type Sync struct {
	ext    External
	host   Host
	synced bool
}

func New(ext External, host Host) *Sync {
	return &Sync{ext: ext, host: host}
}

// ReadExternal returns the external clock's current calendar.
func (s *Sync) ReadExternal() (ds3231.Calendar, error) {
	c, err := s.ext.ReadCalendar()
	if err != nil {
		return ds3231.Calendar{}, err
	}
	if err := c.Validate(); err != nil {
		return ds3231.Calendar{}, &errcode.E{C: errcode.InvalidTime, Op: "clock.read_external", Err: err}
	}
	return c, nil
}

// WriteExternal provisions the external clock. Not used by the sampling loop.
func (s *Sync) WriteExternal(c ds3231.Calendar) error {
	return s.ext.WriteCalendar(c)
}

// SyncHost sets the host clock from the external clock. It may run once per
// boot; later calls return errcode.AlreadySynced and change nothing.
func (s *Sync) SyncHost() (time.Time, error) {
	if s.synced {
		return time.Time{}, errcode.AlreadySynced
	}
	c, err := s.ReadExternal()
	if err != nil {
		return time.Time{}, err
	}
	t := c.Time()
	if err := s.host.Set(t); err != nil {
		return time.Time{}, errcode.Wrap(errcode.Error, "clock.set_host", err)
	}
	s.synced = true
	return t, nil
}

// Synced reports whether SyncHost has succeeded this boot.
func (s *Sync) Synced() bool { return s.synced }

// NowISO formats the host clock with millisecond resolution.
func (s *Sync) NowISO() string { return FormatISO(s.host.Now()) }

// NowStamp formats the host clock for diagnostic lines.
func (s *Sync) NowStamp() string { return FormatStamp(s.host.Now()) }

// FormatISO renders t as YYYY-MM-DDTHH:MM:SS.mmm. Seconds and milliseconds
// come from the same reading, so a second rollover cannot skew them.
func FormatISO(t time.Time) string { return t.Format(ISOLayout) }

// FormatStamp renders t as YYYY-MM-DD HH:MM:SS.
func FormatStamp(t time.Time) string { return t.Format(StampLayout) }

// DriftReport is one observed disagreement between two back-to-back reads.
type DriftReport struct {
	First, Second ds3231.Calendar
	Host          time.Time
}

// DetectDrift reads the external clock twice, gap apart, n times and calls
// report whenever the two reads' seconds differ. Reports show where the
// external second boundary falls relative to the host clock. Nothing is
// corrected. It returns the number of disagreements seen; read errors abort.
func (s *Sync) DetectDrift(ctx context.Context, n int, gap time.Duration, report func(DriftReport)) (int, error) {
	seen := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return seen, err
		}
		a, err := s.ext.ReadCalendar()
		if err != nil {
			return seen, err
		}
		if gap > 0 {
			time.Sleep(gap)
		}
		b, err := s.ext.ReadCalendar()
		if err != nil {
			return seen, err
		}
		if a.Second != b.Second {
			seen++
			if report != nil {
				report(DriftReport{First: a, Second: b, Host: s.host.Now()})
			}
		}
	}
	return seen, nil
}
