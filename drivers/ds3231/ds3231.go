// Package ds3231 provides a register-level driver for the DS3231 battery-backed
// real-time clock. Only the calendar block and the oscillator-stop flag are
// exposed:
//
//	c, err := d.ReadCalendar()   // one 7-byte burst from register 0x00
//	err = d.WriteCalendar(c)     // provisioning only
//
// Registers hold binary-coded decimal; the year is stored as an offset from
// 2000. The weekday register is written as 0 and ignored on read.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
package ds3231

import (
	"time"

	"datalogger-go/errcode"

	"tinygo.org/x/drivers"
)

// I2C address.
const Address = 0x68

// Register map (subset).
const (
	regSeconds = 0x00
	regStatus  = 0x0F

	statusOSF = 0x80 // oscillator stop flag

	calendarLen = 7
	baseYear    = 2000
)

// Encode converts 0..99 to packed BCD.
func Encode(v uint8) uint8 { return (v/10)<<4 | v%10 }

// Decode converts packed BCD to binary.
func Decode(b uint8) uint8 { return (b>>4)*10 + b&0x0F }

// Calendar is one reading of the clock's calendar registers.
// Year is absolute (2000..2099). Weekday is carried but not used.
type Calendar struct {
	Year    int
	Month   int
	Day     int
	Weekday int
	Hour    int
	Minute  int
	Second  int
}

// FromTime builds a Calendar from t in UTC.
func FromTime(t time.Time) Calendar {
	t = t.UTC()
	return Calendar{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
	}
}

// Time returns the calendar as a UTC instant with zero sub-second part.
func (c Calendar) Time() time.Time {
	return time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0, time.UTC)
}

// Validate rejects values the device cannot hold. Day is checked against the
// month length so a corrupted register block is not silently normalised.
func (c Calendar) Validate() error {
	switch {
	case c.Year < baseYear || c.Year > baseYear+99,
		c.Month < 1 || c.Month > 12,
		c.Hour < 0 || c.Hour > 23,
		c.Minute < 0 || c.Minute > 59,
		c.Second < 0 || c.Second > 59:
		return errcode.InvalidTime
	}
	if c.Day < 1 || c.Day > daysIn(c.Year, c.Month) {
		return errcode.InvalidTime
	}
	return nil
}

// SecondsSince2000 counts seconds from 2000-01-01 00:00:00.
func (c Calendar) SecondsSince2000() int64 {
	days := int64(0)
	for y := baseYear; y < c.Year; y++ {
		days += 365
		if leap(y) {
			days++
		}
	}
	for m := 1; m < c.Month; m++ {
		days += int64(daysIn(c.Year, m))
	}
	days += int64(c.Day - 1)
	return days*86400 + int64(c.Hour)*3600 + int64(c.Minute)*60 + int64(c.Second)
}

func leap(y int) bool { return y%4 == 0 && (y%100 != 0 || y%400 == 0) }

func daysIn(y, m int) int {
	switch m {
	case 2:
		if leap(y) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// Device wraps an I2C connection to a DS3231.
type Device struct {
	bus     drivers.I2C
	Address uint16

	w [1 + calendarLen]byte // reuse buffers to avoid allocations
	r [calendarLen]byte
}

// New creates a new DS3231 connection. The I2C bus must already be configured.
// This function only creates the Device object; it does not touch the device.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: Address}
}

// ReadCalendar reads and decodes the seven calendar registers in one burst.
func (d *Device) ReadCalendar() (Calendar, error) {
	d.w[0] = regSeconds
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:]); err != nil {
		return Calendar{}, errcode.Wrap(errcode.BusError, "ds3231.read", err)
	}
	return decodeBlock(d.r), nil
}

// WriteCalendar validates c and writes it as one 7-byte block.
func (d *Device) WriteCalendar(c Calendar) error {
	if err := c.Validate(); err != nil {
		return err
	}
	d.w[0] = regSeconds
	blk := encodeBlock(c)
	copy(d.w[1:], blk[:])
	if err := d.bus.Tx(d.Address, d.w[:], nil); err != nil {
		return errcode.Wrap(errcode.BusError, "ds3231.write", err)
	}
	return nil
}

// OscillatorStopped reports the OSF bit. A set flag means the battery-backed
// time can no longer be trusted.
func (d *Device) OscillatorStopped() (bool, error) {
	d.w[0] = regStatus
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:1]); err != nil {
		return false, errcode.Wrap(errcode.BusError, "ds3231.status", err)
	}
	return d.r[0]&statusOSF != 0, nil
}

func decodeBlock(b [calendarLen]byte) Calendar {
	return Calendar{
		Second: int(Decode(b[0] & 0x7F)),
		Minute: int(Decode(b[1] & 0x7F)),
		Hour:   int(Decode(b[2] & 0x3F)), // 24-hour mode
		Day:    int(Decode(b[4] & 0x3F)),
		Month:  int(Decode(b[5] & 0x1F)), // drop century bit
		Year:   int(Decode(b[6])) + baseYear,
	}
}

func encodeBlock(c Calendar) [calendarLen]byte {
	return [calendarLen]byte{
		Encode(uint8(c.Second)),
		Encode(uint8(c.Minute)),
		Encode(uint8(c.Hour)),
		0, // weekday unused
		Encode(uint8(c.Day)),
		Encode(uint8(c.Month)),
		Encode(uint8(c.Year - baseYear)),
	}
}
