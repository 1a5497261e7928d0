//go:build !rp2040

package platform

import (
	"sync"
	"time"

	"datalogger-go/drivers/ds3231"
	"datalogger-go/errcode"
)

// simRTC emulates the DS3231 register file on an I2C bus. The calendar runs
// from the host clock plus whatever offset the last calendar write implied.
type simRTC struct {
	mu     sync.Mutex
	now    func() time.Time
	offset time.Duration
	status byte
}

func newSimRTC(now func() time.Time) *simRTC { return &simRTC{now: now} }

func (s *simRTC) Tx(addr uint16, w, r []byte) error {
	if addr != ds3231.Address {
		return errcode.BusError
	}
	if len(w) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch reg := w[0]; {
	case reg == 0x00 && len(w) == 8:
		c := ds3231.Calendar{
			Second: int(ds3231.Decode(w[1])),
			Minute: int(ds3231.Decode(w[2])),
			Hour:   int(ds3231.Decode(w[3])),
			Day:    int(ds3231.Decode(w[5])),
			Month:  int(ds3231.Decode(w[6])),
			Year:   2000 + int(ds3231.Decode(w[7])),
		}
		s.offset = c.Time().Sub(s.now())
	case reg == 0x0F && len(w) == 2:
		s.status = w[1]
	case reg == 0x00 && len(r) == 7:
		t := s.now().Add(s.offset).UTC()
		r[0] = ds3231.Encode(uint8(t.Second()))
		r[1] = ds3231.Encode(uint8(t.Minute()))
		r[2] = ds3231.Encode(uint8(t.Hour()))
		r[3] = ds3231.Encode(uint8(t.Weekday()) + 1)
		r[4] = ds3231.Encode(uint8(t.Day()))
		r[5] = ds3231.Encode(uint8(t.Month()))
		r[6] = ds3231.Encode(uint8(t.Year() - 2000))
	case reg == 0x0F && len(r) == 1:
		r[0] = s.status
	default:
		return &errcode.E{C: errcode.Unsupported, Op: "simrtc", Msg: "register not emulated"}
	}
	return nil
}
