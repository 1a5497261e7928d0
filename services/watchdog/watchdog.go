// Package watchdog arms the hardware watchdog once and feeds it.
// A missed feed resets the device outside software control.
package watchdog

import (
	"time"

	"datalogger-go/errcode"
)

// Device is the hardware watchdog.
type Device interface {
	Configure(timeout time.Duration) error
	Start() error
	Update()
}

// Feeder guards the arm-once rule.
type Feeder struct {
	dev     Device
	armed   bool
	timeout time.Duration
	feeds   uint64
}

func New(dev Device) *Feeder { return &Feeder{dev: dev} }

// Arm configures and starts the watchdog. It may only succeed once.
func (f *Feeder) Arm(timeout time.Duration) error {
	if f.armed {
		return errcode.AlreadyArmed
	}
	if timeout <= 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "watchdog.arm", Msg: "timeout must be positive"}
	}
	if err := f.dev.Configure(timeout); err != nil {
		return errcode.Wrap(errcode.Error, "watchdog.configure", err)
	}
	if err := f.dev.Start(); err != nil {
		return errcode.Wrap(errcode.Error, "watchdog.start", err)
	}
	f.armed = true
	f.timeout = timeout
	return nil
}

// Feed resets the watchdog countdown.
func (f *Feeder) Feed() error {
	if !f.armed {
		return errcode.NotArmed
	}
	f.dev.Update()
	f.feeds++
	return nil
}

func (f *Feeder) Armed() bool            { return f.armed }
func (f *Feeder) Timeout() time.Duration { return f.timeout }
func (f *Feeder) Feeds() uint64          { return f.feeds }
