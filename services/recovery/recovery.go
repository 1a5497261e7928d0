// Package recovery is the firmware's fault boundary. Required work that fails
// is logged, followed by a fixed delay and a full device reset. Best-effort
// work that fails is logged and skipped. There is no in-place retry.
package recovery

import (
	"time"

	"datalogger-go/errcode"
	"datalogger-go/x/fmtx"
)

// ResetStrategy restarts the device. On hardware Reset does not return; test
// and host strategies may return, and the Guard then reports a fatal error.
type ResetStrategy interface {
	Reset(cause error)
}

// ResetFunc adapts a function to ResetStrategy.
type ResetFunc func(cause error)

func (f ResetFunc) Reset(cause error) { f(cause) }

// Guard brackets initialisation and loop iterations.
type Guard struct {
	Log   func(msg string) // diagnostic sink; its own errors are ignored here
	Sleep func(time.Duration)
	Delay time.Duration
	Reset ResetStrategy
}

func (g *Guard) log(msg string) {
	if g.Log != nil {
		g.Log(msg)
	}
}

// fail logs, waits, resets and returns the fatal signal for the caller.
func (g *Guard) fail(op, prefix string, err error) error {
	g.log(prefix + ": " + err.Error())
	if g.Sleep != nil && g.Delay > 0 {
		g.Sleep(g.Delay)
	}
	if g.Reset != nil {
		g.Reset.Reset(err)
	}
	return errcode.Fatal(op, err)
}

// Critical runs required initialisation. Any failure (error or panic) resets
// the device; the returned error is always fatal.
func (g *Guard) Critical(name string, fn func() error) error {
	if err := run(fn); err != nil {
		return g.fail("critical_init", "Critical init error ("+name+")", err)
	}
	return nil
}

// Optional runs best-effort initialisation. Failure is logged and reported
// as false; it never resets.
func (g *Guard) Optional(name string, fn func() error) bool {
	if err := run(fn); err != nil {
		g.log("Secondary init error (" + name + "): " + err.Error())
		return false
	}
	return true
}

// Iteration runs one loop iteration. Any uncaught fault resets the device.
func (g *Guard) Iteration(fn func() error) error {
	if err := run(fn); err != nil {
		return g.fail("loop", "Unexpected error", err)
	}
	return nil
}

// run calls fn and turns a panic into an error.
func run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = &errcode.E{C: errcode.Error, Op: "panic", Err: v}
			default:
				err = &errcode.E{C: errcode.Error, Op: "panic", Msg: fmtx.Sprint(v)}
			}
		}
	}()
	return fn()
}
