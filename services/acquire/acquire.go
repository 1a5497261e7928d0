// Package acquire is the firmware's controller: it boots the board under the
// fault boundary and then runs the sampling loop
//
//	read -> buffer -> feed watchdog -> (every Kth) telemetry
//	     -> (at capacity) flush + memory hygiene -> pacing sleep
//
// on a single control flow. The controller owns the buffer, the sample cache
// and the log store; nothing else touches them.
package acquire

import (
	"context"
	"time"

	"datalogger-go/services/clock"
	"datalogger-go/services/diaglog"
	"datalogger-go/services/recovery"
	"datalogger-go/services/sampler"
	"datalogger-go/services/storage"
	"datalogger-go/services/telemetry"
	"datalogger-go/services/watchdog"
	"datalogger-go/types"
	"datalogger-go/x/mathx"
)

// Controller holds all state that lives for the device's uptime.
type Controller struct {
	cfg   types.Config
	board Board

	clock  *clock.Sync
	log    *diaglog.Logger
	guard  *recovery.Guard
	reader *sampler.Reader
	buf    *storage.Buffer
	wd     *watchdog.Feeder
	tel    *telemetry.Notifier
	mem    storage.Memory

	iter uint64
}

// SleepFor is the pacing rule: sleep whatever is left of the target period,
// never a negative amount. Overruns are not paid back.
func SleepFor(target, elapsed time.Duration) time.Duration {
	return mathx.Max(target-elapsed, 0)
}

// Boot brings the board up. A required peripheral that fails is logged, the
// device is reset, and Boot returns the fatal error. Best-effort peripherals
// that fail are logged and left out.
func Boot(b Board, cfg types.Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{cfg: cfg, board: b, mem: b.Memory()}

	host := b.HostClock()
	vol, err := b.LogVolume()
	if err != nil {
		println("Warning: diagnostic log volume unavailable, keeping log in RAM:", err.Error())
		vol = storage.NewMemVolume()
	}
	c.log = diaglog.New(diaglog.Config{
		Volume:   vol,
		Path:     cfg.LogPath,
		MaxBytes: cfg.LogMaxBytes,
		Stamp:    func() string { return clock.FormatStamp(host.Now()) },
		Echo:     b.Console(),
	})
	c.guard = &recovery.Guard{
		Log:   c.note,
		Sleep: b.Sleep,
		Delay: cfg.FaultDelay,
		Reset: b.Resetter(),
	}

	if err := c.guard.Critical("log", func() error { return c.log.Printf("Restarting.") }); err != nil {
		return nil, err
	}

	var (
		led sampler.Indicator
		adc sampler.Analog
	)
	steps := []struct {
		name string
		fn   func() error
	}{
		{"led", func() (err error) { led, err = b.LED(); return err }},
		{"adc", func() (err error) { adc, err = b.Analog(); return err }},
		{"clock", func() error { return c.syncClock(host) }},
		{"watchdog", func() error { return c.armWatchdog() }},
		{"storage", func() error { return c.mountStorage() }},
	}
	for _, s := range steps {
		if err := c.guard.Critical(s.name, s.fn); err != nil {
			return nil, err
		}
	}

	c.reader = sampler.New(sampler.Config{
		EnvMinInterval: cfg.EnvMinInterval,
		BandLowMV:      cfg.AnalogBandLow,
		BandHighMV:     cfg.AnalogBandHigh,
	}, adc, nil, led, func() string { return clock.FormatISO(host.Now()) }, b.Now)
	c.tel = telemetry.New(nil, cfg.TelemetryEvery, cfg.TelemetryPhase, c.note)

	c.guard.Optional("env_sensor", func() error {
		env, err := b.EnvSensor()
		if err != nil {
			return err
		}
		c.reader.SetEnv(env)
		return nil
	})
	c.guard.Optional("radio", func() error {
		tr, err := b.Radio()
		if err != nil {
			return err
		}
		c.tel.SetTransport(tr)
		return nil
	})

	if err := c.guard.Critical("log", func() error { return c.log.Printf("Initialized.") }); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) syncClock(host clock.Host) error {
	ext, err := c.board.ExternalClock()
	if err != nil {
		return err
	}
	c.clock = clock.New(ext, host)
	if oc, ok := ext.(oscillatorChecker); ok {
		if stopped, err := oc.OscillatorStopped(); err == nil && stopped {
			c.note("Warning: external clock oscillator stopped; time may be wrong")
		}
	}
	t, err := c.clock.SyncHost()
	if err != nil {
		return err
	}
	return c.log.Printf("Clock synced: %s", clock.FormatISO(t))
}

func (c *Controller) armWatchdog() error {
	dev, err := c.board.Watchdog()
	if err != nil {
		return err
	}
	c.wd = watchdog.New(dev)
	return c.wd.Arm(c.cfg.WatchdogTimeout)
}

func (c *Controller) mountStorage() error {
	vol, err := c.board.DataVolume()
	if err != nil {
		return err
	}
	c.buf = storage.NewBuffer(vol, c.cfg.DataDir, c.cfg.BufferLines)
	return nil
}

// note logs a diagnostic from a path whose failure must not escalate.
func (c *Controller) note(msg string) { _, _ = c.log.Log(diaglog.Text(msg)) }

// Step runs one iteration. Errors returned here are uncaught faults for the
// loop guard.
func (c *Controller) Step() error {
	start := c.board.Now()

	rec := c.reader.Read()
	c.buf.Append(rec)
	if err := c.wd.Feed(); err != nil {
		return err
	}
	c.iter++

	if c.tel.Due(c.iter) {
		c.tel.Publish(c.log.Last(), c.reader.Last())
	}

	if res, did := c.buf.FlushIfNeeded(); did {
		if res.Err != nil {
			if err := c.log.Printf("Error writing to file: %v", res.Err); err != nil {
				return err
			}
		}
		if err := c.checkMemory(); err != nil {
			return err
		}
	}

	sleep := SleepFor(c.cfg.Interval, c.board.Now().Sub(start))
	if c.cfg.SlowIterationWarn && sleep < c.cfg.Interval/2 {
		if err := c.log.Printf("sleeping for %d ms", sleep.Milliseconds()); err != nil {
			return err
		}
	}
	c.board.Sleep(sleep)
	return nil
}

func (c *Controller) checkMemory() error {
	r := storage.CheckMemory(c.mem, c.cfg.LowFreeBefore, c.cfg.LowFreeAfter)
	if r.LowBefore {
		if err := c.log.Printf("Free memory before GC: %d", r.Before); err != nil {
			return err
		}
	}
	if r.LowAfter {
		if err := c.log.Printf("Free memory after GC: %d", r.After); err != nil {
			return err
		}
	}
	return nil
}

// Run loops until an iteration faults. The fault has then been logged and
// the reset strategy invoked; Run returns the fatal error. ctx only bounds
// host simulations; the device never cancels.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.guard.Iteration(c.Step); err != nil {
			return err
		}
	}
}

// Iterations returns the number of completed reads.
func (c *Controller) Iterations() uint64 { return c.iter }

// Buffered returns the number of records awaiting a flush.
func (c *Controller) Buffered() int { return c.buf.Len() }

// Clock exposes the clock sync for diagnostics such as the drift check.
func (c *Controller) Clock() *clock.Sync { return c.clock }
