// Package sampler produces one sample record per call: an always-sampled
// analog channel plus a rate-limited environmental reading.
//
// Partial peripheral failure never fails a read. A failed environmental read
// yields the sentinels; a failed analog read yields 0 mV.
package sampler

import (
	"time"

	"datalogger-go/x/mathx"
)

// Analog is an ADC channel with microvolt resolution.
type Analog interface {
	ReadMicrovolts() (int32, error)
}

// EnvSensor reports milli-degrees Celsius and milli-Pascals. It matches the
// method set of tinygo.org/x/drivers/bmp280.Device.
type EnvSensor interface {
	ReadTemperature() (int32, error)
	ReadPressure() (int32, error)
}

// Indicator is the liveness LED.
type Indicator interface {
	Toggle()
}

// Config tunes a Reader.
type Config struct {
	EnvMinInterval time.Duration
	BandLowMV      int32 // exclusive
	BandHighMV     int32 // exclusive
}

// Reader owns the cached environmental values between samples.
type Reader struct {
	cfg   Config
	adc   Analog
	env   EnvSensor // nil when optional init failed
	led   Indicator // may be nil
	stamp func() string
	mono  func() time.Time // pacing clock for the environmental rate limit

	tempF    float64
	pressure float64
	envAt    time.Time
	envOK    bool // at least one successful environmental sample
	envFail  bool // last attempt failed
	last     string
}

// New builds a Reader. stamp formats the record timestamp; mono drives the
// environmental rate limit (time.Now when nil).
func New(cfg Config, adc Analog, env EnvSensor, led Indicator, stamp func() string, mono func() time.Time) *Reader {
	if mono == nil {
		mono = time.Now
	}
	return &Reader{
		cfg: cfg, adc: adc, env: env, led: led, stamp: stamp, mono: mono,
		tempF: SentinelTempF, pressure: SentinelPressure,
		last: "???",
	}
}

// SetEnv attaches (or detaches, with nil) the environmental sensor.
func (r *Reader) SetEnv(env EnvSensor) { r.env = env }

// Read takes one sample.
func (r *Reader) Read() Record {
	ts := r.stamp()
	r.sampleEnv()

	mv := int32(SentinelMilliV)
	if r.adc != nil {
		if uv, err := r.adc.ReadMicrovolts(); err == nil {
			mv = mathx.RoundDiv(uv, 1000)
		}
	}
	if r.led != nil && mathx.Inside(mv, r.cfg.BandLowMV, r.cfg.BandHighMV) {
		r.led.Toggle()
	}

	rec := Record{Timestamp: ts, MilliVolts: mv, TempF: r.tempF, PressureInHg: r.pressure}
	r.last = rec.Line()
	return rec
}

// sampleEnv refreshes temperature and pressure once EnvMinInterval has passed
// since the last success. A failure sets the sentinels and leaves the timer
// alone, so the next read retries.
func (r *Reader) sampleEnv() {
	now := r.mono()
	if r.envOK && now.Sub(r.envAt) < r.cfg.EnvMinInterval {
		return
	}
	if r.env == nil {
		r.tempF, r.pressure = SentinelTempF, SentinelPressure
		r.envFail = true
		return
	}
	mc, err := r.env.ReadTemperature()
	if err != nil {
		r.tempF, r.pressure = SentinelTempF, SentinelPressure
		r.envFail = true
		return
	}
	mpa, err := r.env.ReadPressure()
	if err != nil {
		r.tempF, r.pressure = SentinelTempF, SentinelPressure
		r.envFail = true
		return
	}
	r.tempF = CelsiusToF(float64(mc) / 1000)
	r.pressure = PascalToInHg(float64(mpa) / 1000)
	r.envAt = now
	r.envOK = true
	r.envFail = false
}

// Last returns the most recent record line without its terminator.
func (r *Reader) Last() string { return r.last }

// EnvDegraded reports whether the latest environmental attempt failed.
func (r *Reader) EnvDegraded() bool { return r.envFail }
