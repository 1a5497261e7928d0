package types

import (
	"time"

	"datalogger-go/errcode"
)

// Config holds every tunable of the acquisition firmware. Values are fixed at
// build time; there is no remote configuration channel.
type Config struct {
	// Buffer/flush.
	BufferLines int    // records held in RAM before a flush
	DataDir     string // mount point of the removable volume
	// Pacing.
	Interval       time.Duration // target period between samples
	EnvMinInterval time.Duration // minimum spacing of environmental samples
	// Telemetry fires when iteration%TelemetryEvery == TelemetryPhase.
	TelemetryEvery int
	TelemetryPhase int
	// Faults and liveness.
	WatchdogTimeout time.Duration
	FaultDelay      time.Duration // pause between logging a fatal fault and reset
	// Diagnostic log.
	LogPath     string
	LogMaxBytes int64
	// Memory hygiene thresholds (bytes free).
	LowFreeBefore uint64
	LowFreeAfter  uint64
	// Plausible analog band (exclusive, mV) that toggles the liveness LED.
	AnalogBandLow  int32
	AnalogBandHigh int32
	// Log a line when an iteration leaves less than half the interval to sleep.
	SlowIterationWarn bool
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		BufferLines:       120,
		DataDir:           "/sd",
		Interval:          500 * time.Millisecond,
		EnvMinInterval:    60 * time.Second,
		TelemetryEvery:    60,
		TelemetryPhase:    10,
		WatchdogTimeout:   8 * time.Second, // RP2040 ceiling is ~8.3 s
		FaultDelay:        5 * time.Second,
		LogPath:           "/log.txt",
		LogMaxBytes:       100 * 1024,
		LowFreeBefore:     32 * 1024,
		LowFreeAfter:      64 * 1024,
		AnalogBandLow:     100,
		AnalogBandHigh:    3300,
		SlowIterationWarn: true,
	}
}

// Validate rejects settings the main loop cannot run with.
func (c Config) Validate() error {
	bad := func(msg string) error {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: msg}
	}
	switch {
	case c.BufferLines <= 0:
		return bad("buffer_lines must be positive")
	case c.Interval <= 0:
		return bad("interval must be positive")
	case c.EnvMinInterval < 0:
		return bad("env_min_interval must not be negative")
	case c.TelemetryEvery <= 0:
		return bad("telemetry_every must be positive")
	case c.TelemetryPhase < 0 || c.TelemetryPhase >= c.TelemetryEvery:
		return bad("telemetry_phase must be in [0, telemetry_every)")
	case c.WatchdogTimeout <= c.Interval:
		return bad("watchdog_timeout must exceed interval")
	case c.LogMaxBytes <= 0:
		return bad("log_max_bytes must be positive")
	case c.LogPath == "":
		return bad("log_path is empty")
	}
	return nil
}
