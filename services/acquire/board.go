package acquire

import (
	"io"
	"time"

	"datalogger-go/services/clock"
	"datalogger-go/services/recovery"
	"datalogger-go/services/sampler"
	"datalogger-go/services/storage"
	"datalogger-go/services/telemetry"
	"datalogger-go/services/watchdog"
)

// Board supplies the peripherals. Methods returning an error bring hardware
// up and are called once, from Boot, inside the fault boundary.
type Board interface {
	// Always available.
	Console() io.Writer
	LogVolume() (storage.Volume, error)
	HostClock() clock.Host
	Memory() storage.Memory
	Resetter() recovery.ResetStrategy
	Now() time.Time // pacing clock
	Sleep(d time.Duration)

	// Required.
	LED() (sampler.Indicator, error)
	Analog() (sampler.Analog, error)
	ExternalClock() (clock.External, error)
	Watchdog() (watchdog.Device, error)
	DataVolume() (storage.Volume, error)

	// Best effort.
	EnvSensor() (sampler.EnvSensor, error)
	Radio() (telemetry.Transport, error)
}

// oscillatorChecker is implemented by external clocks that can tell whether
// their battery-backed time survived.
type oscillatorChecker interface {
	OscillatorStopped() (bool, error)
}
