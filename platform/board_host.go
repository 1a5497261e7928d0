//go:build !rp2040

package platform

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"datalogger-go/drivers/ds3231"
	"datalogger-go/services/clock"
	"datalogger-go/services/recovery"
	"datalogger-go/services/sampler"
	"datalogger-go/services/storage"
	"datalogger-go/services/telemetry"
	"datalogger-go/services/watchdog"
	"datalogger-go/types"
)

// Board simulates the logger on the host. Flash and SD map to directories
// under Root; ADC and environmental readings are synthesised.
type Board struct {
	setup types.Setup

	Root     string    // defaults to $DATALOGGER_ROOT or <tmp>/datalogger
	Out      io.Writer // console; stdout when nil
	RadioOut io.Writer // telemetry stream; stderr when nil
	Exit     func(code int)

	start time.Time
	host  *clock.OffsetClock
	rtc   *simRTC
	wdt   *simWatchdog
}

func New(setup types.Setup) *Board {
	root := os.Getenv("DATALOGGER_ROOT")
	if root == "" {
		root = filepath.Join(os.TempDir(), "datalogger")
	}
	return &Board{
		setup: setup,
		Root:  root,
		Exit:  os.Exit,
		start: time.Now(),
		host:  clock.NewOffsetClock(time.Now),
		rtc:   newSimRTC(time.Now),
	}
}

func (b *Board) Console() io.Writer {
	if b.Out == nil {
		return os.Stdout
	}
	return b.Out
}

func (b *Board) LogVolume() (storage.Volume, error) {
	return storage.DirVolume{Root: filepath.Join(b.Root, "flash")}, nil
}

func (b *Board) DataVolume() (storage.Volume, error) {
	return storage.DirVolume{Root: b.Root}, nil
}

func (b *Board) HostClock() clock.Host                  { return b.host }
func (b *Board) Memory() storage.Memory                 { return storage.RuntimeMemory{} }
func (b *Board) Now() time.Time                         { return time.Now() }
func (b *Board) Sleep(d time.Duration)                  { time.Sleep(d) }
func (b *Board) LED() (sampler.Indicator, error)        { return &simLED{}, nil }
func (b *Board) Analog() (sampler.Analog, error)        { return &simADC{start: b.start}, nil }
func (b *Board) ExternalClock() (clock.External, error) { return ds3231.New(b.rtc), nil }
func (b *Board) EnvSensor() (sampler.EnvSensor, error)  { return simEnv{}, nil }

func (b *Board) Watchdog() (watchdog.Device, error) {
	b.wdt = &simWatchdog{out: b.Console()}
	return b.wdt, nil
}

func (b *Board) Radio() (telemetry.Transport, error) {
	w := b.RadioOut
	if w == nil {
		w = os.Stderr
	}
	return telemetry.StreamTransport{W: w}, nil
}

func (b *Board) Resetter() recovery.ResetStrategy {
	return recovery.ResetFunc(func(cause error) {
		if cause != nil {
			println("reset:", cause.Error())
		}
		b.Exit(3)
	})
}

// ---- simulated peripherals ----

type simLED struct{ on bool }

func (l *simLED) Toggle() { l.on = !l.on }

// simADC produces a slow sine around mid-rail, one period per minute.
type simADC struct{ start time.Time }

func (a *simADC) ReadMicrovolts() (int32, error) {
	phase := time.Since(a.start).Seconds() / 60 * 2 * math.Pi
	return int32(1_650_000 + 1_000_000*math.Sin(phase)), nil
}

// simEnv reports 21.5 °C and standard pressure in the bmp280's units.
type simEnv struct{}

func (simEnv) ReadTemperature() (int32, error) { return 21_500, nil }
func (simEnv) ReadPressure() (int32, error)    { return 101_325_000, nil }

// simWatchdog reports a missed deadline instead of resetting the process.
type simWatchdog struct {
	out     io.Writer
	timeout time.Duration
	last    time.Time
}

func (w *simWatchdog) Configure(timeout time.Duration) error { w.timeout = timeout; return nil }
func (w *simWatchdog) Start() error                          { w.last = time.Now(); return nil }

func (w *simWatchdog) Update() {
	now := time.Now()
	if gap := now.Sub(w.last); gap > w.timeout {
		io.WriteString(w.out, "watchdog: fed after "+gap.String()+"\n")
	}
	w.last = now
}
