package acquire

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"datalogger-go/drivers/ds3231"
	"datalogger-go/errcode"
	"datalogger-go/services/clock"
	"datalogger-go/services/recovery"
	"datalogger-go/services/sampler"
	"datalogger-go/services/storage"
	"datalogger-go/services/telemetry"
	"datalogger-go/services/watchdog"
	"datalogger-go/types"
)

// ---- fakes ----

type fakeBoard struct {
	t       time.Time
	host    *clock.OffsetClock
	console bytes.Buffer
	logVol  storage.Volume
	dataVol *storage.MemVolume
	sleeps  []time.Duration
	resets  []error

	readDur time.Duration // simulated analog conversion time
	uv      int32

	ext      *fakeExternal
	wdt      *fakeWDT
	led      *fakeLED
	radio    *fakeRadio
	mem      *fakeMemory
	dataErr  error
	envErr   error
	radioErr error
	wdtErr   error
}

func newBoard() *fakeBoard {
	b := &fakeBoard{
		t:       time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		logVol:  storage.NewMemVolume(),
		dataVol: storage.NewMemVolume(),
		readDur: 120 * time.Millisecond,
		uv:      1_650_000,
		ext:     &fakeExternal{cal: ds3231.Calendar{Year: 2025, Month: 3, Day: 24, Hour: 22, Minute: 25, Second: 40}},
		wdt:     &fakeWDT{},
		led:     &fakeLED{},
		radio:   &fakeRadio{},
		mem:     &fakeMemory{free: 1 << 20},
	}
	b.host = clock.NewOffsetClock(b.Now)
	return b
}

func (b *fakeBoard) Console() io.Writer                     { return &b.console }
func (b *fakeBoard) LogVolume() (storage.Volume, error)     { return b.logVol, nil }
func (b *fakeBoard) HostClock() clock.Host                  { return b.host }
func (b *fakeBoard) Memory() storage.Memory                 { return b.mem }
func (b *fakeBoard) Now() time.Time                         { return b.t }
func (b *fakeBoard) LED() (sampler.Indicator, error)        { return b.led, nil }
func (b *fakeBoard) Analog() (sampler.Analog, error)        { return &fakeADC{b: b}, nil }
func (b *fakeBoard) ExternalClock() (clock.External, error) { return b.ext, nil }

func (b *fakeBoard) Resetter() recovery.ResetStrategy {
	return recovery.ResetFunc(func(cause error) { b.resets = append(b.resets, cause) })
}

func (b *fakeBoard) Sleep(d time.Duration) {
	b.sleeps = append(b.sleeps, d)
	b.t = b.t.Add(d)
}

func (b *fakeBoard) Watchdog() (watchdog.Device, error) {
	if b.wdtErr != nil {
		return nil, b.wdtErr
	}
	return b.wdt, nil
}

func (b *fakeBoard) DataVolume() (storage.Volume, error) {
	if b.dataErr != nil {
		return nil, b.dataErr
	}
	return b.dataVol, nil
}

func (b *fakeBoard) EnvSensor() (sampler.EnvSensor, error) {
	if b.envErr != nil {
		return nil, b.envErr
	}
	return fakeEnv{}, nil
}

func (b *fakeBoard) Radio() (telemetry.Transport, error) {
	if b.radioErr != nil {
		return nil, b.radioErr
	}
	return b.radio, nil
}

type fakeADC struct{ b *fakeBoard }

func (a *fakeADC) ReadMicrovolts() (int32, error) {
	a.b.t = a.b.t.Add(a.b.readDur)
	return a.b.uv, nil
}

// 21 °C, 101325 Pa
type fakeEnv struct{}

func (fakeEnv) ReadTemperature() (int32, error) { return 21_000, nil }
func (fakeEnv) ReadPressure() (int32, error)    { return 101_325_000, nil }

type fakeExternal struct {
	cal     ds3231.Calendar
	reads   int
	stopped bool
}

func (f *fakeExternal) ReadCalendar() (ds3231.Calendar, error) { f.reads++; return f.cal, nil }
func (f *fakeExternal) WriteCalendar(ds3231.Calendar) error    { return nil }
func (f *fakeExternal) OscillatorStopped() (bool, error)       { return f.stopped, nil }

type fakeWDT struct{ started, updates int }

func (w *fakeWDT) Configure(time.Duration) error { return nil }
func (w *fakeWDT) Start() error                  { w.started++; return nil }
func (w *fakeWDT) Update()                       { w.updates++ }

type fakeLED struct{ toggles int }

func (l *fakeLED) Toggle() { l.toggles++ }

type fakeRadio struct{ payloads []string }

func (r *fakeRadio) Publish(p []byte) error {
	r.payloads = append(r.payloads, string(p))
	return nil
}

type fakeMemory struct {
	free      uint64
	collected int
}

func (m *fakeMemory) Free() uint64 { return m.free }
func (m *fakeMemory) Collect()     { m.collected++ }

func boot(t *testing.T, b *fakeBoard) *Controller {
	t.Helper()
	c, err := Boot(b, types.DefaultConfig())
	if err != nil {
		t.Fatalf("boot: %v", err)
	}
	return c
}

func logText(b *fakeBoard) string {
	return string(b.logVol.(*storage.MemVolume).Contents("/log.txt"))
}

// ---- tests ----

func TestSleepFor(t *testing.T) {
	if got := SleepFor(500*time.Millisecond, 120*time.Millisecond); got != 380*time.Millisecond {
		t.Fatalf("SleepFor(500, 120) = %v", got)
	}
	if got := SleepFor(500*time.Millisecond, 600*time.Millisecond); got != 0 {
		t.Fatalf("SleepFor(500, 600) = %v", got)
	}
}

var lineRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}, [ \d]{4}\d, [ \d.-]{5}, [ \d.]{5}$`)

func TestEndToEndOneFlushPer120(t *testing.T) {
	b := newBoard()
	c := boot(t, b)

	for i := 0; i < 120; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	paths := b.dataVol.Paths()
	if len(paths) != 1 || paths[0] != "/sd/2025-03-24.csv" {
		t.Fatalf("files = %v", paths)
	}
	data := string(b.dataVol.Contents(paths[0]))
	lines := strings.Split(strings.TrimSuffix(data, "\n"), "\n")
	if len(lines) != 120 {
		t.Fatalf("file has %d lines, want 120", len(lines))
	}
	for i, l := range lines {
		if !lineRE.MatchString(l) {
			t.Fatalf("line %d malformed: %q", i, l)
		}
	}
	if !strings.HasPrefix(lines[0], "2025-03-24T22:25:40.000,  1650,  69.8, 29.92") {
		t.Fatalf("first line = %q", lines[0])
	}
	if c.Buffered() != 0 || c.Iterations() != 120 {
		t.Fatalf("buffered = %d iterations = %d", c.Buffered(), c.Iterations())
	}
	if b.mem.collected != 1 {
		t.Fatalf("reclaim ran %d times, want 1", b.mem.collected)
	}
	if b.wdt.updates != 120 || b.wdt.started != 1 {
		t.Fatalf("watchdog started %d fed %d", b.wdt.started, b.wdt.updates)
	}
	if b.led.toggles != 120 {
		t.Fatalf("LED toggled %d times", b.led.toggles)
	}
	for i, d := range b.sleeps {
		if d != 380*time.Millisecond {
			t.Fatalf("sleep %d = %v, want 380ms", i, d)
		}
	}
}

func TestBootLogsAndSyncsOnce(t *testing.T) {
	b := newBoard()
	c := boot(t, b)
	for i := 0; i < 5; i++ {
		_ = c.Step()
	}
	if b.ext.reads != 1 {
		t.Fatalf("external clock read %d times, want 1", b.ext.reads)
	}
	if !c.Clock().Synced() {
		t.Fatalf("clock not synced")
	}
	log := logText(b)
	for _, want := range []string{": Restarting.\n", ": Clock synced: 2025-03-24T22:25:40.000\n", "2025-03-24 22:25:40: Initialized.\n"} {
		if !strings.Contains(log, want) {
			t.Fatalf("log missing %q:\n%s", want, log)
		}
	}
	if !strings.Contains(b.console.String(), "Initialized.\n") {
		t.Fatalf("console echo missing: %q", b.console.String())
	}
}

func TestBootWarnsOnStoppedOscillator(t *testing.T) {
	b := newBoard()
	b.ext.stopped = true
	boot(t, b)
	if !strings.Contains(logText(b), "oscillator stopped") {
		t.Fatalf("no oscillator warning:\n%s", logText(b))
	}
}

func TestBootCriticalFailureResets(t *testing.T) {
	for name, mut := range map[string]func(*fakeBoard){
		"storage":  func(b *fakeBoard) { b.dataErr = errcode.Wrap(errcode.NotMounted, "sd", errors.New("no card")) },
		"watchdog": func(b *fakeBoard) { b.wdtErr = errors.New("wdt busy") },
		"clock":    func(b *fakeBoard) { b.ext.cal = ds3231.Calendar{} },
	} {
		b := newBoard()
		mut(b)
		c, err := Boot(b, types.DefaultConfig())
		if c != nil || !errcode.IsFatal(err) {
			t.Fatalf("%s: controller = %v err = %v", name, c, err)
		}
		if len(b.resets) != 1 {
			t.Fatalf("%s: resets = %d", name, len(b.resets))
		}
		if len(b.sleeps) != 1 || b.sleeps[0] != 5*time.Second {
			t.Fatalf("%s: sleeps = %v", name, b.sleeps)
		}
		if !strings.Contains(logText(b), "Critical init error ("+name+")") {
			t.Fatalf("%s: log:\n%s", name, logText(b))
		}
	}
}

func TestBootOptionalFailuresDegrade(t *testing.T) {
	b := newBoard()
	b.envErr = errors.New("bmp280 not found")
	b.radioErr = errors.New("uart busy")
	c := boot(t, b)
	if len(b.resets) != 0 {
		t.Fatalf("optional failure reset the device")
	}
	log := logText(b)
	if !strings.Contains(log, "Secondary init error (env_sensor): bmp280 not found") ||
		!strings.Contains(log, "Secondary init error (radio): uart busy") {
		t.Fatalf("log:\n%s", log)
	}
	for i := 0; i < 120; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	first := strings.SplitN(string(b.dataVol.Contents("/sd/2025-03-24.csv")), "\n", 2)[0]
	if !strings.HasSuffix(first, ",  1650, -459.7,  0.00") {
		t.Fatalf("sentinel line = %q", first)
	}
}

func TestTelemetryCadence(t *testing.T) {
	b := newBoard()
	c := boot(t, b)
	for i := 0; i < 120; i++ {
		_ = c.Step()
	}
	if len(b.radio.payloads) != 2 {
		t.Fatalf("published %d times, want 2", len(b.radio.payloads))
	}
	parts := strings.Split(b.radio.payloads[0], "\n")
	if len(parts) != 2 || !strings.HasSuffix(parts[0], "Initialized.") || !lineRE.MatchString(parts[1]) {
		t.Fatalf("payload = %q", b.radio.payloads[0])
	}
}

type failAppend struct {
	*storage.MemVolume
	fail bool
}

func (f *failAppend) Append(p string, b []byte) error {
	if f.fail {
		return errors.New("write protect")
	}
	return f.MemVolume.Append(p, b)
}

func TestFlushFailureIsLoggedAndLoopContinues(t *testing.T) {
	b := newBoard()
	b.dataVol = storage.NewMemVolume()
	c := boot(t, b)
	c.buf = storage.NewBuffer(&failAppend{MemVolume: b.dataVol, fail: true}, "/sd", 120)

	for i := 0; i < 121; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if c.Buffered() != 1 {
		t.Fatalf("buffered = %d, want 1 (batch dropped, new record kept)", c.Buffered())
	}
	if !strings.Contains(logText(b), "Error writing to file: write protect") {
		t.Fatalf("log:\n%s", logText(b))
	}
	if len(b.resets) != 0 {
		t.Fatalf("flush failure reset the device")
	}
}

func TestMemoryPressureIsLogged(t *testing.T) {
	b := newBoard()
	b.mem.free = 1000
	c := boot(t, b)
	for i := 0; i < 120; i++ {
		_ = c.Step()
	}
	log := logText(b)
	if !strings.Contains(log, "Free memory before GC: 1000") || !strings.Contains(log, "Free memory after GC: 1000") {
		t.Fatalf("log:\n%s", log)
	}
}

func TestSlowIterationWarns(t *testing.T) {
	b := newBoard()
	b.readDur = 600 * time.Millisecond
	c := boot(t, b)
	if err := c.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if b.sleeps[len(b.sleeps)-1] != 0 {
		t.Fatalf("sleep = %v, want 0", b.sleeps[len(b.sleeps)-1])
	}
	if !strings.Contains(logText(b), "sleeping for 0 ms") {
		t.Fatalf("log:\n%s", logText(b))
	}
}

type breakableLog struct {
	*storage.MemVolume
	broken bool
}

func (v *breakableLog) Append(p string, b []byte) error {
	if v.broken {
		return errors.New("flash error")
	}
	return v.MemVolume.Append(p, b)
}

func TestRunResetsOnIterationFault(t *testing.T) {
	b := newBoard()
	lv := &breakableLog{MemVolume: storage.NewMemVolume()}
	b.logVol = lv
	b.readDur = 400 * time.Millisecond // forces a "sleeping for" line
	c := boot(t, b)
	lv.broken = true

	err := c.Run(context.Background())
	if !errcode.IsFatal(err) {
		t.Fatalf("Run err = %v, want fatal", err)
	}
	if len(b.resets) != 1 {
		t.Fatalf("resets = %d", len(b.resets))
	}
	if !strings.Contains(b.console.String(), "Unexpected error: ") {
		t.Fatalf("fault not echoed: %q", b.console.String())
	}
}

func TestRunStopsOnContext(t *testing.T) {
	b := newBoard()
	c := boot(t, b)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v", err)
	}
}

func TestBootRejectsBadConfig(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.BufferLines = 0
	if _, err := Boot(newBoard(), cfg); errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("err = %v", err)
	}
}
