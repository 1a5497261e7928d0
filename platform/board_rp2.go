//go:build rp2040

package platform

import (
	"io"
	"machine"
	"time"

	"tinygo.org/x/drivers/bmp280"

	"datalogger-go/drivers/ds3231"
	"datalogger-go/errcode"
	"datalogger-go/services/clock"
	"datalogger-go/services/recovery"
	"datalogger-go/services/sampler"
	"datalogger-go/services/storage"
	"datalogger-go/services/watchdog"
	"datalogger-go/types"
)

var _ sampler.EnvSensor = (*bmp280.Device)(nil)

// Board binds a Setup to the RP2040's peripherals. Buses are configured on
// first use and shared between the devices that sit on them.
type Board struct {
	setup types.Setup

	i2c     *machine.I2C
	armed   bool // watchdog started; Reset starves it
	logVol  *FSVolume
	dataVol *FSVolume
}

func New(setup types.Setup) *Board { return &Board{setup: setup} }

func (b *Board) Console() io.Writer               { return machine.Serial }
func (b *Board) HostClock() clock.Host            { return rp2Clock{} }
func (b *Board) Memory() storage.Memory           { return storage.RuntimeMemory{} }
func (b *Board) Resetter() recovery.ResetStrategy { return recovery.ResetFunc(b.reset) }
func (b *Board) Now() time.Time                   { return time.Now() }
func (b *Board) Sleep(d time.Duration)            { time.Sleep(d) }

func (b *Board) bus() (*machine.I2C, error) {
	if b.i2c != nil {
		return b.i2c, nil
	}
	var hw *machine.I2C
	switch b.setup.Clock.ID {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "i2c", Msg: "unknown bus " + b.setup.Clock.ID}
	}
	if err := hw.Configure(machine.I2CConfig{
		Frequency: b.setup.Clock.Hz,
		SDA:       machine.Pin(b.setup.Clock.SDA),
		SCL:       machine.Pin(b.setup.Clock.SCL),
	}); err != nil {
		return nil, errcode.Wrap(errcode.BusError, "i2c.configure", err)
	}
	b.i2c = hw
	return hw, nil
}

func (b *Board) LED() (sampler.Indicator, error) {
	p := machine.Pin(b.setup.LEDPin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Low()
	return &rp2LED{p: p}, nil
}

func (b *Board) Analog() (sampler.Analog, error) {
	machine.InitADC()
	a := machine.ADC{Pin: machine.Pin(b.setup.ADCPin)}
	a.Configure(machine.ADCConfig{})
	return &rp2ADC{a: a}, nil
}

func (b *Board) ExternalClock() (clock.External, error) {
	bus, err := b.bus()
	if err != nil {
		return nil, err
	}
	return ds3231.New(bus), nil
}

func (b *Board) Watchdog() (watchdog.Device, error) { return &rp2Watchdog{b: b}, nil }

func (b *Board) EnvSensor() (sampler.EnvSensor, error) {
	bus, err := b.bus()
	if err != nil {
		return nil, err
	}
	d := bmp280.New(bus)
	if b.setup.EnvAddr != 0 {
		d.Address = b.setup.EnvAddr
	}
	if !d.Connected() {
		return nil, &errcode.E{C: errcode.BusError, Op: "bmp280", Msg: "not found"}
	}
	d.Configure(bmp280.STANDBY_125MS, bmp280.FILTER_4X, bmp280.SAMPLING_2X, bmp280.SAMPLING_16X, bmp280.MODE_NORMAL)
	return &d, nil
}

// ---- peripherals ----

type rp2LED struct{ p machine.Pin }

func (l *rp2LED) Toggle() {
	if l.p.Get() {
		l.p.Low()
	} else {
		l.p.High()
	}
}

// adcFullScale is the reference voltage in microvolts. Get returns a 16-bit
// left-justified reading.
const adcFullScale = 3_300_000

type rp2ADC struct{ a machine.ADC }

func (r *rp2ADC) ReadMicrovolts() (int32, error) {
	raw := uint64(r.a.Get())
	return int32(raw * adcFullScale / 0xFFFF), nil
}

type rp2Watchdog struct{ b *Board }

func (w *rp2Watchdog) Configure(timeout time.Duration) error {
	return machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: uint32(timeout.Milliseconds())})
}

func (w *rp2Watchdog) Start() error {
	if err := machine.Watchdog.Start(); err != nil {
		return err
	}
	w.b.armed = true
	return nil
}

func (w *rp2Watchdog) Update() { machine.Watchdog.Update() }
