// cmd/boardtest brings up each logger peripheral in turn and prints what it
// reads, without starting the sampling loop or the watchdog.
package main

import (
	"time"

	"datalogger-go/platform"
	"datalogger-go/services/clock"
	"datalogger-go/services/sampler"
	"datalogger-go/x/fmtx"
)

const rounds = 10

func main() {
	time.Sleep(2 * time.Second)
	board := platform.New(platform.SelectedSetup)
	println("boardtest:", platform.SelectedSetup.Name)

	if ext, err := board.ExternalClock(); err != nil {
		println("clock: FAIL", err.Error())
	} else if c, err := clock.New(ext, board.HostClock()).ReadExternal(); err != nil {
		println("clock: FAIL", err.Error())
	} else {
		println("clock: ok", clock.FormatISO(c.Time()))
	}

	if _, err := board.DataVolume(); err != nil {
		println("sd: FAIL", err.Error())
	} else {
		println("sd: ok")
	}
	if _, err := board.LogVolume(); err != nil {
		println("flash: FAIL", err.Error())
	} else {
		println("flash: ok")
	}

	adc, err := board.Analog()
	if err != nil {
		println("adc: FAIL", err.Error())
		return
	}
	led, _ := board.LED()
	env, err := board.EnvSensor()
	if err != nil {
		println("env: FAIL", err.Error())
	}

	r := sampler.New(sampler.Config{BandLowMV: 100, BandHighMV: 3300}, adc, env, led,
		func() string { return clock.FormatISO(board.HostClock().Now()) }, board.Now)
	for i := 0; i < rounds; i++ {
		rec := r.Read()
		println(fmtx.Sprintf("read %d: %s degraded=%t", i, rec.Line(), r.EnvDegraded()))
		board.Sleep(time.Second)
	}
}
