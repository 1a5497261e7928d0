// cmd/rtcset writes a calendar time to the DS3231. The time is baked in at
// build time, since the board has no other source of wall time:
//
//	tinygo flash -target pico -ldflags "-X main.setTo=2025-03-24T22:25:40" ./cmd/rtcset
//
// On the host an empty setTo means the current UTC time.
package main

import (
	"time"

	"datalogger-go/drivers/ds3231"
	"datalogger-go/platform"
	"datalogger-go/services/clock"
)

var setTo string

const layout = "2006-01-02T15:04:05"

func main() {
	time.Sleep(2 * time.Second)

	t := time.Now().UTC()
	if setTo != "" {
		var err error
		if t, err = time.Parse(layout, setTo); err != nil {
			println("rtcset: bad time:", err.Error())
			return
		}
	}

	board := platform.New(platform.SelectedSetup)
	ext, err := board.ExternalClock()
	if err != nil {
		println("rtcset: clock:", err.Error())
		return
	}
	sync := clock.New(ext, board.HostClock())
	if err := sync.WriteExternal(ds3231.FromTime(t)); err != nil {
		println("rtcset: write:", err.Error())
		return
	}
	c, err := sync.ReadExternal()
	if err != nil {
		println("rtcset: read back:", err.Error())
		return
	}
	println("rtcset: clock now", clock.FormatISO(c.Time()))
}
