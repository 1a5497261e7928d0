// cmd/driftcheck syncs the host clock from the DS3231 and then watches where
// the external second boundary falls relative to the host clock. Nothing is
// corrected.
package main

import (
	"context"
	"time"

	"datalogger-go/platform"
	"datalogger-go/services/clock"
	"datalogger-go/x/fmtx"
)

const (
	rounds = 200
	gap    = 100 * time.Millisecond
)

func main() {
	time.Sleep(2 * time.Second)

	board := platform.New(platform.SelectedSetup)
	ext, err := board.ExternalClock()
	if err != nil {
		println("driftcheck: clock:", err.Error())
		return
	}
	sync := clock.New(ext, board.HostClock())
	t, err := sync.SyncHost()
	if err != nil {
		println("driftcheck: sync:", err.Error())
		return
	}
	println("driftcheck: synced at", clock.FormatISO(t))

	n, err := sync.DetectDrift(context.Background(), rounds, gap, func(r clock.DriftReport) {
		println(fmtx.Sprintf("ext %02d -> %02d at host %s", r.First.Second, r.Second.Second, clock.FormatISO(r.Host)))
	})
	if err != nil {
		println("driftcheck:", err.Error())
	}
	println(fmtx.Sprintf("driftcheck: %d boundaries in %d pairs", n, rounds))
}
