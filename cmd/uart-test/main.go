// cmd/uart-test sends numbered telemetry payloads over the radio transport,
// so the bridge module and its phone-side reader can be checked in isolation.
package main

import (
	"time"

	"datalogger-go/platform"
	"datalogger-go/services/telemetry"
	"datalogger-go/x/fmtx"
)

func main() {
	println("[radio] boot …")
	time.Sleep(1500 * time.Millisecond)

	board := platform.New(platform.SelectedSetup)
	tr, err := board.Radio()
	if err != nil {
		println("[radio] init:", err.Error())
		return
	}
	n := telemetry.New(tr, 1, 0, func(msg string) { println("[radio]", msg) })
	for i := 1; ; i++ {
		ok := n.Publish(fmtx.Sprintf("test %d", i), "2000-01-01T00:00:00.000,     0, -459.7,  0.00")
		sent, failed := n.Stats()
		println(fmtx.Sprintf("[radio] #%d ok=%t sent=%d failed=%d", i, ok, sent, failed))
		time.Sleep(time.Second)
	}
}
