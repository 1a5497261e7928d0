//go:build rp2040

package platform

import (
	"device/arm"
	"time"
)

// starveFor outlasts the longest watchdog timeout the RP2040 accepts.
const starveFor = 9 * time.Second

// reset stops feeding the watchdog and waits for it to fire; if it was never
// armed, or does not fire, the core is reset directly.
func (b *Board) reset(cause error) {
	if cause != nil {
		println("reset:", cause.Error())
	}
	if b.armed {
		time.Sleep(starveFor)
		println("watchdog did not fire, forcing reset")
	}
	arm.SystemReset()
	for {
		time.Sleep(time.Second)
	}
}
