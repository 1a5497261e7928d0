//go:build rp2040

package platform

import (
	"runtime"
	"time"
)

// rp2Clock is the runtime clock. Set shifts the runtime's offset so that
// time.Now reports t.
type rp2Clock struct{}

func (rp2Clock) Now() time.Time { return time.Now().UTC() }

func (rp2Clock) Set(t time.Time) error {
	runtime.AdjustTimeOffset(int64(t.Sub(time.Now())))
	return nil
}
