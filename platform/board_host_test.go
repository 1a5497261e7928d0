//go:build !rp2040

package platform

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"datalogger-go/drivers/ds3231"
	"datalogger-go/services/acquire"
	"datalogger-go/types"
)

func TestSimRTCRoundTrip(t *testing.T) {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	rtc := newSimRTC(func() time.Time { return now })
	d := ds3231.New(rtc)

	c, err := d.ReadCalendar()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !c.Time().Equal(now) {
		t.Fatalf("calendar = %+v", c)
	}

	want := ds3231.Calendar{Year: 2025, Month: 3, Day: 24, Hour: 22, Minute: 25, Second: 40}
	if err := d.WriteCalendar(want); err != nil {
		t.Fatalf("write: %v", err)
	}
	now = now.Add(2 * time.Second)
	got, err := d.ReadCalendar()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Second != 42 || got.Minute != 25 || got.Year != 2025 {
		t.Fatalf("after write = %+v", got)
	}
	if stopped, err := d.OscillatorStopped(); err != nil || stopped {
		t.Fatalf("OSF = %v, %v", stopped, err)
	}
}

func TestSimRTCWrongAddress(t *testing.T) {
	rtc := newSimRTC(time.Now)
	if err := rtc.Tx(0x50, []byte{0}, make([]byte, 7)); err == nil {
		t.Fatalf("expected bus error")
	}
}

func TestHostBoardBootAndStep(t *testing.T) {
	b := New(SelectedSetup)
	b.Root = t.TempDir()
	var console, radio bytes.Buffer
	b.Out = &console
	b.RadioOut = &radio
	b.Exit = func(code int) { t.Fatalf("unexpected reset (%d): %s", code, console.String()) }

	cfg := types.DefaultConfig()
	cfg.Interval = 10 * time.Millisecond
	cfg.BufferLines = 3
	c, err := acquire.Boot(b, cfg)
	if err != nil {
		t.Fatalf("boot: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	matches, _ := filepath.Glob(filepath.Join(b.Root, "sd", "*.csv"))
	if len(matches) != 1 {
		t.Fatalf("data files = %v", matches)
	}
	data, _ := os.ReadFile(matches[0])
	if n := strings.Count(string(data), "\n"); n != 3 {
		t.Fatalf("data has %d lines:\n%s", n, data)
	}
	log, _ := os.ReadFile(filepath.Join(b.Root, "flash", "log.txt"))
	if !strings.Contains(string(log), "Initialized.") {
		t.Fatalf("log:\n%s", log)
	}
	if !strings.Contains(console.String(), "Restarting.") {
		t.Fatalf("console:\n%s", console.String())
	}
}
