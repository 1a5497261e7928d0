package diaglog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"datalogger-go/errcode"
	"datalogger-go/services/storage"
)

const stamp = "2025-03-24 22:25:40"

func newLogger(vol storage.Volume, max int64, echo *bytes.Buffer) *Logger {
	cfg := Config{
		Volume:   vol,
		Path:     "/log.txt",
		MaxBytes: max,
		Stamp:    func() string { return stamp },
	}
	if echo != nil {
		cfg.Echo = echo
	}
	return New(cfg)
}

func TestAppendFormatsAndReturnsLine(t *testing.T) {
	vol := storage.NewMemVolume()
	l := newLogger(vol, 1024, nil)

	line, err := l.Append("Restarting.")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if want := stamp + ": Restarting."; line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
	if got := string(vol.Contents("/log.txt")); got != line+"\n" {
		t.Fatalf("store = %q", got)
	}
	if l.Last() != line {
		t.Fatalf("Last() = %q", l.Last())
	}
}

func TestStoreTruncatesOnOverflow(t *testing.T) {
	vol := storage.NewMemVolume()
	const max = 200
	l := newLogger(vol, max, nil)
	entry := int64(len(stamp + ": " + strings.Repeat("x", 30) + "\n"))

	dropped := false
	var prev int64
	for i := 0; i < 50; i++ {
		if _, err := l.Append(strings.Repeat("x", 30)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		size, _ := vol.Size("/log.txt")
		if size > max+entry {
			t.Fatalf("store grew to %d, cap %d + entry %d", size, max, entry)
		}
		if size < prev {
			dropped = true
			if size != entry {
				t.Fatalf("after truncation store holds %d bytes, want one entry (%d)", size, entry)
			}
		}
		prev = size
	}
	if !dropped {
		t.Fatalf("store never truncated")
	}
}

func TestLogEchoesAndSerialisesRecords(t *testing.T) {
	vol := storage.NewMemVolume()
	var echo bytes.Buffer
	l := newLogger(vol, 4096, &echo)

	line, err := l.Log(Record(map[string]any{"free": 1234, "event": "gc"}))
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if want := stamp + `: {"event":"gc","free":1234}`; line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
	if err := l.Printf("sleeping for %d ms", 120); err != nil {
		t.Fatalf("printf: %v", err)
	}
	want := "{\"event\":\"gc\",\"free\":1234}\nsleeping for 120 ms\n"
	if echo.String() != want {
		t.Fatalf("echo = %q, want %q", echo.String(), want)
	}
}

func TestRecordEncodeFailureFallsBack(t *testing.T) {
	s := Record(map[string]any{"bad": make(chan int)}).String()
	if !strings.Contains(s, "bad") {
		t.Fatalf("fallback rendering = %q", s)
	}
	if Text("plain").String() != "plain" {
		t.Fatalf("text entry mismatch")
	}
}

type failingVolume struct {
	storage.Volume
	err error
}

func (f failingVolume) Append(string, []byte) error { return f.err }

func TestStorageFailurePropagates(t *testing.T) {
	var echo bytes.Buffer
	l := newLogger(failingVolume{Volume: storage.NewMemVolume(), err: errors.New("flash worn")}, 1024, &echo)

	line, err := l.Log(Text("Unexpected error"))
	if err == nil {
		t.Fatalf("expected storage error")
	}
	if errcode.Of(err) != errcode.Error {
		t.Fatalf("code = %q", errcode.Of(err))
	}
	if echo.String() != "Unexpected error\n" {
		t.Fatalf("echo must happen before storage: %q", echo.String())
	}
	if line == "" || l.Last() != line {
		t.Fatalf("line should still be returned and remembered: %q / %q", line, l.Last())
	}
}
