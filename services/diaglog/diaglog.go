// Package diaglog is the firmware's diagnostic log: a single size-capped text
// file of "<timestamp>: <message>" lines, echoed to a live console.
//
// When an append would push the file past its cap the whole file is removed
// first. History is not kept.
package diaglog

import (
	"encoding/json"
	"io"

	"datalogger-go/errcode"
	"datalogger-go/services/storage"
	"datalogger-go/x/fmtx"
)

type kind uint8

const (
	kindText kind = iota
	kindRecord
)

// Entry is a log payload: plain text or a structured record.
type Entry struct {
	kind   kind
	text   string
	fields map[string]any
}

// Text makes a plain-text entry.
func Text(s string) Entry { return Entry{kind: kindText, text: s} }

// Record makes a structured entry, serialised as compact JSON with sorted keys.
func Record(fields map[string]any) Entry { return Entry{kind: kindRecord, fields: fields} }

// String renders the entry. A record that cannot be encoded falls back to
// its %v form so the diagnostic is never lost.
func (e Entry) String() string {
	if e.kind == kindText {
		return e.text
	}
	b, err := json.Marshal(e.fields)
	if err != nil {
		return fmtx.Sprint(e.fields)
	}
	return string(b)
}

// Config wires a Logger.
type Config struct {
	Volume   storage.Volume
	Path     string
	MaxBytes int64
	Stamp    func() string // timestamp source, e.g. clock.Sync.NowStamp
	Echo     io.Writer     // live console; nil disables the echo
}

// Logger appends entries to the capped store. Not safe for concurrent use;
// the acquisition loop owns it.
type Logger struct {
	cfg  Config
	last string
}

func New(cfg Config) *Logger {
	return &Logger{cfg: cfg, last: "..."}
}

// Append writes "<timestamp>: <message>" and returns that line. Storage
// errors are returned to the caller.
func (l *Logger) Append(msg string) (string, error) {
	line := l.cfg.Stamp() + ": " + msg
	l.last = line
	rec := []byte(line + "\n")

	size, err := l.cfg.Volume.Size(l.cfg.Path)
	switch {
	case errcode.Of(err) == errcode.NotFound:
		size = 0
	case err != nil:
		return line, errcode.Wrap(errcode.Error, "diaglog.size", err)
	}
	if size > 0 && size+int64(len(rec)) > l.cfg.MaxBytes {
		if err := l.cfg.Volume.Remove(l.cfg.Path); err != nil && errcode.Of(err) != errcode.NotFound {
			return line, errcode.Wrap(errcode.Error, "diaglog.truncate", err)
		}
	}
	if err := l.cfg.Volume.Append(l.cfg.Path, rec); err != nil {
		return line, errcode.Wrap(errcode.Error, "diaglog.append", err)
	}
	return line, nil
}

// Log echoes the rendered entry to the console and appends it.
func (l *Logger) Log(e Entry) (string, error) {
	s := e.String()
	if l.cfg.Echo != nil {
		_, _ = io.WriteString(l.cfg.Echo, s+"\n")
	}
	return l.Append(s)
}

// Printf logs a formatted text entry.
func (l *Logger) Printf(format string, args ...any) error {
	_, err := l.Log(Text(fmtx.Sprintf(format, args...)))
	return err
}

// Last returns the most recent line, whether or not it reached storage.
func (l *Logger) Last() string { return l.last }
