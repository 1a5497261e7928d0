// Package storage holds sample records in RAM and flushes them, one batch at
// a time, to day-named CSV files on a removable volume.
//
// A batch is cleared after every flush attempt, successful or not. A failed
// write therefore loses that batch; the failure is reported to the caller.
package storage

import (
	"path"
	"strings"

	"datalogger-go/services/sampler"
)

// Buffer is the in-memory batch. Not safe for concurrent use.
type Buffer struct {
	vol   Volume
	dir   string
	lines []string
	cap   int
}

// NewBuffer creates a Buffer that flushes to <dir>/<YYYY-MM-DD>.csv on vol
// once capacity records are held.
func NewBuffer(vol Volume, dir string, capacity int) *Buffer {
	return &Buffer{vol: vol, dir: dir, cap: capacity, lines: make([]string, 0, capacity)}
}

// Append adds one record line, terminated.
func (b *Buffer) Append(rec sampler.Record) { b.AppendLine(rec.Line() + "\n") }

// AppendLine adds an already serialised, terminated line.
func (b *Buffer) AppendLine(line string) { b.lines = append(b.lines, line) }

func (b *Buffer) Len() int   { return len(b.lines) }
func (b *Buffer) Cap() int   { return b.cap }
func (b *Buffer) Full() bool { return len(b.lines) >= b.cap }

// PathFor derives the daily file for a batch from its first line.
func (b *Buffer) PathFor(first string) (string, error) {
	date, err := sampler.DateOf(first)
	if err != nil {
		return "", err
	}
	return path.Join(b.dir, date+".csv"), nil
}

// FlushResult describes one flush attempt.
type FlushResult struct {
	Path  string
	Lines int
	Bytes int
	Err   error // write (or path) failure; the batch is gone either way
}

// FlushIfNeeded writes the batch when the buffer is at capacity. It reports
// whether a flush was attempted. The buffer is empty afterwards in both the
// success and the failure case.
func (b *Buffer) FlushIfNeeded() (FlushResult, bool) {
	if !b.Full() {
		return FlushResult{}, false
	}
	return b.flush(), true
}

func (b *Buffer) flush() FlushResult {
	res := FlushResult{Lines: len(b.lines)}
	defer b.clear()

	p, err := b.PathFor(b.lines[0])
	if err != nil {
		res.Err = err
		return res
	}
	res.Path = p

	var sb strings.Builder
	for _, l := range b.lines {
		sb.WriteString(l)
	}
	data := sb.String()
	res.Bytes = len(data)
	// One write for the whole batch.
	res.Err = b.vol.Append(p, []byte(data))
	return res
}

func (b *Buffer) clear() {
	for i := range b.lines {
		b.lines[i] = ""
	}
	b.lines = b.lines[:0]
}
