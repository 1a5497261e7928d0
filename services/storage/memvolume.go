package storage

import (
	"sort"
	"sync"

	"datalogger-go/errcode"
)

// MemVolume is a RAM-backed Volume. The host simulation uses it when no
// directory is given.
type MemVolume struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemVolume() *MemVolume { return &MemVolume{files: make(map[string][]byte)} }

func (m *MemVolume) Append(path string, p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append(m.files[path], p...)
	return nil
}

func (m *MemVolume) Size(path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	if !ok {
		return 0, errcode.NotFound
	}
	return int64(len(b)), nil
}

func (m *MemVolume) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		return errcode.NotFound
	}
	delete(m.files, path)
	return nil
}

// Contents returns a copy of the file at path.
func (m *MemVolume) Contents(path string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.files[path]...)
}

// Paths lists stored files in lexical order.
func (m *MemVolume) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
