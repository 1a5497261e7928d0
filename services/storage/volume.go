package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"datalogger-go/errcode"
)

// Volume is an append-only text store keyed by absolute slash paths.
// Size reports errcode.NotFound for a missing file.
type Volume interface {
	Append(path string, p []byte) error
	Size(path string) (int64, error)
	Remove(path string) error
}

// DirVolume maps volume paths under a host directory. It backs the host
// simulation; "/sd/2025-03-24.csv" lands in <Root>/sd/2025-03-24.csv.
type DirVolume struct {
	Root string
}

func (v DirVolume) local(path string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimPrefix(path, "/"))
	if clean == "/" {
		return "", &errcode.E{C: errcode.InvalidRecord, Op: "volume", Msg: "empty path"}
	}
	return filepath.Join(v.Root, filepath.FromSlash(clean)), nil
}

func (v DirVolume) Append(path string, p []byte) error {
	name, err := v.local(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (v DirVolume) Size(path string) (int64, error) {
	name, err := v.local(path)
	if err != nil {
		return 0, err
	}
	fi, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, errcode.NotFound
	}
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (v DirVolume) Remove(path string) error {
	name, err := v.local(path)
	if err != nil {
		return err
	}
	err = os.Remove(name)
	if errors.Is(err, fs.ErrNotExist) {
		return errcode.NotFound
	}
	return err
}
