package platform

import (
	"os"
	"strings"

	"tinygo.org/x/tinyfs"

	"datalogger-go/errcode"
)

// FSVolume exposes a mounted tinyfs filesystem as a storage.Volume. Paths
// under Prefix ("/sd" for the card) are mapped to the filesystem root.
type FSVolume struct {
	FS     tinyfs.Filesystem
	Prefix string
}

func (v *FSVolume) local(path string) (string, error) {
	p := path
	if v.Prefix != "" {
		if !strings.HasPrefix(p, v.Prefix+"/") {
			return "", &errcode.E{C: errcode.InvalidRecord, Op: "fsvolume", Msg: "outside " + v.Prefix}
		}
		p = strings.TrimPrefix(p, v.Prefix)
	}
	if p == "" || p == "/" {
		return "", &errcode.E{C: errcode.InvalidRecord, Op: "fsvolume", Msg: "empty path"}
	}
	return p, nil
}

func (v *FSVolume) Append(path string, p []byte) error {
	name, err := v.local(path)
	if err != nil {
		return err
	}
	f, err := v.FS.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
	if err != nil {
		return errcode.Wrap(errcode.Error, "fsvolume.open", err)
	}
	if _, err := f.Write(p); err != nil {
		f.Close()
		return errcode.Wrap(errcode.Error, "fsvolume.write", err)
	}
	return f.Close()
}

// Size reports not_found for any stat failure; the filesystems do not
// distinguish a missing entry in a portable way. A real fault resurfaces on
// the next Append.
func (v *FSVolume) Size(path string) (int64, error) {
	name, err := v.local(path)
	if err != nil {
		return 0, err
	}
	fi, err := v.FS.Stat(name)
	if err != nil {
		return 0, errcode.NotFound
	}
	return fi.Size(), nil
}

func (v *FSVolume) Remove(path string) error {
	name, err := v.local(path)
	if err != nil {
		return err
	}
	if _, err := v.FS.Stat(name); err != nil {
		return errcode.NotFound
	}
	return v.FS.Remove(name)
}
