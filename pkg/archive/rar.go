package archive

import (
	"fmt"
	"io/fs"

	"github.com/javi11/rardecode/v2"
	"github.com/spf13/afero"

	"comicsreader/pkg/logger"
)

func (a aferoFS) Open(name string) (fs.File, error) {
	return a.fs.Open(name)
}

// rarArchive drives rardecode. Skipping is free: Next discards the packed data of
// an entry that was not read, without decompressing it.
type rarArchive struct {
	rc     *rardecode.ReadCloser
	mode   Mode
	cur    *rardecode.FileHeader
	closed bool
}

func openRar(fsys afero.Fs, path string, mode Mode) (*rarArchive, error) {
	rc, err := rardecode.OpenReader(path, rardecode.FileSystem(aferoFS{fs: fsys}))
	if err != nil {
		return nil, fmt.Errorf("open rar %s: %w", path, err)
	}
	return &rarArchive{rc: rc, mode: mode}, nil
}

func (a *rarArchive) ReadHeader() (*Header, error) {
	a.cur = nil
	fh, err := a.rc.Next()
	if err != nil {
		return nil, err
	}
	a.cur = fh

	h := &Header{Name: fh.Name, IsDir: fh.IsDir, UnpackedSize: fh.UnPackedSize}
	if fh.UnKnownSize || fh.UnPackedSize < 0 {
		logger.Warn("Entry size not recorded in archive", "entry", fh.Name)
		h.UnpackedSize = 0
		h.UnknownSize = true
	}
	return h, nil
}

func (a *rarArchive) Skip() error {
	if a.cur == nil {
		return errNoEntry
	}
	a.cur = nil
	return nil
}

func (a *rarArchive) Test(fn Callback) error {
	if a.mode != ModeExtract {
		return errListMode
	}
	if a.cur == nil {
		return errNoEntry
	}
	a.cur = nil
	return pump(a.rc, fn)
}

func (a *rarArchive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.rc.Close()
}
