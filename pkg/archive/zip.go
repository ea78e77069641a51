package archive

import (
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// zipArchive walks the central directory in stored order.
type zipArchive struct {
	f      afero.File
	r      *zip.Reader
	mode   Mode
	next   int
	cur    *zip.File
	closed bool
}

func openZip(fsys afero.Fs, path string, mode Mode) (*zipArchive, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := zip.NewReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to create zip reader: %w", err)
	}
	return &zipArchive{f: f, r: r, mode: mode}, nil
}

func (a *zipArchive) ReadHeader() (*Header, error) {
	a.cur = nil
	if a.next >= len(a.r.File) {
		return nil, io.EOF
	}
	a.cur = a.r.File[a.next]
	a.next++

	return &Header{
		Name:         a.cur.Name,
		IsDir:        a.cur.FileInfo().IsDir(),
		UnpackedSize: clampSize(a.cur.UncompressedSize64),
	}, nil
}

func (a *zipArchive) Skip() error {
	if a.cur == nil {
		return errNoEntry
	}
	a.cur = nil
	return nil
}

func (a *zipArchive) Test(fn Callback) error {
	if a.mode != ModeExtract {
		return errListMode
	}
	if a.cur == nil {
		return errNoEntry
	}
	f := a.cur
	a.cur = nil

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	return pump(rc, fn)
}

func (a *zipArchive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.f.Close()
}

// clampSize converts an unsigned declared size to int64.
func clampSize(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
