package archive

import (
	"fmt"
	"io"

	"github.com/javi11/sevenzip"
	"github.com/spf13/afero"
)

// sevenZipArchive walks the 7z file table in stored order. The table is read
// up front, so Skip never touches packed data.
type sevenZipArchive struct {
	f      afero.File
	r      *sevenzip.Reader
	mode   Mode
	next   int
	cur    *sevenzip.File
	closed bool
}

func openSevenZip(fsys afero.Fs, path string, mode Mode) (*sevenZipArchive, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := sevenzip.NewReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open 7z archive: %w: %w", errBad7zHeader, err)
	}
	return &sevenZipArchive{f: f, r: r, mode: mode}, nil
}

func (a *sevenZipArchive) ReadHeader() (*Header, error) {
	a.cur = nil
	if a.next >= len(a.r.File) {
		return nil, io.EOF
	}
	a.cur = a.r.File[a.next]
	a.next++

	return &Header{
		Name:         a.cur.Name,
		IsDir:        a.cur.FileInfo().IsDir(),
		UnpackedSize: clampSize(a.cur.UncompressedSize),
	}, nil
}

func (a *sevenZipArchive) Skip() error {
	if a.cur == nil {
		return errNoEntry
	}
	a.cur = nil
	return nil
}

func (a *sevenZipArchive) Test(fn Callback) error {
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
		return fmt.Errorf("open 7z entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	return pump(rc, fn)
}

func (a *sevenZipArchive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.f.Close()
}
