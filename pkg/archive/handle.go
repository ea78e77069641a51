package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"comicsreader/pkg/logger"
)

// Mode selects what an opened archive may do.
type Mode int

const (
	// ModeList reads headers only. Test always fails.
	ModeList Mode = iota
	// ModeExtract enables decompression through Test.
	ModeExtract
)

func (m Mode) String() string {
	if m == ModeExtract {
		return "extract"
	}
	return "list"
}

// Header describes the entry the header loop is positioned on. It is only valid
// until the next ReadHeader call.
type Header struct {
	Name  string
	IsDir bool
	// UnpackedSize is the size declared by the archive. It sizes buffers and is
	// never trusted as the exact number of bytes the decoder will produce.
	UnpackedSize int64
	// UnknownSize is set when the archive does not record the size. UnpackedSize
	// is zero then and must not be read as an empty entry.
	UnknownSize bool
}

// Callback receives decompressed bytes. The chunk is only valid during the call.
type Callback func(chunk []byte)

// Archive is an open archive driven one header at a time. After every successful
// ReadHeader the caller must either Skip or Test the entry before reading the next
// header. ReadHeader returns io.EOF once the archive is exhausted.
//
// An Archive is not safe for concurrent use.
type Archive interface {
	ReadHeader() (*Header, error)
	Skip() error
	Test(fn Callback) error
	Close() error
}

var errNoEntry = errors.New("archive: no current entry")

// chunkSize is the size of the buffer handed to a Callback.
const chunkSize = 64 << 10

// Open sniffs the archive format of path and opens it with the matching backend.
// On failure the returned error is an *Error of kind ErrOpen.
func Open(fsys afero.Fs, path string, mode Mode) (Archive, error) {
	format, err := SniffFile(fsys, path)
	if err == nil && format == FormatUnknown {
		err = errUnknownFormat
	}
	if err != nil {
		e := newError(ErrOpen, path, "", err)
		logger.Error(Describe(e.Code, path), "err", err)
		return nil, e
	}

	var a Archive
	switch format {
	case FormatRAR, FormatRAR5:
		a, err = openRar(fsys, path, mode)
	case Format7z:
		a, err = openSevenZip(fsys, path, mode)
	case FormatZip:
		a, err = openZip(fsys, path, mode)
	}
	if err != nil {
		e := newError(ErrOpen, path, "", err)
		logger.Error(Describe(e.Code, path), "format", format, "err", err)
		return nil, e
	}

	logger.Debug("Opened archive", "path", path, "format", format, "mode", mode)
	return a, nil
}

// pump reads r to the end, pushing every chunk to fn.
func pump(r io.Reader, fn Callback) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			fn(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decompress: %w", err)
		}
	}
}

// aferoFS exposes an afero.Fs as an fs.FS without io/fs path validation, so that
// absolute OS paths reach the backend unchanged.
type aferoFS struct {
	fs afero.Fs
}
