package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// Format identifies an archive container by its leading magic bytes.
type Format int

const (
	FormatUnknown Format = iota
	FormatRAR
	FormatRAR5
	Format7z
	FormatZip
)

func (f Format) String() string {
	switch f {
	case FormatRAR:
		return "rar"
	case FormatRAR5:
		return "rar5"
	case Format7z:
		return "7z"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

var errUnknownFormat = errors.New("archive: unknown format")

// RAR5 must be tested before RAR 1.5: the first six bytes are shared.
var magics = []struct {
	format Format
	magic  []byte
}{
	{FormatRAR5, []byte("Rar!\x1a\x07\x01\x00")},
	{FormatRAR, []byte("Rar!\x1a\x07\x00")},
	{Format7z, []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}},
	{FormatZip, []byte("PK\x03\x04")},
	{FormatZip, []byte("PK\x05\x06")},
}

const magicLen = 8

// Sniff reads the leading bytes of r and reports the archive format they announce.
// Short input is FormatUnknown, not an error.
func Sniff(r io.Reader) (Format, error) {
	buf := make([]byte, magicLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("unable to read magic bytes: %w", err)
	}
	buf = buf[:n]

	for _, m := range magics {
		if bytes.HasPrefix(buf, m.magic) {
			return m.format, nil
		}
	}
	return FormatUnknown, nil
}

// SniffFile sniffs the file at path.
func SniffFile(fsys afero.Fs, path string) (Format, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()
	return Sniff(f)
}

// IsValid reports whether path is a readable regular file holding a supported archive.
func IsValid(fsys afero.Fs, path string) bool {
	st, err := fsys.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return false
	}
	format, err := SniffFile(fsys, path)
	return err == nil && format != FormatUnknown
}
