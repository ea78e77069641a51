package archive

import (
	"errors"

	"github.com/spf13/afero"

	"comicsreader/pkg/logger"
)

// DefaultMaxEntrySize bounds the buffer allocated for one extracted entry.
const DefaultMaxEntrySize int64 = 256 << 20

type openFunc func(fsys afero.Fs, path string, mode Mode) (Archive, error)

// Reader runs list and extract calls against archives on a filesystem. Every call
// opens, drives and closes its own handle, so a Reader is safe for concurrent use.
type Reader struct {
	fs           afero.Fs
	maxEntrySize int64
	open         openFunc
}

// Option configures a Reader.
type Option func(*Reader)

// WithFs reads archives from fsys instead of the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(r *Reader) {
		if fsys != nil {
			r.fs = fsys
		}
	}
}

// WithMaxEntrySize caps the declared size Extract is willing to allocate.
// Larger entries fail with ErrResource.
func WithMaxEntrySize(n int64) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxEntrySize = n
		}
	}
}

// New creates a Reader.
func New(opts ...Option) *Reader {
	r := &Reader{
		fs:           afero.NewOsFs(),
		maxEntrySize: DefaultMaxEntrySize,
		open:         Open,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fs returns the filesystem archives are read from.
func (r *Reader) Fs() afero.Fs { return r.fs }

// List returns the names of all non-directory entries of the archive at path in
// archive order. An archive without such entries yields an empty slice.
func (r *Reader) List(path string) ([]string, error) {
	a, err := r.open(r.fs, path, ModeList)
	if err != nil {
		return nil, err
	}
	defer r.close(a, path)

	names, err := ListEntries(a)
	return names, withPath(err, path)
}

// Extract returns the decompressed bytes of entry from the archive at path.
func (r *Reader) Extract(path, entry string) ([]byte, error) {
	a, err := r.open(r.fs, path, ModeExtract)
	if err != nil {
		return nil, err
	}
	defer r.close(a, path)

	data, err := extractEntry(a, entry, r.maxEntrySize)
	return data, withPath(err, path)
}

func (r *Reader) close(a Archive, path string) {
	if err := a.Close(); err != nil {
		logger.Warn("Unable to close archive", "path", path, "code", CodeClose, "err", err)
	}
}

func withPath(err error, path string) error {
	var e *Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}

var std = New()

// List lists the archive at path on the OS filesystem.
func List(path string) ([]string, error) {
	return std.List(path)
}

// Extract extracts entry from the archive at path on the OS filesystem.
func Extract(path, entry string) ([]byte, error) {
	return std.Extract(path, entry)
}
