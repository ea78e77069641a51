package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/javi11/rardecode/v2"
	"github.com/javi11/sevenzip"
	"github.com/klauspost/compress/zip"
)

// Code is a backend status value. The numbering follows the unrar library so that
// diagnostics line up with other RAR tooling.
type Code int

const (
	CodeSuccess         Code = 0
	CodeEndArchive      Code = 10
	CodeNoMemory        Code = 11
	CodeBadData         Code = 12
	CodeBadArchive      Code = 13
	CodeUnknownFormat   Code = 14
	CodeOpen            Code = 15
	CodeCreate          Code = 16
	CodeClose           Code = 17
	CodeRead            Code = 18
	CodeWrite           Code = 19
	CodeSmallBuf        Code = 20
	CodeUnknown         Code = 21
	CodeMissingPassword Code = 22
)

var codeNames = map[Code]string{
	CodeSuccess:         "success",
	CodeEndArchive:      "end of archive",
	CodeNoMemory:        "out of memory",
	CodeBadData:         "bad data",
	CodeBadArchive:      "bad archive",
	CodeUnknownFormat:   "unknown format",
	CodeOpen:            "open failure",
	CodeCreate:          "create failure",
	CodeClose:           "close failure",
	CodeRead:            "read failure",
	CodeWrite:           "write failure",
	CodeSmallBuf:        "buffer too small",
	CodeUnknown:         "unknown error",
	CodeMissingPassword: "missing password",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("unknown error: %d", int(c))
}

// Describe renders the diagnostic logged when an archive cannot be used.
// It never influences control flow.
func Describe(c Code, path string) string {
	return fmt.Sprintf("Unable to open %s, %s", path, c)
}

// Error kinds. Every *Error unwraps to exactly one of them.
var (
	ErrOpen     = errors.New("archive: open failure")
	ErrRead     = errors.New("archive: read failure")
	ErrProcess  = errors.New("archive: process failure")
	ErrNotFound = errors.New("archive: entry not found")
	ErrResource = errors.New("archive: resource failure")
)

// errListMode is returned by Test on a handle opened with ModeList.
var errListMode = errors.New("archive: handle opened in list mode")

// errBad7zHeader marks a 7z archive whose signature matched but whose header
// could not be read. The sevenzip package keeps its own sentinels unexported.
var errBad7zHeader = errors.New("archive: unreadable 7z header")

// Error is the concrete error returned by the package.
type Error struct {
	Kind  error
	Code  Code
	Path  string
	Entry string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Entry != "" {
		msg += " [" + e.Entry + "]"
	}
	if e.Code != CodeSuccess {
		msg += ": " + e.Code.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, path, entry string, err error) *Error {
	return &Error{Kind: kind, Code: CodeOf(err), Path: path, Entry: entry, Err: err}
}

// CodeOf maps a backend error to its status code. A nil error is CodeSuccess.
func CodeOf(err error) Code {
	var ae *Error
	var szErr *sevenzip.ReadError
	switch {
	case err == nil:
		return CodeSuccess
	case errors.As(err, &ae) && ae.Code != CodeSuccess:
		return ae.Code
	case errors.As(err, &szErr) && szErr.Encrypted:
		return CodeMissingPassword
	case errors.Is(err, errBad7zHeader):
		return CodeBadArchive
	case szErr != nil:
		return CodeBadData
	case errors.Is(err, io.EOF):
		return CodeEndArchive
	case errors.Is(err, errUnknownFormat), errors.Is(err, rardecode.ErrNoSig):
		return CodeUnknownFormat
	case errors.Is(err, rardecode.ErrArchiveEncrypted), errors.Is(err, rardecode.ErrArchivedFileEncrypted):
		return CodeMissingPassword
	case errors.Is(err, rardecode.ErrBadFileChecksum), errors.Is(err, rardecode.ErrShortFile),
		errors.Is(err, rardecode.ErrDecoderOutOfData):
		return CodeBadData
	case errors.Is(err, zip.ErrChecksum):
		return CodeBadData
	case errors.Is(err, zip.ErrFormat), errors.Is(err, zip.ErrAlgorithm):
		return CodeBadArchive
	case errors.Is(err, rardecode.ErrBadHeaderCRC), errors.Is(err, rardecode.ErrCorruptBlockHeader),
		errors.Is(err, rardecode.ErrCorruptFileHeader), errors.Is(err, rardecode.ErrUnknownDecoder):
		return CodeBadArchive
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission), errors.Is(err, fs.ErrInvalid):
		return CodeOpen
	case errors.Is(err, io.ErrUnexpectedEOF):
		return CodeRead
	default:
		return CodeUnknown
	}
}
