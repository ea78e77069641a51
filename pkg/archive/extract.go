package archive

import (
	"errors"
	"io"
	"math"

	"comicsreader/pkg/logger"
)

// ExtractEntry decompresses the entry called name from a, which must be open in
// ModeExtract. Names are compared byte for byte. The output is never longer than
// the size the archive declares for the entry.
//
// Outcomes:
//   - a matching entry with a declared size of zero is an empty, successful result;
//   - a matching entry whose size the archive does not record is ErrResource;
//   - no match before the end of the archive is ErrNotFound;
//   - a decoder failure on the match is ErrProcess, and later entries are not tried;
//   - a header read failure is ErrRead.
func ExtractEntry(a Archive, name string) ([]byte, error) {
	return extractEntry(a, name, math.MaxInt64)
}

func extractEntry(a Archive, name string, limit int64) ([]byte, error) {
	for {
		h, err := a.ReadHeader()
		if errors.Is(err, io.EOF) {
			logger.Debug("Entry not found", "entry", name)
			return nil, &Error{Kind: ErrNotFound, Entry: name}
		}
		if err != nil {
			e := newError(ErrRead, "", name, err)
			logger.Error("Unable to read header", "entry", name, "code", e.Code, "err", err)
			return nil, e
		}

		if h.IsDir || h.Name == "" || h.Name != name {
			if err := a.Skip(); err != nil {
				logger.Warn("Unable to skip entry", "entry", h.Name, "code", CodeOf(err), "err", err)
			}
			continue
		}

		return extractCurrent(a, h, limit)
	}
}

func extractCurrent(a Archive, h *Header, limit int64) ([]byte, error) {
	if h.UnknownSize {
		if err := a.Skip(); err != nil {
			logger.Debug("Unable to skip entry", "entry", h.Name, "err", err)
		}
		logger.Error("Entry size unknown, cannot size output buffer", "entry", h.Name)
		return nil, &Error{Kind: ErrResource, Code: CodeSmallBuf, Entry: h.Name}
	}

	if h.UnpackedSize <= 0 {
		if err := a.Skip(); err != nil {
			logger.Debug("Unable to skip empty entry", "entry", h.Name, "err", err)
		}
		return []byte{}, nil
	}

	if h.UnpackedSize > limit || h.UnpackedSize > math.MaxInt {
		logger.Error("Error while allocating entry buffer", "entry", h.Name, "size", h.UnpackedSize, "limit", limit)
		return nil, &Error{Kind: ErrResource, Code: CodeNoMemory, Entry: h.Name}
	}

	sink := NewSink(int(h.UnpackedSize))
	err := a.Test(func(chunk []byte) {
		sink.Append(chunk)
	})
	if err != nil {
		e := newError(ErrProcess, "", h.Name, err)
		logger.Error("Unable to process entry", "entry", h.Name, "code", e.Code, "err", err)
		return nil, e
	}

	if !sink.Full() {
		logger.Warn("Entry shorter than declared size", "entry", h.Name, "declared", sink.Cap(), "written", sink.Len())
	}
	return sink.Bytes(), nil
}
