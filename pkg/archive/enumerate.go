package archive

import (
	"errors"
	"io"

	"comicsreader/pkg/logger"
)

// ListEntries collects the names of every non-directory entry of a, in archive
// order, without decompressing anything.
//
// A header read error stops the scan: past that point the stream position can no
// longer be trusted. The names gathered so far are returned along with an ErrRead
// error. A failed Skip is only logged.
func ListEntries(a Archive) ([]string, error) {
	var names Strings

	for {
		h, err := a.ReadHeader()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			e := newError(ErrRead, "", "", err)
			logger.Error("Unable to read header", "code", e.Code, "after", names.Len(), "err", err)
			return names.Items(), e
		}

		if !h.IsDir && !names.Add(h.Name) {
			logger.Debug("Dropping entry without name", "index", names.Len())
		}

		if err := a.Skip(); err != nil {
			logger.Error("Unable to process entry", "entry", h.Name, "code", CodeOf(err), "err", err)
		}
	}

	logger.Debug("Listed archive", "entries", names.Len())
	return names.Items(), nil
}
