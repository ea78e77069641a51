package album

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/MunifTanjim/go-ptt"

	"comicsreader/pkg/archive"
	"comicsreader/pkg/logger"
)

var (
	// ErrNoPages is returned when an archive holds no image entry.
	ErrNoPages = errors.New("album: no pages")
	// ErrPageRange is returned by Page for an index outside [0, Len()).
	ErrPageRange = errors.New("album: page out of range")
)

// Album is a comic book archive reduced to its pages in reading order.
type Album struct {
	path   string
	reader *archive.Reader
	pages  []string
}

// Open lists the archive at p through r and keeps the entries whose extension is
// one of exts, sorted in natural order.
func Open(r *archive.Reader, p string, exts []string) (*Album, error) {
	names, err := r.List(p)
	if err != nil {
		return nil, err
	}
	return fromEntries(r, p, names, exts)
}

func fromEntries(r *archive.Reader, p string, names []string, exts []string) (*Album, error) {
	pages := FilterImages(names, exts)
	if len(pages) == 0 {
		logger.Debug("Archive has no pages", "path", p, "entries", len(names))
		return nil, fmt.Errorf("%s: %w", p, ErrNoPages)
	}
	SortNatural(pages)
	return &Album{path: p, reader: r, pages: pages}, nil
}

// FilterImages returns the names whose extension matches one of exts, ignoring
// case. Extensions may be given with or without the leading dot.
func FilterImages(names []string, exts []string) []string {
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = struct{}{}
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := allowed[strings.ToLower(path.Ext(n))]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Path returns the archive path the album was opened from.
func (a *Album) Path() string { return a.path }

// Name is the archive file name without directory and extension.
func (a *Album) Name() string {
	base := path.Base(strings.ReplaceAll(a.path, "\\", "/"))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Title is Name cleaned of release noise such as year and group tags.
func (a *Album) Title() string {
	name := a.Name()
	if title := strings.TrimSpace(ptt.Parse(name).Title); title != "" {
		return title
	}
	return name
}

// Len returns the number of pages.
func (a *Album) Len() int { return len(a.pages) }

// Pages returns a copy of the page entry names in reading order.
func (a *Album) Pages() []string {
	return append([]string(nil), a.pages...)
}

// PageName returns the archive entry behind page i.
func (a *Album) PageName(i int) (string, error) {
	if i < 0 || i >= len(a.pages) {
		return "", fmt.Errorf("%w: %d of %d", ErrPageRange, i, len(a.pages))
	}
	return a.pages[i], nil
}

// Page extracts the image bytes of page i.
func (a *Album) Page(i int) ([]byte, error) {
	name, err := a.PageName(i)
	if err != nil {
		return nil, err
	}
	return a.reader.Extract(a.path, name)
}
