package album

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"comicsreader/pkg/archive"
	"comicsreader/pkg/logger"
)

// DefaultCacheEntries is the number of archive listings a Library keeps.
const DefaultCacheEntries = 64

// listingKey identifies one version of an archive on disk. A rewritten file
// changes size or mtime and misses the cache.
type listingKey struct {
	path    string
	size    int64
	modTime int64
}

func (k listingKey) String() string {
	return fmt.Sprintf("%s|%d|%d", k.path, k.size, k.modTime)
}

// Library opens albums and remembers their entry lists, so paging through the
// same archive only lists it once. Concurrent opens of one archive share a single
// listing. A Library is safe for concurrent use.
type Library struct {
	reader   *archive.Reader
	exts     []string
	listings *lru.Cache[listingKey, []string]
	group    singleflight.Group
}

// NewLibrary creates a Library reading through r. size bounds the number of cached
// listings; values <= 0 use DefaultCacheEntries.
func NewLibrary(r *archive.Reader, size int, exts []string) (*Library, error) {
	if size <= 0 {
		size = DefaultCacheEntries
	}
	cache, err := lru.New[listingKey, []string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing cache: %w", err)
	}
	return &Library{
		reader:   r,
		exts:     slices.Clone(exts),
		listings: cache,
	}, nil
}

// Open returns the album at path, listing the archive only when it is not cached
// or changed on disk since it was cached.
func (l *Library) Open(path string) (*Album, error) {
	fi, err := l.reader.Fs().Stat(path)
	if err != nil {
		return nil, &archive.Error{Kind: archive.ErrOpen, Code: archive.CodeOf(err), Path: path, Err: err}
	}
	key := listingKey{path: path, size: fi.Size(), modTime: fi.ModTime().UnixNano()}

	if names, ok := l.listings.Get(key); ok {
		logger.Debug("Listing cache hit", "path", path)
		return fromEntries(l.reader, path, names, l.exts)
	}

	v, err, shared := l.group.Do(key.String(), func() (any, error) {
		if names, ok := l.listings.Get(key); ok {
			return names, nil
		}
		names, err := l.reader.List(path)
		if err != nil {
			return nil, err
		}
		l.listings.Add(key, names)
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Listing cache miss", "path", path, "shared", shared)

	names, _ := v.([]string)
	return fromEntries(l.reader, path, names, l.exts)
}

// Len returns the number of cached listings.
func (l *Library) Len() int { return l.listings.Len() }

// Purge drops every cached listing.
func (l *Library) Purge() { l.listings.Purge() }
