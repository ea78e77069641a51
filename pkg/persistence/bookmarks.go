package persistence

import (
	"fmt"
	"sync"
	"time"
)

const bookmarksKey = "bookmarks"

// Bookmark is the reading position saved for one album.
type Bookmark struct {
	Page    int       `json:"page"`
	Pages   int       `json:"pages"`
	Updated time.Time `json:"updated"`
}

// Bookmarks remembers the last page read per album path.
type Bookmarks struct {
	state *StateManager
	mu    sync.Mutex
	now   func() time.Time
}

// NewBookmarks stores bookmarks in state.
func NewBookmarks(state *StateManager) *Bookmarks {
	return &Bookmarks{state: state, now: time.Now}
}

func (b *Bookmarks) all() (map[string]Bookmark, error) {
	marks := make(map[string]Bookmark)
	if _, err := b.state.Get(bookmarksKey, &marks); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}
	if marks == nil {
		marks = make(map[string]Bookmark)
	}
	return marks, nil
}

// Get returns the bookmark saved for album, if any.
func (b *Bookmarks) Get(album string) (Bookmark, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	marks, err := b.all()
	if err != nil {
		return Bookmark{}, false, err
	}
	m, ok := marks[album]
	return m, ok, nil
}

// Set records page (zero based) out of pages as the reading position of album.
func (b *Bookmarks) Set(album string, page, pages int) error {
	if page < 0 || (pages > 0 && page >= pages) {
		return fmt.Errorf("bookmark page %d out of range for %d pages", page, pages)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	marks, err := b.all()
	if err != nil {
		return err
	}
	marks[album] = Bookmark{Page: page, Pages: pages, Updated: b.now().UTC()}
	return b.state.Set(bookmarksKey, marks)
}

// Delete forgets the reading position of album.
func (b *Bookmarks) Delete(album string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	marks, err := b.all()
	if err != nil {
		return err
	}
	if _, ok := marks[album]; !ok {
		return nil
	}
	delete(marks, album)
	return b.state.Set(bookmarksKey, marks)
}
