package archive

// Strings is an ordered, append-only collection of entry names built while
// scanning headers. Empty names are dropped; duplicates are kept.
type Strings struct {
	items []string
}

// Add appends s and reports whether it was kept.
func (s *Strings) Add(str string) bool {
	if str == "" {
		return false
	}
	s.items = append(s.items, str)
	return true
}

func (s *Strings) Len() int { return len(s.items) }

// Items hands the collected names to the caller. The result is never nil.
func (s *Strings) Items() []string {
	if s.items == nil {
		return []string{}
	}
	return s.items
}
