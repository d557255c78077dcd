package domain

// Entry maps a route path to the local file that serves it.
type Entry struct {
	Route string
	Local string
}

// FileSet is an ordered route -> local file mapping with unique routes.
// Its order is the concatenation order of a bundle.
type FileSet struct {
	entries []Entry
	index   map[string]int
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]int)}
}

// Add appends an entry unless the route is already present.
// It reports whether the entry was added.
func (s *FileSet) Add(route, local string) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[route]; ok {
		return false
	}
	s.index[route] = len(s.entries)
	s.entries = append(s.entries, Entry{Route: route, Local: local})
	return true
}

// Entries returns the entries in order.
func (s *FileSet) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Routes returns the route paths in order.
func (s *FileSet) Routes() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Route
	}
	return out
}

// Locals returns the local file paths in order.
func (s *FileSet) Locals() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Local
	}
	return out
}

// Lookup returns the local file for a route.
func (s *FileSet) Lookup(route string) (string, bool) {
	i, ok := s.index[route]
	if !ok {
		return "", false
	}
	return s.entries[i].Local, true
}

// Len returns the number of entries.
func (s *FileSet) Len() int {
	return len(s.entries)
}
