package caption

import (
	"sort"
	"sync"
)

// Timeline is the ordered sequence of captions for one video, kept in
// non-decreasing start-time order after structural mutations. Manual
// timing edits may introduce overlap; the store does not forbid it.
type Timeline []Caption

// NewTimeline builds a default-styled timeline from raw spans.
func NewTimeline(spans []Span) Timeline {
	tl := make(Timeline, 0, len(spans))
	for _, s := range spans {
		tl = append(tl, New(s))
	}
	sortByStart(tl)
	return tl
}

// Store is the authoritative holder of the timeline plus the UI
// selection cursor. Every mutation replaces the timeline wholesale
// with a new slice, so a snapshot handed to a render pass never
// observes a half-applied edit.
type Store struct {
	mu       sync.RWMutex
	timeline Timeline
	selected string
}

func NewStore() *Store {
	return &Store{}
}

// ReplaceAll discards all prior captions and the selection. Used on
// new video upload and fresh caption generation.
func (s *Store) ReplaceAll(tl Timeline) {
	next := make(Timeline, len(tl))
	copy(next, tl)
	sortByStart(next)

	s.mu.Lock()
	s.timeline = next
	s.selected = ""
	s.mu.Unlock()
}

// Snapshot returns the current timeline. Callers must treat it as
// immutable; the store never modifies a slice it has handed out.
func (s *Store) Snapshot() Timeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline
}

// Len reports the number of captions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.timeline)
}

// Get looks a caption up by id.
func (s *Store) Get(id string) (Caption, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.timeline {
		if c.ID == id {
			return c, true
		}
	}
	return Caption{}, false
}

// Select moves the selection cursor. An empty id or an id not present
// in the timeline clears it.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selected = ""
		return
	}
	for _, c := range s.timeline {
		if c.ID == id {
			s.selected = id
			return
		}
	}
	s.selected = ""
}

// Selected returns the currently selected caption, if any.
func (s *Store) Selected() (Caption, bool) {
	s.mu.RLock()
	id := s.selected
	s.mu.RUnlock()
	if id == "" {
		return Caption{}, false
	}
	return s.Get(id)
}

// replace swaps the timeline for a new snapshot built by fn from the
// current one. fn must not modify its argument.
func (s *Store) replace(fn func(Timeline) Timeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeline = fn(s.timeline)
}

func sortByStart(tl Timeline) {
	sort.SliceStable(tl, func(i, j int) bool {
		return tl[i].StartTime < tl[j].StartTime
	})
}
