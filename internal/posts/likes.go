package posts

// LikeSet is the per-view, in-memory overlay of "liked" marks for the
// current session. It is never persisted and resets when the process
// restarts. The set is confined to a single view's lifetime, so no locking
// is needed.
type LikeSet struct {
	ids map[string]struct{}
}

func NewLikeSet() *LikeSet {
	return &LikeSet{ids: make(map[string]struct{})}
}

// Toggle flips membership for id and returns the resulting state. Toggling
// an id that was never seen simply adds it. Distinct ids never interfere.
func (s *LikeSet) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Liked reports whether id is currently marked.
func (s *LikeSet) Liked(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of marked posts.
func (s *LikeSet) Len() int {
	return len(s.ids)
}
