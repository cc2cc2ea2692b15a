package nav

// ScrollSync coalesces viewport scrolls during key-repeat bursts. The first
// request in a quiet period is applied immediately and opens a cooldown;
// requests inside the cooldown only record the latest index. When the cooldown
// lapses the latest index is applied once (trailing edge), which opens a new
// cooldown. The selection itself is never delayed, only the scroll.
type ScrollSync struct {
	cooling bool
	pending bool
	target  int
	applied int
	gen     int
}

// NewScrollSync returns an idle ScrollSync
func NewScrollSync() *ScrollSync {
	return &ScrollSync{applied: None, target: None}
}

// Request records index as the latest selection. It returns true when the
// caller should scroll now and schedule Settle(Generation()) after the cooldown.
func (s *ScrollSync) Request(index int) bool {
	s.target = index
	if s.cooling {
		s.pending = true
		return false
	}
	s.cooling = true
	s.pending = false
	s.applied = index
	s.gen++
	return true
}

// Settle ends the cooldown identified by gen. When a newer index arrived during
// the cooldown it is returned with apply=true and a new cooldown begins; the
// caller scrolls and schedules Settle(Generation()) again. Stale generations
// are ignored.
func (s *ScrollSync) Settle(gen int) (index int, apply bool) {
	if gen != s.gen || !s.cooling {
		return None, false
	}
	if s.pending && s.target != s.applied {
		s.pending = false
		s.applied = s.target
		s.gen++
		return s.applied, true
	}
	s.cooling = false
	s.pending = false
	return None, false
}

// Generation identifies the current cooldown
func (s *ScrollSync) Generation() int {
	return s.gen
}

// Applied returns the index the viewport was last scrolled to
func (s *ScrollSync) Applied() int {
	return s.applied
}

// Cooling reports whether a cooldown is open
func (s *ScrollSync) Cooling() bool {
	return s.cooling
}

// Reset drops any open cooldown, invalidating outstanding Settle calls. Used
// when the collection is replaced.
func (s *ScrollSync) Reset() {
	s.cooling = false
	s.pending = false
	s.applied = None
	s.target = None
	s.gen++
}

// CenterOffset returns the first visible line that centers line in a window
// of visible lines over total lines, clamped so the window stays filled.
func CenterOffset(line, total, visible int) int {
	if visible <= 0 || total <= visible {
		return 0
	}
	offset := line - visible/2
	if offset < 0 {
		offset = 0
	}
	if maxOffset := total - visible; offset > maxOffset {
		offset = maxOffset
	}
	return offset
}
