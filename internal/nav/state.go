package nav

// None marks an absent selection or playing index
const None = -1

// NavigationState is the authoritative selection of one collection. Selected
// is valid whenever Length > 0 and None otherwise. Playing is independent of
// Selected and is None when nothing is playing.
type NavigationState struct {
	Selected int
	Playing  int
	Length   int
}

// NewNavigationState returns an empty state
func NewNavigationState() NavigationState {
	return NavigationState{Selected: None, Playing: None}
}

// Reset replaces the collection size. Selection lands on the first item and
// playing is cleared.
func (s *NavigationState) Reset(length int) {
	if length < 0 {
		length = 0
	}
	s.Length = length
	s.Playing = None
	s.Selected = None
	if length > 0 {
		s.Selected = 0
	}
}

// Valid reports whether i addresses an item
func (s NavigationState) Valid(i int) bool {
	return i >= 0 && i < s.Length
}

// SetSelected moves the selection. Out of range indexes are ignored.
func (s *NavigationState) SetSelected(i int) bool {
	if !s.Valid(i) {
		return false
	}
	s.Selected = i
	return true
}

// SetPlaying marks i as playing; None clears it. Other out of range values are ignored.
func (s *NavigationState) SetPlaying(i int) bool {
	if i != None && !s.Valid(i) {
		return false
	}
	s.Playing = i
	return true
}

// IsSelected reports whether i is the selected item
func (s NavigationState) IsSelected(i int) bool {
	return s.Length > 0 && i == s.Selected
}

// IsPlaying reports whether i is the playing item
func (s NavigationState) IsPlaying(i int) bool {
	return s.Playing != None && i == s.Playing
}
