package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrollSync_LeadingEdge(t *testing.T) {
	s := NewScrollSync()
	assert.True(t, s.Request(3))
	assert.Equal(t, 3, s.Applied())
	assert.True(t, s.Cooling())

	idx, apply := s.Settle(s.Generation())
	assert.False(t, apply)
	assert.Equal(t, None, idx)
	assert.False(t, s.Cooling())
}

func TestScrollSync_BurstAppliesFinalIndexOnce(t *testing.T) {
	s := NewScrollSync()
	assert.True(t, s.Request(0))
	gen := s.Generation()

	for i := 1; i <= 10; i++ {
		assert.False(t, s.Request(i), "request %d inside cooldown", i)
	}
	assert.Equal(t, 0, s.Applied())

	idx, apply := s.Settle(gen)
	assert.True(t, apply)
	assert.Equal(t, 10, idx)
	assert.Equal(t, 10, s.Applied())

	// The trailing apply opened a new cooldown that closes quietly.
	idx, apply = s.Settle(s.Generation())
	assert.False(t, apply)
	assert.Equal(t, None, idx)
	assert.False(t, s.Cooling())
}

func TestScrollSync_ReturnToAppliedIndexSkipsScroll(t *testing.T) {
	s := NewScrollSync()
	s.Request(4)
	s.Request(5)
	s.Request(4)

	_, apply := s.Settle(s.Generation())
	assert.False(t, apply)
}

func TestScrollSync_StaleGenerationIgnored(t *testing.T) {
	s := NewScrollSync()
	s.Request(1)
	old := s.Generation()
	s.Reset()

	_, apply := s.Settle(old)
	assert.False(t, apply)

	assert.True(t, s.Request(2), "reset reopens leading edge")
}

func TestCenterOffset(t *testing.T) {
	assert.Equal(t, 0, CenterOffset(3, 5, 10), "fits")
	assert.Equal(t, 0, CenterOffset(2, 100, 10))
	assert.Equal(t, 45, CenterOffset(50, 100, 10))
	assert.Equal(t, 90, CenterOffset(99, 100, 10))
	assert.Equal(t, 0, CenterOffset(5, 100, 0))
}
