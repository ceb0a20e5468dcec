package replay

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// MarkerStore holds the per-channel resumption markers of one client
// session. Writes are last-writer-wins with no monotonicity enforcement: a
// late-arriving smaller marker silently overwrites a larger one.
type MarkerStore struct {
	markers  *xsync.MapOf[string, int64]
	onChange func(channel string, replayID int64)
}

// NewMarkerStore creates an empty store. onChange, when non-nil, is invoked
// synchronously on the writer's goroutine after every Set commits, with the
// exact pair just stored.
func NewMarkerStore(onChange func(channel string, replayID int64)) *MarkerStore {
	return &MarkerStore{
		markers:  xsync.NewMapOf[string, int64](),
		onChange: onChange,
	}
}

// Get returns the marker stored for channel. No side effects.
func (s *MarkerStore) Get(channel string) (int64, bool) {
	return s.markers.Load(channel)
}

// Set stores the marker for channel unconditionally, then notifies the
// change hook before returning. A slow hook delays this caller, nobody else.
func (s *MarkerStore) Set(channel string, replayID int64) {
	s.markers.Store(channel, replayID)

	if s.onChange != nil {
		s.onChange(channel, replayID)
	}
}

// Snapshot copies the current contents. Iteration is weakly consistent:
// entries written concurrently with the copy may or may not appear.
func (s *MarkerStore) Snapshot() map[string]int64 {
	snapshot := make(map[string]int64, s.markers.Size())
	s.markers.Range(func(channel string, replayID int64) bool {
		snapshot[channel] = replayID
		return true
	})

	return snapshot
}

// Forget drops the marker for channel, reporting whether one was present.
// No change notification fires.
func (s *MarkerStore) Forget(channel string) bool {
	_, present := s.markers.LoadAndDelete(channel)
	return present
}

// Len returns the number of tracked channels.
func (s *MarkerStore) Len() int {
	return s.markers.Size()
}
