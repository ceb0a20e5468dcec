package replay

import (
	"sync"
	"sync/atomic"

	"github.com/maxpert/rewind/telemetry"
)

// defaultWatchBufferSize is the buffer size for marker update channels.
// Sized to absorb typical delivery bursts while keeping memory low.
// Watchers that can't keep up will have updates dropped (non-blocking send).
const defaultWatchBufferSize = 16

// MarkerUpdate is a single observed marker change.
type MarkerUpdate struct {
	Channel  string
	ReplayID int64
}

// watcher represents a single Watch registration.
type watcher struct {
	id       uint64
	channels []string
	ch       chan MarkerUpdate
	closed   atomic.Bool
}

// matches checks if the channel is covered by this watcher's filter.
func (w *watcher) matches(channel string) bool {
	// nil or empty = all channels
	if len(w.channels) == 0 {
		return true
	}

	for _, c := range w.channels {
		if c == channel {
			return true
		}
	}
	return false
}

// close closes the watcher channel if not already closed.
func (w *watcher) close() {
	if w.closed.CompareAndSwap(false, true) {
		close(w.ch)
	}
}

// watchHub fans marker changes out to registered watchers.
// Thread-safe; publish never blocks on a slow watcher.
type watchHub struct {
	mu       sync.RWMutex
	watchers map[uint64]*watcher
	nextID   atomic.Uint64
}

// newWatchHub creates an empty hub.
func newWatchHub() *watchHub {
	return &watchHub{
		watchers: make(map[uint64]*watcher),
	}
}

// publish sends an update to all matching watchers (non-blocking).
func (h *watchHub) publish(channel string, replayID int64) {
	update := MarkerUpdate{
		Channel:  channel,
		ReplayID: replayID,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, w := range h.watchers {
		if !w.matches(channel) {
			continue
		}

		// Non-blocking send - drop if buffer full
		select {
		case w.ch <- update:
		default:
			telemetry.WatchDropsTotal.Inc()
		}
	}
}

// subscribe registers a watcher and returns the update channel and cancel function.
// The returned channel is buffered. If the watcher cannot keep up with the update
// rate, updates will be dropped silently by publish(). The cancel function is
// idempotent.
func (h *watchHub) subscribe(channels []string) (<-chan MarkerUpdate, func()) {
	w := &watcher{
		id:       h.nextID.Add(1),
		channels: channels,
		ch:       make(chan MarkerUpdate, defaultWatchBufferSize),
	}

	h.mu.Lock()
	h.watchers[w.id] = w
	h.mu.Unlock()

	cancel := func() {
		h.unsubscribe(w.id)
	}

	return w.ch, cancel
}

// unsubscribe removes a watcher and closes its channel.
func (h *watchHub) unsubscribe(id uint64) {
	h.mu.Lock()
	w, ok := h.watchers[id]
	if ok {
		delete(h.watchers, id)
	}
	h.mu.Unlock()

	if ok {
		w.close()
	}
}
