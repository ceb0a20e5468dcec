package replay

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maxpert/rewind/bayeux"
	"github.com/maxpert/rewind/telemetry"
)

// Marker sentinels understood by the server. Values at or above zero resume
// delivery strictly after the event carrying that marker. The client never
// fabricates markers other than these two sentinels.
const (
	// ReplayAll requests every event still inside the server's retention window.
	ReplayAll int64 = -2

	// ReplayNewOnly requests only events newer than the subscription itself.
	ReplayNewOnly int64 = -1
)

// extField is the ext dictionary key carrying replay data in both directions:
// a boolean advertisement on handshakes, a channel-to-marker map on
// subscribes, and the server's capability confirmation on handshake replies.
const extField = "replay"

// State represents the capability negotiation state of an extension.
type State int32

const (
	StateUninitialized State = iota
	StateCapabilityUnknown
	StateCapabilityConfirmed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateCapabilityUnknown:
		return "CAPABILITY_UNKNOWN"
	case StateCapabilityConfirmed:
		return "CAPABILITY_CONFIRMED"
	default:
		return "UNKNOWN"
	}
}

// Config holds the construction parameters for an Extension.
type Config struct {
	// Channels restricts which channels' inbound markers are tracked, as
	// glob patterns with '/' separating segments ("/topic/*", "/orders/**").
	// Empty tracks every channel. Explicit SetReplayID calls bypass the
	// filter.
	Channels []string

	// OnMarkerChange, when set, is invoked synchronously on every marker
	// update with the pair just stored. It runs on the updater's goroutine,
	// a pipeline hook or an application SetReplayID call, and must return
	// quickly; durability of markers is entirely the application's business.
	OnMarkerChange func(channel string, replayID int64)
}

// Extension tracks per-channel replay markers for a Bayeux-style client
// session and negotiates replay support with the server. Wire it into the
// host's extension pipeline; all methods are safe for concurrent use.
type Extension struct {
	store  *MarkerStore
	filter *ChannelFilter
	hub    *watchHub
	state  atomic.Int32

	onMarkerChange func(channel string, replayID int64)
}

var _ bayeux.Extension = (*Extension)(nil)
var _ telemetry.StatsProvider = (*Extension)(nil)

// NewExtension creates an extension from config. It fails only on an
// invalid channel pattern.
func NewExtension(config Config) (*Extension, error) {
	filter, err := NewChannelFilter(config.Channels)
	if err != nil {
		return nil, err
	}

	ext := &Extension{
		filter:         filter,
		hub:            newWatchHub(),
		onMarkerChange: config.OnMarkerChange,
	}
	ext.store = NewMarkerStore(ext.markerChanged)
	ext.state.Store(int32(StateCapabilityUnknown))

	return ext, nil
}

// markerChanged is the store's change hook: application callback first, then
// the watch feed.
func (e *Extension) markerChanged(channel string, replayID int64) {
	if e.onMarkerChange != nil {
		start := time.Now()
		e.onMarkerChange(channel, replayID)
		telemetry.CallbackDurationSeconds.Observe(time.Since(start).Seconds())
	}

	e.hub.publish(channel, replayID)
}

// Receive records the marker carried by an inbound event, subject to the
// capability latch and the tracked-channel filter. Messages without a
// well-formed marker pass through untouched.
func (e *Extension) Receive(_ bayeux.Session, m *bayeux.Message) bool {
	if m == nil {
		return true
	}

	replayID, ok := m.ReplayID()
	if !ok {
		return true
	}

	if m.Channel == "" {
		telemetry.MarkersDroppedTotal.With("malformed").Inc()
		return true
	}

	if e.State() != StateCapabilityConfirmed {
		telemetry.MarkersDroppedTotal.With("unconfirmed").Inc()
		log.Debug().
			Str("channel", m.Channel).
			Int64("replay_id", replayID).
			Msg("Ignoring marker before server confirmed replay support")
		return true
	}

	if !e.filter.Match(m.Channel) {
		telemetry.MarkersDroppedTotal.With("filtered").Inc()
		return true
	}

	e.store.Set(m.Channel, replayID)
	telemetry.MarkerUpdatesTotal.With("event").Inc()
	log.Debug().
		Str("channel", m.Channel).
		Int64("replay_id", replayID).
		Msg("Recorded replay marker")

	return true
}

// ReceiveMeta watches handshake replies for the server's replay capability
// advertisement. The latch is one-shot: once confirmed it never resets, even
// across rehandshakes whose replies omit the advertisement.
func (e *Extension) ReceiveMeta(_ bayeux.Session, m *bayeux.Message) bool {
	if m == nil || m.Channel != bayeux.MetaHandshake {
		return true
	}

	ext := m.GetExt(false)
	if ext == nil {
		return true
	}

	value, present := ext[extField]
	if !present || value == nil {
		return true
	}

	if e.state.CompareAndSwap(int32(StateCapabilityUnknown), int32(StateCapabilityConfirmed)) {
		log.Info().
			Interface("advertised", value).
			Msg("Server confirmed replay support")
	}

	return true
}

// Send passes outbound application messages through untouched.
func (e *Extension) Send(_ bayeux.Session, _ *bayeux.Message) bool {
	return true
}

// SendMeta advertises client support on outbound handshakes and attaches
// the full marker snapshot to outbound subscribes. Both happen regardless
// of latch state: markers seeded before the handshake completes must ride
// the first subscribe of the session.
func (e *Extension) SendMeta(_ bayeux.Session, m *bayeux.Message) bool {
	if m == nil {
		return true
	}

	switch m.Channel {
	case bayeux.MetaHandshake:
		m.GetExt(true)[extField] = true
		telemetry.HandshakesStampedTotal.Inc()
		log.Debug().Msg("Advertised replay support on handshake")

	case bayeux.MetaSubscribe:
		snapshot := e.store.Snapshot()
		m.GetExt(true)[extField] = snapshot
		telemetry.SubscribeSnapshotsTotal.Inc()
		log.Debug().
			Str("subscription", m.Subscription).
			Int("channels", len(snapshot)).
			Bool("supported", e.Supported()).
			Msg("Stamped subscribe with marker snapshot")
	}

	return true
}

// SetReplayID seeds or overrides the marker for channel, bypassing the
// capability latch and the tracked-channel filter. Callable at any time;
// crash-recovering applications call it before the handshake so the first
// subscribe carries the restored positions.
func (e *Extension) SetReplayID(channel string, replayID int64) {
	e.store.Set(channel, replayID)
	telemetry.MarkerUpdatesTotal.With("explicit").Inc()
}

// ReplayID returns the marker currently tracked for channel.
func (e *Extension) ReplayID(channel string) (int64, bool) {
	return e.store.Get(channel)
}

// Snapshot copies the full marker table, typically for persistence at
// shutdown.
func (e *Extension) Snapshot() map[string]int64 {
	return e.store.Snapshot()
}

// Forget drops the marker for channel, reporting whether one was present.
// No callback fires; the next subscribe simply omits the channel.
func (e *Extension) Forget(channel string) bool {
	return e.store.Forget(channel)
}

// Watch streams marker updates for the named channels, or every channel
// when none are given. The feed is best-effort: slow consumers lose updates
// rather than stalling the pipeline. The synchronous OnMarkerChange callback
// remains the lossless path. The cancel function is idempotent.
func (e *Extension) Watch(channels ...string) (<-chan MarkerUpdate, func()) {
	return e.hub.subscribe(channels)
}

// Supported reports whether the server has confirmed replay support.
func (e *Extension) Supported() bool {
	return e.State() == StateCapabilityConfirmed
}

// State returns the current negotiation state.
func (e *Extension) State() State {
	return State(e.state.Load())
}

// ReplayStats implements telemetry.StatsProvider.
func (e *Extension) ReplayStats() (trackedChannels int, serverSupported bool) {
	return e.store.Len(), e.Supported()
}
