// Package replay provides durable stream resumption for Bayeux-style
// long-polling clients.
//
// Streaming servers that retain an event buffer tag every delivered event
// with a replay id, a server-assigned int64 position in the channel's event
// sequence. A client that remembers the last id it saw per channel can, on
// its next subscribe, ask the server to resume delivery from that position
// instead of losing everything published while it was away. This package
// implements the client half of that contract as a pipeline extension.
//
// # Architecture
//
// The package consists of four main components:
//
// 1. Extension: the pipeline hooks driving negotiation, stamping, and capture
// 2. MarkerStore: concurrent channel-to-marker table with change notification
// 3. ChannelFilter: glob-based selection of which channels are tracked
// 4. Watch hub: buffered, drop-on-overflow change feed for observers
//
// # Negotiation
//
// The extension advertises client support by stamping ext["replay"] = true
// on every outbound handshake. When a handshake reply carries an ext
// "replay" entry, the extension latches "server supported". The latch is
// one-shot for the extension's lifetime: rehandshakes that omit the
// advertisement do not clear it. Until the latch is set, inbound markers
// are ignored; everything else works regardless.
//
// # Marker capture and attachment
//
// Inbound event messages carry their marker at data.event.replayId. On every
// delivery (once the latch is set and the channel passes the filter) the
// extension stores the marker, overwriting unconditionally. There is no
// monotonicity check: the server owns ordering, the client only echoes the
// last marker it saw.
//
// Outbound subscribes are stamped with a snapshot of the whole table:
//
//	{"channel": "/meta/subscribe", "subscription": "/topic/a",
//	 "ext": {"replay": {"/topic/a": 120, "/topic/b": -1}}}
//
// Example usage:
//
//	ext, err := replay.NewExtension(replay.Config{
//		Channels: []string{"/topic/**"},
//		OnMarkerChange: func(channel string, replayID int64) {
//			checkpoints.Save(channel, replayID)
//		},
//	})
//	if err != nil {
//		return err
//	}
//
//	// Restore positions persisted by a previous run, then register the
//	// extension before handshaking so the first subscribe carries them.
//	for channel, marker := range checkpoints.Load() {
//		ext.SetReplayID(channel, marker)
//	}
//	client.AddExtension(ext)
//
// Use ReplayAll (-2) or ReplayNewOnly (-1) as explicit markers when there is
// no stored position to resume from.
//
// # Thread Safety
//
// All operations are safe for concurrent use:
//
//   - MarkerStore is backed by a sharded concurrent map
//   - The capability latch is a single atomic
//   - Watch registration and fan-out are guarded by an RWMutex
//
// Hooks run synchronously on whatever goroutine the host delivers messages
// from and never block: the OnMarkerChange callback is the only user code on
// that path, and watch feeds drop updates rather than wait. Applications may
// call SetReplayID concurrently with a live pipeline; per-channel writes are
// last-writer-wins.
package replay
