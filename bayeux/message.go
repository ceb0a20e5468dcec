// Package bayeux models the messages and extension points of a Bayeux-style
// long-polling pub/sub protocol, as seen from a client extension.
//
// The package deliberately stops at the interface boundary: it defines the
// message shape the transport exchanges and the four-stage hook contract a
// hosting client drives, but implements no transport, handshake state
// machine, or subscription management of its own.
package bayeux

import (
	"encoding/json"

	"github.com/maxpert/rewind/encoding"
)

// Message is a single protocol message. It is externally owned and mutable:
// the hosting client builds outbound messages and decodes inbound ones, and
// extensions annotate them in place (typically via the Ext map).
type Message struct {
	Channel      string          `json:"channel"`
	ID           string          `json:"id,omitempty"`
	ClientID     string          `json:"clientId,omitempty"`
	Subscription string          `json:"subscription,omitempty"`
	Successful   *bool           `json:"successful,omitempty"`
	Error        string          `json:"error,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
	Advice       json.RawMessage `json:"advice,omitempty"`
	Ext          map[string]any  `json:"ext,omitempty"`
}

// GetExt returns the message's extension-metadata dictionary. With create
// set, an absent dictionary is allocated and attached first; otherwise nil is
// returned for messages that carry none.
func (m *Message) GetExt(create bool) map[string]any {
	if m.Ext == nil && create {
		m.Ext = make(map[string]any)
	}
	return m.Ext
}

// eventEnvelope mirrors the nested payload shape of event deliveries:
//
//	{"data": {"event": {"replayId": 42, ...}, ...}}
type eventEnvelope struct {
	Event struct {
		ReplayID json.Number `json:"replayId"`
	} `json:"event"`
}

// ReplayID extracts the resumption marker embedded in the message's event
// payload. The second return value reports presence: a missing, null, or
// differently-shaped payload and a non-integer marker all yield false.
// Absence is a normal outcome for control responses and foreign payloads,
// never an error.
func (m *Message) ReplayID() (int64, bool) {
	if len(m.Data) == 0 {
		return 0, false
	}

	var env eventEnvelope
	if err := encoding.Unmarshal(m.Data, &env); err != nil {
		return 0, false
	}

	return encoding.Int64(env.Event.ReplayID)
}
