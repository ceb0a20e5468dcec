package bayeux

// Session identifies the client session an extension is invoked for. Hosting
// clients typically pass their session object; extensions only need the
// identity for logging and correlation.
type Session interface {
	ID() string
}

// Extension intercepts messages at the four pipeline stages of a client
// session. Hooks run synchronously on the host's delivery context and must
// return quickly; the boolean result reports whether the message should
// continue through the rest of the pipeline (false vetoes it).
//
// Hooks may mutate the message in place. A nil session is legal; hosts that
// do not model sessions pass nil.
type Extension interface {
	// Receive handles an inbound application message.
	Receive(session Session, m *Message) bool

	// ReceiveMeta handles an inbound meta/control message.
	ReceiveMeta(session Session, m *Message) bool

	// Send handles an outbound application message.
	Send(session Session, m *Message) bool

	// SendMeta handles an outbound meta/control message.
	SendMeta(session Session, m *Message) bool
}

// Extensions composes an ordered extension pipeline. Hosts call ApplyIncoming
// on every decoded inbound message and ApplyOutgoing on every outbound
// message before encoding; both route meta and application messages to the
// matching hook of each extension in registration order and stop at the
// first veto.
type Extensions []Extension

// ApplyIncoming runs the receive-side hooks. It reports whether the message
// survived the whole pipeline; a nil message passes through untouched.
func (e Extensions) ApplyIncoming(session Session, m *Message) bool {
	if m == nil {
		return true
	}

	meta := IsMetaChannel(m.Channel)
	for _, ext := range e {
		if meta {
			if !ext.ReceiveMeta(session, m) {
				return false
			}
		} else if !ext.Receive(session, m) {
			return false
		}
	}

	return true
}

// ApplyOutgoing runs the send-side hooks, mirroring ApplyIncoming.
func (e Extensions) ApplyOutgoing(session Session, m *Message) bool {
	if m == nil {
		return true
	}

	meta := IsMetaChannel(m.Channel)
	for _, ext := range e {
		if meta {
			if !ext.SendMeta(session, m) {
				return false
			}
		} else if !ext.Send(session, m) {
			return false
		}
	}

	return true
}
