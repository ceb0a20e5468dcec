package bayeux

import "strings"

// Well-known meta channels of the protocol's control plane. Negotiation and
// marker attachment match these exactly.
const (
	MetaHandshake   = "/meta/handshake"
	MetaConnect     = "/meta/connect"
	MetaSubscribe   = "/meta/subscribe"
	MetaUnsubscribe = "/meta/unsubscribe"
	MetaDisconnect  = "/meta/disconnect"
)

const (
	metaPrefix    = "/meta/"
	servicePrefix = "/service/"
)

// IsMetaChannel reports whether ch belongs to the /meta/ control plane.
func IsMetaChannel(ch string) bool {
	return strings.HasPrefix(ch, metaPrefix)
}

// IsServiceChannel reports whether ch is a /service/ request channel.
// Service messages travel through the application hooks, not the meta hooks.
func IsServiceChannel(ch string) bool {
	return strings.HasPrefix(ch, servicePrefix)
}
