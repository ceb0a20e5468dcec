package bayeux

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpert/rewind/encoding"
)

func TestGetExt(t *testing.T) {
	m := &Message{Channel: "/topic/orders"}

	// Without create, an absent dictionary stays absent.
	assert.Nil(t, m.GetExt(false))
	assert.Nil(t, m.Ext)

	// With create, it is allocated once and then reused.
	ext := m.GetExt(true)
	require.NotNil(t, ext)
	ext["replay"] = true

	again := m.GetExt(false)
	assert.Equal(t, true, again["replay"])
	again = m.GetExt(true)
	assert.Equal(t, true, again["replay"])
}

func TestReplayID(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int64
		ok   bool
	}{
		{"simple event", `{"event":{"replayId":42,"type":"created"},"payload":{"Id":"a"}}`, 42, true},
		{"zero marker", `{"event":{"replayId":0}}`, 0, true},
		{"negative marker", `{"event":{"replayId":-2}}`, -2, true},
		{"beyond float53", `{"event":{"replayId":9007199254740993}}`, 9007199254740993, true},
		{"max int64", `{"event":{"replayId":9223372036854775807}}`, 9223372036854775807, true},
		{"missing replayId", `{"event":{"type":"created"}}`, 0, false},
		{"null replayId", `{"event":{"replayId":null}}`, 0, false},
		{"bool replayId", `{"event":{"replayId":true}}`, 0, false},
		{"fractional replayId", `{"event":{"replayId":1.5}}`, 0, false},
		{"missing event", `{"payload":{"Id":"a"}}`, 0, false},
		{"event not object", `{"event":17}`, 0, false},
		{"data not object", `"plain"`, 0, false},
		{"null data", `null`, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &Message{Channel: "/topic/orders", Data: json.RawMessage(tc.data)}
			got, ok := m.ReplayID()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReplayID_NoData(t *testing.T) {
	m := &Message{Channel: MetaConnect}
	got, ok := m.ReplayID()
	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestMessageSerialization(t *testing.T) {
	m := &Message{
		Channel:      MetaSubscribe,
		ID:           "7",
		ClientID:     "client-1",
		Subscription: "/topic/orders",
		Ext: map[string]any{
			"replay": map[string]int64{"/topic/orders": 120},
		},
	}

	data, err := encoding.Marshal(m)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, encoding.Unmarshal(data, &decoded))

	assert.Equal(t, m.Channel, decoded.Channel)
	assert.Equal(t, m.ID, decoded.ID)
	assert.Equal(t, m.ClientID, decoded.ClientID)
	assert.Equal(t, m.Subscription, decoded.Subscription)

	replay, ok := decoded.Ext["replay"].(map[string]any)
	require.True(t, ok)
	marker, ok := encoding.Int64(replay["/topic/orders"])
	require.True(t, ok)
	assert.Equal(t, int64(120), marker)
}

func TestMessageSerialization_OmitsEmptyFields(t *testing.T) {
	data, err := encoding.Marshal(&Message{Channel: MetaConnect})
	require.NoError(t, err)
	assert.Equal(t, `{"channel":"/meta/connect"}`, string(data))
}
