package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_Validate(t *testing.T) {
	tests := []struct {
		name      string
		env       Envelope
		expectErr bool
	}{
		{
			name: "message with content",
			env:  Envelope{Kind: KindMessage, RoomID: "r1", SenderID: "u1", Content: "hi"},
		},
		{
			name:      "message without content",
			env:       Envelope{Kind: KindMessage, RoomID: "r1", SenderID: "u1"},
			expectErr: true,
		},
		{
			name: "join without content",
			env:  Envelope{Kind: KindJoin, RoomID: "r1", SenderID: "u1"},
		},
		{
			name:      "join with content",
			env:       Envelope{Kind: KindJoin, RoomID: "r1", SenderID: "u1", Content: "hi"},
			expectErr: true,
		},
		{
			name:      "leave with content",
			env:       Envelope{Kind: KindLeave, RoomID: "r1", SenderID: "u1", Content: "bye"},
			expectErr: true,
		},
		{
			name: "typing without content",
			env:  Envelope{Kind: KindTyping, RoomID: "r1", SenderID: "u1"},
		},
		{
			name: "typing with content",
			env:  Envelope{Kind: KindTyping, RoomID: "r1", SenderID: "u1", Content: "..."},
		},
		{
			name:      "unknown kind",
			env:       Envelope{Kind: "presence", RoomID: "r1", SenderID: "u1"},
			expectErr: true,
		},
		{
			name:      "empty kind",
			env:       Envelope{RoomID: "r1", SenderID: "u1"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.env.Validate()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvelope_WireShape(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	env := Envelope{
		Kind:       KindMessage,
		RoomID:     "proj-42",
		SenderID:   "U1",
		SenderName: "Alice",
		SenderRole: "customer",
		Content:    "hello",
		Timestamp:  ts,
	}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "message", raw["kind"])
	assert.Equal(t, "proj-42", raw["roomId"])
	assert.Equal(t, "U1", raw["senderId"])
	assert.Equal(t, "Alice", raw["senderName"])
	assert.Equal(t, "customer", raw["senderRole"])
	assert.Equal(t, "hello", raw["content"])

	// Timestamps go over the wire as RFC 3339 text.
	parsed, err := time.Parse(time.RFC3339, raw["timestamp"].(string))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}

func TestEnvelope_ContentOmittedWhenEmpty(t *testing.T) {
	env := Envelope{Kind: KindJoin, RoomID: "r1", SenderID: "u1", Timestamp: time.Now().UTC()}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	_, present := raw["content"]
	assert.False(t, present)
}
