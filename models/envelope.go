package models

import (
	"fmt"
	"time"
)

// Kind discriminates the envelope variants exchanged with clients. The set
// is closed; anything else is rejected at validation.
type Kind string

const (
	KindMessage Kind = "message"
	KindJoin    Kind = "join"
	KindLeave   Kind = "leave"
	KindTyping  Kind = "typing"
)

// Envelope is the wire-level unit exchanged over a chat connection. Sender
// metadata is denormalized onto every envelope so receivers never need an
// identity lookup, and Timestamp is assigned by the relay, not the client.
type Envelope struct {
	Kind       Kind      `json:"kind"`
	RoomID     string    `json:"roomId"`     // room the envelope belongs to
	SenderID   string    `json:"senderId"`   // ID of the originating participant
	SenderName string    `json:"senderName"` // display name of the sender
	SenderRole string    `json:"senderRole"` // role of the sender (e.g. customer, staff)
	Content    string    `json:"content,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Validate checks the envelope's shape against its kind.
func (e *Envelope) Validate() error {
	switch e.Kind {
	case KindMessage:
		if e.Content == "" {
			return fmt.Errorf("message envelope requires content")
		}
	case KindJoin, KindLeave:
		if e.Content != "" {
			return fmt.Errorf("%s envelope must not carry content", e.Kind)
		}
	case KindTyping:
		// Content is optional for typing notifications.
	default:
		return fmt.Errorf("unknown envelope kind %q", e.Kind)
	}
	return nil
}
