package relay

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/handyhub/chat-relay/models"
)

var (
	// ErrSessionClosed reports a delivery attempt on a session whose
	// transport handle has been invalidated.
	ErrSessionClosed = errors.New("session closed")

	// ErrSendBufferFull reports a delivery skipped because the peer is not
	// draining its outbound queue.
	ErrSendBufferFull = errors.New("session send buffer full")
)

// Identity is the authenticated tuple resolved by the upgrade collaborator
// before the relay ever sees the connection.
type Identity struct {
	UserID   string
	UserName string
	UserRole string
}

// Session binds one live connection to a fixed identity and room. Identity
// and room never change for the life of the session; switching rooms
// requires a new connection. Membership is keyed by the session id, not the
// user id, so the same user may hold several sessions in one room.
type Session struct {
	id     string
	roomID string
	ident  Identity

	send chan models.Envelope
	done chan struct{}
	once sync.Once
}

func newSession(roomID string, ident Identity, buffer int) *Session {
	return &Session{
		id:     uuid.NewString(),
		roomID: roomID,
		ident:  ident,
		send:   make(chan models.Envelope, buffer),
		done:   make(chan struct{}),
	}
}

func (s *Session) ID() string       { return s.id }
func (s *Session) RoomID() string   { return s.roomID }
func (s *Session) UserID() string   { return s.ident.UserID }
func (s *Session) UserName() string { return s.ident.UserName }
func (s *Session) UserRole() string { return s.ident.UserRole }

// Outbound is the session's delivery queue, drained by the connection's
// write pump.
func (s *Session) Outbound() <-chan models.Envelope { return s.send }

// Done is closed when the session's transport handle is invalidated.
func (s *Session) Done() <-chan struct{} { return s.done }

// deliver queues env for the write pump without blocking. A closed session
// or a full buffer is an error for this member only; the caller decides
// what to do with it.
func (s *Session) deliver(env models.Envelope) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.send <- env:
		return nil
	case <-s.done:
		return ErrSessionClosed
	default:
		return ErrSendBufferFull
	}
}

// close invalidates the transport handle. Safe to call more than once.
func (s *Session) close() {
	s.once.Do(func() { close(s.done) })
}
