// Package relay implements the in-memory chat relay: room membership
// bookkeeping, session lifecycle with synthesized join/leave envelopes, and
// best-effort fan-out to every member of a room. Everything lives in the
// memory of one process; nothing is persisted.
package relay

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/handyhub/chat-relay/models"
)

// Relay owns the room registry and drives the join/relay/leave sequence for
// every session.
type Relay struct {
	registry *Registry
	buffer   int

	mu       sync.Mutex
	sessions map[string]*Session // live sessions by session id
}

// New builds a Relay whose sessions buffer up to buffer outbound envelopes.
func New(buffer int) *Relay {
	return &Relay{
		registry: NewRegistry(),
		buffer:   buffer,
		sessions: make(map[string]*Session),
	}
}

// Registry exposes the relay's membership bookkeeping.
func (r *Relay) Registry() *Registry { return r.registry }

// Connect creates a session for an already-authenticated identity,
// registers it, and announces it to the room. The join envelope reaches
// every member including the session that just joined, so clients can
// render a consistent membership transcript without a separate roster
// query.
func (r *Relay) Connect(roomID string, ident Identity) *Session {
	s := newSession(roomID, ident, r.buffer)
	r.registry.Register(roomID, s)

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	activeSessions.Inc()
	activeRooms.Set(float64(r.registry.RoomCount()))

	logrus.WithFields(logrus.Fields{
		"sessionID": s.id,
		"userID":    ident.UserID,
		"roomID":    roomID,
	}).Info("session connected")

	r.Broadcast(roomID, models.Envelope{
		Kind:       models.KindJoin,
		RoomID:     roomID,
		SenderID:   ident.UserID,
		SenderName: ident.UserName,
		SenderRole: ident.UserRole,
		Timestamp:  time.Now().UTC(),
	})
	return s
}

// Disconnect tears a session down: deregister, invalidate the transport
// handle, announce the leave to the remaining members. Any trigger may call
// it (clean close, transport error, pong timeout, shutdown); the sequence
// runs exactly once per session and later calls are no-ops.
func (r *Relay) Disconnect(s *Session) {
	r.mu.Lock()
	_, live := r.sessions[s.id]
	delete(r.sessions, s.id)
	r.mu.Unlock()
	if !live {
		return
	}

	r.registry.Deregister(s.roomID, s)
	s.close()

	activeSessions.Dec()
	activeRooms.Set(float64(r.registry.RoomCount()))

	logrus.WithFields(logrus.Fields{
		"sessionID": s.id,
		"userID":    s.ident.UserID,
		"roomID":    s.roomID,
	}).Info("session disconnected")

	// The session is already deregistered, so the leave envelope reaches
	// only the remaining members.
	r.Broadcast(s.roomID, models.Envelope{
		Kind:       models.KindLeave,
		RoomID:     s.roomID,
		SenderID:   s.ident.UserID,
		SenderName: s.ident.UserName,
		SenderRole: s.ident.UserRole,
		Timestamp:  time.Now().UTC(),
	})
}

// HandleInbound validates an envelope read from s's transport and relays it
// to the session's room. Malformed or mismatched envelopes are dropped
// without closing the connection: a stale or buggy client must not be able
// to spoof another sender, and bad input must not become a cheap way to
// kill connections.
func (r *Relay) HandleInbound(s *Session, env models.Envelope) {
	log := logrus.WithFields(logrus.Fields{
		"sessionID": s.id,
		"userID":    s.ident.UserID,
		"roomID":    s.roomID,
	})

	if err := env.Validate(); err != nil {
		envelopesDropped.WithLabelValues("malformed").Inc()
		log.WithError(err).Warn("dropping malformed envelope")
		return
	}
	if env.RoomID != s.roomID || env.SenderID != s.ident.UserID {
		envelopesDropped.WithLabelValues("identity_mismatch").Inc()
		log.WithFields(logrus.Fields{
			"claimedRoomID":   env.RoomID,
			"claimedSenderID": env.SenderID,
		}).Warn("dropping envelope with mismatched room or sender")
		return
	}

	// The relay, not the client, is authoritative for display metadata and
	// the timestamp.
	env.SenderName = s.ident.UserName
	env.SenderRole = s.ident.UserRole
	env.Timestamp = time.Now().UTC()

	r.Broadcast(s.roomID, env)
}

// Broadcast fans env out to every current member of roomID, including the
// sender; the echo is the sender's confirmation of what was actually
// relayed. Delivery is best-effort and isolated per member: one failed or
// slow peer is logged and skipped, the rest of the room still receives the
// envelope.
func (r *Relay) Broadcast(roomID string, env models.Envelope) {
	delivered := 0
	r.registry.forEachMember(roomID, func(member *Session) {
		if err := member.deliver(env); err != nil {
			deliveryFailures.Inc()
			logrus.WithError(err).WithFields(logrus.Fields{
				"roomID":    roomID,
				"sessionID": member.id,
				"kind":      env.Kind,
			}).Warn("envelope delivery failed")
			return
		}
		delivered++
	})
	envelopesRelayed.WithLabelValues(string(env.Kind)).Inc()
	logrus.WithFields(logrus.Fields{
		"roomID":    roomID,
		"kind":      env.Kind,
		"delivered": delivered,
	}).Debug("envelope fanned out")
}

// Shutdown disconnects every live session through the normal leave
// sequence, so peers that are still draining see clean leaves before the
// process exits.
func (r *Relay) Shutdown() {
	r.mu.Lock()
	live := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.Unlock()

	for _, s := range live {
		r.Disconnect(s)
	}
}
