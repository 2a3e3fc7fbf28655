package relay

import "sync"

// room is a member set keyed by session id. A room has no existence apart
// from its registry entry: it is created by the first register and removed
// by the deregister that empties it.
type room struct {
	mu      sync.Mutex
	members map[string]*Session
}

// Registry is the authoritative membership bookkeeping shared by all
// connection handlers. The registry lock guards the room map; each room's
// own lock serializes membership changes and fan-out for that room, so
// unrelated rooms never contend.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

// Register adds s to roomID's member set, creating the room entry on first
// join.
func (r *Registry) Register(roomID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm := r.rooms[roomID]
	if rm == nil {
		rm = &room{members: make(map[string]*Session)}
		r.rooms[roomID] = rm
	}
	rm.mu.Lock()
	rm.members[s.ID()] = s
	rm.mu.Unlock()
}

// Deregister removes s from roomID's member set. Removing a session that is
// not present is a no-op, so disconnect cleanup stays idempotent. The room
// entry is garbage-collected the moment its member set empties; holding the
// registry lock across the emptiness check means a concurrent join can
// never resurrect an entry that is being torn down.
func (r *Registry) Deregister(roomID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm := r.rooms[roomID]
	if rm == nil {
		return
	}
	rm.mu.Lock()
	delete(rm.members, s.ID())
	empty := len(rm.members) == 0
	rm.mu.Unlock()
	if empty {
		delete(r.rooms, roomID)
	}
}

// MembersOf returns a snapshot of roomID's current members, empty if the
// room does not exist.
func (r *Registry) MembersOf(roomID string) []*Session {
	var out []*Session
	r.forEachMember(roomID, func(s *Session) {
		out = append(out, s)
	})
	return out
}

// RoomCount reports the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// forEachMember runs fn for every member of roomID while holding the room's
// lock. Fan-out uses this to serialize against membership changes and
// against other fan-outs to the same room, which is what gives a room its
// per-room delivery ordering.
func (r *Registry) forEachMember(roomID string, fn func(*Session)) {
	r.mu.RLock()
	rm := r.rooms[roomID]
	r.mu.RUnlock()
	if rm == nil {
		return
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	for _, s := range rm.members {
		fn(s)
	}
}
