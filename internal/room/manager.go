package room

import (
	"errors"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"bigtwo/internal/lock"
)

var (
	// ErrRoomNotFound is returned for operations on unknown room ids.
	ErrRoomNotFound = errors.New("room: not found")
	// ErrRoomFull rejects joins past capacity.
	ErrRoomFull = errors.New("room: full")
	// ErrNotInRoom rejects operations by non-participants.
	ErrNotInRoom = errors.New("room: not a participant")
)

// Room codes avoid easily confused characters.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Manager owns the room table of a server instance. The capacity check and
// membership write of Join are one atomic step per room: under concurrent
// joins exactly as many as fit succeed.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	locks *lock.KeyedMutex
	log   *zap.Logger
	now   func() time.Time

	// onDelete runs after a room leaves the table (last leave or sweep),
	// releasing game state and event subscriptions before peers can observe
	// the id as free.
	onDelete func(roomID string)
}

// NewManager returns an empty room table.
func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		locks: lock.NewKeyedMutex(),
		log:   log,
		now:   time.Now,
	}
}

// OnDelete registers the room teardown hook. Must be set before serving.
func (m *Manager) OnDelete(fn func(roomID string)) {
	m.onDelete = fn
}

// Create opens a new room hosted by the given participant.
func (m *Manager) Create(host Participant) *View {
	host.Ready = false
	now := m.now()

	for {
		id, _ := gonanoid.Generate(codeAlphabet, 6)
		r := &Room{
			ID:           id,
			Participants: []Participant{host},
			HostID:       host.ID,
			CreatedAt:    now,
			LastActive:   now,
		}

		m.mu.Lock()
		if _, taken := m.rooms[id]; !taken {
			m.rooms[id] = r
			m.mu.Unlock()
			m.log.Info("room created",
				zap.String("room", id), zap.String("host", host.ID))
			return r.view()
		}
		m.mu.Unlock()
	}
}

// Join adds a participant. Rejoining participants succeed idempotently. The
// check-then-insert runs under the room's lock, never globally.
func (m *Manager) Join(roomID string, p Participant) (*View, error) {
	m.locks.Lock(roomID)
	defer m.locks.Unlock(roomID)

	r, ok := m.get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if i := r.indexOf(p.ID); i >= 0 {
		r.LastActive = m.now()
		return r.view(), nil
	}
	if len(r.Participants) >= Capacity {
		return nil, ErrRoomFull
	}

	p.Ready = false
	r.Participants = append(r.Participants, p)
	r.LastActive = m.now()
	m.log.Info("participant joined",
		zap.String("room", roomID), zap.String("participant", p.ID))
	return r.view(), nil
}

// Leave removes a participant. When the host leaves, the longest-standing
// remaining participant becomes host; when the last participant leaves, the
// room is deleted and deleted=true is reported with a nil view.
func (m *Manager) Leave(roomID, id string) (view *View, deleted bool, err error) {
	m.locks.Lock(roomID)
	defer m.locks.Unlock(roomID)

	r, ok := m.get(roomID)
	if !ok {
		return nil, false, ErrRoomNotFound
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, false, ErrNotInRoom
	}

	r.Participants = append(r.Participants[:i], r.Participants[i+1:]...)
	r.LastActive = m.now()

	if len(r.Participants) == 0 {
		m.delete(roomID)
		return nil, true, nil
	}
	if r.HostID == id {
		r.HostID = r.Participants[0].ID
		m.log.Info("host reassigned",
			zap.String("room", roomID), zap.String("host", r.HostID))
	}
	return r.view(), false, nil
}

// SetReady flips a participant's ready flag.
func (m *Manager) SetReady(roomID, id string, ready bool) (*View, error) {
	m.locks.Lock(roomID)
	defer m.locks.Unlock(roomID)

	r, ok := m.get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotInRoom
	}
	r.Participants[i].Ready = ready
	r.LastActive = m.now()
	return r.view(), nil
}

// Touch records room activity, deferring the idle sweep.
func (m *Manager) Touch(roomID string) {
	m.locks.Lock(roomID)
	defer m.locks.Unlock(roomID)

	if r, ok := m.get(roomID); ok {
		r.LastActive = m.now()
	}
}

// Get returns a copy of the room, if present.
func (m *Manager) Get(roomID string) (*View, error) {
	m.locks.Lock(roomID)
	defer m.locks.Unlock(roomID)

	r, ok := m.get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.view(), nil
}

// List returns copies of all rooms.
func (m *Manager) List() []*View {
	m.mu.RLock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	views := make([]*View, 0, len(ids))
	for _, id := range ids {
		if v, err := m.Get(id); err == nil {
			views = append(views, v)
		}
	}
	return views
}

// Sweep deletes rooms idle past the threshold, under the same per-room
// serialization as join and leave. It returns the ids removed.
func (m *Manager) Sweep(idleAfter time.Duration) []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	var removed []string
	cutoff := m.now().Add(-idleAfter)
	for _, id := range ids {
		m.locks.Lock(id)
		if r, ok := m.get(id); ok && r.LastActive.Before(cutoff) {
			m.delete(id)
			removed = append(removed, id)
			m.log.Info("swept idle room", zap.String("room", id))
		}
		m.locks.Unlock(id)
	}
	return removed
}

func (m *Manager) get(roomID string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[roomID]
	return r, ok
}

func (m *Manager) delete(roomID string) {
	m.mu.Lock()
	delete(m.rooms, roomID)
	m.mu.Unlock()
	if m.onDelete != nil {
		m.onDelete(roomID)
	}
	m.log.Info("room deleted", zap.String("room", roomID))
}
