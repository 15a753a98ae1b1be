package bot

import (
	"math/rand"
	"sync"
	"time"
)

type member struct {
	identity Identity
	brain    Brain
}

// Registry tracks the bots seated per room. One registry is constructed per
// server instance and shared by handle.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]member
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewRegistry returns an empty bot registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[string]member),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Add seats a new bot of the given difficulty in the room and returns its
// identity.
func (r *Registry) Add(roomID string, difficulty Difficulty) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bots := r.rooms[roomID]
	if bots == nil {
		bots = make(map[string]member)
		r.rooms[roomID] = bots
	}

	taken := make(map[string]bool, len(bots))
	for _, m := range bots {
		taken[m.identity.Name] = true
	}
	id := NewIdentity(difficulty, taken)

	brain, err := NewBrain(difficulty, rand.New(rand.NewSource(r.seed())))
	if err != nil {
		return Identity{}, err
	}
	bots[id.ID] = member{identity: id, brain: brain}
	return id, nil
}

// Remove unseats one bot. It reports whether the bot existed.
func (r *Registry) Remove(roomID, botID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	bots := r.rooms[roomID]
	if _, ok := bots[botID]; !ok {
		return false
	}
	delete(bots, botID)
	if len(bots) == 0 {
		delete(r.rooms, roomID)
	}
	return true
}

// RemoveRoom drops every bot of a deleted room.
func (r *Registry) RemoveRoom(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomID)
}

// Brain returns the decision strategy of the identified bot, if seated.
func (r *Registry) Brain(roomID, botID string) (Brain, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rooms[roomID][botID]
	if !ok {
		return nil, false
	}
	return m.brain, true
}

// IsBot reports whether the identity is a bot seated in the room.
func (r *Registry) IsBot(roomID, id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomID][id]
	return ok
}

// Identities lists the bots seated in a room.
func (r *Registry) Identities(roomID string) []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Identity, 0, len(r.rooms[roomID]))
	for _, m := range r.rooms[roomID] {
		out = append(out, m.identity)
	}
	return out
}

func (r *Registry) seed() int64 {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Int63()
}
