package game

import "sync"

// Store owns the live games of a server instance, keyed by room id. It is
// constructed once and passed by handle; there is no ambient global state.
type Store struct {
	mu    sync.RWMutex
	games map[string]*Game
}

// NewStore returns an empty game store.
func NewStore() *Store {
	return &Store{games: make(map[string]*Game)}
}

// Put registers the game for a room, replacing any previous round.
func (s *Store) Put(roomID string, g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[roomID] = g
}

// Get returns the room's live game, or false when none exists. Callers must
// treat absence as a benign race under concurrent leave/cleanup.
func (s *Store) Get(roomID string) (*Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[roomID]
	return g, ok
}

// Delete releases the room's game state, if any.
func (s *Store) Delete(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, roomID)
}
