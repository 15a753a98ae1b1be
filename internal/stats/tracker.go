// Package stats aggregates per-room game outcomes. It is a pluggable
// consumer of completion events: it subscribes through the dispatcher and
// never sits on the game's critical path.
package stats

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"bigtwo/internal/event"
	"bigtwo/internal/lock"
)

// RoomStats is the aggregate for one room.
type RoomStats struct {
	GamesPlayed int
	Wins        map[string]int
}

// Tracker owns the per-room aggregates. Aggregation for one room runs under
// a lazily created per-room mutex, so two games completing concurrently in
// the same room can never double-apply a game number, while independent
// rooms proceed without contention.
type Tracker struct {
	mu    sync.RWMutex
	rooms map[string]*RoomStats
	locks *lock.KeyedMutex
	bus   *event.Bus
	log   *zap.Logger
}

// NewTracker returns an empty tracker publishing updates on bus.
func NewTracker(bus *event.Bus, log *zap.Logger) *Tracker {
	return &Tracker{
		rooms: make(map[string]*RoomStats),
		locks: lock.NewKeyedMutex(),
		bus:   bus,
		log:   log,
	}
}

// Name implements event.Handler.
func (t *Tracker) Name() string { return "stats" }

// Handle consumes game-won events and republishes the room's new aggregate.
func (t *Tracker) Handle(ctx context.Context, topic string, ev event.Event) error {
	p, ok := ev.Payload.(event.GameWonPayload)
	if ev.Kind != event.GameWon || !ok {
		return nil
	}

	snapshot := t.apply(topic, p.ID)
	t.bus.Publish(topic, event.Event{
		Kind: event.StatsUpdated,
		Payload: event.StatsUpdatedPayload{
			GamesPlayed: snapshot.GamesPlayed,
			Wins:        snapshot.Wins,
		},
	})
	return nil
}

// apply records one completed game and returns a copy of the aggregate.
func (t *Tracker) apply(roomID, winner string) RoomStats {
	t.locks.Lock(roomID)
	defer t.locks.Unlock(roomID)

	t.mu.Lock()
	r := t.rooms[roomID]
	if r == nil {
		r = &RoomStats{Wins: make(map[string]int)}
		t.rooms[roomID] = r
	}
	t.mu.Unlock()

	r.GamesPlayed++
	r.Wins[winner]++
	t.log.Info("game recorded",
		zap.String("room", roomID),
		zap.String("winner", winner),
		zap.Int("gameNumber", r.GamesPlayed))

	wins := make(map[string]int, len(r.Wins))
	for id, n := range r.Wins {
		wins[id] = n
	}
	return RoomStats{GamesPlayed: r.GamesPlayed, Wins: wins}
}

// Get returns a copy of a room's aggregate.
func (t *Tracker) Get(roomID string) (RoomStats, bool) {
	t.locks.Lock(roomID)
	defer t.locks.Unlock(roomID)

	t.mu.RLock()
	r, ok := t.rooms[roomID]
	t.mu.RUnlock()
	if !ok {
		return RoomStats{}, false
	}
	wins := make(map[string]int, len(r.Wins))
	for id, n := range r.Wins {
		wins[id] = n
	}
	return RoomStats{GamesPlayed: r.GamesPlayed, Wins: wins}, true
}

// Release drops a deleted room's aggregate.
func (t *Tracker) Release(roomID string) {
	t.locks.Lock(roomID)
	defer t.locks.Unlock(roomID)

	t.mu.Lock()
	delete(t.rooms, roomID)
	t.mu.Unlock()
}
