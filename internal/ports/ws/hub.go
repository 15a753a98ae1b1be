package ws

import (
	"sync"

	"go.uber.org/zap"
)

// sender is the outbound half of a connection. Send must never block.
type sender interface {
	enqueue(frame []byte) bool
	shutdown()
}

// Hub maps participant identity to exactly one live outbound channel.
// Registering a fresh connection for a mapped identity replaces and closes
// the old one, which is how reconnects work: no explicit disconnect, and the
// new connection receives a fresh snapshot rather than a replay.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]sender
	log     *zap.Logger
}

// NewHub returns an empty connection map.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{clients: make(map[string]sender), log: log}
}

// Register binds identity to the connection, displacing any previous one.
func (h *Hub) Register(id string, s sender) {
	h.mu.Lock()
	old := h.clients[id]
	h.clients[id] = s
	h.mu.Unlock()

	if old != nil {
		h.log.Info("replacing connection for reconnecting participant",
			zap.String("participant", id))
		old.shutdown()
	}
}

// Unregister removes the binding, but only if it still points at s: a
// reconnect may already have replaced it.
func (h *Hub) Unregister(id string, s sender) {
	h.mu.Lock()
	if h.clients[id] == s {
		delete(h.clients, id)
	}
	h.mu.Unlock()
}

// SendToOne delivers one frame to one identity. Offline identities are a
// silent no-op: reconnecting clients get a fresh snapshot, not a replay.
func (h *Hub) SendToOne(id string, frame []byte) {
	h.mu.RLock()
	s := h.clients[id]
	h.mu.RUnlock()
	if s == nil {
		return
	}
	if !s.enqueue(frame) {
		h.log.Warn("dropping frame for saturated connection",
			zap.String("participant", id))
	}
}

// SendToMany fans one frame out to several identities.
func (h *Hub) SendToMany(ids []string, frame []byte) {
	for _, id := range ids {
		h.SendToOne(id, frame)
	}
}

// Connected reports whether the identity has a live connection.
func (h *Hub) Connected(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[id] != nil
}
