package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu     sync.Mutex
	frames [][]byte
	full   bool
	closed bool
}

func (f *fakeSender) enqueue(frame []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.frames = append(f.frames, frame)
	return true
}

func (f *fakeSender) shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSender) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte{}, f.frames...)
}

func TestHubSendToOne(t *testing.T) {
	h := NewHub(zap.NewNop())
	s := &fakeSender{}
	h.Register("p1", s)

	h.SendToOne("p1", []byte("hello"))
	assert.Equal(t, [][]byte{[]byte("hello")}, s.received())
}

func TestHubOfflineIsNoOp(t *testing.T) {
	h := NewHub(zap.NewNop())
	assert.NotPanics(t, func() {
		h.SendToOne("ghost", []byte("hello"))
		h.SendToMany([]string{"ghost", "phantom"}, []byte("hello"))
	})
}

func TestHubRegisterReplacesOldConnection(t *testing.T) {
	h := NewHub(zap.NewNop())
	old := &fakeSender{}
	fresh := &fakeSender{}

	h.Register("p1", old)
	h.Register("p1", fresh)

	assert.True(t, old.closed)
	h.SendToOne("p1", []byte("x"))
	assert.Empty(t, old.received())
	assert.Len(t, fresh.received(), 1)
}

func TestHubUnregisterOnlyRemovesCurrent(t *testing.T) {
	h := NewHub(zap.NewNop())
	old := &fakeSender{}
	fresh := &fakeSender{}

	h.Register("p1", old)
	h.Register("p1", fresh)
	h.Unregister("p1", old) // stale unregister from the replaced pump

	assert.True(t, h.Connected("p1"))

	h.Unregister("p1", fresh)
	assert.False(t, h.Connected("p1"))
}

func TestHubSaturatedConnectionDropsFrame(t *testing.T) {
	h := NewHub(zap.NewNop())
	s := &fakeSender{full: true}
	h.Register("p1", s)

	assert.NotPanics(t, func() { h.SendToOne("p1", []byte("x")) })
	assert.Empty(t, s.received())
}

func TestHubSendToMany(t *testing.T) {
	h := NewHub(zap.NewNop())
	a, b := &fakeSender{}, &fakeSender{}
	h.Register("a", a)
	h.Register("b", b)

	h.SendToMany([]string{"a", "b", "offline"}, []byte("x"))
	assert.Len(t, a.received(), 1)
	assert.Len(t, b.received(), 1)
}
