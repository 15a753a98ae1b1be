package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()

	const workers = 32
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("room-1")
			counter++
			km.Unlock("room-1")
		}()
	}
	wg.Wait()

	require.Equal(t, workers, counter)
	require.Zero(t, km.Len(), "released keys must not leak entries")
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock("room-1")

	done := make(chan struct{})
	go func() {
		km.Lock("room-2")
		km.Unlock("room-2")
		close(done)
	}()

	// A second key must proceed while the first is held.
	<-done
	km.Unlock("room-1")
	require.Zero(t, km.Len())
}

func TestKeyedMutexUnknownKeyPanics(t *testing.T) {
	km := NewKeyedMutex()
	require.Panics(t, func() { km.Unlock("nope") })
}
