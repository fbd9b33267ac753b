package resilience

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	var km KeyedMutex
	var inside, maxInside atomic.Int32

	var wg conc.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Go(func() {
			unlock := km.Lock("team-a")
			defer unlock()
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		})
	}
	wg.Wait()

	if got := maxInside.Load(); got != 1 {
		t.Fatalf("expected one holder at a time, saw %d", got)
	}
	if got := km.size(); got != 0 {
		t.Fatalf("expected lock table to drain, has %d entries", got)
	}
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	var km KeyedMutex
	unlockA := km.Lock("team-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := km.Lock("team-b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("lock on another key blocked")
	}
}
