package vault

import (
	"sync"
	"testing"
)

func TestPathLocksSerializeSamePath(t *testing.T) {
	locks := newPathLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.lock("a/b")
			counter++
			locks.unlock("a/b")
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("expected 50 increments, got %d", counter)
	}

	locks.mu.Lock()
	remaining := len(locks.locks)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Errorf("lock table should be empty after release, has %d entries", remaining)
	}
}

func TestPathLocksIndependentPaths(t *testing.T) {
	locks := newPathLocks()

	locks.lock("a")
	done := make(chan struct{})
	go func() {
		locks.lock("b")
		locks.unlock("b")
		close(done)
	}()

	<-done // a held, b must still be acquirable
	locks.unlock("a")
}
