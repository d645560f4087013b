package savestore

import (
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

func TestGuardAcquireRelease(t *testing.T) {
	var g Guard
	assert.False(t, g.Busy("a"))

	attempts, ok := g.TryAcquire("a")
	assert.True(t, ok)
	assert.Equal(t, 1, attempts)
	assert.True(t, g.Busy("a"))

	// other names are independent
	attempts, ok = g.TryAcquire("b")
	assert.True(t, ok)
	assert.Equal(t, 1, attempts)

	attempts, ok = g.TryAcquire("a")
	assert.False(t, ok)
	assert.Equal(t, DefaultMaxAttempts, attempts)

	g.Release("a")
	assert.False(t, g.Busy("a"))
	assert.True(t, g.Busy("b"))
	_, ok = g.TryAcquire("a")
	assert.True(t, ok)
	g.Release("a")
	g.Release("b")
}

func TestGuardMaxAttempts(t *testing.T) {
	for _, max := range []int{1, 3, 100} {
		g := &Guard{MaxAttempts: max}
		_, ok := g.TryAcquire("x")
		assert.True(t, ok)
		attempts, ok := g.TryAcquire("x")
		assert.False(t, ok)
		assert.Equal(t, max, attempts)
		g.Release("x")
	}
}

func TestGuardRetryDelay(t *testing.T) {
	g := &Guard{MaxAttempts: 4, RetryDelay: 5 * time.Millisecond}
	_, ok := g.TryAcquire("x")
	assert.True(t, ok)
	timeStart := time.Now()
	attempts, ok := g.TryAcquire("x")
	assert.False(t, ok)
	assert.Equal(t, 4, attempts)
	// sleeps between attempts, not after the last one
	assert.True(t, time.Since(timeStart) >= 15*time.Millisecond)
	g.Release("x")
}

func TestGuardReleaseNotHeld(t *testing.T) {
	var g Guard
	didPanic := false
	func() {
		defer func() {
			didPanic = recover() != nil
		}()
		g.Release("never-acquired")
	}()
	assert.True(t, didPanic)
}

func TestGuardExclusive(t *testing.T) {
	g := &Guard{MaxAttempts: 1 << 30}
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_, ok := g.TryAcquire("n")
				if !ok {
					t.Errorf("failed to acquire")
					return
				}
				counter++
				g.Release("n")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8000, counter)
}
