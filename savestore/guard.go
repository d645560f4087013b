package savestore

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxAttempts is how many times TryAcquire tries before giving up
const DefaultMaxAttempts = 15

// Guard gives exclusive access to a record name.
// Each name has its own busy flag so unrelated records never contend.
// The zero value is ready to use.
type Guard struct {
	// 0 means DefaultMaxAttempts
	MaxAttempts int
	// pause between attempts. 0 means spin without sleeping or yielding
	RetryDelay time.Duration

	mu    sync.Mutex
	flags map[string]*atomic.Bool
}

func (g *Guard) maxAttempts() int {
	if g.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return g.MaxAttempts
}

// flags are never removed: a goroutine might be spinning on one
func (g *Guard) flag(name string) *atomic.Bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.flags == nil {
		g.flags = map[string]*atomic.Bool{}
	}
	f := g.flags[name]
	if f == nil {
		f = &atomic.Bool{}
		g.flags[name] = f
	}
	return f
}

// TryAcquire marks name as busy. If it's already busy, it retries
// up to MaxAttempts times in total. Returns number of attempts made
// and true if we got it.
// Every successful TryAcquire must be followed by exactly one Release.
func (g *Guard) TryAcquire(name string) (int, bool) {
	f := g.flag(name)
	max := g.maxAttempts()
	attempts := 0
	for {
		attempts++
		if f.CompareAndSwap(false, true) {
			return attempts, true
		}
		if attempts >= max {
			return attempts, false
		}
		if g.RetryDelay > 0 {
			time.Sleep(g.RetryDelay)
		}
	}
}

// Release marks name as not busy. Releasing a name that isn't held is a bug.
func (g *Guard) Release(name string) {
	f := g.flag(name)
	if !f.CompareAndSwap(true, false) {
		panic(fmt.Sprintf("savestore: Release('%s') of a record that isn't held", name))
	}
}

// Busy returns true if name is currently held
func (g *Guard) Busy(name string) bool {
	g.mu.Lock()
	f := g.flags[name]
	g.mu.Unlock()
	return f != nil && f.Load()
}
