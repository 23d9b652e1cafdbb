package randutil

import (
	"sync"

	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Locked wraps a *rand.Rand with a mutex so independently-timed actors
// (manual draws, the auto caller) can share one seeded source.
type Locked struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocked returns a mutex-guarded RNG seeded from the provided int64.
func NewLocked(seed int64) *Locked {
	return &Locked{rng: New(seed)}
}

// With executes fn with exclusive access to the underlying RNG.
func (l *Locked) With(fn func(*rand.Rand)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.rng)
}

// IntN returns a uniform int in [0,n) under the lock.
func (l *Locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.IntN(n)
}

// Fork derives an independent *rand.Rand from the shared source, suitable
// for handing to a single-goroutine consumer such as a ticket generation.
func (l *Locked) Fork() *rand.Rand {
	l.mu.Lock()
	defer l.mu.Unlock()
	return New(int64(l.rng.Uint64()))
}
