package game

import (
	rand "math/rand/v2"

	"github.com/Tanya-Jain20/Tambola-Game/internal/ticket"
)

// Draw selects one undrawn number uniformly at random, appends it to the
// session's called list, updates LastCalled, and activates a waiting
// session. It is the only mutator of CalledNumbers; both manual calls and
// scheduler ticks go through it, under the session's serialization lock.
func Draw(s *Session, rng *rand.Rand) (int, error) {
	if s.Status == StatusEnded {
		return 0, ErrGameEnded
	}

	pool := make([]int, 0, s.Remaining())
	for n := 1; n <= ticket.MaxNumber; n++ {
		if !s.Called(n) {
			pool = append(pool, n)
		}
	}
	if len(pool) == 0 {
		return 0, ErrPoolExhausted
	}

	n := pool[rng.IntN(len(pool))]
	s.CalledNumbers = append(s.CalledNumbers, n)
	s.LastCalled = n
	if s.Status == StatusWaiting {
		s.Status = StatusActive
	}
	return n, nil
}
