package game_test

import (
	"errors"
	"testing"

	"github.com/Tanya-Jain20/Tambola-Game/internal/game"
	"github.com/Tanya-Jain20/Tambola-Game/internal/randutil"
	"github.com/Tanya-Jain20/Tambola-Game/internal/ticket"
)

func newTestSession() *game.Session {
	return game.NewSession("game-1-ABC234", "ABC234", game.DefaultPrizePoints())
}

func TestDrawActivatesWaitingSession(t *testing.T) {
	s := newTestSession()
	rng := randutil.New(1)

	if s.Status != game.StatusWaiting {
		t.Fatalf("new session status = %s, want waiting", s.Status)
	}

	n, err := game.Draw(s, rng)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if n < 1 || n > ticket.MaxNumber {
		t.Errorf("drew %d, want 1-%d", n, ticket.MaxNumber)
	}
	if s.Status != game.StatusActive {
		t.Errorf("status after first draw = %s, want active", s.Status)
	}
	if s.LastCalled != n {
		t.Errorf("LastCalled = %d, want %d", s.LastCalled, n)
	}
}

func TestDrawExhaustsPoolWithoutRepeats(t *testing.T) {
	s := newTestSession()
	rng := randutil.New(2)

	seen := make(map[int]bool)
	for i := 0; i < ticket.MaxNumber; i++ {
		n, err := game.Draw(s, rng)
		if err != nil {
			t.Fatalf("draw %d: %v", i+1, err)
		}
		if seen[n] {
			t.Fatalf("number %d drawn twice", n)
		}
		seen[n] = true
	}

	if s.Remaining() != 0 {
		t.Errorf("Remaining() = %d after 90 draws, want 0", s.Remaining())
	}

	if _, err := game.Draw(s, rng); !errors.Is(err, game.ErrPoolExhausted) {
		t.Errorf("91st draw error = %v, want ErrPoolExhausted", err)
	}
}

func TestDrawOnEndedSession(t *testing.T) {
	s := newTestSession()
	s.Status = game.StatusEnded

	if _, err := game.Draw(s, randutil.New(3)); !errors.Is(err, game.ErrGameEnded) {
		t.Errorf("draw on ended session error = %v, want ErrGameEnded", err)
	}
}

func TestCalled(t *testing.T) {
	s := newTestSession()
	s.CalledNumbers = []int{4, 17, 88}

	if !s.Called(17) {
		t.Error("Called(17) = false, want true")
	}
	if s.Called(5) {
		t.Error("Called(5) = true, want false")
	}
}
