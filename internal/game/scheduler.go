package game

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

const (
	// DefaultAutoCallInterval is the caller cadence in seconds when the
	// host does not pick one.
	DefaultAutoCallInterval = 5

	// CelebrationPause is how long automatic calling stays suspended after
	// a prize award.
	CelebrationPause = 8500 * time.Millisecond
)

// TickFunc performs one scheduled draw for a room. Returning an error ends
// the room's calling loop.
type TickFunc func(roomCode string) error

// ResumeFunc fires when a celebration pause elapses. The implementation
// re-fetches session state and decides whether calling restarts.
type ResumeFunc func(roomCode string)

// AutoCaller owns at most one calling loop per room, keyed by room code.
// Restarting supersedes the previous loop, and a pending celebration
// resume is cancelled by Stop, so a room never runs two tickers. All timer
// work goes through an injected quartz.Clock so tests drive it explicitly.
type AutoCaller struct {
	clock  quartz.Clock
	logger zerolog.Logger
	tick   TickFunc
	resume ResumeFunc

	mu    sync.Mutex
	rooms map[string]*callLoop
}

type callLoop struct {
	cancel      context.CancelFunc
	interval    time.Duration
	resumeTimer *quartz.Timer
}

// NewAutoCaller creates a scheduler with no active loops.
func NewAutoCaller(clock quartz.Clock, logger zerolog.Logger, tick TickFunc, resume ResumeFunc) *AutoCaller {
	return &AutoCaller{
		clock:  clock,
		logger: logger.With().Str("component", "auto_caller").Logger(),
		tick:   tick,
		resume: resume,
		rooms:  make(map[string]*callLoop),
	}
}

// Start schedules periodic draws for the room, cancelling any existing
// loop or pending resume first so a restart with a new interval yields
// exactly one ticker.
func (ac *AutoCaller) Start(roomCode string, interval time.Duration) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.cancelLocked(roomCode)

	ctx, cancel := context.WithCancel(context.Background())
	loop := &callLoop{cancel: cancel, interval: interval}
	ac.rooms[roomCode] = loop

	ac.clock.TickerFunc(ctx, interval, func() error {
		if err := ac.tick(roomCode); err != nil {
			ac.logger.Debug().Str("room", roomCode).Err(err).Msg("auto-call loop ending")
			ac.clear(roomCode, loop)
			return err
		}
		return nil
	}, "autocall", roomCode)

	ac.logger.Info().Str("room", roomCode).Dur("interval", interval).Msg("auto-call started")
}

// Stop cancels the room's loop and any pending celebration resume.
// Idempotent when nothing is running.
func (ac *AutoCaller) Stop(roomCode string) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.cancelLocked(roomCode)
}

// PauseForCelebration suspends the loop and schedules a one-shot resume.
// The resume callback re-checks session state, so a session that ends or
// is stopped during the pause window stays stopped.
func (ac *AutoCaller) PauseForCelebration(roomCode string, d time.Duration) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	loop, ok := ac.rooms[roomCode]
	if !ok {
		return
	}

	loop.cancel()
	if loop.resumeTimer != nil {
		loop.resumeTimer.Stop()
	}
	loop.resumeTimer = ac.clock.AfterFunc(d, func() {
		// The timer may fire while a Stop or a superseding Start is in
		// flight; Timer.Stop is a no-op once fired, so re-check that
		// this loop is still the room's registered entry.
		if !ac.current(roomCode, loop) {
			return
		}
		ac.resume(roomCode)
	}, "celebration", roomCode)

	ac.logger.Info().Str("room", roomCode).Dur("pause", d).Msg("auto-call paused for celebration")
}

// Running reports whether the room currently has a loop or a pending
// resume registered.
func (ac *AutoCaller) Running(roomCode string) bool {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	_, ok := ac.rooms[roomCode]
	return ok
}

// StopAll cancels every loop, for server shutdown.
func (ac *AutoCaller) StopAll() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	for code := range ac.rooms {
		ac.cancelLocked(code)
	}
}

// current reports whether loop is still the room's registered entry.
func (ac *AutoCaller) current(roomCode string, loop *callLoop) bool {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.rooms[roomCode] == loop
}

// clear removes the room entry only if it still belongs to the loop that
// observed the stop condition, so a superseding Start is not clobbered.
func (ac *AutoCaller) clear(roomCode string, loop *callLoop) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if current, ok := ac.rooms[roomCode]; ok && current == loop {
		current.cancel()
		if current.resumeTimer != nil {
			current.resumeTimer.Stop()
		}
		delete(ac.rooms, roomCode)
	}
}

func (ac *AutoCaller) cancelLocked(roomCode string) {
	if loop, ok := ac.rooms[roomCode]; ok {
		loop.cancel()
		if loop.resumeTimer != nil {
			loop.resumeTimer.Stop()
		}
		delete(ac.rooms, roomCode)
	}
}
