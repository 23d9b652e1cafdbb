package game

import (
	"errors"
	"fmt"
)

var (
	// ErrRoomNotFound is returned when no session exists for a room code.
	ErrRoomNotFound = errors.New("room not found")

	// ErrPlayerNotFound is returned when a player ID is unknown.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrGameEnded is returned for operations on a session that has ended.
	ErrGameEnded = errors.New("game has already ended")

	// ErrInvalidState is returned when an operation is not permitted in the
	// session's current status.
	ErrInvalidState = errors.New("operation not allowed in current game state")

	// ErrPoolExhausted is returned when a draw is requested after all 90
	// numbers have been called.
	ErrPoolExhausted = errors.New("all numbers have been called")

	// ErrNumberNotOnTicket is returned when a player marks a number their
	// ticket does not carry.
	ErrNumberNotOnTicket = errors.New("number not on your ticket")

	// ErrNumberNotCalled is returned when a player marks a number that has
	// not been drawn yet.
	ErrNumberNotCalled = errors.New("number has not been called yet")

	// ErrInvalidInterval is returned when auto-call is started with a
	// non-positive interval.
	ErrInvalidInterval = errors.New("auto-call interval must be positive")
)

// ClaimError rejects a prize claim with a human-readable reason. It never
// accompanies a state change.
type ClaimError struct {
	Prize  PrizeType
	Reason string
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("claim for %s rejected: %s", e.Prize, e.Reason)
}

func rejectClaim(pt PrizeType, format string, args ...any) *ClaimError {
	return &ClaimError{Prize: pt, Reason: fmt.Sprintf(format, args...)}
}
