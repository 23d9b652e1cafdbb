package game

import (
	"github.com/Tanya-Jain20/Tambola-Game/internal/ticket"
)

// Prize validation is pure: it inspects a ticket, the player's marked set,
// and the session's last called number, and never mutates anything.

// LastCallFresh reports whether the most recent draw has been marked.
// Every claim requires this so a player cannot win off a pattern completed
// by a stale announcement without acknowledging the newest number.
func LastCallFresh(marked map[int]bool, lastCalled int) bool {
	return lastCalled != 0 && marked[lastCalled]
}

// rowComplete reports whether every filled cell of the row is marked.
func rowComplete(t ticket.Ticket, marked map[int]bool, row int) bool {
	for _, n := range t.RowNumbers(row) {
		if !marked[n] {
			return false
		}
	}
	return true
}

// CompletedLines counts rows whose every number is marked. Line prizes are
// ordinal by this count, not by row index: secondLine means any two rows
// done, thirdLine means all three.
func CompletedLines(t ticket.Ticket, marked map[int]bool) int {
	count := 0
	for row := 0; row < ticket.Rows; row++ {
		if rowComplete(t, marked, row) {
			count++
		}
	}
	return count
}

// EarlyFiveDone reports whether at least five ticket numbers are marked.
func EarlyFiveDone(t ticket.Ticket, marked map[int]bool) bool {
	count := 0
	for _, n := range t.Numbers() {
		if marked[n] {
			count++
		}
	}
	return count >= 5
}

// CornersDone reports whether the four structural corners are all marked.
func CornersDone(t ticket.Ticket, marked map[int]bool) bool {
	corners, ok := t.Corners()
	if !ok {
		return false
	}
	for _, n := range corners {
		if !marked[n] {
			return false
		}
	}
	return true
}

// FullHouseDone reports whether every ticket number is marked.
func FullHouseDone(t ticket.Ticket, marked map[int]bool) bool {
	for _, n := range t.Numbers() {
		if !marked[n] {
			return false
		}
	}
	return true
}

// PatternDone dispatches the pattern check for a prize type. Unknown types
// never validate.
func PatternDone(pt PrizeType, t ticket.Ticket, marked map[int]bool) bool {
	switch pt {
	case PrizeEarlyFive:
		return EarlyFiveDone(t, marked)
	case PrizeFirstLine:
		return CompletedLines(t, marked) >= 1
	case PrizeSecondLine:
		return CompletedLines(t, marked) >= 2
	case PrizeThirdLine:
		return CompletedLines(t, marked) >= 3
	case PrizeCorners:
		return CornersDone(t, marked)
	case PrizeFullHouse:
		return FullHouseDone(t, marked)
	}
	return false
}
