package game_test

import (
	"testing"

	"github.com/Tanya-Jain20/Tambola-Game/internal/game"
	"github.com/Tanya-Jain20/Tambola-Game/internal/ticket"
)

// testTicket is a fixed valid ticket used throughout the validator tests.
//
//	row 0: 1, 25, 45, 62, 81
//	row 1: 12, 34, 51, 73, 82
//	row 2: 5, 28, 47, 65, 90
var testTicket = ticket.Ticket{
	{1, 0, 25, 0, 45, 0, 62, 0, 81},
	{0, 12, 0, 34, 0, 51, 0, 73, 82},
	{5, 0, 28, 0, 47, 0, 65, 0, 90},
}

func markedSet(numbers ...int) map[int]bool {
	set := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		set[n] = true
	}
	return set
}

func TestLastCallFresh(t *testing.T) {
	marked := markedSet(1, 25, 45)

	if !game.LastCallFresh(marked, 45) {
		t.Error("marked last call should be fresh")
	}
	if game.LastCallFresh(marked, 62) {
		t.Error("unmarked last call should not be fresh")
	}
	if game.LastCallFresh(marked, 0) {
		t.Error("no draw yet should never be fresh")
	}
}

func TestEarlyFiveDone(t *testing.T) {
	if game.EarlyFiveDone(testTicket, markedSet(1, 25, 45, 62)) {
		t.Error("four marks should not complete early five")
	}
	if !game.EarlyFiveDone(testTicket, markedSet(1, 25, 45, 62, 81)) {
		t.Error("five marks should complete early five")
	}
	// Marks spread across rows count too
	if !game.EarlyFiveDone(testTicket, markedSet(1, 12, 5, 34, 28)) {
		t.Error("five marks across rows should complete early five")
	}
}

func TestCompletedLines(t *testing.T) {
	tests := []struct {
		name   string
		marked map[int]bool
		want   int
	}{
		{name: "nothing marked", marked: markedSet(), want: 0},
		{name: "partial row", marked: markedSet(1, 25, 45, 62), want: 0},
		{name: "top row", marked: markedSet(1, 25, 45, 62, 81), want: 1},
		{name: "bottom row only", marked: markedSet(5, 28, 47, 65, 90), want: 1},
		{
			name:   "two rows",
			marked: markedSet(1, 25, 45, 62, 81, 5, 28, 47, 65, 90),
			want:   2,
		},
		{
			name: "all three rows",
			marked: markedSet(
				1, 25, 45, 62, 81,
				12, 34, 51, 73, 82,
				5, 28, 47, 65, 90,
			),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := game.CompletedLines(testTicket, tt.marked); got != tt.want {
				t.Errorf("CompletedLines() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCornersDone(t *testing.T) {
	if !game.CornersDone(testTicket, markedSet(1, 81, 5, 90)) {
		t.Error("four corners marked should complete corners")
	}
	if game.CornersDone(testTicket, markedSet(1, 81, 5)) {
		t.Error("three corners should not complete corners")
	}
	// Middle-row numbers are irrelevant to corners
	if game.CornersDone(testTicket, markedSet(12, 34, 51, 73, 82)) {
		t.Error("middle row marks should not complete corners")
	}
}

func TestFullHouseDone(t *testing.T) {
	all := testTicket.Numbers()

	if !game.FullHouseDone(testTicket, markedSet(all...)) {
		t.Error("all fifteen marked should complete full house")
	}
	if game.FullHouseDone(testTicket, markedSet(all[:14]...)) {
		t.Error("fourteen marked should not complete full house")
	}
}

func TestPatternDone(t *testing.T) {
	twoRows := markedSet(1, 25, 45, 62, 81, 5, 28, 47, 65, 90)

	tests := []struct {
		prize game.PrizeType
		want  bool
	}{
		{prize: game.PrizeEarlyFive, want: true},
		{prize: game.PrizeFirstLine, want: true},
		{prize: game.PrizeSecondLine, want: true},
		{prize: game.PrizeThirdLine, want: false},
		{prize: game.PrizeCorners, want: true},
		{prize: game.PrizeFullHouse, want: false},
		{prize: game.PrizeType("bogus"), want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.prize), func(t *testing.T) {
			if got := game.PatternDone(tt.prize, testTicket, twoRows); got != tt.want {
				t.Errorf("PatternDone(%s) = %v, want %v", tt.prize, got, tt.want)
			}
		})
	}
}

func TestPrizeBoardAllAwarded(t *testing.T) {
	s := newTestSession()

	if s.Prizes.AllAwarded() {
		t.Error("fresh board should not be all awarded")
	}

	for _, pt := range game.SingleWinnerPrizes {
		entry := s.Prizes.Entry(pt)
		entry.Claimed = true
		entry.Winner = "alice"
	}
	if s.Prizes.AllAwarded() {
		t.Error("full house still open, board should not be all awarded")
	}

	s.Prizes.FullHouse.Winners = []string{"alice", "bob"}
	if !s.Prizes.AllAwarded() {
		t.Error("everything claimed, board should be all awarded")
	}
}
