// Package game implements the Tambola session engine: the draw pool,
// the prize board, claim validation and settlement, and the auto-call
// scheduler. All state mutation for one session is serialized through
// the Orchestrator.
package game

import (
	"time"

	"github.com/Tanya-Jain20/Tambola-Game/internal/ticket"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

// PrizeType tags a claimable prize category.
type PrizeType string

const (
	PrizeEarlyFive  PrizeType = "earlyFive"
	PrizeFirstLine  PrizeType = "firstLine"
	PrizeSecondLine PrizeType = "secondLine"
	PrizeThirdLine  PrizeType = "thirdLine"
	PrizeCorners    PrizeType = "corners"
	PrizeFullHouse  PrizeType = "fullHouse"
)

// String returns the string representation of the prize type.
func (p PrizeType) String() string { return string(p) }

// SingleWinnerPrizes lists the five categories that settle exactly once.
var SingleWinnerPrizes = []PrizeType{
	PrizeEarlyFive, PrizeFirstLine, PrizeSecondLine, PrizeThirdLine, PrizeCorners,
}

// Prize is a single-winner prize board entry.
type Prize struct {
	Claimed bool   `json:"claimed" bson:"claimed"`
	Winner  string `json:"winner,omitempty" bson:"winner,omitempty"`
	Points  int    `json:"points" bson:"points"`
}

// FullHousePrize admits multiple winners in claim order, capped at MaxWinners.
type FullHousePrize struct {
	Winners    []string `json:"winners" bson:"winners"`
	MaxWinners int      `json:"maxWinners" bson:"maxWinners"`
	Points     int      `json:"points" bson:"points"`
}

// HasWinner reports whether name already appears in the winner list.
func (f *FullHousePrize) HasWinner(name string) bool {
	for _, w := range f.Winners {
		if w == name {
			return true
		}
	}
	return false
}

// Full reports whether the winner cap has been reached.
func (f *FullHousePrize) Full() bool {
	return len(f.Winners) >= f.MaxWinners
}

// PrizeBoard holds every prize category for one session.
type PrizeBoard struct {
	EarlyFive  Prize          `json:"earlyFive" bson:"earlyFive"`
	FirstLine  Prize          `json:"firstLine" bson:"firstLine"`
	SecondLine Prize          `json:"secondLine" bson:"secondLine"`
	ThirdLine  Prize          `json:"thirdLine" bson:"thirdLine"`
	Corners    Prize          `json:"corners" bson:"corners"`
	FullHouse  FullHousePrize `json:"fullHouse" bson:"fullHouse"`
}

// Entry returns a pointer to the single-winner entry for pt, or nil for
// fullHouse and unknown types.
func (b *PrizeBoard) Entry(pt PrizeType) *Prize {
	switch pt {
	case PrizeEarlyFive:
		return &b.EarlyFive
	case PrizeFirstLine:
		return &b.FirstLine
	case PrizeSecondLine:
		return &b.SecondLine
	case PrizeThirdLine:
		return &b.ThirdLine
	case PrizeCorners:
		return &b.Corners
	}
	return nil
}

// AllAwarded reports whether every single-winner prize is claimed and the
// full house winner list is full. This is the session-end condition.
func (b *PrizeBoard) AllAwarded() bool {
	for _, pt := range SingleWinnerPrizes {
		if !b.Entry(pt).Claimed {
			return false
		}
	}
	return b.FullHouse.Full()
}

// PrizePoints configures the points credited per category.
type PrizePoints struct {
	EarlyFive           int `hcl:"early_five,optional"`
	FirstLine           int `hcl:"first_line,optional"`
	SecondLine          int `hcl:"second_line,optional"`
	ThirdLine           int `hcl:"third_line,optional"`
	Corners             int `hcl:"corners,optional"`
	FullHouse           int `hcl:"full_house,optional"`
	FullHouseMaxWinners int `hcl:"full_house_max_winners,optional"`
}

// DefaultPrizePoints returns the traditional point values.
func DefaultPrizePoints() PrizePoints {
	return PrizePoints{
		EarlyFive:           50,
		FirstLine:           100,
		SecondLine:          100,
		ThirdLine:           100,
		Corners:             50,
		FullHouse:           200,
		FullHouseMaxWinners: 2,
	}
}

// AutoCallSettings records whether the autonomous caller is enabled and at
// what cadence.
type AutoCallSettings struct {
	Enabled         bool `json:"enabled" bson:"enabled"`
	IntervalSeconds int  `json:"intervalSeconds" bson:"intervalSeconds"`
}

// Session is one running game, identified by its room code. CalledNumbers
// is append-only with no duplicates; LastCalled is zero until the first
// draw.
type Session struct {
	GameID        string           `json:"gameId" bson:"gameId"`
	RoomCode      string           `json:"roomCode" bson:"roomCode"`
	CalledNumbers []int            `json:"calledNumbers" bson:"calledNumbers"`
	LastCalled    int              `json:"lastCalledNumber,omitempty" bson:"lastCalledNumber,omitempty"`
	Status        Status           `json:"status" bson:"status"`
	AutoCall      AutoCallSettings `json:"autoCall" bson:"autoCall"`
	Prizes        PrizeBoard       `json:"prizes" bson:"prizes"`
	HostID        string           `json:"hostId,omitempty" bson:"hostId,omitempty"`
	HostName      string           `json:"hostName,omitempty" bson:"hostName,omitempty"`
	CreatedAt     time.Time        `json:"createdAt" bson:"createdAt"`
}

// NewSession creates a waiting session with an unclaimed prize board.
func NewSession(gameID, roomCode string, points PrizePoints) *Session {
	return &Session{
		GameID:   gameID,
		RoomCode: roomCode,
		Status:   StatusWaiting,
		AutoCall: AutoCallSettings{IntervalSeconds: DefaultAutoCallInterval},
		Prizes: PrizeBoard{
			EarlyFive:  Prize{Points: points.EarlyFive},
			FirstLine:  Prize{Points: points.FirstLine},
			SecondLine: Prize{Points: points.SecondLine},
			ThirdLine:  Prize{Points: points.ThirdLine},
			Corners:    Prize{Points: points.Corners},
			FullHouse: FullHousePrize{
				Winners:    []string{},
				MaxWinners: points.FullHouseMaxWinners,
				Points:     points.FullHouse,
			},
		},
		CreatedAt: time.Now(),
	}
}

// Called reports whether n has already been drawn.
func (s *Session) Called(n int) bool {
	for _, c := range s.CalledNumbers {
		if c == n {
			return true
		}
	}
	return false
}

// Remaining returns how many numbers are still undrawn.
func (s *Session) Remaining() int {
	return ticket.MaxNumber - len(s.CalledNumbers)
}

// Player is one participant's state, scoped to a single session for its
// lifetime.
type Player struct {
	ID          string        `json:"id" bson:"_id"`
	Name        string        `json:"name" bson:"name"`
	GameID      string        `json:"gameId" bson:"gameId"`
	RoomCode    string        `json:"roomCode" bson:"roomCode"`
	Ticket      ticket.Ticket `json:"ticket" bson:"ticket"`
	Marked      []int         `json:"markedNumbers" bson:"markedNumbers"`
	PrizesWon   []PrizeType   `json:"prizesWon" bson:"prizesWon"`
	TotalPoints int           `json:"totalPoints" bson:"totalPoints"`
	Ready       bool          `json:"isReady" bson:"isReady"`
	JoinedAt    time.Time     `json:"joinedAt" bson:"joinedAt"`
}

// HasMarked reports whether the player has marked n.
func (p *Player) HasMarked(n int) bool {
	for _, m := range p.Marked {
		if m == n {
			return true
		}
	}
	return false
}

// Mark records n as marked. Returns false when n was already marked.
func (p *Player) Mark(n int) bool {
	if p.HasMarked(n) {
		return false
	}
	p.Marked = append(p.Marked, n)
	return true
}

// MarkedSet returns the marked numbers as a set for the validator.
func (p *Player) MarkedSet() map[int]bool {
	set := make(map[int]bool, len(p.Marked))
	for _, m := range p.Marked {
		set[m] = true
	}
	return set
}
