package game

// EventType identifies a session engine notification.
type EventType string

const (
	EventNumberCalled    EventType = "number_called"
	EventNumberMarked    EventType = "number_marked"
	EventPrizeAwarded    EventType = "prize_awarded"
	EventClaimRejected   EventType = "claim_rejected"
	EventAutoCallStarted EventType = "auto_call_started"
	EventAutoCallStopped EventType = "auto_call_stopped"
	EventAutoCallPaused  EventType = "auto_call_paused"
	EventAutoCallResumed EventType = "auto_call_resumed"
	EventGameEnded       EventType = "game_ended"
	EventPlayerCount     EventType = "player_count"
	EventPlayerList      EventType = "player_list"
	EventHostChanged     EventType = "host_changed"
	EventAllReady        EventType = "all_players_ready"
)

// String returns the string representation of the event type.
func (et EventType) String() string { return string(et) }

// Event is any notification the session engine emits. The transport layer
// subscribes via the Broadcaster interface and fans events out to room
// members.
type Event interface {
	EventType() EventType
}

// Broadcaster delivers engine events to connected participants. The server
// package implements it over the websocket hub; tests substitute a
// recorder.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, event Event)
	SendToPlayer(playerID string, event Event)
}

// NumberCalledEvent announces one draw to the room.
type NumberCalledEvent struct {
	Number        int   `json:"number"`
	CalledNumbers []int `json:"calledNumbers"`
	Auto          bool  `json:"auto"`
}

func (NumberCalledEvent) EventType() EventType { return EventNumberCalled }

// NumberMarkedEvent confirms a mark to the marking player only.
type NumberMarkedEvent struct {
	Number int   `json:"number"`
	Marked []int `json:"markedNumbers"`
}

func (NumberMarkedEvent) EventType() EventType { return EventNumberMarked }

// PrizeAwardedEvent announces a settled claim with the updated board.
type PrizeAwardedEvent struct {
	Prize  PrizeType  `json:"prizeType"`
	Winner string     `json:"winner"`
	Points int        `json:"points"`
	Prizes PrizeBoard `json:"prizes"`
}

func (PrizeAwardedEvent) EventType() EventType { return EventPrizeAwarded }

// ClaimRejectedEvent reports a failed claim to its initiator only.
type ClaimRejectedEvent struct {
	Prize      PrizeType `json:"prizeType"`
	Reason     string    `json:"message"`
	LastCalled int       `json:"lastNumber,omitempty"`
}

func (ClaimRejectedEvent) EventType() EventType { return EventClaimRejected }

// AutoCallStartedEvent announces the caller cadence.
type AutoCallStartedEvent struct {
	IntervalSeconds int `json:"interval"`
}

func (AutoCallStartedEvent) EventType() EventType { return EventAutoCallStarted }

// AutoCallStoppedEvent announces that automatic calling halted.
type AutoCallStoppedEvent struct{}

func (AutoCallStoppedEvent) EventType() EventType { return EventAutoCallStopped }

// AutoCallPausedEvent announces a celebration pause.
type AutoCallPausedEvent struct {
	Message    string `json:"message"`
	ResumeInMs int    `json:"resumeIn"`
}

func (AutoCallPausedEvent) EventType() EventType { return EventAutoCallPaused }

// AutoCallResumedEvent announces the caller picking back up after a pause.
type AutoCallResumedEvent struct{}

func (AutoCallResumedEvent) EventType() EventType { return EventAutoCallResumed }

// GameEndedEvent announces completion with the final board.
type GameEndedEvent struct {
	Message string     `json:"message"`
	Prizes  PrizeBoard `json:"prizes"`
}

func (GameEndedEvent) EventType() EventType { return EventGameEnded }

// PlayerCountEvent reports room membership size.
type PlayerCountEvent struct {
	Count int `json:"count"`
}

func (PlayerCountEvent) EventType() EventType { return EventPlayerCount }

// PlayerSummary is the public view of a room member.
type PlayerSummary struct {
	Name        string `json:"name"`
	Ready       bool   `json:"isReady"`
	TotalPoints int    `json:"totalPoints"`
}

// PlayerListEvent reports membership and readiness.
type PlayerListEvent struct {
	Players    []PlayerSummary `json:"players"`
	AllReady   bool            `json:"allReady"`
	ReadyCount int             `json:"readyCount"`
	TotalCount int             `json:"totalCount"`
}

func (PlayerListEvent) EventType() EventType { return EventPlayerList }

// HostChangedEvent announces a host handover.
type HostChangedEvent struct {
	HostName string `json:"hostName"`
	Message  string `json:"message"`
}

func (HostChangedEvent) EventType() EventType { return EventHostChanged }

// AllReadyEvent signals that every joined player is ready.
type AllReadyEvent struct {
	Message string `json:"message"`
}

func (AllReadyEvent) EventType() EventType { return EventAllReady }
