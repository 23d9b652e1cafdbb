package server

import (
	"encoding/json"
	"time"

	"github.com/Tanya-Jain20/Tambola-Game/internal/game"
	"github.com/Tanya-Jain20/Tambola-Game/internal/ticket"
)

// MessageType identifies a websocket frame.
type MessageType string

// Client → server message types.
const (
	TypeCreateRoom    MessageType = "create_room"
	TypeJoinRoom      MessageType = "join_room"
	TypeBecomeHost    MessageType = "become_host"
	TypeToggleReady   MessageType = "toggle_ready"
	TypeCallNumber    MessageType = "call_number"
	TypeStartAutoCall MessageType = "start_auto_call"
	TypeStopAutoCall  MessageType = "stop_auto_call"
	TypeMarkNumber    MessageType = "mark_number"
	TypeClaimPrize    MessageType = "claim_prize"
	TypeGetState      MessageType = "get_state"
	TypeLeaveRoom     MessageType = "leave_room"
)

// Server → client message types. Engine events reuse their event type
// string as the frame type; these cover the direct request responses.
const (
	TypeRoomCreated MessageType = "room_created"
	TypeRoomJoined  MessageType = "room_joined"
	TypeGameState   MessageType = "game_state"
	TypeError       MessageType = "error"
)

// Message is the websocket envelope: a type tag, an opaque payload, and
// the send time.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope with the current timestamp.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}

// Client → server payloads.

type CreateRoomData struct {
	PlayerName string `json:"playerName"`
	IsHost     bool   `json:"isHost"`
}

type JoinRoomData struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type ToggleReadyData struct {
	Ready bool `json:"isReady"`
}

type StartAutoCallData struct {
	// IntervalSeconds falls back to the engine default when omitted.
	IntervalSeconds *int `json:"interval,omitempty"`
}

type MarkNumberData struct {
	Number int `json:"number"`
}

type ClaimPrizeData struct {
	PrizeType string `json:"prizeType"`
}

// Server → client payloads.

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomEnteredData answers both create_room and join_room: the player's
// private ticket plus the shared room state.
type RoomEnteredData struct {
	RoomCode string               `json:"roomCode"`
	GameID   string               `json:"gameId"`
	PlayerID string               `json:"playerId"`
	Name     string               `json:"playerName"`
	IsHost   bool                 `json:"isHost"`
	Ticket   ticket.Ticket        `json:"ticket"`
	Session  *game.Session        `json:"gameState"`
	Players  []game.PlayerSummary `json:"players"`
}

func roomEntered(view *game.RoomView) RoomEnteredData {
	return RoomEnteredData{
		RoomCode: view.Session.RoomCode,
		GameID:   view.Session.GameID,
		PlayerID: view.Player.ID,
		Name:     view.Player.Name,
		IsHost:   view.Session.HostID == view.Player.ID,
		Ticket:   view.Player.Ticket,
		Session:  view.Session,
		Players:  view.Players,
	}
}

// GameStateData is the resync payload: shared room state plus the
// requesting player's own ticket and marks.
type GameStateData struct {
	Session *game.Session        `json:"gameState"`
	Players []game.PlayerSummary `json:"players"`
	Ticket  ticket.Ticket        `json:"ticket"`
	Marked  []int                `json:"markedNumbers"`
}
