package server

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/Tanya-Jain20/Tambola-Game/internal/game"
)

// Hub tracks connections by player and by room and fans engine events
// out to them. It implements game.Broadcaster.
type Hub struct {
	logger zerolog.Logger

	mu       sync.RWMutex
	byPlayer map[string]*Client
	rooms    map[string]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:   logger.With().Str("component", "hub").Logger(),
		byPlayer: make(map[string]*Client),
		rooms:    make(map[string]map[*Client]struct{}),
	}
}

// Register binds a client to its player ID and room once room entry
// succeeds.
func (h *Hub) Register(c *Client, playerID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.byPlayer[playerID] = c
	room, ok := h.rooms[roomCode]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[roomCode] = room
	}
	room[c] = struct{}{}
}

// Unregister drops a client from the player and room indexes.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	playerID := c.PlayerID()
	if playerID != "" && h.byPlayer[playerID] == c {
		delete(h.byPlayer, playerID)
	}
	roomCode := c.RoomCode()
	if room, ok := h.rooms[roomCode]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, roomCode)
		}
	}
}

// BroadcastToRoom sends an engine event to every connection in the room.
func (h *Hub) BroadcastToRoom(roomCode string, event game.Event) {
	msg, err := NewMessage(MessageType(event.EventType()), event)
	if err != nil {
		h.logger.Error().Err(err).Str("room", roomCode).Msg("encode broadcast event")
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[roomCode]))
	for c := range h.rooms[roomCode] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.Send(msg); err != nil {
			h.logger.Debug().Err(err).Str("room", roomCode).Msg("drop broadcast to slow client")
		}
	}
}

// SendToPlayer sends an engine event to one player's connection, if any.
func (h *Hub) SendToPlayer(playerID string, event game.Event) {
	msg, err := NewMessage(MessageType(event.EventType()), event)
	if err != nil {
		h.logger.Error().Err(err).Str("player_id", playerID).Msg("encode player event")
		return
	}

	h.mu.RLock()
	c, ok := h.byPlayer[playerID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if err := c.Send(msg); err != nil {
		h.logger.Debug().Err(err).Str("player_id", playerID).Msg("drop send to slow client")
	}
}
