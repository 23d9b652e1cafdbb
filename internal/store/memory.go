package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Tanya-Jain20/Tambola-Game/internal/game"
)

// MemoryStore is the default Store: mutex-guarded maps with copy-on-read
// and copy-on-write semantics so callers never share state with the store,
// matching how a real database round-trip behaves.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
	players  map[string]*game.Player
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*game.Session),
		players:  make(map[string]*game.Player),
	}
}

// CreateSession stores a new session.
func (m *MemoryStore) CreateSession(_ context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.RoomCode] = copySession(s)
	return nil
}

// GetSession returns the session for a room code, or game.ErrRoomNotFound.
func (m *MemoryStore) GetSession(_ context.Context, roomCode string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[roomCode]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	return copySession(s), nil
}

// SaveSession overwrites the stored session.
func (m *MemoryStore) SaveSession(_ context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.RoomCode]; !ok {
		return game.ErrRoomNotFound
	}
	m.sessions[s.RoomCode] = copySession(s)
	return nil
}

// DeleteSession removes a session.
func (m *MemoryStore) DeleteSession(_ context.Context, roomCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, roomCode)
	return nil
}

// CreatePlayer stores a new player.
func (m *MemoryStore) CreatePlayer(_ context.Context, p *game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.ID] = copyPlayer(p)
	return nil
}

// GetPlayer returns the player for an ID, or game.ErrPlayerNotFound.
func (m *MemoryStore) GetPlayer(_ context.Context, id string) (*game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	if !ok {
		return nil, game.ErrPlayerNotFound
	}
	return copyPlayer(p), nil
}

// SavePlayer overwrites the stored player.
func (m *MemoryStore) SavePlayer(_ context.Context, p *game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.ID]; !ok {
		return game.ErrPlayerNotFound
	}
	m.players[p.ID] = copyPlayer(p)
	return nil
}

// DeletePlayer removes a player.
func (m *MemoryStore) DeletePlayer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, id)
	return nil
}

// PlayersByRoom returns the room's players in join order.
func (m *MemoryStore) PlayersByRoom(_ context.Context, roomCode string) ([]*game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var players []*game.Player
	for _, p := range m.players {
		if p.RoomCode == roomCode {
			players = append(players, copyPlayer(p))
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})
	return players, nil
}

// CountPlayers returns how many players are in the room.
func (m *MemoryStore) CountPlayers(_ context.Context, roomCode string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, p := range m.players {
		if p.RoomCode == roomCode {
			count++
		}
	}
	return count, nil
}

func copySession(s *game.Session) *game.Session {
	out := *s
	out.CalledNumbers = append([]int(nil), s.CalledNumbers...)
	out.Prizes.FullHouse.Winners = append([]string(nil), s.Prizes.FullHouse.Winners...)
	return &out
}

func copyPlayer(p *game.Player) *game.Player {
	out := *p
	out.Marked = append([]int(nil), p.Marked...)
	out.PrizesWon = append([]game.PrizeType(nil), p.PrizesWon...)
	return &out
}
