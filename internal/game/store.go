package game

import "context"

// Store is the persistence boundary for sessions and players. The engine
// treats it as the sole source of truth: every serialized operation loads
// state, mutates it, and writes it back, caching nothing across
// operations.
//
// Lookups return ErrRoomNotFound or ErrPlayerNotFound when the record
// does not exist. Implementations live in internal/store.
type Store interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, roomCode string) (*Session, error)
	SaveSession(ctx context.Context, s *Session) error
	DeleteSession(ctx context.Context, roomCode string) error

	CreatePlayer(ctx context.Context, p *Player) error
	GetPlayer(ctx context.Context, id string) (*Player, error)
	SavePlayer(ctx context.Context, p *Player) error
	DeletePlayer(ctx context.Context, id string) error

	PlayersByRoom(ctx context.Context, roomCode string) ([]*Player, error)
	CountPlayers(ctx context.Context, roomCode string) (int, error)
}
