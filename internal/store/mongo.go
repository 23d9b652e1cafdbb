package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tanya-Jain20/Tambola-Game/internal/game"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists sessions and players in MongoDB, mirroring the
// in-memory layout: one document per session keyed by room code, one per
// player keyed by ID.
type MongoStore struct {
	client   *mongo.Client
	sessions *mongo.Collection
	players  *mongo.Collection
}

// DialMongo connects to MongoDB and prepares the game collections.
func DialMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:   client,
		sessions: db.Collection("sessions"),
		players:  db.Collection("players"),
	}, nil
}

// Close disconnects the underlying client.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// CreateSession inserts a new session document.
func (m *MongoStore) CreateSession(ctx context.Context, s *game.Session) error {
	_, err := m.sessions.InsertOne(ctx, s)
	return err
}

// GetSession finds a session by room code.
func (m *MongoStore) GetSession(ctx context.Context, roomCode string) (*game.Session, error) {
	var s game.Session
	err := m.sessions.FindOne(ctx, bson.M{"roomCode": roomCode}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, game.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSession replaces the session document.
func (m *MongoStore) SaveSession(ctx context.Context, s *game.Session) error {
	res, err := m.sessions.ReplaceOne(ctx, bson.M{"roomCode": s.RoomCode}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return game.ErrRoomNotFound
	}
	return nil
}

// DeleteSession removes the session document.
func (m *MongoStore) DeleteSession(ctx context.Context, roomCode string) error {
	_, err := m.sessions.DeleteOne(ctx, bson.M{"roomCode": roomCode})
	return err
}

// CreatePlayer inserts a new player document.
func (m *MongoStore) CreatePlayer(ctx context.Context, p *game.Player) error {
	_, err := m.players.InsertOne(ctx, p)
	return err
}

// GetPlayer finds a player by ID.
func (m *MongoStore) GetPlayer(ctx context.Context, id string) (*game.Player, error) {
	var p game.Player
	err := m.players.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, game.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePlayer replaces the player document.
func (m *MongoStore) SavePlayer(ctx context.Context, p *game.Player) error {
	res, err := m.players.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return game.ErrPlayerNotFound
	}
	return nil
}

// DeletePlayer removes the player document.
func (m *MongoStore) DeletePlayer(ctx context.Context, id string) error {
	_, err := m.players.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// PlayersByRoom returns the room's players in join order.
func (m *MongoStore) PlayersByRoom(ctx context.Context, roomCode string) ([]*game.Player, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joinedAt", Value: 1}})
	cursor, err := m.players.Find(ctx, bson.M{"roomCode": roomCode}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var players []*game.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// CountPlayers returns how many players are in the room.
func (m *MongoStore) CountPlayers(ctx context.Context, roomCode string) (int, error) {
	count, err := m.players.CountDocuments(ctx, bson.M{"roomCode": roomCode})
	return int(count), err
}
