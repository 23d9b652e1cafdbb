// Package server exposes the game engine over websockets plus a small
// HTTP surface for health checks and room status lookups.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Tanya-Jain20/Tambola-Game/internal/game"
)

// Server routes websocket intents into the orchestrator and serves the
// REST status endpoints.
type Server struct {
	orch     *game.Orchestrator
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewServer wires the transport layer. The hub must be the same instance
// handed to the orchestrator as its Broadcaster.
func NewServer(orch *game.Orchestrator, hub *Hub, logger zerolog.Logger) *Server {
	return &Server{
		orch: orch,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients connect from arbitrary origins (mobile webviews,
			// local dev servers); auth happens at the message layer.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "server").Logger(),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.GET("/api/rooms/:code", s.handleRoomStatus)
	r.GET("/ws", s.handleWebSocket)
	return r
}

// Run serves until ctx is cancelled, then drains with a grace period.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.orch.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleRoomStatus(c *gin.Context) {
	snapshot, err := s.orch.GetSnapshot(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, game.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		s.logger.Error().Err(err).Str("room", c.Param("code")).Msg("room status lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(conn, s, s.logger)
	go client.WritePump()
	go client.ReadPump()
}

// disconnect is the read pump's teardown hook: the player leaves their
// room and the connection drops out of the hub.
func (s *Server) disconnect(c *Client) {
	s.hub.Unregister(c)

	playerID, roomCode := c.PlayerID(), c.RoomCode()
	if playerID == "" || roomCode == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.orch.Leave(ctx, roomCode, playerID); err != nil && !errors.Is(err, game.ErrRoomNotFound) {
		s.logger.Error().Err(err).Str("room", roomCode).Str("player_id", playerID).Msg("leave on disconnect failed")
	}
}

// handleMessage dispatches one inbound frame.
func (s *Server) handleMessage(c *Client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(c, "bad_message", "could not parse message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Type {
	case TypeCreateRoom:
		s.handleCreateRoom(ctx, c, msg.Data)
	case TypeJoinRoom:
		s.handleJoinRoom(ctx, c, msg.Data)
	case TypeBecomeHost:
		s.withRoom(c, func(room, player string) error {
			return s.orch.BecomeHost(ctx, room, player)
		})
	case TypeToggleReady:
		var req ToggleReadyData
		if !s.decode(c, msg.Data, &req) {
			return
		}
		s.withRoom(c, func(room, player string) error {
			return s.orch.ToggleReady(ctx, room, player, req.Ready)
		})
	case TypeCallNumber:
		s.withRoom(c, func(room, _ string) error {
			_, err := s.orch.DrawNumber(ctx, room)
			return err
		})
	case TypeStartAutoCall:
		var req StartAutoCallData
		if !s.decode(c, msg.Data, &req) {
			return
		}
		interval := game.DefaultAutoCallInterval
		if req.IntervalSeconds != nil {
			interval = *req.IntervalSeconds
		}
		s.withRoom(c, func(room, _ string) error {
			return s.orch.StartAutoCall(ctx, room, interval)
		})
	case TypeStopAutoCall:
		s.withRoom(c, func(room, _ string) error {
			return s.orch.StopAutoCall(ctx, room)
		})
	case TypeMarkNumber:
		var req MarkNumberData
		if !s.decode(c, msg.Data, &req) {
			return
		}
		s.withRoom(c, func(room, player string) error {
			return s.orch.MarkNumber(ctx, room, player, req.Number)
		})
	case TypeClaimPrize:
		var req ClaimPrizeData
		if !s.decode(c, msg.Data, &req) {
			return
		}
		s.withRoom(c, func(room, player string) error {
			_, err := s.orch.ClaimPrize(ctx, room, player, game.PrizeType(req.PrizeType))
			return err
		})
	case TypeGetState:
		s.handleGetState(ctx, c)
	case TypeLeaveRoom:
		s.handleLeaveRoom(ctx, c)
	default:
		s.sendError(c, "unknown_type", "unknown message type: "+string(msg.Type))
	}
}

func (s *Server) handleCreateRoom(ctx context.Context, c *Client, data json.RawMessage) {
	var req CreateRoomData
	if !s.decode(c, data, &req) {
		return
	}
	if req.PlayerName == "" {
		s.sendError(c, "missing_name", "playerName is required")
		return
	}

	view, err := s.orch.CreateRoom(ctx, req.PlayerName, req.IsHost)
	if err != nil {
		s.sendOperationError(c, err)
		return
	}

	c.bind(view.Player.ID, view.Session.RoomCode)
	s.hub.Register(c, view.Player.ID, view.Session.RoomCode)
	s.reply(c, TypeRoomCreated, roomEntered(view))
}

func (s *Server) handleJoinRoom(ctx context.Context, c *Client, data json.RawMessage) {
	var req JoinRoomData
	if !s.decode(c, data, &req) {
		return
	}
	if req.PlayerName == "" || req.RoomCode == "" {
		s.sendError(c, "missing_fields", "roomCode and playerName are required")
		return
	}

	view, err := s.orch.JoinRoom(ctx, req.RoomCode, req.PlayerName)
	if err != nil {
		s.sendOperationError(c, err)
		return
	}

	c.bind(view.Player.ID, view.Session.RoomCode)
	s.hub.Register(c, view.Player.ID, view.Session.RoomCode)
	s.reply(c, TypeRoomJoined, roomEntered(view))
}

func (s *Server) handleGetState(ctx context.Context, c *Client) {
	playerID, roomCode := c.PlayerID(), c.RoomCode()
	if playerID == "" {
		s.sendError(c, "not_in_room", "join a room first")
		return
	}

	snapshot, err := s.orch.GetSnapshot(ctx, roomCode)
	if err != nil {
		s.sendOperationError(c, err)
		return
	}
	player, err := s.orch.GetPlayer(ctx, playerID)
	if err != nil {
		s.sendOperationError(c, err)
		return
	}
	s.reply(c, TypeGameState, GameStateData{
		Session: snapshot.Session,
		Players: snapshot.Players,
		Ticket:  player.Ticket,
		Marked:  player.Marked,
	})
}

func (s *Server) handleLeaveRoom(ctx context.Context, c *Client) {
	playerID, roomCode := c.PlayerID(), c.RoomCode()
	if playerID == "" {
		return
	}
	s.hub.Unregister(c)
	c.bind("", "")
	if err := s.orch.Leave(ctx, roomCode, playerID); err != nil && !errors.Is(err, game.ErrRoomNotFound) {
		s.sendOperationError(c, err)
	}
}

// withRoom runs an operation that requires the client to be in a room.
func (s *Server) withRoom(c *Client, fn func(roomCode, playerID string) error) {
	playerID, roomCode := c.PlayerID(), c.RoomCode()
	if playerID == "" || roomCode == "" {
		s.sendError(c, "not_in_room", "join a room first")
		return
	}
	if err := fn(roomCode, playerID); err != nil {
		s.sendOperationError(c, err)
	}
}

func (s *Server) decode(c *Client, data json.RawMessage, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		s.sendError(c, "bad_payload", "could not parse message payload")
		return false
	}
	return true
}

// sendOperationError maps engine errors to wire error codes. Claim
// rejections are already delivered as claim_rejected events, so they
// produce no extra frame.
func (s *Server) sendOperationError(c *Client, err error) {
	var claimErr *game.ClaimError
	if errors.As(err, &claimErr) {
		return
	}

	code := "internal_error"
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		code = "room_not_found"
	case errors.Is(err, game.ErrPlayerNotFound):
		code = "player_not_found"
	case errors.Is(err, game.ErrGameEnded):
		code = "game_ended"
	case errors.Is(err, game.ErrInvalidState):
		code = "invalid_state"
	case errors.Is(err, game.ErrPoolExhausted):
		code = "pool_exhausted"
	case errors.Is(err, game.ErrNumberNotCalled):
		code = "number_not_called"
	case errors.Is(err, game.ErrNumberNotOnTicket):
		code = "number_not_on_ticket"
	case errors.Is(err, game.ErrInvalidInterval):
		code = "invalid_interval"
	}
	if code == "internal_error" {
		s.logger.Error().Err(err).Msg("operation failed")
	}
	s.sendError(c, code, err.Error())
}

func (s *Server) sendError(c *Client, code, message string) {
	s.reply(c, TypeError, ErrorData{Code: code, Message: message})
}

func (s *Server) reply(c *Client, t MessageType, data any) {
	msg, err := NewMessage(t, data)
	if err != nil {
		s.logger.Error().Err(err).Str("type", string(t)).Msg("encode reply")
		return
	}
	if err := c.Send(msg); err != nil {
		s.logger.Debug().Err(err).Str("type", string(t)).Msg("reply not delivered")
	}
}
