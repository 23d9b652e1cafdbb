package game

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Tanya-Jain20/Tambola-Game/internal/randutil"
	"github.com/Tanya-Jain20/Tambola-Game/internal/roomcode"
	"github.com/Tanya-Jain20/Tambola-Game/internal/ticket"
)

const maxCodeAttempts = 20

// Orchestrator serializes every state-changing operation per room and is
// the only component that writes through the Store. It owns the shared
// RNG, the room code generator, and the auto-call scheduler; the
// transport layer talks to it and never touches sessions directly.
type Orchestrator struct {
	store       Store
	broadcaster Broadcaster
	rng         *randutil.Locked
	clock       quartz.Clock
	logger      zerolog.Logger
	points      PrizePoints
	codes       *roomcode.Generator
	caller      *AutoCaller

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrchestrator wires the engine together. The clock is injected so
// tests can drive celebration pauses and call cadence explicitly.
func NewOrchestrator(store Store, broadcaster Broadcaster, rng *randutil.Locked, clock quartz.Clock, logger zerolog.Logger, points PrizePoints) *Orchestrator {
	o := &Orchestrator{
		store:       store,
		broadcaster: broadcaster,
		rng:         rng,
		clock:       clock,
		logger:      logger.With().Str("component", "orchestrator").Logger(),
		points:      points,
		codes:       roomcode.NewGenerator(rng),
		locks:       make(map[string]*sync.Mutex),
	}
	o.caller = NewAutoCaller(clock, logger, o.autoTick, o.celebrationResume)
	return o
}

// roomLock returns the mutex serializing one room's operations. Locks are
// created on demand and live for the process; rooms are few and short.
func (o *Orchestrator) roomLock(roomCode string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[roomCode]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[roomCode] = lock
	}
	return lock
}

// Shutdown stops every calling loop. In-flight operations finish under
// their room locks; nothing new is scheduled.
func (o *Orchestrator) Shutdown() {
	o.caller.StopAll()
}

// RoomView is what a player sees on entering a room: the session, their
// own full player record, and the public roster.
type RoomView struct {
	Session *Session
	Player  *Player
	Players []PlayerSummary
}

// CreateRoom provisions a session with a fresh room code and enrolls its
// first player. When isHost is set the player becomes the room's host.
func (o *Orchestrator) CreateRoom(ctx context.Context, playerName string, isHost bool) (*RoomView, error) {
	code, err := o.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	gameID := fmt.Sprintf("game-%d-%s", o.clock.Now().UnixMilli(), code)
	session := NewSession(gameID, code, o.points)

	player := o.newPlayer(playerName, session)
	if isHost {
		session.HostID = player.ID
		session.HostName = player.Name
	}

	if err := o.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := o.store.CreatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	o.logger.Info().
		Str("room", code).
		Str("game_id", gameID).
		Str("player", player.Name).
		Bool("host", isHost).
		Msg("room created")

	return &RoomView{
		Session: session,
		Player:  player,
		Players: []PlayerSummary{summarize(player)},
	}, nil
}

// JoinRoom enrolls a new player in an existing room. Ended rooms reject
// joins; waiting and active rooms accept late joiners.
func (o *Orchestrator) JoinRoom(ctx context.Context, code, playerName string) (*RoomView, error) {
	code = roomcode.Normalize(code)
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}
	if session.Status == StatusEnded {
		return nil, ErrGameEnded
	}

	player := o.newPlayer(playerName, session)
	if err := o.store.CreatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	players, err := o.store.PlayersByRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	o.broadcaster.BroadcastToRoom(code, PlayerCountEvent{Count: len(players)})
	o.broadcaster.BroadcastToRoom(code, playerList(players))

	o.logger.Info().Str("room", code).Str("player", player.Name).Msg("player joined")

	return &RoomView{
		Session: session,
		Player:  player,
		Players: summaries(players),
	}, nil
}

func (o *Orchestrator) newPlayer(name string, session *Session) *Player {
	return &Player{
		ID:        uuid.NewString(),
		Name:      name,
		GameID:    session.GameID,
		RoomCode:  session.RoomCode,
		Ticket:    ticket.Generate(o.rng.Fork()),
		Marked:    []int{},
		PrizesWon: []PrizeType{},
		JoinedAt:  o.clock.Now(),
	}
}

func (o *Orchestrator) uniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := o.codes.Generate()
		_, err := o.store.GetSession(ctx, code)
		if errors.Is(err, ErrRoomNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not find a free room code after %d attempts", maxCodeAttempts)
}

// BecomeHost hands the host role to the requesting player. Only allowed
// while the room is still waiting, so a running game keeps its caller.
func (o *Orchestrator) BecomeHost(ctx context.Context, code, playerID string) error {
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return err
	}
	if session.Status != StatusWaiting {
		return ErrInvalidState
	}
	player, err := o.store.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	session.HostID = player.ID
	session.HostName = player.Name
	if err := o.store.SaveSession(ctx, session); err != nil {
		return err
	}

	o.broadcaster.BroadcastToRoom(code, HostChangedEvent{
		HostName: player.Name,
		Message:  fmt.Sprintf("%s is now the host", player.Name),
	})
	return nil
}

// ToggleReady flips the player's ready flag and republishes the roster.
// When the last player readies up the room gets a dedicated signal.
func (o *Orchestrator) ToggleReady(ctx context.Context, code, playerID string, ready bool) error {
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	player, err := o.store.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	player.Ready = ready
	if err := o.store.SavePlayer(ctx, player); err != nil {
		return err
	}

	players, err := o.store.PlayersByRoom(ctx, code)
	if err != nil {
		return err
	}
	list := playerList(players)
	o.broadcaster.BroadcastToRoom(code, list)
	if list.AllReady && list.TotalCount > 0 {
		o.broadcaster.BroadcastToRoom(code, AllReadyEvent{Message: "all players are ready"})
	}
	return nil
}

// DrawNumber performs one manual draw and announces it to the room.
func (o *Orchestrator) DrawNumber(ctx context.Context, code string) (int, error) {
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return 0, err
	}

	n, err := o.draw(session)
	if err != nil {
		return 0, err
	}
	if err := o.store.SaveSession(ctx, session); err != nil {
		return 0, err
	}

	o.broadcaster.BroadcastToRoom(code, NumberCalledEvent{
		Number:        n,
		CalledNumbers: session.CalledNumbers,
		Auto:          false,
	})
	return n, nil
}

func (o *Orchestrator) draw(session *Session) (int, error) {
	var (
		n   int
		err error
	)
	o.rng.With(func(r *rand.Rand) {
		n, err = Draw(session, r)
	})
	return n, err
}

// autoTick is the scheduler's per-interval callback. Returning an error
// ends the room's calling loop; exhaustion additionally disables the
// setting and tells the room.
func (o *Orchestrator) autoTick(code string) error {
	ctx := context.Background()
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return err
	}
	if session.Status == StatusEnded {
		return ErrGameEnded
	}
	if !session.AutoCall.Enabled {
		return ErrInvalidState
	}

	n, err := o.draw(session)
	if errors.Is(err, ErrPoolExhausted) {
		session.AutoCall.Enabled = false
		if saveErr := o.store.SaveSession(ctx, session); saveErr != nil {
			o.logger.Error().Str("room", code).Err(saveErr).Msg("save after pool exhaustion failed")
		}
		o.broadcaster.BroadcastToRoom(code, AutoCallStoppedEvent{})
		return err
	}
	if err != nil {
		return err
	}
	if err := o.store.SaveSession(ctx, session); err != nil {
		return err
	}

	o.broadcaster.BroadcastToRoom(code, NumberCalledEvent{
		Number:        n,
		CalledNumbers: session.CalledNumbers,
		Auto:          true,
	})
	return nil
}

// StartAutoCall enables scheduled draws at the given cadence. Restarting
// with a new interval supersedes the previous loop.
func (o *Orchestrator) StartAutoCall(ctx context.Context, code string, intervalSeconds int) error {
	if intervalSeconds <= 0 {
		return ErrInvalidInterval
	}

	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return err
	}
	if session.Status == StatusEnded {
		return ErrGameEnded
	}

	session.AutoCall.Enabled = true
	session.AutoCall.IntervalSeconds = intervalSeconds
	if err := o.store.SaveSession(ctx, session); err != nil {
		return err
	}

	o.caller.Start(code, time.Duration(intervalSeconds)*time.Second)
	o.broadcaster.BroadcastToRoom(code, AutoCallStartedEvent{IntervalSeconds: intervalSeconds})
	return nil
}

// StopAutoCall disables scheduled draws. Safe to call when nothing runs.
func (o *Orchestrator) StopAutoCall(ctx context.Context, code string) error {
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return err
	}

	session.AutoCall.Enabled = false
	if err := o.store.SaveSession(ctx, session); err != nil {
		return err
	}

	o.caller.Stop(code)
	o.broadcaster.BroadcastToRoom(code, AutoCallStoppedEvent{})
	return nil
}

// celebrationResume fires when a prize celebration pause elapses. It
// re-reads the session: a room that ended or was stopped during the pause
// stays stopped.
func (o *Orchestrator) celebrationResume(code string) {
	ctx := context.Background()
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		o.caller.Stop(code)
		return
	}
	if session.Status != StatusActive || session.Prizes.AllAwarded() {
		o.caller.Stop(code)
		return
	}

	session.AutoCall.Enabled = true
	if err := o.store.SaveSession(ctx, session); err != nil {
		o.logger.Error().Str("room", code).Err(err).Msg("save on celebration resume failed")
		o.caller.Stop(code)
		return
	}

	interval := session.AutoCall.IntervalSeconds
	if interval <= 0 {
		interval = DefaultAutoCallInterval
	}
	o.caller.Start(code, time.Duration(interval)*time.Second)
	o.broadcaster.BroadcastToRoom(code, AutoCallResumedEvent{})
}

// MarkNumber records a number on the player's ticket. The number must
// have been drawn and must be on the ticket; re-marking is a no-op that
// still confirms back to the player.
func (o *Orchestrator) MarkNumber(ctx context.Context, code, playerID string, n int) error {
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return err
	}
	player, err := o.store.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	if !session.Called(n) {
		return ErrNumberNotCalled
	}
	if !player.Ticket.Contains(n) {
		return ErrNumberNotOnTicket
	}

	if player.Mark(n) {
		if err := o.store.SavePlayer(ctx, player); err != nil {
			return err
		}
	}
	o.broadcaster.SendToPlayer(playerID, NumberMarkedEvent{
		Number: n,
		Marked: player.Marked,
	})
	return nil
}

// AwardResult reports a settled claim.
type AwardResult struct {
	Prize     PrizeType
	Winner    string
	Points    int
	GameEnded bool
}

// ClaimPrize validates and settles a prize claim atomically under the
// room lock. A rejection is returned as *ClaimError and reported to the
// claimant only; an award is broadcast with the updated board. Awarding
// the final prize ends the session.
func (o *Orchestrator) ClaimPrize(ctx context.Context, code, playerID string, pt PrizeType) (*AwardResult, error) {
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}
	player, err := o.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if session.Status == StatusEnded {
		return nil, ErrGameEnded
	}

	if claimErr := o.settleClaim(session, player, pt); claimErr != nil {
		o.broadcaster.SendToPlayer(playerID, ClaimRejectedEvent{
			Prize:      pt,
			Reason:     claimErr.Reason,
			LastCalled: session.LastCalled,
		})
		return nil, claimErr
	}

	wasAuto := session.AutoCall.Enabled
	ended := session.Prizes.AllAwarded()
	if ended {
		session.Status = StatusEnded
		session.AutoCall.Enabled = false
	} else if wasAuto {
		session.AutoCall.Enabled = false
	}

	if err := o.store.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := o.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	points := o.prizePoints(pt)
	o.broadcaster.BroadcastToRoom(code, PrizeAwardedEvent{
		Prize:  pt,
		Winner: player.Name,
		Points: points,
		Prizes: session.Prizes,
	})
	if players, err := o.store.PlayersByRoom(ctx, code); err == nil {
		o.broadcaster.BroadcastToRoom(code, playerList(players))
	}

	switch {
	case ended:
		o.caller.Stop(code)
		o.broadcaster.BroadcastToRoom(code, GameEndedEvent{
			Message: "all prizes have been claimed",
			Prizes:  session.Prizes,
		})
	case wasAuto:
		o.caller.PauseForCelebration(code, CelebrationPause)
		o.broadcaster.BroadcastToRoom(code, AutoCallPausedEvent{
			Message:    fmt.Sprintf("%s won %s", player.Name, pt),
			ResumeInMs: int(CelebrationPause / time.Millisecond),
		})
	}

	o.logger.Info().
		Str("room", code).
		Str("player", player.Name).
		Str("prize", pt.String()).
		Int("points", points).
		Bool("game_ended", ended).
		Msg("prize awarded")

	return &AwardResult{Prize: pt, Winner: player.Name, Points: points, GameEnded: ended}, nil
}

// settleClaim applies the claim rules and, on success, mutates the board
// and the player in place. Callers persist both.
func (o *Orchestrator) settleClaim(session *Session, player *Player, pt PrizeType) *ClaimError {
	marked := player.MarkedSet()
	if !LastCallFresh(marked, session.LastCalled) {
		return rejectClaim(pt, "last called number (%d) is not marked on your ticket", session.LastCalled)
	}

	if pt == PrizeFullHouse {
		fh := &session.Prizes.FullHouse
		if fh.HasWinner(player.Name) {
			return rejectClaim(pt, "you have already claimed full house")
		}
		if fh.Full() {
			return rejectClaim(pt, "full house has already been claimed by %d winners", fh.MaxWinners)
		}
		if !FullHouseDone(player.Ticket, marked) {
			return rejectClaim(pt, "your ticket is not fully marked")
		}
		fh.Winners = append(fh.Winners, player.Name)
		o.credit(player, pt, fh.Points)
		return nil
	}

	entry := session.Prizes.Entry(pt)
	if entry == nil {
		return rejectClaim(pt, "unknown prize type")
	}
	if entry.Claimed {
		return rejectClaim(pt, "%s has already been claimed by %s", pt, entry.Winner)
	}
	if !PatternDone(pt, player.Ticket, marked) {
		return rejectClaim(pt, "the %s pattern is not complete", pt)
	}
	entry.Claimed = true
	entry.Winner = player.Name
	o.credit(player, pt, entry.Points)
	return nil
}

func (o *Orchestrator) credit(player *Player, pt PrizeType, points int) {
	player.PrizesWon = append(player.PrizesWon, pt)
	player.TotalPoints += points
}

func (o *Orchestrator) prizePoints(pt PrizeType) int {
	switch pt {
	case PrizeEarlyFive:
		return o.points.EarlyFive
	case PrizeFirstLine:
		return o.points.FirstLine
	case PrizeSecondLine:
		return o.points.SecondLine
	case PrizeThirdLine:
		return o.points.ThirdLine
	case PrizeCorners:
		return o.points.Corners
	case PrizeFullHouse:
		return o.points.FullHouse
	}
	return 0
}

// Leave removes a player. The last player out tears the room down; if
// the host leaves an occupied room, the earliest joiner inherits the
// role.
func (o *Orchestrator) Leave(ctx context.Context, code, playerID string) error {
	lock := o.roomLock(code)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return err
	}
	wasHost := session.HostID == playerID

	if err := o.store.DeletePlayer(ctx, playerID); err != nil {
		return err
	}

	players, err := o.store.PlayersByRoom(ctx, code)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		o.caller.Stop(code)
		if err := o.store.DeleteSession(ctx, code); err != nil {
			return err
		}
		o.logger.Info().Str("room", code).Msg("room closed, last player left")
		return nil
	}

	if wasHost {
		next := players[0]
		session.HostID = next.ID
		session.HostName = next.Name
		if err := o.store.SaveSession(ctx, session); err != nil {
			return err
		}
		o.broadcaster.BroadcastToRoom(code, HostChangedEvent{
			HostName: next.Name,
			Message:  fmt.Sprintf("%s is now the host", next.Name),
		})
	}

	o.broadcaster.BroadcastToRoom(code, PlayerCountEvent{Count: len(players)})
	o.broadcaster.BroadcastToRoom(code, playerList(players))
	return nil
}

// Snapshot returns the room's full state for the status endpoint and for
// a client resyncing after reconnect.
type Snapshot struct {
	Session *Session        `json:"session"`
	Players []PlayerSummary `json:"players"`
}

// GetSnapshot loads the session and roster without taking the room lock;
// reads tolerate slight staleness.
func (o *Orchestrator) GetSnapshot(ctx context.Context, code string) (*Snapshot, error) {
	code = roomcode.Normalize(code)
	session, err := o.store.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}
	players, err := o.store.PlayersByRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Session: session, Players: summaries(players)}, nil
}

// GetPlayer returns one player's full record, for ticket resync.
func (o *Orchestrator) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	return o.store.GetPlayer(ctx, playerID)
}

func summarize(p *Player) PlayerSummary {
	return PlayerSummary{Name: p.Name, Ready: p.Ready, TotalPoints: p.TotalPoints}
}

func summaries(players []*Player) []PlayerSummary {
	out := make([]PlayerSummary, 0, len(players))
	for _, p := range players {
		out = append(out, summarize(p))
	}
	return out
}

func playerList(players []*Player) PlayerListEvent {
	ready := 0
	for _, p := range players {
		if p.Ready {
			ready++
		}
	}
	return PlayerListEvent{
		Players:    summaries(players),
		AllReady:   len(players) > 0 && ready == len(players),
		ReadyCount: ready,
		TotalCount: len(players),
	}
}
