// Package app contains the use-cases tying rooms, games, bots and the event
// backbone together. The transport layer calls in; everything observable
// flows back out as events on the room topic.
package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"bigtwo/internal/auth"
	"bigtwo/internal/bot"
	"bigtwo/internal/domain"
	"bigtwo/internal/event"
	"bigtwo/internal/game"
	"bigtwo/internal/room"
	"bigtwo/internal/stats"
)

var (
	// ErrNotHost rejects host-only operations by other participants.
	ErrNotHost = errors.New("app: host only")
	// ErrNotABot rejects bot removal aimed at a human or unknown id.
	ErrNotABot = errors.New("app: no such bot")
)

// Service is the application core. One instance per server process; all
// state lives in the injected collaborators.
type Service struct {
	rooms *room.Manager
	games *game.Store
	bots  *bot.Registry
	stats *stats.Tracker
	bus   *event.Bus
	disp  *event.Dispatcher
	log   *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService wires the core and installs the room teardown hook: when a room
// leaves the table its game, bots, stats and topic attachment go with it.
func NewService(rooms *room.Manager, games *game.Store, bots *bot.Registry,
	tracker *stats.Tracker, bus *event.Bus, disp *event.Dispatcher, log *zap.Logger) *Service {

	s := &Service{
		rooms: rooms,
		games: games,
		bots:  bots,
		stats: tracker,
		bus:   bus,
		disp:  disp,
		log:   log,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	rooms.OnDelete(func(roomID string) {
		disp.Detach(roomID)
		games.Delete(roomID)
		bots.RemoveRoom(roomID)
		tracker.Release(roomID)
	})
	return s
}

// CreateRoom opens a room hosted by the caller and attaches its event topic.
func (s *Service) CreateRoom(who auth.Identity) *room.View {
	v := s.rooms.Create(room.Participant{ID: who.ID, Name: who.Name})
	s.disp.Attach(v.ID)
	return v
}

// ListRooms returns the current room table.
func (s *Service) ListRooms() []*room.View {
	return s.rooms.List()
}

// JoinRoom seats the caller. Rejoins are idempotent and publish nothing.
func (s *Service) JoinRoom(roomID string, who auth.Identity) (*room.View, error) {
	before, err := s.rooms.Get(roomID)
	if err != nil {
		return nil, err
	}
	rejoin := before.Has(who.ID)

	v, err := s.rooms.Join(roomID, room.Participant{ID: who.ID, Name: who.Name})
	if err != nil {
		return nil, err
	}
	if !rejoin {
		s.bus.Publish(roomID, event.Event{
			Kind:    event.PlayerJoined,
			Payload: event.PlayerJoinedPayload{ID: who.ID, Name: who.Name},
		})
	}
	return v, nil
}

// Connected pushes the authoritative state to a freshly connected (or
// reconnected) participant: the roster for everyone, and the live game view
// for the caller alone if a round is running.
func (s *Service) Connected(roomID string, who auth.Identity) {
	s.rooms.Touch(roomID)
	s.bus.Publish(roomID, event.Event{
		Kind:    event.PlayerJoined,
		Payload: event.PlayerJoinedPayload{ID: who.ID, Name: who.Name},
	})

	if g, ok := s.games.Get(roomID); ok {
		s.bus.Publish(roomID, event.Event{
			Kind:       event.GameStarted,
			Payload:    event.GameStartedPayload{Snapshot: g.Snapshot()},
			Recipients: []string{who.ID},
		})
	}
}

// Chat relays a message from a participant to the room.
func (s *Service) Chat(roomID string, who auth.Identity, content string) {
	v, err := s.rooms.Get(roomID)
	if err != nil || !v.Has(who.ID) {
		return
	}
	s.rooms.Touch(roomID)
	s.bus.Publish(roomID, event.Event{
		Kind:    event.Chat,
		Payload: event.ChatPayload{ID: who.ID, Name: who.Name, Content: content},
	})
}

// SetReady flips the caller's ready flag.
func (s *Service) SetReady(roomID, participantID string, ready bool) {
	if _, err := s.rooms.SetReady(roomID, participantID, ready); err != nil {
		s.log.Debug("ready flag rejected",
			zap.String("room", roomID), zap.String("participant", participantID), zap.Error(err))
		return
	}
	s.bus.Publish(roomID, event.Event{
		Kind:    event.PlayerReady,
		Payload: event.PlayerReadyPayload{ID: participantID, Ready: ready},
	})
}

// Leave removes the caller from the room. A live round cannot continue
// without its player, so the game is torn down and the room told to reset.
func (s *Service) Leave(roomID, participantID string) {
	before, err := s.rooms.Get(roomID)
	if err != nil {
		return
	}
	leaver, _ := before.Participant(participantID)
	wasHost := before.HostID == participantID

	v, deleted, err := s.rooms.Leave(roomID, participantID)
	if err != nil {
		return
	}
	if deleted {
		return // teardown hook already ran
	}

	s.bus.Publish(roomID, event.Event{
		Kind:    event.PlayerLeft,
		Payload: event.PlayerLeftPayload{ID: participantID, Name: leaver.Name},
	})
	if wasHost {
		if host, ok := v.Participant(v.HostID); ok {
			s.bus.Publish(roomID, event.Event{
				Kind:    event.HostChanged,
				Payload: event.HostChangedPayload{ID: host.ID, Name: host.Name},
			})
		}
	}

	if g, ok := s.games.Get(roomID); ok && g.Snapshot().HandOf(participantID) != nil {
		s.games.Delete(roomID)
		s.bus.Publish(roomID, event.Event{Kind: event.GameReset})
	}
}

// StartGame requests a deal. Only the host may start, and every seat must be
// filled; violations bounce back to the caller alone.
func (s *Service) StartGame(roomID, participantID string) {
	v, err := s.rooms.Get(roomID)
	if err != nil {
		return
	}
	if v.HostID != participantID {
		s.reject(roomID, participantID, "only the host can start the game")
		return
	}
	if len(v.Participants) != room.Capacity {
		s.reject(roomID, participantID,
			fmt.Sprintf("need %d players to start", room.Capacity))
		return
	}
	if _, running := s.games.Get(roomID); running {
		s.reject(roomID, participantID, "a round is already running")
		return
	}

	s.rooms.Touch(roomID)
	s.bus.Publish(roomID, event.Event{
		Kind:    event.TryStartGame,
		Payload: event.TryStartGamePayload{ID: participantID},
	})
}

// PlayMove submits a move attempt. Empty cards is a pass. Validation happens
// in the flow handler so human and bot moves take the same ordered path.
func (s *Service) PlayMove(roomID, participantID string, cards []domain.Card) {
	s.rooms.Touch(roomID)
	s.bus.Publish(roomID, event.Event{
		Kind:    event.TryPlayMove,
		Payload: event.TryPlayMovePayload{ID: participantID, Cards: cards},
	})
}

// AddBot seats a bot. Host only; an unnamed difficulty defaults to balanced.
func (s *Service) AddBot(roomID, actorID, difficulty string) error {
	v, err := s.rooms.Get(roomID)
	if err != nil {
		return err
	}
	if v.HostID != actorID {
		return ErrNotHost
	}

	d := bot.Difficulty(difficulty)
	if d == "" {
		d = bot.Balanced
	}
	id, err := s.bots.Add(roomID, d)
	if err != nil {
		return err
	}
	if _, err := s.rooms.Join(roomID, room.Participant{ID: id.ID, Name: id.Name, IsBot: true}); err != nil {
		s.bots.Remove(roomID, id.ID)
		return err
	}

	s.bus.Publish(roomID, event.Event{
		Kind:    event.BotAdded,
		Payload: event.BotAddedPayload{ID: id.ID, Name: id.Name, Difficulty: string(id.Difficulty)},
	})
	return nil
}

// RemoveBot unseats a bot. Host only.
func (s *Service) RemoveBot(roomID, actorID, botID string) error {
	v, err := s.rooms.Get(roomID)
	if err != nil {
		return err
	}
	if v.HostID != actorID {
		return ErrNotHost
	}
	if !s.bots.Remove(roomID, botID) {
		return ErrNotABot
	}

	if _, _, err := s.rooms.Leave(roomID, botID); err != nil && !errors.Is(err, room.ErrRoomNotFound) {
		s.log.Warn("bot left registry but not room",
			zap.String("room", roomID), zap.String("bot", botID), zap.Error(err))
	}
	s.bus.Publish(roomID, event.Event{
		Kind:    event.BotRemoved,
		Payload: event.BotRemovedPayload{ID: botID},
	})
	return nil
}

func (s *Service) reject(roomID, participantID, msg string) {
	s.bus.Publish(roomID, event.Event{
		Kind:       event.ActionRejected,
		Payload:    event.ActionRejectedPayload{ID: participantID, Message: msg},
		Recipients: []string{participantID},
	})
}

func (s *Service) newRand() *rand.Rand {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}
