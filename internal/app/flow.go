package app

import (
	"context"

	"go.uber.org/zap"

	"bigtwo/internal/event"
	"bigtwo/internal/game"
	"bigtwo/internal/room"
)

// Flow is the dispatcher handler that applies game commands. Commands from
// humans and bots converge on the same per-room ordered queue, so two racing
// moves resolve in arrival order against the authoritative engine.
type Flow struct {
	s *Service
}

// NewFlow wraps the service's game transitions as an event handler.
func NewFlow(s *Service) *Flow { return &Flow{s: s} }

// Name implements event.Handler.
func (f *Flow) Name() string { return "game-flow" }

// Handle implements event.Handler. Rejections go back to the acting
// participant as events; the handler itself never fails.
func (f *Flow) Handle(_ context.Context, roomID string, ev event.Event) error {
	switch p := ev.Payload.(type) {
	case event.TryStartGamePayload:
		f.startGame(roomID, p)
	case event.TryPlayMovePayload:
		f.playMove(roomID, p)
	}
	return nil
}

// startGame re-validates under the flow's ordering and deals. The checks in
// Service.StartGame are advisory; this is the authoritative one.
func (f *Flow) startGame(roomID string, p event.TryStartGamePayload) {
	s := f.s
	if _, running := s.games.Get(roomID); running {
		s.reject(roomID, p.ID, "a round is already running")
		return
	}
	v, err := s.rooms.Get(roomID)
	if err != nil {
		return
	}
	if len(v.Participants) != room.Capacity {
		s.reject(roomID, p.ID, "the table is not full")
		return
	}

	players := make([]game.PlayerInfo, 0, room.Capacity)
	for _, m := range v.Participants {
		players = append(players, game.PlayerInfo{ID: m.ID, Name: m.Name})
	}
	g, err := game.New(players, s.newRand())
	if err != nil {
		s.log.Error("dealing failed", zap.String("room", roomID), zap.Error(err))
		return
	}
	s.games.Put(roomID, g)

	s.log.Info("game started", zap.String("room", roomID))
	s.bus.Publish(roomID, event.Event{
		Kind:    event.GameStarted,
		Payload: event.GameStartedPayload{Snapshot: g.Snapshot()},
	})
}

// playMove runs one attempt through the engine and publishes what happened.
func (f *Flow) playMove(roomID string, p event.TryPlayMovePayload) {
	s := f.s
	g, ok := s.games.Get(roomID)
	if !ok {
		s.reject(roomID, p.ID, "no round is running")
		return
	}

	res, err := g.Play(p.ID, p.Cards)
	if err != nil {
		s.log.Debug("move rejected",
			zap.String("room", roomID), zap.String("participant", p.ID), zap.Error(err))
		s.reject(roomID, p.ID, err.Error())
		return
	}

	s.bus.Publish(roomID, event.Event{
		Kind: event.MovePlayed,
		Payload: event.MovePlayedPayload{
			ID:        res.Player,
			Cards:     res.Hand.Cards,
			Remaining: res.Remaining,
		},
	})

	if res.Won {
		f.finishGame(roomID, res)
		return
	}
	s.bus.Publish(roomID, event.Event{
		Kind:    event.TurnChanged,
		Payload: event.TurnChangedPayload{ID: res.NextTurn},
	})
}

// finishGame tears the round down and returns the room to the lobby. Ready
// flags reset so the next deal needs fresh consent.
func (f *Flow) finishGame(roomID string, res game.Result) {
	s := f.s
	s.games.Delete(roomID)

	if v, err := s.rooms.Get(roomID); err == nil {
		for _, m := range v.Participants {
			if m.Ready {
				_, _ = s.rooms.SetReady(roomID, m.ID, false)
			}
		}
	}

	s.log.Info("game won",
		zap.String("room", roomID), zap.String("winner", res.Player))
	s.bus.Publish(roomID, event.Event{
		Kind:    event.GameWon,
		Payload: event.GameWonPayload{ID: res.Player, Cards: res.Hand.Cards},
	})
}
