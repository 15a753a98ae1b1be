package ws

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"bigtwo/internal/domain"
	"bigtwo/internal/event"
	"bigtwo/internal/room"
)

// Notifier is the event handler that turns domain events into wire frames.
// It is attached to every room topic; the topic is the room id. Command
// events (try_*) are not for clients and are skipped.
type Notifier struct {
	hub   *Hub
	rooms *room.Manager
	log   *zap.Logger
}

// NewNotifier returns a notifier fanning out through hub, resolving
// recipients against rooms.
func NewNotifier(hub *Hub, rooms *room.Manager, log *zap.Logger) *Notifier {
	return &Notifier{hub: hub, rooms: rooms, log: log}
}

// Name implements event.Handler.
func (n *Notifier) Name() string { return "ws-notifier" }

// Handle implements event.Handler. Translation failures are permanent; the
// dispatcher must not retry an event the client vocabulary cannot express.
func (n *Notifier) Handle(_ context.Context, roomID string, ev event.Event) error {
	switch p := ev.Payload.(type) {
	case event.PlayerJoinedPayload, event.PlayerLeftPayload, event.PlayerReadyPayload:
		n.sendPlayersList(roomID)

	case event.HostChangedPayload:
		n.broadcast(roomID, ev, TypeHostChange, HostChangeOut{HostID: p.ID, HostName: p.Name})

	case event.ChatPayload:
		n.broadcast(roomID, ev, TypeChatMessage, ChatOut{Sender: p.ID, SenderName: p.Name, Content: p.Content})

	case event.GameStartedPayload:
		n.sendGameStarted(roomID, ev, p)

	case event.MovePlayedPayload:
		n.broadcast(roomID, ev, TypeMovePlayed, MovePlayedOut{
			Player:         p.ID,
			Cards:          domain.CardCodes(p.Cards),
			RemainingCount: p.Remaining,
		})

	case event.TurnChangedPayload:
		n.broadcast(roomID, ev, TypeTurnChange, TurnChangeOut{Player: p.ID})

	case event.GameWonPayload:
		n.broadcast(roomID, ev, TypeGameWon, GameWonOut{Winner: p.ID, WinningHand: domain.CardCodes(p.Cards)})

	case event.BotAddedPayload:
		n.broadcast(roomID, ev, TypeBotAdded, BotAddedOut{BotID: p.ID, BotName: p.Name, Difficulty: p.Difficulty})
		n.sendPlayersList(roomID)

	case event.BotRemovedPayload:
		n.broadcast(roomID, ev, TypeBotRemoved, BotRemovedOut{BotID: p.ID})
		n.sendPlayersList(roomID)

	case event.StatsUpdatedPayload:
		n.broadcast(roomID, ev, TypeStatsUpdated, StatsUpdatedOut{GamesPlayed: p.GamesPlayed, Wins: p.Wins})

	case event.ActionRejectedPayload:
		n.broadcast(roomID, ev, TypeError, ErrorOut{Message: p.Message})

	case event.TryStartGamePayload, event.TryPlayMovePayload:
		// command events, consumed by the game service

	case nil:
		if ev.Kind == event.GameReset {
			n.broadcast(roomID, ev, TypeGameReset, struct{}{})
		}

	default:
		n.log.Warn("no wire translation for event",
			zap.String("room", roomID), zap.String("kind", string(ev.Kind)))
	}
	return nil
}

// broadcast marshals one frame and delivers it to the event's recipients,
// or to every room participant when the recipient list is empty.
func (n *Notifier) broadcast(roomID string, ev event.Event, msgType string, payload any) {
	frame, err := newEnvelope(msgType, payload, "")
	if err != nil {
		n.log.Error("encoding outbound frame", zap.String("type", msgType), zap.Error(err))
		return
	}
	n.hub.SendToMany(n.recipients(roomID, ev), frame)
}

// sendGameStarted builds a per-recipient frame so each player sees only
// their own hand; opponents are card counts.
func (n *Notifier) sendGameStarted(roomID string, ev event.Event, p event.GameStartedPayload) {
	snap := p.Snapshot
	order := make([]string, 0, len(snap.Seats))
	counts := make(map[string]int, len(snap.Seats))
	for _, s := range snap.Seats {
		order = append(order, s.ID)
		counts[s.ID] = s.CardCount
	}

	for _, id := range n.recipients(roomID, ev) {
		hand := snap.HandOf(id)
		if hand == nil {
			continue
		}
		frame, err := newEnvelope(TypeGameStarted, GameStartedOut{
			CurrentTurn: snap.Turn,
			Hand:        domain.CardCodes(hand),
			PlayerOrder: order,
			CardCounts:  counts,
		}, id)
		if err != nil {
			n.log.Error("encoding GAME_STARTED frame", zap.Error(err))
			return
		}
		n.hub.SendToOne(id, frame)
	}
}

// sendPlayersList pushes the authoritative roster. Always rebuilt from the
// manager so late events cannot resurrect a stale membership picture.
func (n *Notifier) sendPlayersList(roomID string) {
	v, err := n.rooms.Get(roomID)
	if err != nil {
		return
	}

	out := PlayersListOut{
		NameMapping: make(map[string]string, len(v.Participants)),
		BotIDs:      []string{},
		ReadyIDs:    []string{},
		HostID:      v.HostID,
	}
	for _, p := range v.Participants {
		out.Players = append(out.Players, p.ID)
		out.NameMapping[p.ID] = p.Name
		if p.IsBot {
			out.BotIDs = append(out.BotIDs, p.ID)
		}
		if p.Ready {
			out.ReadyIDs = append(out.ReadyIDs, p.ID)
		}
	}

	frame, err := newEnvelope(TypePlayersList, out, "")
	if err != nil {
		n.log.Error("encoding PLAYERS_LIST frame", zap.Error(err))
		return
	}
	n.hub.SendToMany(out.Players, frame)
}

// recipients resolves the delivery set. Bots and offline participants are
// harmless: the hub silently skips identities with no live connection.
func (n *Notifier) recipients(roomID string, ev event.Event) []string {
	if len(ev.Recipients) > 0 {
		return ev.Recipients
	}
	v, err := n.rooms.Get(roomID)
	if err != nil {
		return nil
	}
	return lo.Map(v.Participants, func(p room.Participant, _ int) string {
		return p.ID
	})
}
