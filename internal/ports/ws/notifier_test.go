package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bigtwo/internal/domain"
	"bigtwo/internal/event"
	"bigtwo/internal/game"
	"bigtwo/internal/room"
)

func newNotifierFixture(t *testing.T) (*Notifier, *Hub, string, map[string]*fakeSender) {
	t.Helper()
	log := zap.NewNop()
	hub := NewHub(log)
	rooms := room.NewManager(log)

	v := rooms.Create(room.Participant{ID: "p1", Name: "Anna"})
	_, err := rooms.Join(v.ID, room.Participant{ID: "p2", Name: "Bert"})
	require.NoError(t, err)

	senders := map[string]*fakeSender{}
	for _, id := range []string{"p1", "p2"} {
		s := &fakeSender{}
		senders[id] = s
		hub.Register(id, s)
	}
	return NewNotifier(hub, rooms, log), hub, v.ID, senders
}

func lastFrame(t *testing.T, s *fakeSender) Envelope {
	t.Helper()
	frames := s.received()
	require.NotEmpty(t, frames)
	var env Envelope
	require.NoError(t, json.Unmarshal(frames[len(frames)-1], &env))
	return env
}

func TestNotifierChatBroadcast(t *testing.T) {
	n, _, roomID, senders := newNotifierFixture(t)

	err := n.Handle(context.Background(), roomID, event.Event{
		Kind:    event.Chat,
		Payload: event.ChatPayload{ID: "p1", Name: "Anna", Content: "hi"},
	})
	require.NoError(t, err)

	for _, s := range senders {
		env := lastFrame(t, s)
		assert.Equal(t, TypeChatMessage, env.Type)

		var out ChatOut
		require.NoError(t, json.Unmarshal(env.Payload, &out))
		assert.Equal(t, "Anna", out.SenderName)
		assert.Equal(t, "hi", out.Content)
	}
}

func TestNotifierJoinSendsPlayersList(t *testing.T) {
	n, _, roomID, senders := newNotifierFixture(t)

	err := n.Handle(context.Background(), roomID, event.Event{
		Kind:    event.PlayerJoined,
		Payload: event.PlayerJoinedPayload{ID: "p2", Name: "Bert"},
	})
	require.NoError(t, err)

	env := lastFrame(t, senders["p1"])
	assert.Equal(t, TypePlayersList, env.Type)

	var out PlayersListOut
	require.NoError(t, json.Unmarshal(env.Payload, &out))
	assert.ElementsMatch(t, []string{"p1", "p2"}, out.Players)
	assert.Equal(t, "p1", out.HostID)
	assert.Equal(t, "Bert", out.NameMapping["p2"])
}

func TestNotifierRespectsRecipients(t *testing.T) {
	n, _, roomID, senders := newNotifierFixture(t)

	err := n.Handle(context.Background(), roomID, event.Event{
		Kind:       event.ActionRejected,
		Payload:    event.ActionRejectedPayload{ID: "p2", Message: "not your turn"},
		Recipients: []string{"p2"},
	})
	require.NoError(t, err)

	assert.Empty(t, senders["p1"].received())
	env := lastFrame(t, senders["p2"])
	assert.Equal(t, TypeError, env.Type)
}

func TestNotifierGameStartedIsPerRecipient(t *testing.T) {
	n, _, roomID, senders := newNotifierFixture(t)

	snap := &game.Snapshot{
		Seats: []game.SeatView{
			{ID: "p1", Name: "Anna", Hand: mustCards(t, "3D", "4D"), CardCount: 2},
			{ID: "p2", Name: "Bert", Hand: mustCards(t, "5H", "6H"), CardCount: 2},
		},
		Turn: "p1",
	}
	err := n.Handle(context.Background(), roomID, event.Event{
		Kind:    event.GameStarted,
		Payload: event.GameStartedPayload{Snapshot: snap},
	})
	require.NoError(t, err)

	env1 := lastFrame(t, senders["p1"])
	var out1 GameStartedOut
	require.NoError(t, json.Unmarshal(env1.Payload, &out1))
	assert.Equal(t, []string{"3D", "4D"}, out1.Hand)
	assert.Equal(t, "p1", out1.CurrentTurn)
	assert.Equal(t, map[string]int{"p1": 2, "p2": 2}, out1.CardCounts)

	env2 := lastFrame(t, senders["p2"])
	var out2 GameStartedOut
	require.NoError(t, json.Unmarshal(env2.Payload, &out2))
	assert.Equal(t, []string{"5H", "6H"}, out2.Hand)
}

func TestNotifierSkipsCommandEvents(t *testing.T) {
	n, _, roomID, senders := newNotifierFixture(t)

	err := n.Handle(context.Background(), roomID, event.Event{
		Kind:    event.TryPlayMove,
		Payload: event.TryPlayMovePayload{ID: "p1"},
	})
	require.NoError(t, err)
	for _, s := range senders {
		assert.Empty(t, s.received())
	}
}

func TestNotifierGameReset(t *testing.T) {
	n, _, roomID, senders := newNotifierFixture(t)

	err := n.Handle(context.Background(), roomID, event.Event{Kind: event.GameReset})
	require.NoError(t, err)
	assert.Equal(t, TypeGameReset, lastFrame(t, senders["p1"]).Type)
}

func mustCards(t *testing.T, codes ...string) []domain.Card {
	t.Helper()
	cards, err := domain.ParseCards(codes)
	require.NoError(t, err)
	return cards
}
