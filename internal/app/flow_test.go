package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bigtwo/internal/bot"
	"bigtwo/internal/domain"
	"bigtwo/internal/event"
)

// playAsHuman makes the lowest legal move for the participant, or passes.
func (f *fixture) playAsHuman(roomID, id string) {
	g, ok := f.games.Get(roomID)
	if !ok {
		return
	}
	snap := g.Snapshot()
	if snap.Turn != id {
		return
	}
	moves := bot.ValidMoves(snap.HandOf(id), snap)
	if len(moves) == 0 {
		f.svc.PlayMove(roomID, id, nil)
		return
	}
	f.svc.PlayMove(roomID, id, moves[0].Cards)
}

// fillRoom seats four humans and returns the room id.
func fillRoom(t *testing.T, f *fixture) string {
	t.Helper()
	v := f.svc.CreateRoom(ident("p1", "Anna"))
	for _, id := range []string{"p2", "p3", "p4"} {
		_, err := f.svc.JoinRoom(v.ID, ident(id, id))
		require.NoError(t, err)
	}
	return v.ID
}

func TestFullTableRoundTrip(t *testing.T) {
	f := newFixture(t)
	roomID := fillRoom(t, f)

	sub := f.bus.Subscribe(roomID)
	defer f.bus.Unsubscribe(sub)

	f.svc.StartGame(roomID, "p1")

	started := awaitEvent(t, sub, event.GameStarted)
	snap := started.Payload.(event.GameStartedPayload).Snapshot
	require.NotNil(t, snap)

	// The dealt opener must hold the Three of Diamonds and the turn.
	opener := snap.Turn
	hand := snap.HandOf(opener)
	require.NotNil(t, hand)
	assert.Contains(t, hand, domain.ThreeOfDiamonds)

	f.svc.PlayMove(roomID, opener, []domain.Card{domain.ThreeOfDiamonds})

	played := awaitEvent(t, sub, event.MovePlayed)
	p := played.Payload.(event.MovePlayedPayload)
	assert.Equal(t, opener, p.ID)
	assert.Equal(t, []domain.Card{domain.ThreeOfDiamonds}, p.Cards)
	assert.Equal(t, 12, p.Remaining)

	turn := awaitEvent(t, sub, event.TurnChanged)
	next := turn.Payload.(event.TurnChangedPayload).ID
	assert.NotEqual(t, opener, next)

	g, ok := f.games.Get(roomID)
	require.True(t, ok)
	assert.Equal(t, next, g.Snapshot().Turn)
}

func TestOpeningMoveMustBeThreeOfDiamonds(t *testing.T) {
	f := newFixture(t)
	roomID := fillRoom(t, f)

	sub := f.bus.Subscribe(roomID)
	defer f.bus.Unsubscribe(sub)

	f.svc.StartGame(roomID, "p1")
	started := awaitEvent(t, sub, event.GameStarted)
	snap := started.Payload.(event.GameStartedPayload).Snapshot

	opener := snap.Turn
	var other domain.Card
	for _, c := range snap.HandOf(opener) {
		if c != domain.ThreeOfDiamonds {
			other = c
			break
		}
	}

	f.svc.PlayMove(roomID, opener, []domain.Card{other})

	ev := awaitEvent(t, sub, event.ActionRejected)
	assert.Equal(t, []string{opener}, ev.Recipients)
}

func TestSecondStartIsRejected(t *testing.T) {
	f := newFixture(t)
	roomID := fillRoom(t, f)

	sub := f.bus.Subscribe(roomID)
	defer f.bus.Unsubscribe(sub)

	f.svc.StartGame(roomID, "p1")
	awaitEvent(t, sub, event.GameStarted)

	f.svc.StartGame(roomID, "p1")
	ev := awaitEvent(t, sub, event.ActionRejected)
	assert.Equal(t, []string{"p1"}, ev.Recipients)
}

func TestLeaveMidGameResetsRound(t *testing.T) {
	f := newFixture(t)
	roomID := fillRoom(t, f)

	sub := f.bus.Subscribe(roomID)
	defer f.bus.Unsubscribe(sub)

	f.svc.StartGame(roomID, "p1")
	awaitEvent(t, sub, event.GameStarted)

	f.svc.Leave(roomID, "p3")
	awaitEvent(t, sub, event.GameReset)

	_, ok := f.games.Get(roomID)
	assert.False(t, ok)
}

// TestBotsPlayOutARound drives a full game with one human move and three
// bots, then checks the completion pipeline: the win event, the stats
// aggregate and the lobby reset.
func TestBotsPlayOutARound(t *testing.T) {
	f := newFixture(t)
	v := f.svc.CreateRoom(ident("p1", "Anna"))
	for i := 0; i < 3; i++ {
		require.NoError(t, f.svc.AddBot(v.ID, "p1", "balanced"))
	}

	sub := f.bus.Subscribe(v.ID)
	defer f.bus.Unsubscribe(sub)

	f.svc.StartGame(v.ID, "p1")
	awaitEvent(t, sub, event.GameStarted)

	done := make(chan event.Event, 1)
	go func() {
		for ev := range sub.Events() {
			switch ev.Kind {
			case event.TurnChanged:
				// The human plays like the easiest bot: pass unless leading.
				if ev.Payload.(event.TurnChangedPayload).ID == "p1" {
					f.playAsHuman(v.ID, "p1")
				}
			case event.GameStarted:
				if snap := ev.Payload.(event.GameStartedPayload).Snapshot; snap.Turn == "p1" {
					f.playAsHuman(v.ID, "p1")
				}
			case event.GameWon:
				done <- ev
				return
			}
		}
	}()

	// The opening can land on the human before any TurnChanged fires.
	if g, ok := f.games.Get(v.ID); ok && g.Snapshot().Turn == "p1" {
		f.playAsHuman(v.ID, "p1")
	}

	select {
	case won := <-done:
		winner := won.Payload.(event.GameWonPayload).ID
		assert.NotEmpty(t, winner)
	case <-time.After(30 * time.Second):
		t.Fatal("round never completed")
	}

	_, ok := f.games.Get(v.ID)
	assert.False(t, ok)
}

func TestGameWonUpdatesStats(t *testing.T) {
	f := newFixture(t)
	roomID := fillRoom(t, f)

	sub := f.bus.Subscribe(roomID)
	defer f.bus.Unsubscribe(sub)

	f.bus.Publish(roomID, event.Event{
		Kind:    event.GameWon,
		Payload: event.GameWonPayload{ID: "p2"},
	})

	ev := awaitEvent(t, sub, event.StatsUpdated)
	p := ev.Payload.(event.StatsUpdatedPayload)
	assert.Equal(t, 1, p.GamesPlayed)
	assert.Equal(t, 1, p.Wins["p2"])
}
