// Package game implements the authoritative per-room Big Two engine: one
// dealt game per room, a single validated transition applying a play, and a
// store keyed by room id.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"bigtwo/internal/domain"
)

var (
	// ErrWrongTurn rejects an action by anyone but the player at the turn
	// pointer.
	ErrWrongTurn = errors.New("game: not your turn")
	// ErrIllegalPlay rejects cards that do not beat the table or that the
	// actor does not hold.
	ErrIllegalPlay = errors.New("game: play does not beat the table")
	// ErrCannotPass rejects a pass while the table is clear: the leader
	// must play, and three consecutive passes never become four.
	ErrCannotPass = errors.New("game: leader cannot pass")
	// ErrGameOver rejects actions after a player has emptied their hand.
	ErrGameOver = errors.New("game: round already won")
	// ErrUnknownPlayer rejects actors that hold no seat.
	ErrUnknownPlayer = errors.New("game: player not seated")
)

// PlayerCount is the fixed number of seats per game.
const PlayerCount = 4

// PlayerInfo identifies a participant taking a seat in a new game.
type PlayerInfo struct {
	ID   string
	Name string
}

type seat struct {
	id   string
	name string
	hand []domain.Card
}

// Game is the authoritative state of one dealt round. All mutation goes
// through Play.
type Game struct {
	mu         sync.Mutex
	seats      [PlayerCount]seat
	turn       int
	lastPlayed *domain.Hand
	lastSeat   int
	passes     int
	opening    *domain.Card
	won        bool
	winner     string
}

// New deals a fresh game for exactly four players. Seating is rotated so the
// holder of the Three of Diamonds sits first and the turn pointer starts
// there; the deal also seeds that card as the required opening single. The
// play validator itself knows nothing about first moves.
func New(players []PlayerInfo, rng *rand.Rand) (*Game, error) {
	if len(players) != PlayerCount {
		return nil, fmt.Errorf("game: need exactly %d players, got %d", PlayerCount, len(players))
	}

	hands, opener := domain.Deal(rng)

	g := &Game{}
	for i := 0; i < PlayerCount; i++ {
		src := (opener + i) % PlayerCount
		g.seats[i] = seat{
			id:   players[src].ID,
			name: players[src].Name,
			hand: hands[src],
		}
	}
	required := domain.ThreeOfDiamonds
	g.opening = &required
	return g, nil
}

// Result reports the effect of an accepted play.
type Result struct {
	Player       string
	Hand         domain.Hand
	Remaining    int
	NextTurn     string
	TableCleared bool
	Won          bool
}

// Play validates and applies one action by the identified player. Empty
// cards is a pass. Validation order: turn ownership, then play legality,
// then pass legality.
func (g *Game) Play(id string, cards []domain.Card) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.won {
		return Result{}, ErrGameOver
	}
	actor := &g.seats[g.turn]
	if actor.id != id {
		return Result{}, ErrWrongTurn
	}

	if len(cards) == 0 {
		return g.applyPass(actor)
	}
	return g.applyPlay(actor, cards)
}

func (g *Game) applyPass(actor *seat) (Result, error) {
	// A clear table means the actor leads: at game start, after a win-less
	// three-pass sweep, there is nothing to pass against.
	if g.lastPlayed == nil {
		return Result{}, ErrCannotPass
	}

	g.passes++
	cleared := false
	if g.passes >= PlayerCount-1 {
		g.lastPlayed = nil
		g.passes = 0
		cleared = true
	}
	res := Result{
		Player:       actor.id,
		Hand:         domain.Pass(),
		Remaining:    len(actor.hand),
		TableCleared: cleared,
	}
	g.advanceTurn()
	res.NextTurn = g.seats[g.turn].id
	return res, nil
}

func (g *Game) applyPlay(actor *seat, cards []domain.Card) (Result, error) {
	hand, err := domain.Classify(cards)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrIllegalPlay, err)
	}
	if !domain.ContainsAll(actor.hand, cards) {
		return Result{}, fmt.Errorf("%w: cards not held", ErrIllegalPlay)
	}

	switch {
	case g.opening != nil:
		// The deal seeded a mandatory opening single; compare generically
		// against it.
		if hand.Kind != domain.Single || hand.Cards[0] != *g.opening {
			return Result{}, fmt.Errorf("%w: round must open with %s", ErrIllegalPlay, g.opening.Code())
		}
	case g.lastPlayed != nil:
		if domain.Compare(hand, *g.lastPlayed) != domain.ABeats {
			return Result{}, ErrIllegalPlay
		}
	}

	actor.hand = domain.RemoveCards(actor.hand, cards)
	g.lastPlayed = &hand
	g.lastSeat = g.turn
	g.passes = 0
	g.opening = nil

	res := Result{
		Player:    actor.id,
		Hand:      hand,
		Remaining: len(actor.hand),
		Won:       len(actor.hand) == 0,
	}
	if res.Won {
		g.won = true
		g.winner = actor.id
		res.NextTurn = actor.id
		return res, nil
	}
	g.advanceTurn()
	res.NextTurn = g.seats[g.turn].id
	return res, nil
}

func (g *Game) advanceTurn() {
	g.turn = (g.turn + 1) % PlayerCount
}

// Winner returns the winning player id, or "" while the round is live.
func (g *Game) Winner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}
