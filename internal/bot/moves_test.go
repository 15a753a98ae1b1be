package bot

import (
	"strings"
	"testing"

	"bigtwo/internal/domain"
	"bigtwo/internal/game"
)

func mustCards(t *testing.T, codes string) []domain.Card {
	t.Helper()
	cards, err := domain.ParseCards(strings.Fields(codes))
	if err != nil {
		t.Fatalf("bad cards %q: %v", codes, err)
	}
	return cards
}

func mustHand(t *testing.T, codes string) domain.Hand {
	t.Helper()
	h, err := domain.Classify(mustCards(t, codes))
	if err != nil {
		t.Fatalf("bad hand %q: %v", codes, err)
	}
	return h
}

func TestValidMovesOpening(t *testing.T) {
	opening := domain.ThreeOfDiamonds
	snap := &game.Snapshot{Opening: &opening}

	moves := ValidMoves(mustCards(t, "3D 3C 7H KS"), snap)
	if len(moves) != 1 {
		t.Fatalf("opening moves = %d, want exactly the 3D single", len(moves))
	}
	if len(moves[0].Cards) != 1 || moves[0].Cards[0] != domain.ThreeOfDiamonds {
		t.Fatalf("opening move = %v", domain.CardCodes(moves[0].Cards))
	}

	if moves := ValidMoves(mustCards(t, "7H KS"), snap); moves != nil {
		t.Fatalf("hand without the opener generated %d moves", len(moves))
	}
}

func TestValidMovesAgainstSingle(t *testing.T) {
	last := mustHand(t, "9H")
	snap := &game.Snapshot{LastPlayed: &last}

	moves := ValidMoves(mustCards(t, "3D 9S TC JD JH"), snap)
	for _, m := range moves {
		if m.Hand.Kind != domain.Single {
			t.Fatalf("non-single answer %v to a single", domain.CardCodes(m.Cards))
		}
		if domain.Compare(m.Hand, last) != domain.ABeats {
			t.Fatalf("move %v does not beat 9H", domain.CardCodes(m.Cards))
		}
	}
	// 9S, TC, JD, JH beat 9H; 3D does not.
	if len(moves) != 4 {
		t.Fatalf("got %d answers, want 4", len(moves))
	}
}

func TestValidMovesLeadIncludesAllShapes(t *testing.T) {
	snap := &game.Snapshot{}
	moves := ValidMoves(mustCards(t, "5D 6C 7H 8S 9D 9H"), snap)

	kinds := make(map[domain.HandKind]bool)
	for _, m := range moves {
		kinds[m.Hand.Kind] = true
	}
	for _, want := range []domain.HandKind{domain.Single, domain.Pair, domain.FiveCard} {
		if !kinds[want] {
			t.Errorf("lead generation missed shape %v", want)
		}
	}
}

func TestStrategiesProduceLegalMoves(t *testing.T) {
	// Drive full games with every strategy in every seat; the engine must
	// accept each decision first try.
	for seed := int64(1); seed <= 10; seed++ {
		players := []game.PlayerInfo{
			{ID: "b0"}, {ID: "b1"}, {ID: "b2"}, {ID: "b3"},
		}
		g := newSeededGame(t, players, seed)

		brains := make(map[string]Brain)
		for i, d := range []Difficulty{Easy, Balanced, Hard, Balanced} {
			b, err := NewBrain(d, newSeededRng(seed+int64(i)))
			if err != nil {
				t.Fatalf("NewBrain: %v", err)
			}
			brains[players[i].ID] = b
		}

		for turns := 0; turns < 400; turns++ {
			snap := g.Snapshot()
			if snap.Winner != "" {
				break
			}
			brain := brains[snap.Turn]
			move, err := brain.Decide(snap, snap.Turn)
			if err != nil {
				t.Fatalf("seed %d: Decide: %v", seed, err)
			}
			if _, err := g.Play(snap.Turn, move.Cards); err != nil {
				t.Fatalf("seed %d: engine rejected bot move %v: %v",
					seed, domain.CardCodes(move.Cards), err)
			}
		}
		if g.Winner() == "" {
			t.Fatalf("seed %d: game did not finish in 400 turns", seed)
		}
	}
}
