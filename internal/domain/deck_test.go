package domain

import (
	"math/rand"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}
	seen := make(map[Card]bool, DeckSize)
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

func TestDeal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		hands, opener := Deal(rng)

		seen := make(map[Card]int, DeckSize)
		holders := 0
		for seat, hand := range hands {
			if len(hand) != HandSize {
				t.Fatalf("seat %d dealt %d cards", seat, len(hand))
			}
			for i, c := range hand {
				seen[c]++
				if i > 0 && hand[i-1].Power() >= c.Power() {
					t.Fatalf("seat %d hand not sorted", seat)
				}
				if c == ThreeOfDiamonds {
					holders++
					if seat != opener {
						t.Fatalf("opener = %d but 3D sits at seat %d", opener, seat)
					}
				}
			}
		}
		if holders != 1 {
			t.Fatalf("3D dealt %d times", holders)
		}
		if len(seen) != DeckSize {
			t.Fatalf("deal covered %d distinct cards", len(seen))
		}
	}
}

func TestRemoveCards(t *testing.T) {
	hand := cards(t, "3D 5C 5H 9S KD")
	got := RemoveCards(hand, cards(t, "5C 9S"))
	want := "3D 5H KD"
	if len(got) != 3 {
		t.Fatalf("RemoveCards left %d cards", len(got))
	}
	for i, code := range []string{"3D", "5H", "KD"} {
		if got[i].Code() != code {
			t.Errorf("RemoveCards = %v, want %s", CardCodes(got), want)
		}
	}
}

func TestContainsAll(t *testing.T) {
	hand := cards(t, "3D 5C 5H 9S KD")
	if !ContainsAll(hand, cards(t, "5C KD")) {
		t.Error("expected hand to contain 5C KD")
	}
	if ContainsAll(hand, cards(t, "5C 2S")) {
		t.Error("hand should not contain 2S")
	}
}
