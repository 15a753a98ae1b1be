package domain

import (
	"math/rand"
	"sort"
)

// NewDeck returns the full 52-card deck in sorted order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for r := Three; r <= Two; r++ {
		for s := Diamonds; s <= Spades; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// Shuffle returns a uniformly shuffled copy of the given deck.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortCards orders cards in place by ascending power.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Power() < cards[j].Power()
	})
}

// Deal shuffles a fresh deck and distributes 13 sorted cards to each of four
// seats. The second return value is the seat holding the Three of Diamonds,
// which must open the game.
func Deal(rng *rand.Rand) ([4][]Card, int) {
	deck := Shuffle(NewDeck(), rng)

	var hands [4][]Card
	opener := 0
	for seat := 0; seat < 4; seat++ {
		hand := append([]Card{}, deck[seat*HandSize:(seat+1)*HandSize]...)
		SortCards(hand)
		hands[seat] = hand
		for _, c := range hand {
			if c == ThreeOfDiamonds {
				opener = seat
			}
		}
	}
	return hands, opener
}

// RemoveCards returns hand without the given cards. Cards not present are
// ignored; callers validate ownership beforehand.
func RemoveCards(hand []Card, played []Card) []Card {
	drop := make(map[Card]bool, len(played))
	for _, c := range played {
		drop[c] = true
	}
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if !drop[c] {
			out = append(out, c)
		}
	}
	return out
}

// ContainsAll reports whether hand holds every card in cards.
func ContainsAll(hand []Card, cards []Card) bool {
	own := make(map[Card]bool, len(hand))
	for _, c := range hand {
		own[c] = true
	}
	for _, c := range cards {
		if !own[c] {
			return false
		}
	}
	return true
}
