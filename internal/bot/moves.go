package bot

import (
	"bigtwo/internal/domain"
	"bigtwo/internal/game"
)

// Candidate is one legal play together with its classification.
type Candidate struct {
	Cards []domain.Card
	Hand  domain.Hand
}

// ValidMoves enumerates every legal play for the given hand against the
// table captured in snap: the seeded opening single on the first move, any
// shape on a clear table, otherwise only hands beating the last play.
func ValidMoves(hand []domain.Card, snap *game.Snapshot) []Candidate {
	if snap.Opening != nil {
		for _, c := range hand {
			if c == *snap.Opening {
				h, _ := domain.Classify([]domain.Card{c})
				return []Candidate{{Cards: []domain.Card{c}, Hand: h}}
			}
		}
		return nil
	}

	var out []Candidate
	for _, cand := range allShapes(hand) {
		if snap.LastPlayed == nil || domain.Compare(cand.Hand, *snap.LastPlayed) == domain.ABeats {
			out = append(out, cand)
		}
	}
	return out
}

// allShapes generates every classifiable subset of the relevant sizes. The
// five-card sweep over C(13,5) subsets is cheap against a 13-card hand.
func allShapes(hand []domain.Card) []Candidate {
	sorted := append([]domain.Card{}, hand...)
	domain.SortCards(sorted)

	var out []Candidate
	add := func(cards []domain.Card) {
		if h, err := domain.Classify(cards); err == nil {
			out = append(out, Candidate{Cards: cards, Hand: h})
		}
	}

	for i := range sorted {
		add([]domain.Card{sorted[i]})
	}
	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].Rank == sorted[j].Rank {
				add([]domain.Card{sorted[i], sorted[j]})
			}
		}
	}
	for i := 0; i < len(sorted)-2; i++ {
		for j := i + 1; j < len(sorted)-1; j++ {
			for k := j + 1; k < len(sorted); k++ {
				if sorted[i].Rank == sorted[k].Rank {
					add([]domain.Card{sorted[i], sorted[j], sorted[k]})
				}
			}
		}
	}
	forEachFive(sorted, add)
	return out
}

func forEachFive(cards []domain.Card, fn func([]domain.Card)) {
	n := len(cards)
	if n < 5 {
		return
	}
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						fn([]domain.Card{cards[a], cards[b], cards[c], cards[d], cards[e]})
					}
				}
			}
		}
	}
}

// topPower returns the power of the candidate's determining card.
func (c Candidate) topPower() int {
	return c.Cards[len(c.Cards)-1].Power()
}
