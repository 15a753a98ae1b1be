package domain

import "errors"

// HandKind is the structural category of a played hand.
type HandKind int

const (
	// PassHand is the empty play.
	PassHand HandKind = iota
	Single
	Pair
	Triple
	FiveCard
)

// FiveCardKind discriminates the five-card combinations, in ascending
// precedence. Precedence applies only when comparing differing five-card
// shapes.
type FiveCardKind int

const (
	Straight FiveCardKind = iota + 1
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var (
	// ErrInvalidSize rejects submissions of 4 or more than 5 cards.
	ErrInvalidSize = errors.New("hand: size must be 0, 1, 2, 3 or 5")
	// ErrInvalidShape rejects card sets of a legal size that form no
	// recognized combination.
	ErrInvalidShape = errors.New("hand: cards form no legal combination")
)

// Hand is a classified play: a pass, a single, a pair, a triple, or one of
// the five-card combinations. Cards are held sorted by ascending power.
type Hand struct {
	Kind  HandKind
	Five  FiveCardKind // set only when Kind == FiveCard
	Cards []Card
}

// IsPass reports whether the hand is the empty play.
func (h Hand) IsPass() bool {
	return h.Kind == PassHand
}

// Pass returns the empty play.
func Pass() Hand {
	return Hand{Kind: PassHand}
}

// Classify validates a card set and returns its Hand. Sizes other than
// 0, 1, 2, 3 and 5 yield ErrInvalidSize; sets of a legal size that match no
// shape yield ErrInvalidShape.
func Classify(cards []Card) (Hand, error) {
	sorted := append([]Card{}, cards...)
	SortCards(sorted)

	switch len(sorted) {
	case 0:
		return Pass(), nil
	case 1:
		return Hand{Kind: Single, Cards: sorted}, nil
	case 2:
		if sorted[0].Rank != sorted[1].Rank {
			return Hand{}, ErrInvalidShape
		}
		return Hand{Kind: Pair, Cards: sorted}, nil
	case 3:
		if sorted[0].Rank != sorted[1].Rank || sorted[1].Rank != sorted[2].Rank {
			return Hand{}, ErrInvalidShape
		}
		return Hand{Kind: Triple, Cards: sorted}, nil
	case 5:
		five, ok := classifyFive(sorted)
		if !ok {
			return Hand{}, ErrInvalidShape
		}
		return Hand{Kind: FiveCard, Five: five, Cards: sorted}, nil
	default:
		return Hand{}, ErrInvalidSize
	}
}

func classifyFive(sorted []Card) (FiveCardKind, bool) {
	counts := make(map[Rank]int, 5)
	for _, c := range sorted {
		counts[c.Rank]++
	}

	switch len(counts) {
	case 2:
		// 2+3 is a full house, 1+4 a four of a kind.
		for _, n := range counts {
			if n == 2 || n == 3 {
				return FullHouse, true
			}
		}
		return FourOfAKind, true
	case 5:
		flush := allSameSuit(sorted)
		straight := isStraightRun(sorted)
		switch {
		case flush && straight:
			return StraightFlush, true
		case flush:
			return Flush, true
		case straight:
			return Straight, true
		}
	}
	return 0, false
}

// isStraightRun recognizes five consecutive ranks containing no Two, plus
// the two wraparound runs A-2-3-4-5 and 10-J-Q-K-A.
func isStraightRun(sorted []Card) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank == sorted[i-1].Rank {
			return false
		}
	}

	if wraparoundLow(sorted) {
		return true
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank != sorted[i-1].Rank+1 {
			return false
		}
	}
	// 10-J-Q-K-A is the highest plain run; anything ending in a Two is no
	// straight.
	return sorted[len(sorted)-1].Rank != Two
}

// wraparoundLow matches the A-2-3-4-5 run.
func wraparoundLow(sorted []Card) bool {
	want := [5]Rank{Three, Four, Five, Ace, Two}
	for i, c := range sorted {
		if c.Rank != want[i] {
			return false
		}
	}
	return true
}

func allSameSuit(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// keyRank returns the dominant rank of a full house (its triple) or a four
// of a kind (its quad).
func (h Hand) keyRank() Rank {
	counts := make(map[Rank]int, 5)
	for _, c := range h.Cards {
		counts[c.Rank]++
	}
	best, bestN := Rank(0), 0
	for r, n := range counts {
		if n > bestN {
			best, bestN = r, n
		}
	}
	return best
}

// highCard returns the strongest card of the hand by total order.
func (h Hand) highCard() Card {
	return h.Cards[len(h.Cards)-1]
}
