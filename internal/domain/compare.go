package domain

// Comparison is the outcome of comparing two hands.
type Comparison int

const (
	// Incomparable means neither hand beats the other. All cross-shape
	// comparisons land here, as do comparisons involving a pass.
	Incomparable Comparison = iota
	ABeats
	BBeats
)

// Compare decides whether hand a beats hand b. Beating is defined only
// within the same shape: a single never beats a pair, no shape beats a
// pass and a pass beats nothing. Differing five-card sub-shapes are ordered
// by their fixed precedence; equal sub-shapes fall through to shape-specific
// tiebreaks.
func Compare(a, b Hand) Comparison {
	if a.Kind != b.Kind || a.Kind == PassHand {
		return Incomparable
	}

	switch a.Kind {
	case Single, Pair, Triple:
		return orderByInt(a.highCard().Power(), b.highCard().Power())
	case FiveCard:
		if a.Five != b.Five {
			return orderByInt(int(a.Five), int(b.Five))
		}
		return compareFive(a, b)
	}
	return Incomparable
}

func compareFive(a, b Hand) Comparison {
	switch a.Five {
	case Straight, StraightFlush:
		return orderByInt(a.highCard().Power(), b.highCard().Power())
	case Flush:
		if a.highCard().Suit != b.highCard().Suit {
			return orderByInt(int(a.highCard().Suit), int(b.highCard().Suit))
		}
		return orderByInt(a.highCard().Power(), b.highCard().Power())
	case FullHouse, FourOfAKind:
		return orderByInt(int(a.keyRank()), int(b.keyRank()))
	}
	return Incomparable
}

func orderByInt(a, b int) Comparison {
	switch {
	case a > b:
		return ABeats
	case a < b:
		return BBeats
	default:
		return Incomparable
	}
}
