package domain

import "testing"

func classify(t *testing.T, codes string) Hand {
	t.Helper()
	h, err := Classify(cards(t, codes))
	if err != nil {
		t.Fatalf("Classify(%q): %v", codes, err)
	}
	return h
}

func TestCompareWithinShape(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want Comparison
	}{
		{"higher single", "8D", "7S", ABeats},
		{"single suit tiebreak", "8S", "8D", ABeats},
		{"two beats ace", "2D", "AS", ABeats},
		{"lower pair loses", "5D 5C", "6D 6C", BBeats},
		{"pair suit tiebreak", "9H 9S", "9D 9C", ABeats},
		{"higher triple", "TD TC TH", "4D 4C 4H", ABeats},
		{"straight by high card", "6D 7C 8H 9S TD", "5D 6C 7H 8S 9D", ABeats},
		{"straight suit tiebreak", "5D 6C 7H 8S 9S", "5C 6D 7S 8H 9H", ABeats},
		{"wraparound low tops plain runs", "AD 2C 3H 4S 5D", "TD JC QH KS AS", ABeats},
		{"flush by suit first", "3H 5H 7H 9H JH", "4S 6S 8S TS QS", BBeats},
		{"flush same suit by high card", "3H 5H 7H 9H KH", "4H 6H 8H TH QH", ABeats},
		{"full house by triple rank", "4D 4C 4H AD AS", "KD KC KH 3D 3C", BBeats},
		{"quad by quad rank", "9D 9C 9H 9S 3D", "8D 8C 8H 8S AS", ABeats},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := classify(t, tt.a), classify(t, tt.b)
			if got := Compare(a, b); got != tt.want {
				t.Errorf("Compare = %v, want %v", got, tt.want)
			}
			// Antisymmetry: the mirrored comparison must flip.
			mirror := map[Comparison]Comparison{ABeats: BBeats, BBeats: ABeats, Incomparable: Incomparable}
			if got := Compare(b, a); got != mirror[tt.want] {
				t.Errorf("Compare mirrored = %v, want %v", got, mirror[tt.want])
			}
		})
	}
}

func TestCompareFiveCardPrecedence(t *testing.T) {
	straight := classify(t, "5D 6C 7H 8S 9D")
	flush := classify(t, "3H 5H 7H 9H JH")
	fullHouse := classify(t, "4D 4C 4H AD AS")
	quad := classify(t, "6D 6C 6H 6S 9D")
	straightFlush := classify(t, "4S 5S 6S 7S 8S")

	ladder := []Hand{straight, flush, fullHouse, quad, straightFlush}
	for i := 0; i < len(ladder); i++ {
		for j := i + 1; j < len(ladder); j++ {
			if got := Compare(ladder[j], ladder[i]); got != ABeats {
				t.Errorf("precedence %d over %d: got %v, want ABeats", j, i, got)
			}
		}
	}
}

func TestCompareCrossShape(t *testing.T) {
	hands := []Hand{
		Pass(),
		classify(t, "2S"),
		classify(t, "2H 2S"),
		classify(t, "2C 2H 2S"),
		classify(t, "4S 5S 6S 7S 8S"),
	}
	for i, a := range hands {
		for j, b := range hands {
			if i == j {
				continue
			}
			if got := Compare(a, b); got != Incomparable {
				t.Errorf("cross-shape Compare(%d,%d) = %v, want Incomparable", i, j, got)
			}
		}
	}
}

func TestCompareIsIrreflexive(t *testing.T) {
	for _, codes := range []string{"7H", "9D 9S", "QD QC QH", "5D 6C 7H 8S 9D"} {
		h := classify(t, codes)
		if got := Compare(h, h); got != Incomparable {
			t.Errorf("Compare(h,h) for %q = %v, want Incomparable", codes, got)
		}
	}
}

func TestCompareSinglesIsTransitive(t *testing.T) {
	deck := NewDeck()
	single := func(c Card) Hand { return Hand{Kind: Single, Cards: []Card{c}} }
	for _, a := range deck {
		for _, b := range deck {
			for _, c := range deck {
				if Compare(single(a), single(b)) == ABeats &&
					Compare(single(b), single(c)) == ABeats &&
					Compare(single(a), single(c)) != ABeats {
					t.Fatalf("transitivity broken for %v > %v > %v", a, b, c)
				}
			}
		}
	}
}
