package domain

import "fmt"

// Rank is a card rank in Big Two order: Three is the lowest, Two the highest.
type Rank int

const (
	Three Rank = iota
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	Two
)

// Suit precedence, lowest to highest: Diamonds, Clubs, Hearts, Spades.
type Suit int

const (
	Diamonds Suit = iota
	Clubs
	Hearts
	Spades
)

const (
	// DeckSize is the number of cards in a full deck.
	DeckSize = 52
	// HandSize is the number of cards dealt to each of the four players.
	HandSize = 13
)

var (
	rankCodes = "3456789TJQKA2"
	suitCodes = "DCHS"
)

// Card is a single immutable playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

// ThreeOfDiamonds is the lowest card in the deck and the mandatory opener
// of a freshly dealt game.
var ThreeOfDiamonds = Card{Rank: Three, Suit: Diamonds}

// Power totally orders cards by (rank, suit).
func (c Card) Power() int {
	return int(c.Rank)*4 + int(c.Suit)
}

// Code returns the two-character wire code, rank then suit ("3D", "TD", "KH").
func (c Card) Code() string {
	return string(rankCodes[c.Rank]) + string(suitCodes[c.Suit])
}

// String implements fmt.Stringer using the wire code.
func (c Card) String() string {
	return c.Code()
}

// ParseCard decodes a two-character card code. It is the inverse of Code
// for all 52 cards.
func ParseCard(code string) (Card, error) {
	if len(code) != 2 {
		return Card{}, fmt.Errorf("card code %q: want 2 characters", code)
	}
	r := indexByte(rankCodes, code[0])
	s := indexByte(suitCodes, code[1])
	if r < 0 || s < 0 {
		return Card{}, fmt.Errorf("card code %q: unknown rank or suit", code)
	}
	return Card{Rank: Rank(r), Suit: Suit(s)}, nil
}

// ParseCards decodes a slice of card codes, rejecting duplicates.
func ParseCards(codes []string) ([]Card, error) {
	cards := make([]Card, 0, len(codes))
	seen := make(map[Card]bool, len(codes))
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			return nil, fmt.Errorf("card code %q: duplicate card", code)
		}
		seen[c] = true
		cards = append(cards, c)
	}
	return cards, nil
}

// CardCodes formats a slice of cards as wire codes.
func CardCodes(cards []Card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.Code()
	}
	return codes
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
