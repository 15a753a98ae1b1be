package bot

import (
	"math/rand"
	"sort"

	"bigtwo/internal/domain"
	"bigtwo/internal/game"
)

// EasyBot plays a uniformly random legal move and never reasons about value.
type EasyBot struct {
	rng *rand.Rand
}

func (b *EasyBot) Decide(snap *game.Snapshot, botID string) (Move, error) {
	moves := ValidMoves(snap.HandOf(botID), snap)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}
	pick := moves[b.rng.Intn(len(moves))]
	return Move{Cards: pick.Cards}, nil
}

// BalancedBot always plays the weakest legal move, dumping low cards early
// and saving high ones for contested tables.
type BalancedBot struct{}

func (b *BalancedBot) Decide(snap *game.Snapshot, botID string) (Move, error) {
	moves := ValidMoves(snap.HandOf(botID), snap)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	sort.Slice(moves, func(i, j int) bool {
		if moves[i].topPower() != moves[j].topPower() {
			return moves[i].topPower() < moves[j].topPower()
		}
		// Between equally weak tops, shed more cards.
		return len(moves[i].Cards) > len(moves[j].Cards)
	})
	return Move{Cards: moves[0].Cards}, nil
}

// HardBot scores candidates phase-aware: early it sheds volume and protects
// Twos and five-card bombs, late it races to empty the hand.
type HardBot struct{}

func (b *HardBot) Decide(snap *game.Snapshot, botID string) (Move, error) {
	hand := snap.HandOf(botID)
	moves := ValidMoves(hand, snap)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	endgame := len(hand) <= 5 || opponentClose(snap, botID)

	best := moves[0]
	bestScore := b.score(best, endgame)
	for _, m := range moves[1:] {
		if s := b.score(m, endgame); s > bestScore {
			best, bestScore = m, s
		}
	}

	// Answering the table with a Two or a bomb is only worth it once
	// somebody is close to going out.
	if !endgame && snap.LastPlayed != nil && b.spendsPremium(best) {
		return Move{Pass: true}, nil
	}
	return Move{Cards: best.Cards}, nil
}

func (b *HardBot) score(c Candidate, endgame bool) float64 {
	score := float64(len(c.Cards))*2 - float64(c.topPower())*0.1
	if !endgame && b.spendsPremium(c) {
		score -= 10
	}
	return score
}

func (b *HardBot) spendsPremium(c Candidate) bool {
	if c.Hand.Kind == domain.FiveCard && c.Hand.Five >= domain.FourOfAKind {
		return true
	}
	for _, card := range c.Cards {
		if card.Rank == domain.Two {
			return true
		}
	}
	return false
}

func opponentClose(snap *game.Snapshot, botID string) bool {
	for _, s := range snap.Seats {
		if s.ID != botID && s.CardCount <= 3 {
			return true
		}
	}
	return false
}
