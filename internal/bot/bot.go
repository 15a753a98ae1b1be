// Package bot implements the automated players: a pluggable decision
// interface, strategies selected by difficulty, and the event-driven trigger
// that makes bots act on their turn within bounded time.
package bot

import (
	"fmt"
	"math/rand"

	"bigtwo/internal/domain"
	"bigtwo/internal/game"
)

// Move is the decision made by a brain: either a pass or a set of cards.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// Brain is the pluggable decision interface all strategies implement. The
// snapshot may be stale by the time the move is applied; the engine is the
// sole validator.
type Brain interface {
	Decide(snap *game.Snapshot, botID string) (Move, error)
}

// Difficulty selects a strategy.
type Difficulty string

const (
	Easy     Difficulty = "easy"
	Balanced Difficulty = "balanced"
	Hard     Difficulty = "hard"
)

// NewBrain builds the strategy for the given difficulty.
func NewBrain(difficulty Difficulty, rng *rand.Rand) (Brain, error) {
	switch difficulty {
	case Easy:
		return &EasyBot{rng: rng}, nil
	case Balanced:
		return &BalancedBot{}, nil
	case Hard:
		return &HardBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot difficulty: %q", difficulty)
	}
}
