package bot

import (
	"math/rand"
	"testing"

	"bigtwo/internal/game"
)

func newSeededRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newSeededGame(t *testing.T, players []game.PlayerInfo, seed int64) *game.Game {
	t.Helper()
	g, err := game.New(players, newSeededRng(seed))
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return g
}
