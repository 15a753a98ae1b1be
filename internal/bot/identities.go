package bot

import (
	"fmt"

	"github.com/google/uuid"
)

// Identity is the stable participant identity of one bot.
type Identity struct {
	ID         string
	Name       string
	Difficulty Difficulty
}

// displayNames is the pool of bot display names; a numeric suffix keeps
// names unique once the pool is exhausted within a room.
var displayNames = []string{
	"Minh",
	"Linh",
	"Bao",
	"Tam",
	"Phuong",
	"Khang",
	"Thu",
	"Dung",
}

// NewIdentity mints a fresh bot identity. taken holds the display names
// already used in the room.
func NewIdentity(difficulty Difficulty, taken map[string]bool) Identity {
	name := ""
	for _, n := range displayNames {
		if !taken[n] {
			name = n
			break
		}
	}
	if name == "" {
		name = fmt.Sprintf("Bot %d", len(taken)+1)
	}
	return Identity{
		ID:         "bot-" + uuid.NewString(),
		Name:       name,
		Difficulty: difficulty,
	}
}
