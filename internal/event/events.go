// Package event provides the process-wide publish/subscribe backbone and the
// dispatcher that fans room-scoped events to independent handlers. The room
// id is the topic; payloads carry only what consumers need.
package event

import (
	"bigtwo/internal/domain"
	"bigtwo/internal/game"
)

// Kind identifies a domain event variant. The vocabulary is closed.
type Kind string

const (
	PlayerJoined   Kind = "player_joined"
	PlayerLeft     Kind = "player_left"
	HostChanged    Kind = "host_changed"
	PlayerReady    Kind = "player_ready"
	Chat           Kind = "chat"
	TryStartGame   Kind = "try_start_game"
	GameStarted    Kind = "game_started"
	TryPlayMove    Kind = "try_play_move"
	MovePlayed     Kind = "move_played"
	TurnChanged    Kind = "turn_changed"
	GameWon        Kind = "game_won"
	GameReset      Kind = "game_reset"
	BotAdded       Kind = "bot_added"
	BotRemoved     Kind = "bot_removed"
	StatsUpdated   Kind = "stats_updated"
	ActionRejected Kind = "action_rejected"
)

// Event is one domain event on a room topic. Empty Recipients means every
// participant; otherwise delivery is limited to the listed identities.
type Event struct {
	Kind       Kind
	Payload    any
	Recipients []string
}

type PlayerJoinedPayload struct {
	ID   string
	Name string
}

type PlayerLeftPayload struct {
	ID   string
	Name string
}

type HostChangedPayload struct {
	ID   string
	Name string
}

type PlayerReadyPayload struct {
	ID    string
	Ready bool
}

type ChatPayload struct {
	ID      string
	Name    string
	Content string
}

type TryStartGamePayload struct {
	ID string
}

type GameStartedPayload struct {
	Snapshot *game.Snapshot
}

type TryPlayMovePayload struct {
	ID    string
	Cards []domain.Card
}

type MovePlayedPayload struct {
	ID        string
	Cards     []domain.Card
	Remaining int
}

type TurnChangedPayload struct {
	ID string
}

type GameWonPayload struct {
	ID    string
	Cards []domain.Card
}

type BotAddedPayload struct {
	ID         string
	Name       string
	Difficulty string
}

type BotRemovedPayload struct {
	ID string
}

type StatsUpdatedPayload struct {
	GamesPlayed int
	Wins        map[string]int
}

type ActionRejectedPayload struct {
	ID      string
	Message string
}
