package ws

import (
	"encoding/json"
	"time"
)

// Message types, inbound (client to server).
const (
	TypeChat      = "CHAT"
	TypeMove      = "MOVE"
	TypeLeave     = "LEAVE"
	TypeStartGame = "START_GAME"
	TypeReady     = "READY"
)

// Message types, outbound (server to client).
const (
	TypePlayersList  = "PLAYERS_LIST"
	TypeChatMessage  = "CHAT_MESSAGE"
	TypeHostChange   = "HOST_CHANGE"
	TypeGameStarted  = "GAME_STARTED"
	TypeMovePlayed   = "MOVE_PLAYED"
	TypeTurnChange   = "TURN_CHANGE"
	TypeGameWon      = "GAME_WON"
	TypeGameReset    = "GAME_RESET"
	TypeBotAdded     = "BOT_ADDED"
	TypeBotRemoved   = "BOT_REMOVED"
	TypeStatsUpdated = "STATS_UPDATED"
	TypeError        = "ERROR"
)

// Meta travels with every envelope.
type Meta struct {
	Timestamp     time.Time `json:"timestamp"`
	ParticipantID string    `json:"participantId,omitempty"`
}

// Envelope is the wire frame in both directions: a closed type vocabulary,
// a type-specific payload and metadata.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Meta    Meta            `json:"meta"`
}

// newEnvelope marshals an outbound frame. Payload marshalling of the fixed
// outbound structs cannot fail; errors indicate a programming bug upstream.
func newEnvelope(msgType string, payload any, participantID string) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Type:    msgType,
		Payload: raw,
		Meta:    Meta{Timestamp: time.Now().UTC(), ParticipantID: participantID},
	})
}

// Inbound payloads.

type ChatIn struct {
	Content string `json:"content"`
}

type MoveIn struct {
	Cards []string `json:"cards"`
}

type ReadyIn struct {
	IsReady bool `json:"isReady"`
}

// Outbound payloads.

type PlayersListOut struct {
	Players     []string          `json:"players"`
	NameMapping map[string]string `json:"nameMapping"`
	BotIDs      []string          `json:"botIds"`
	ReadyIDs    []string          `json:"readyIds"`
	HostID      string            `json:"hostId"`
}

type ChatOut struct {
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
}

type HostChangeOut struct {
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
}

type GameStartedOut struct {
	CurrentTurn string         `json:"currentTurn"`
	Hand        []string       `json:"hand"`
	PlayerOrder []string       `json:"playerOrder"`
	CardCounts  map[string]int `json:"cardCounts"`
}

type MovePlayedOut struct {
	Player         string   `json:"player"`
	Cards          []string `json:"cards"`
	RemainingCount int      `json:"remainingCount"`
}

type TurnChangeOut struct {
	Player string `json:"player"`
}

type GameWonOut struct {
	Winner      string   `json:"winner"`
	WinningHand []string `json:"winningHand"`
}

type BotAddedOut struct {
	BotID      string `json:"botId"`
	BotName    string `json:"botName"`
	Difficulty string `json:"difficulty"`
}

type BotRemovedOut struct {
	BotID string `json:"botId"`
}

type StatsUpdatedOut struct {
	GamesPlayed int            `json:"gamesPlayed"`
	Wins        map[string]int `json:"wins"`
}

type ErrorOut struct {
	Message string `json:"message"`
}
