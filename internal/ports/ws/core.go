package ws

import (
	"bigtwo/internal/auth"
	"bigtwo/internal/domain"
	"bigtwo/internal/room"
)

// Core is the application surface the transport drives. The websocket layer
// decodes frames and forwards them here; it never touches game or room state
// directly.
type Core interface {
	CreateRoom(who auth.Identity) *room.View
	ListRooms() []*room.View
	JoinRoom(roomID string, who auth.Identity) (*room.View, error)
	Connected(roomID string, who auth.Identity)

	Chat(roomID string, who auth.Identity, content string)
	PlayMove(roomID, participantID string, cards []domain.Card)
	StartGame(roomID, participantID string)
	SetReady(roomID, participantID string, ready bool)
	Leave(roomID, participantID string)

	AddBot(roomID, actorID, difficulty string) error
	RemoveBot(roomID, actorID, botID string) error
}
