// Package types defines the JSON messages exchanged over the websocket.
//
// Client -> Server: createRoom{deckId}, getRooms{}, joinRoom{roomId,deckId},
// drawCards{roomId}, playCard{roomId,cardIndex}, attack{roomId},
// endTurn{roomId}.
//
// Server -> Client: roomCreated, roomsListUpdated, roomsList, gameStarted,
// gameStateUpdated, gameEnded, error. Game events carry the caller's masked
// PublicView; errors go only to the offending connection.
package types

import (
	"github.com/duelhaven/card-battle-backend/internal/engine"
	"github.com/duelhaven/card-battle-backend/internal/registry"
)

const (
	EvtRoomCreated      = "roomCreated"
	EvtRoomsListUpdated = "roomsListUpdated"
	EvtRoomsList        = "roomsList"
	EvtGameStarted      = "gameStarted"
	EvtGameStateUpdated = "gameStateUpdated"
	EvtGameEnded        = "gameEnded"
	EvtError            = "error"
)

type ClientMessage struct {
	Type string `json:"type"`
	// DeckID stays a string on the wire so a malformed id can be rejected
	// as invalid input rather than a JSON decode failure.
	DeckID    string `json:"deckId,omitempty"`
	RoomID    int64  `json:"roomId,omitempty"`
	CardIndex int    `json:"cardIndex"`
}

// ServerMessage is the outbound envelope; which fields are set depends on
// Type. RoomID/HostUsername/DeckID belong to roomCreated, Rooms to the list
// events, State to the game events, Winner to gameEnded.
type ServerMessage struct {
	Type         string             `json:"type"`
	RoomID       int64              `json:"id,omitempty"`
	HostUsername string             `json:"hostUsername,omitempty"`
	DeckID       uint               `json:"deckId,omitempty"`
	Rooms        []registry.Summary `json:"rooms,omitempty"`
	State        *engine.PublicView `json:"state,omitempty"`
	Winner       string             `json:"winnerConnectionId,omitempty"`
	Error        string             `json:"error,omitempty"`
}
