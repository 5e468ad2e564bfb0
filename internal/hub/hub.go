// Package hub owns the shared matchmaking state: connected clients, the
// waiting-room registry, and the session for each active game. Everything
// runs on one goroutine; deck validation happens in the connection goroutine
// before a message is sent here, so the loop never blocks on the database.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/duelhaven/card-battle-backend/internal/engine"
	"github.com/duelhaven/card-battle-backend/internal/registry"
	"github.com/duelhaven/card-battle-backend/internal/session"
	"github.com/duelhaven/card-battle-backend/internal/types"
)

type Msg interface{ isHubMsg() }

type Register struct {
	ConnID   string
	UserID   uint
	Username string
	Outbox   chan types.ServerMessage
}

type Unregister struct{ ConnID string }

// CreateRoom is sent after the caller's deck has been validated.
type CreateRoom struct {
	ConnID string
	DeckID uint
}

type RoomList struct{ ConnID string }

type GetRoom struct {
	ID    int64
	Reply chan *registry.Room
}

// CompleteJoin commits a join after both decks validated outside the loop.
// The room is re-checked here: it may have been taken or cancelled while the
// guest was validating.
type CompleteJoin struct {
	ConnID    string
	RoomID    int64
	GuestDeck []engine.Card
	HostDeck  []engine.Card
}

type Forward struct {
	ConnID string
	RoomID int64
	Act    session.Action
}

type ShutdownHub struct{}

func (Register) isHubMsg()     {}
func (Unregister) isHubMsg()   {}
func (CreateRoom) isHubMsg()   {}
func (RoomList) isHubMsg()     {}
func (GetRoom) isHubMsg()      {}
func (CompleteJoin) isHubMsg() {}
func (Forward) isHubMsg()      {}
func (ShutdownHub) isHubMsg()  {}

type client struct {
	userID   uint
	username string
	outbox   chan types.ServerMessage
}

type Hub struct {
	inbox      chan Msg
	clients    map[string]*client
	reg        *registry.Registry
	sessions   map[int64]*session.Session
	membership map[string]int64 // connID -> roomID of the game it is in
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(parent context.Context, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:      make(chan Msg, 64),
		clients:    make(map[string]*client),
		reg:        registry.New(),
		sessions:   make(map[int64]*session.Session),
		membership: make(map[string]int64),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Register:
				h.clients[msg.ConnID] = &client{userID: msg.UserID, username: msg.Username, outbox: msg.Outbox}

			case Unregister:
				h.unregister(msg.ConnID)

			case CreateRoom:
				h.createRoom(msg)

			case RoomList:
				h.send(msg.ConnID, types.ServerMessage{Type: types.EvtRoomsList, Rooms: h.reg.List()})

			case GetRoom:
				msg.Reply <- h.reg.Get(msg.ID) // may be nil

			case CompleteJoin:
				h.completeJoin(msg)

			case Forward:
				sess := h.sessions[msg.RoomID]
				if sess == nil {
					h.sendError(msg.ConnID, "game not found")
					break
				}
				sess.Inbox() <- msg.Act

			case ShutdownHub:
				for _, sess := range h.sessions {
					sess.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) createRoom(msg CreateRoom) {
	c := h.clients[msg.ConnID]
	if c == nil {
		return
	}

	id := h.reg.NextID()
	room := h.reg.Create(id, c.userID, c.username, msg.ConnID, msg.DeckID)
	h.logger.Info("room created",
		zap.Int64("room_id", room.ID),
		zap.String("host", room.HostUsername))

	h.send(msg.ConnID, types.ServerMessage{
		Type:         types.EvtRoomCreated,
		RoomID:       room.ID,
		HostUsername: room.HostUsername,
		DeckID:       room.DeckID,
	})
	h.broadcastRoomsList()
}

func (h *Hub) completeJoin(msg CompleteJoin) {
	room := h.reg.Get(msg.RoomID)
	if room == nil {
		h.sendError(msg.ConnID, "room not found")
		return
	}
	if room.HostConnID == msg.ConnID {
		h.sendError(msg.ConnID, "cannot join your own room")
		return
	}

	host := h.clients[room.HostConnID]
	guest := h.clients[msg.ConnID]
	if guest == nil {
		return
	}
	if host == nil {
		// Host dropped while the guest was validating; the room is dead.
		h.reg.Remove(room.ID)
		h.broadcastRoomsList()
		h.sendError(msg.ConnID, "room not found")
		return
	}

	game := engine.NewGame(room.ID, room.Channel,
		engine.PlayerSetup{ConnID: room.HostConnID, UserID: room.HostUserID, Username: room.HostUsername, Cards: msg.HostDeck},
		engine.PlayerSetup{ConnID: msg.ConnID, UserID: guest.userID, Username: guest.username, Cards: msg.GuestDeck},
	)

	h.reg.Remove(room.ID)
	outboxes := map[string]chan<- types.ServerMessage{
		room.HostConnID: host.outbox,
		msg.ConnID:      guest.outbox,
	}
	h.sessions[room.ID] = session.New(h.ctx, game, outboxes, h.logger)
	h.membership[room.HostConnID] = room.ID
	h.membership[msg.ConnID] = room.ID

	h.logger.Info("game started",
		zap.Int64("room_id", room.ID),
		zap.String("host", room.HostUsername),
		zap.String("guest", guest.username))
	h.broadcastRoomsList()
}

func (h *Hub) unregister(connID string) {
	delete(h.clients, connID)

	if h.reg.RemoveByHost(connID) {
		h.broadcastRoomsList()
	}

	// A dropped participant tears the whole game down; there is no
	// reconnection support.
	if roomID, ok := h.membership[connID]; ok {
		if sess := h.sessions[roomID]; sess != nil {
			sess.Inbox() <- session.Shutdown{}
			delete(h.sessions, roomID)
		}
		for id, rid := range h.membership {
			if rid == roomID {
				delete(h.membership, id)
			}
		}
		h.logger.Info("game torn down", zap.Int64("room_id", roomID), zap.String("conn_id", connID))
	}
}

func (h *Hub) send(connID string, msg types.ServerMessage) {
	c := h.clients[connID]
	if c == nil {
		return
	}
	select {
	case c.outbox <- msg:
	default:
		h.logger.Warn("dropping message for slow connection", zap.String("conn_id", connID))
	}
}

func (h *Hub) sendError(connID, message string) {
	h.send(connID, types.ServerMessage{Type: types.EvtError, Error: message})
}

func (h *Hub) broadcastRoomsList() {
	rooms := h.reg.List()
	for connID := range h.clients {
		h.send(connID, types.ServerMessage{Type: types.EvtRoomsListUpdated, Rooms: rooms})
	}
}
