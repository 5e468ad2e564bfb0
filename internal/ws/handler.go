package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duelhaven/card-battle-backend/internal/auth"
	"github.com/duelhaven/card-battle-backend/internal/deck"
	"github.com/duelhaven/card-battle-backend/internal/hub"
	"github.com/duelhaven/card-battle-backend/internal/registry"
	"github.com/duelhaven/card-battle-backend/internal/session"
	"github.com/duelhaven/card-battle-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection, verifies the session token once, and then
// shuttles JSON messages between the socket and the hub. Deck validation
// runs here, on the connection's goroutine, so the hub loop never waits on
// the database.
func Handler(h *hub.Hub, v *deck.Validator, a *auth.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.Verify(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		out := make(chan types.ServerMessage, 16)

		h.Inbox() <- hub.Register{ConnID: connID, UserID: claims.UserID, Username: claims.Username, Outbox: out}
		defer func() { h.Inbox() <- hub.Unregister{ConnID: connID} }()

		logger.Info("connection opened",
			zap.String("conn_id", connID),
			zap.String("username", claims.Username))

		// Writer goroutine: the only place this connection is written to.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case msg := <-out:
					payload, err := json.Marshal(msg)
					if err != nil {
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		c := &connctx{hub: h, validator: v, connID: connID, userID: claims.UserID, out: out}

		// Reader loop.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				c.sendError("bad json")
				continue
			}
			c.dispatch(r.Context(), cm)
		}
	}
}

type connctx struct {
	hub       *hub.Hub
	validator *deck.Validator
	connID    string
	userID    uint
	out       chan types.ServerMessage
}

func (c *connctx) sendError(message string) {
	select {
	case c.out <- types.ServerMessage{Type: types.EvtError, Error: message}:
	default:
	}
}

func (c *connctx) dispatch(ctx context.Context, cm types.ClientMessage) {
	switch cm.Type {
	case "createRoom":
		c.createRoom(ctx, cm)
	case "getRooms":
		c.hub.Inbox() <- hub.RoomList{ConnID: c.connID}
	case "joinRoom":
		c.joinRoom(ctx, cm)
	case "drawCards":
		c.forward(cm.RoomID, session.Action{ConnID: c.connID, Kind: session.ActDraw})
	case "playCard":
		c.forward(cm.RoomID, session.Action{ConnID: c.connID, Kind: session.ActPlay, CardIndex: cm.CardIndex})
	case "attack":
		c.forward(cm.RoomID, session.Action{ConnID: c.connID, Kind: session.ActAttack})
	case "endTurn":
		c.forward(cm.RoomID, session.Action{ConnID: c.connID, Kind: session.ActEndTurn})
	default:
		c.sendError("unknown type")
	}
}

func (c *connctx) forward(roomID int64, act session.Action) {
	c.hub.Inbox() <- hub.Forward{ConnID: c.connID, RoomID: roomID, Act: act}
}

func (c *connctx) createRoom(ctx context.Context, cm types.ClientMessage) {
	deckID, _, err := c.validator.Validate(ctx, c.userID, cm.DeckID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.hub.Inbox() <- hub.CreateRoom{ConnID: c.connID, DeckID: deckID}
}

func (c *connctx) joinRoom(ctx context.Context, cm types.ClientMessage) {
	reply := make(chan *registry.Room, 1)
	c.hub.Inbox() <- hub.GetRoom{ID: cm.RoomID, Reply: reply}
	room := <-reply
	if room == nil {
		c.sendError("room not found")
		return
	}

	_, guestCards, err := c.validator.Validate(ctx, c.userID, cm.DeckID)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	// The host's deck may have changed since the room was created.
	hostCards, err := c.validator.ValidateOwned(ctx, room.HostUserID, room.DeckID)
	if err != nil {
		c.sendError("host deck is no longer valid")
		return
	}

	c.hub.Inbox() <- hub.CompleteJoin{
		ConnID:    c.connID,
		RoomID:    room.ID,
		GuestDeck: guestCards,
		HostDeck:  hostCards,
	}
}
