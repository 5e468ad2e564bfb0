// Package session runs one goroutine per active game. All reads and writes
// of a GameState go through the session's inbox, so two near-simultaneous
// actions for the same room can never race.
package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/duelhaven/card-battle-backend/internal/engine"
	"github.com/duelhaven/card-battle-backend/internal/types"
)

type Msg interface{ isSessionMsg() }

type ActionKind string

const (
	ActDraw    ActionKind = "drawCards"
	ActPlay    ActionKind = "playCard"
	ActAttack  ActionKind = "attack"
	ActEndTurn ActionKind = "endTurn"
)

type Action struct {
	ConnID    string
	Kind      ActionKind
	CardIndex int
}

func (Action) isSessionMsg() {}

// Project is test-only: reflect one player's view without data races.
type Project struct {
	ConnID string
	Reply  chan *engine.PublicView
}

func (Project) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type Session struct {
	inbox    chan Msg
	game     *engine.Game
	outboxes map[string]chan<- types.ServerMessage
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// New starts the session loop and immediately sends each player their
// gameStarted view. The outboxes are owned by the websocket writers; the
// session never closes them.
func New(parent context.Context, game *engine.Game, outboxes map[string]chan<- types.ServerMessage, logger *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:    make(chan Msg, 64),
		game:     game,
		outboxes: outboxes,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	s.broadcast(types.EvtGameStarted, "")
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Action:
				s.handle(msg)

			case Project:
				if view, ok := s.game.View(msg.ConnID); ok {
					msg.Reply <- &view
				} else {
					msg.Reply <- nil
				}

			case Shutdown:
				s.cancel()
				return
			}
		}
	}
}

func (s *Session) handle(a Action) {
	var winner string
	var err error

	switch a.Kind {
	case ActDraw:
		err = s.game.DrawCards(a.ConnID)
	case ActPlay:
		err = s.game.PlayCard(a.ConnID, a.CardIndex)
	case ActAttack:
		var res engine.AttackResult
		res, err = s.game.Attack(a.ConnID)
		winner = res.Winner
	case ActEndTurn:
		err = s.game.EndTurn(a.ConnID)
	default:
		return
	}

	if err != nil {
		// Only the offending connection hears about a rule violation.
		s.send(a.ConnID, types.ServerMessage{Type: types.EvtError, Error: err.Error()})
		return
	}

	s.broadcast(types.EvtGameStateUpdated, "")
	if winner != "" {
		s.broadcast(types.EvtGameEnded, winner)
	}
}

func (s *Session) send(connID string, msg types.ServerMessage) {
	ch, ok := s.outboxes[connID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		// Writer is saturated; drop rather than stall the whole game.
		s.logger.Warn("dropping message for slow connection",
			zap.String("conn_id", connID),
			zap.Int64("room_id", s.game.RoomID))
	}
}

func (s *Session) broadcast(event, winner string) {
	for connID := range s.outboxes {
		view, ok := s.game.View(connID)
		if !ok {
			continue
		}
		s.send(connID, types.ServerMessage{Type: event, State: &view, Winner: winner})
	}
}
