package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duelhaven/card-battle-backend/internal/engine"
	"github.com/duelhaven/card-battle-backend/internal/types"
)

// recvMsg receives one server message with a timeout so tests never hang.
func recvMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) types.ServerMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(within):
		t.Fatalf("timed out waiting for message")
		return types.ServerMessage{} // unreachable
	}
}

func recvNoMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("expected no message within %v, but got: %+v", within, msg)
	case <-time.After(within):
		// good: silence
	}
}

func testDeck(prefix string) []engine.Card {
	cards := make([]engine.Card, engine.DeckSize)
	for i := range cards {
		cards[i] = engine.Card{
			ID:          uint(i + 1),
			Name:        fmt.Sprintf("%s-%d", prefix, i),
			MaxHP:       30,
			AttackPower: 10,
			Element:     engine.Normal,
		}
	}
	return cards
}

func startSession(t *testing.T) (*Session, chan types.ServerMessage, chan types.ServerMessage) {
	t.Helper()

	game := engine.NewGame(1, "room-1",
		engine.PlayerSetup{ConnID: "host", Username: "alice", Cards: testDeck("a")},
		engine.PlayerSetup{ConnID: "guest", Username: "bob", Cards: testDeck("b")},
	)

	hostOut := make(chan types.ServerMessage, 8)
	guestOut := make(chan types.ServerMessage, 8)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := New(ctx, game, map[string]chan<- types.ServerMessage{
		"host":  hostOut,
		"guest": guestOut,
	}, zap.NewNop())
	return s, hostOut, guestOut
}

func TestSessionSendsGameStartedToBothPlayers(t *testing.T) {
	_, hostOut, guestOut := startSession(t)

	hostMsg := recvMsg(t, hostOut, time.Second)
	guestMsg := recvMsg(t, guestOut, time.Second)

	require.Equal(t, types.EvtGameStarted, hostMsg.Type)
	require.Equal(t, types.EvtGameStarted, guestMsg.Type)

	// Each player gets their own masked view.
	require.Equal(t, "host", hostMsg.State.You.ConnID)
	require.Equal(t, "guest", guestMsg.State.You.ConnID)
	require.Len(t, hostMsg.State.You.Hand, engine.HandLimit)
	require.Equal(t, engine.HandLimit, hostMsg.State.Opponent.HandCount)
}

func TestSessionBroadcastsStateOnValidAction(t *testing.T) {
	s, hostOut, guestOut := startSession(t)
	recvMsg(t, hostOut, time.Second)  // gameStarted
	recvMsg(t, guestOut, time.Second) // gameStarted

	s.Inbox() <- Action{ConnID: "host", Kind: ActEndTurn}

	hostMsg := recvMsg(t, hostOut, time.Second)
	guestMsg := recvMsg(t, guestOut, time.Second)

	require.Equal(t, types.EvtGameStateUpdated, hostMsg.Type)
	require.Equal(t, types.EvtGameStateUpdated, guestMsg.Type)
	require.Equal(t, "guest", hostMsg.State.CurrentPlayer)
	require.Equal(t, "guest", guestMsg.State.CurrentPlayer)
}

func TestSessionSendsErrorOnlyToOffender(t *testing.T) {
	s, hostOut, guestOut := startSession(t)
	recvMsg(t, hostOut, time.Second)
	recvMsg(t, guestOut, time.Second)

	// Guest acts out of turn: only the guest hears about it.
	s.Inbox() <- Action{ConnID: "guest", Kind: ActEndTurn}

	msg := recvMsg(t, guestOut, time.Second)
	require.Equal(t, types.EvtError, msg.Type)
	require.NotEmpty(t, msg.Error)

	recvNoMsg(t, hostOut, 100*time.Millisecond)
}

func TestSessionAnnouncesWinner(t *testing.T) {
	s, hostOut, guestOut := startSession(t)
	recvMsg(t, hostOut, time.Second)
	recvMsg(t, guestOut, time.Second)

	// Put the game one knockout from the end, with a guaranteed lethal hit.
	reply := make(chan *engine.PublicView, 1)
	s.Inbox() <- Project{ConnID: "host", Reply: reply}
	<-reply // sync point: the setup below races nothing after this

	s.game.Players["host"].Score = engine.WinningScore - 1
	s.game.Players["host"].Active = &engine.Card{Name: "attacker", AttackPower: 99, Element: engine.Normal, MaxHP: 30, CurrentHP: 30}
	s.game.Players["guest"].Active = &engine.Card{Name: "defender", Element: engine.Normal, MaxHP: 10, CurrentHP: 10}

	s.Inbox() <- Action{ConnID: "host", Kind: ActAttack}

	update := recvMsg(t, hostOut, time.Second)
	require.Equal(t, types.EvtGameStateUpdated, update.Type)

	ended := recvMsg(t, hostOut, time.Second)
	require.Equal(t, types.EvtGameEnded, ended.Type)
	require.Equal(t, "host", ended.Winner)
	require.Equal(t, engine.WinningScore, ended.State.You.Score)

	guestUpdate := recvMsg(t, guestOut, time.Second)
	require.Equal(t, types.EvtGameStateUpdated, guestUpdate.Type)
	guestEnded := recvMsg(t, guestOut, time.Second)
	require.Equal(t, types.EvtGameEnded, guestEnded.Type)
	require.Equal(t, "host", guestEnded.Winner)

	// The game is over: every further action is rejected.
	s.Inbox() <- Action{ConnID: "guest", Kind: ActDraw}
	msg := recvMsg(t, guestOut, time.Second)
	require.Equal(t, types.EvtError, msg.Type)
}

func TestSessionProjectForUnknownViewer(t *testing.T) {
	s, _, _ := startSession(t)

	reply := make(chan *engine.PublicView, 1)
	s.Inbox() <- Project{ConnID: "stranger", Reply: reply}
	require.Nil(t, <-reply)
}
