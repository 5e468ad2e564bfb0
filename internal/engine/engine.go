package engine

import (
	"errors"
	"math/rand"
)

var ErrNotParticipant = errors.New("not a participant in this game")
var ErrOpponentMissing = errors.New("opponent is no longer in this game")
var ErrGameFinished = errors.New("game already finished")
var ErrWrongTurn = errors.New("not your turn")
var ErrCardIndex = errors.New("card index out of range")
var ErrNoActiveCard = errors.New("no active card in play")
var ErrOpponentNoActiveCard = errors.New("opponent has no active card")

const (
	DeckSize     = 10
	HandLimit    = 5
	WinningScore = 3
)

type Element string

const (
	Fire     Element = "fire"
	Water    Element = "water"
	Grass    Element = "grass"
	Electric Element = "electric"
	Normal   Element = "normal"
)

// Card is a battle instance: CurrentHP is per-game state, independent of the
// catalog card it was created from.
type Card struct {
	ID           uint
	Name         string
	MaxHP        int
	AttackPower  int
	Element      Element
	CatalogIndex int
	CurrentHP    int
}

type Player struct {
	ConnID   string
	UserID   uint
	Username string
	Deck     []Card
	Hand     []Card
	Active   *Card
	Score    int
}

// Game is the single authoritative state for one room. It is created once by
// NewGame and mutated in place; the owning session serializes all access.
type Game struct {
	RoomID  int64
	Channel string
	Players map[string]*Player
	Current string // connection id whose turn it is
	Winner  string // empty until the game is decided
}

// PlayerSetup carries everything needed to seat one player. Cards is the
// validated 10-card deck in catalog order.
type PlayerSetup struct {
	ConnID   string
	UserID   uint
	Username string
	Cards    []Card
}

// AttackResult reports what a successful attack did.
type AttackResult struct {
	Damage   int
	Knockout bool
	Winner   string // attacker's connection id when the game was just won
}

// shuffleCards is a package var so tests can pin the deal order.
var shuffleCards = func(cards []Card) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// NewGame shuffles each player's deck independently, deals the first five
// cards into the hand, and gives the host the first turn.
func NewGame(roomID int64, channel string, host, guest PlayerSetup) *Game {
	return &Game{
		RoomID:  roomID,
		Channel: channel,
		Players: map[string]*Player{
			host.ConnID:  seatPlayer(host),
			guest.ConnID: seatPlayer(guest),
		},
		Current: host.ConnID,
	}
}

func seatPlayer(setup PlayerSetup) *Player {
	cards := make([]Card, len(setup.Cards))
	copy(cards, setup.Cards)
	for i := range cards {
		cards[i].CurrentHP = cards[i].MaxHP
	}
	shuffleCards(cards)

	// Hand and deck must not share a backing array: the hand grows in place.
	return &Player{
		ConnID:   setup.ConnID,
		UserID:   setup.UserID,
		Username: setup.Username,
		Hand:     append([]Card(nil), cards[:HandLimit]...),
		Deck:     append([]Card(nil), cards[HandLimit:]...),
	}
}

func (g *Game) Finished() bool { return g.Winner != "" }

func (g *Game) Opponent(connID string) *Player {
	for id, p := range g.Players {
		if id != connID {
			return p
		}
	}
	return nil
}

// guard runs the checks shared by every action: participant, opponent
// present, game not over, caller's turn.
func (g *Game) guard(connID string) (*Player, *Player, error) {
	p, ok := g.Players[connID]
	if !ok {
		return nil, nil, ErrNotParticipant
	}
	opp := g.Opponent(connID)
	if opp == nil {
		return nil, nil, ErrOpponentMissing
	}
	if g.Finished() {
		return nil, nil, ErrGameFinished
	}
	if g.Current != connID {
		return nil, nil, ErrWrongTurn
	}
	return p, opp, nil
}

// DrawCards tops the hand up to the hand limit from the front of the deck.
// Best-effort: an empty deck is not an error.
func (g *Game) DrawCards(connID string) error {
	p, _, err := g.guard(connID)
	if err != nil {
		return err
	}

	for len(p.Hand) < HandLimit && len(p.Deck) > 0 {
		p.Hand = append(p.Hand, p.Deck[0])
		p.Deck = p.Deck[1:]
	}
	return nil
}

// PlayCard moves the card at handIndex into the active slot. A previously
// active card goes back to the hand, never discarded.
func (g *Game) PlayCard(connID string, handIndex int) error {
	p, _, err := g.guard(connID)
	if err != nil {
		return err
	}
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return ErrCardIndex
	}

	played := p.Hand[handIndex]
	p.Hand = append(p.Hand[:handIndex], p.Hand[handIndex+1:]...)
	if p.Active != nil {
		p.Hand = append(p.Hand, *p.Active)
	}
	p.Active = &played
	return nil
}

// EndTurn hands the turn to the opponent.
func (g *Game) EndTurn(connID string) error {
	_, opp, err := g.guard(connID)
	if err != nil {
		return err
	}
	g.Current = opp.ConnID
	return nil
}

// Attack resolves the attacker's active card against the opponent's. A
// knockout consumes the defending card and scores a point; reaching the
// winning score ends the game in the same call with no turn swap, otherwise
// the turn passes to the opponent.
func (g *Game) Attack(connID string) (AttackResult, error) {
	p, opp, err := g.guard(connID)
	if err != nil {
		return AttackResult{}, err
	}
	if p.Active == nil {
		return AttackResult{}, ErrNoActiveCard
	}
	if opp.Active == nil {
		return AttackResult{}, ErrOpponentNoActiveCard
	}

	res := AttackResult{
		Damage: Damage(p.Active.AttackPower, p.Active.Element, opp.Active.Element),
	}
	// No clamping: only the sign matters for the knockout check.
	opp.Active.CurrentHP -= res.Damage

	if opp.Active.CurrentHP <= 0 {
		res.Knockout = true
		opp.Active = nil
		p.Score++
		if p.Score >= WinningScore {
			g.Winner = connID
			res.Winner = connID
			return res, nil
		}
	}

	g.Current = opp.ConnID
	return res, nil
}
