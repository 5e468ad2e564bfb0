package engine

// CardView is the wire shape of one battle card.
type CardView struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	MaxHP        int     `json:"maxHp"`
	AttackPower  int     `json:"attackPower"`
	Element      Element `json:"element"`
	CatalogIndex int     `json:"catalogIndex"`
	CurrentHP    int     `json:"currentHp"`
}

// SelfView is the viewer's side of the board: full hand, active card, and
// how many cards remain in their deck.
type SelfView struct {
	ConnID    string     `json:"connectionId"`
	Username  string     `json:"username"`
	Hand      []CardView `json:"hand"`
	Active    *CardView  `json:"activeCard"`
	Score     int        `json:"score"`
	DeckCount int        `json:"deckCount"`
}

// OpponentView masks the opponent: counts only, never hand contents or deck
// order.
type OpponentView struct {
	ConnID    string    `json:"connectionId"`
	Username  string    `json:"username"`
	Active    *CardView `json:"activeCard"`
	Score     int       `json:"score"`
	HandCount int       `json:"handCount"`
}

// PublicView is the per-player projection of a game. It is the only game
// state the engine ever hands to the transport.
type PublicView struct {
	RoomID        int64        `json:"roomId"`
	CurrentPlayer string       `json:"currentPlayerConnectionId"`
	You           SelfView     `json:"you"`
	Opponent      OpponentView `json:"opponent"`
}

func cardView(c Card) CardView {
	return CardView{
		ID:           c.ID,
		Name:         c.Name,
		MaxHP:        c.MaxHP,
		AttackPower:  c.AttackPower,
		Element:      c.Element,
		CatalogIndex: c.CatalogIndex,
		CurrentHP:    c.CurrentHP,
	}
}

func activeView(c *Card) *CardView {
	if c == nil {
		return nil
	}
	v := cardView(*c)
	return &v
}

// View projects the game for one viewer. The second return is false when the
// viewer is not a participant.
func (g *Game) View(viewerConnID string) (PublicView, bool) {
	p, ok := g.Players[viewerConnID]
	if !ok {
		return PublicView{}, false
	}
	opp := g.Opponent(viewerConnID)
	if opp == nil {
		return PublicView{}, false
	}

	hand := make([]CardView, len(p.Hand))
	for i, c := range p.Hand {
		hand[i] = cardView(c)
	}

	return PublicView{
		RoomID:        g.RoomID,
		CurrentPlayer: g.Current,
		You: SelfView{
			ConnID:    p.ConnID,
			Username:  p.Username,
			Hand:      hand,
			Active:    activeView(p.Active),
			Score:     p.Score,
			DeckCount: len(p.Deck),
		},
		Opponent: OpponentView{
			ConnID:    opp.ConnID,
			Username:  opp.Username,
			Active:    activeView(opp.Active),
			Score:     opp.Score,
			HandCount: len(opp.Hand),
		},
	}, true
}
