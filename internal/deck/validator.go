// Package deck checks that a deck exists, belongs to the caller, and holds
// exactly ten cards, and converts the persistence rows into fully-typed
// battle cards. The engine never sees the store's shapes.
package deck

import (
	"context"
	"errors"
	"strconv"

	"github.com/duelhaven/card-battle-backend/internal/engine"
	"github.com/duelhaven/card-battle-backend/internal/store"
)

var ErrInvalidID = errors.New("deck id must be a positive integer")
var ErrNotOwned = errors.New("deck not found for this user")
var ErrWrongCardCount = errors.New("deck must contain exactly 10 cards")

// Finder is the slice of the persistence collaborator the validator needs.
type Finder interface {
	FindDeck(ctx context.Context, deckID, ownerID uint) (*store.Deck, error)
}

type Validator struct {
	store Finder
}

func New(f Finder) *Validator {
	return &Validator{store: f}
}

// Validate parses rawDeckID, loads the deck scoped to ownerID, and re-checks
// the card count. Deck creation enforces ten cards too, but decks can be
// mutated between creation and game start, so the count is never trusted.
// Any store failure surfaces as ErrNotOwned; the caller only needs to know
// the deck is unusable.
func (v *Validator) Validate(ctx context.Context, ownerID uint, rawDeckID string) (uint, []engine.Card, error) {
	id, err := strconv.ParseUint(rawDeckID, 10, 32)
	if err != nil || id == 0 {
		return 0, nil, ErrInvalidID
	}

	d, err := v.store.FindDeck(ctx, uint(id), ownerID)
	if err != nil {
		return 0, nil, ErrNotOwned
	}
	if len(d.Cards) != engine.DeckSize {
		return 0, nil, ErrWrongCardCount
	}

	cards := make([]engine.Card, len(d.Cards))
	for i, dc := range d.Cards {
		cards[i] = engine.Card{
			ID:           dc.Card.ID,
			Name:         dc.Card.Name,
			MaxHP:        dc.Card.MaxHP,
			AttackPower:  dc.Card.AttackPower,
			Element:      engine.Element(dc.Card.Element),
			CatalogIndex: dc.Card.CatalogIndex,
		}
	}
	return uint(id), cards, nil
}

// ValidateOwned is Validate for an already-parsed id, used when re-checking
// the host's deck at join time.
func (v *Validator) ValidateOwned(ctx context.Context, ownerID, deckID uint) ([]engine.Card, error) {
	_, cards, err := v.Validate(ctx, ownerID, strconv.FormatUint(uint64(deckID), 10))
	return cards, err
}
