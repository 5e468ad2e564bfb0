package deck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/duelhaven/card-battle-backend/internal/engine"
	"github.com/duelhaven/card-battle-backend/internal/store"
)

type fakeFinder struct {
	decks map[uint]*store.Deck // keyed by deck id; owner 1 owns everything
	err   error
}

func (f *fakeFinder) FindDeck(_ context.Context, deckID, ownerID uint) (*store.Deck, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.decks[deckID]
	if !ok || d.UserID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func storedDeck(id, owner uint, cards int) *store.Deck {
	d := &store.Deck{ID: id, UserID: owner}
	for i := 0; i < cards; i++ {
		d.Cards = append(d.Cards, store.DeckCard{
			DeckID:   id,
			Position: i,
			Card: store.CatalogCard{
				ID:           uint(100 + i),
				Name:         "card",
				MaxHP:        40,
				AttackPower:  12,
				Element:      "fire",
				CatalogIndex: i + 1,
			},
		})
	}
	return d
}

func TestValidateRejectsMalformedIDs(t *testing.T) {
	v := New(&fakeFinder{})

	for _, raw := range []string{"", "abc", "-3", "0", "1.5"} {
		_, _, err := v.Validate(context.Background(), 1, raw)
		require.ErrorIs(t, err, ErrInvalidID, "raw id %q", raw)
	}
}

func TestValidateRejectsMissingOrForeignDeck(t *testing.T) {
	v := New(&fakeFinder{decks: map[uint]*store.Deck{
		3: storedDeck(3, 2, 10), // owned by someone else
	}})

	_, _, err := v.Validate(context.Background(), 1, "3")
	require.ErrorIs(t, err, ErrNotOwned)

	_, _, err = v.Validate(context.Background(), 1, "99")
	require.ErrorIs(t, err, ErrNotOwned)
}

func TestValidateStoreFailureSurfacesAsNotOwned(t *testing.T) {
	v := New(&fakeFinder{err: errors.New("connection refused")})

	_, _, err := v.Validate(context.Background(), 1, "3")
	require.ErrorIs(t, err, ErrNotOwned)
}

func TestValidateRejectsWrongCardCount(t *testing.T) {
	v := New(&fakeFinder{decks: map[uint]*store.Deck{
		3: storedDeck(3, 1, 9),
		4: storedDeck(4, 1, 11),
	}})

	_, _, err := v.Validate(context.Background(), 1, "3")
	require.ErrorIs(t, err, ErrWrongCardCount)

	_, _, err = v.Validate(context.Background(), 1, "4")
	require.ErrorIs(t, err, ErrWrongCardCount)
}

func TestValidateConvertsToBattleCards(t *testing.T) {
	v := New(&fakeFinder{decks: map[uint]*store.Deck{
		3: storedDeck(3, 1, 10),
	}})

	id, cards, err := v.Validate(context.Background(), 1, "3")
	require.NoError(t, err)
	require.Equal(t, uint(3), id)
	require.Len(t, cards, engine.DeckSize)

	first := cards[0]
	require.Equal(t, uint(100), first.ID)
	require.Equal(t, 40, first.MaxHP)
	require.Equal(t, 12, first.AttackPower)
	require.Equal(t, engine.Fire, first.Element)
	require.Equal(t, 1, first.CatalogIndex)
}

func TestValidateOwned(t *testing.T) {
	v := New(&fakeFinder{decks: map[uint]*store.Deck{
		3: storedDeck(3, 1, 10),
	}})

	cards, err := v.ValidateOwned(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, cards, engine.DeckSize)

	_, err = v.ValidateOwned(context.Background(), 2, 3)
	require.ErrorIs(t, err, ErrNotOwned)
}
