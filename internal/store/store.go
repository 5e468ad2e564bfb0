// Package store is the persistence collaborator: users, the card catalog,
// and decks. The battle engine never sees these types; the deck validator
// converts them at the boundary.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ErrDeckSize = errors.New("a deck must contain exactly 10 cards")
var ErrUnknownCard = errors.New("unknown catalog card")
var ErrUsernameTaken = errors.New("username already taken")

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:32;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

// CatalogCard is a card definition shared by every deck that includes it.
// Battle-time hit points live on the engine's card instances, not here.
type CatalogCard struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:64;not null"`
	MaxHP        int    `gorm:"not null"`
	AttackPower  int    `gorm:"not null"`
	Element      string `gorm:"size:16;not null"`
	CatalogIndex int    `gorm:"uniqueIndex;not null"`
}

type Deck struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index;not null"`
	Name      string
	Cards     []DeckCard `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type DeckCard struct {
	ID            uint        `gorm:"primaryKey"`
	DeckID        uint        `gorm:"index;not null"`
	CatalogCardID uint        `gorm:"not null"`
	Position      int         `gorm:"not null"`
	Card          CatalogCard `gorm:"foreignKey:CatalogCardID"`
}

type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func Open(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &CatalogCard{}, &Deck{}, &DeckCard{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.seedCatalog(); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("store ready", zap.Int("catalog_size", len(starterCatalog)))
	return s, nil
}

func (s *Store) FindUser(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUserByName(ctx context.Context, username string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	u := User{Username: username, PasswordHash: passwordHash}
	err := s.db.WithContext(ctx).Create(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &u, nil
}

// FindDeck loads a deck with its cards in position order, scoped to the
// owner. Returns gorm.ErrRecordNotFound when no deck matches {id, owner}.
func (s *Store) FindDeck(ctx context.Context, deckID, ownerID uint) (*Deck, error) {
	var d Deck
	err := s.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("deck_cards.position ASC")
		}).
		Preload("Cards.Card").
		Where("id = ? AND user_id = ?", deckID, ownerID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListDecks(ctx context.Context, ownerID uint) ([]Deck, error) {
	var decks []Deck
	err := s.db.WithContext(ctx).
		Preload("Cards.Card").
		Where("user_id = ?", ownerID).
		Find(&decks).Error
	return decks, err
}

// CreateDeck enforces the 10-card rule at write time. The engine re-checks
// it at game start anyway.
func (s *Store) CreateDeck(ctx context.Context, ownerID uint, name string, cardIDs []uint) (*Deck, error) {
	if len(cardIDs) != 10 {
		return nil, ErrDeckSize
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&CatalogCard{}).Where("id IN ?", cardIDs).Count(&count).Error; err != nil {
		return nil, err
	}
	// Duplicates are allowed in a deck, so count distinct ids.
	distinct := make(map[uint]struct{}, len(cardIDs))
	for _, id := range cardIDs {
		distinct[id] = struct{}{}
	}
	if count != int64(len(distinct)) {
		return nil, ErrUnknownCard
	}

	d := Deck{UserID: ownerID, Name: name}
	for i, cardID := range cardIDs {
		d.Cards = append(d.Cards, DeckCard{CatalogCardID: cardID, Position: i})
	}
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, err
	}
	return s.FindDeck(ctx, d.ID, ownerID)
}

func (s *Store) ListCatalog(ctx context.Context) ([]CatalogCard, error) {
	var cards []CatalogCard
	err := s.db.WithContext(ctx).Order("catalog_index ASC").Find(&cards).Error
	return cards, err
}
