package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/store"
)

// CardRepository defines the card operations the service layer needs.
type CardRepository interface {
	// CreateMultiple saves multiple cards to the store
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// ListByDeck returns every card filed under deckID
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)

	// ListByUser returns up to limit of the user's cards, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Card, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) CardRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// DeckRepository defines the deck operations the service layer needs.
type DeckRepository interface {
	Create(ctx context.Context, deck *domain.Deck) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
	ListPublic(ctx context.Context, limit int) ([]domain.DeckSummary, error)
	WithTx(tx *sql.Tx) DeckRepository
	DB() *sql.DB
}

// NewCardRepositoryAdapter creates a new adapter that allows a store.CardStore
// to be used where a CardRepository is expected.
func NewCardRepositoryAdapter(cardStore store.CardStore, db *sql.DB) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: cardStore,
		db:        db,
	}
}

// cardRepositoryAdapter adapts a store.CardStore to the CardRepository interface
type cardRepositoryAdapter struct {
	cardStore store.CardStore
	db        *sql.DB
}

// CreateMultiple implements CardRepository.CreateMultiple
func (a *cardRepositoryAdapter) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	return a.cardStore.CreateMultiple(ctx, cards)
}

// ListByDeck implements CardRepository.ListByDeck
func (a *cardRepositoryAdapter) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	return a.cardStore.ListByDeck(ctx, deckID)
}

// ListByUser implements CardRepository.ListByUser
func (a *cardRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Card, error) {
	return a.cardStore.ListByUser(ctx, userID, limit)
}

// WithTx implements CardRepository.WithTx
func (a *cardRepositoryAdapter) WithTx(tx *sql.Tx) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: a.cardStore.WithTx(tx),
		db:        a.db,
	}
}

// DB implements CardRepository.DB
func (a *cardRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewDeckRepositoryAdapter wraps a store.DeckStore as a DeckRepository.
func NewDeckRepositoryAdapter(deckStore store.DeckStore, db *sql.DB) DeckRepository {
	return &deckRepositoryAdapter{
		deckStore: deckStore,
		db:        db,
	}
}

type deckRepositoryAdapter struct {
	deckStore store.DeckStore
	db        *sql.DB
}

func (a *deckRepositoryAdapter) Create(ctx context.Context, deck *domain.Deck) error {
	return a.deckStore.Create(ctx, deck)
}

func (a *deckRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	return a.deckStore.GetByID(ctx, id)
}

func (a *deckRepositoryAdapter) ListPublic(ctx context.Context, limit int) ([]domain.DeckSummary, error) {
	return a.deckStore.ListPublic(ctx, limit)
}

func (a *deckRepositoryAdapter) WithTx(tx *sql.Tx) DeckRepository {
	return &deckRepositoryAdapter{
		deckStore: a.deckStore.WithTx(tx),
		db:        a.db,
	}
}

func (a *deckRepositoryAdapter) DB() *sql.DB {
	return a.db
}
