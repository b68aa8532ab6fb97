package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListPublic returns public decks newest first with their card counts.
	ListPublic(ctx context.Context, limit int) ([]domain.DeckSummary, error)

	// WithTx returns a DeckStore bound to tx.
	WithTx(tx *sql.Tx) DeckStore
}
