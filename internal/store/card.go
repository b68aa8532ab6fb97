package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// CreateMultiple saves multiple cards to the store.
	// It must run inside a transaction for the batch to be atomic:
	//
	//	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//	    return cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//	})
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// ListByDeck returns every card in the deck, whoever owns it, in
	// creation order. A deck without cards yields an empty slice.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)

	// ListByUser returns up to limit of the user's cards, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Card, error)

	// WithTx returns a CardStore bound to tx.
	WithTx(tx *sql.Tx) CardStore
}
