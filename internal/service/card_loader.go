package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/domain/study"
	"github.com/kotoba/study-api/internal/platform/logger"
	"github.com/kotoba/study-api/internal/store"
)

// CollectionTitle is the pool title for a signed-in user's own cards.
const CollectionTitle = "Your collection"

// CardLoader resolves a study scope to its candidate pool.
type CardLoader interface {
	// LoadCards fetches the pool for scope. ScopeNone yields an empty pool
	// without touching the store. Store failures wrap ErrScopeResolution.
	LoadCards(ctx context.Context, scope study.Scope) (study.Pool, error)
}

type repositoryCardLoader struct {
	cards          CardRepository
	decks          DeckRepository
	collectionSize int
	logger         *slog.Logger
}

var _ CardLoader = (*repositoryCardLoader)(nil)

// NewCardLoader creates a CardLoader backed by the card and deck repositories.
// collectionSize caps how many of a user's cards enter a pool.
func NewCardLoader(
	cards CardRepository,
	decks DeckRepository,
	collectionSize int,
	logger *slog.Logger,
) (CardLoader, error) {
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if decks == nil {
		return nil, domain.NewValidationError("decks", "cannot be nil", domain.ErrValidation)
	}
	if collectionSize < 1 {
		return nil, domain.NewValidationError("collectionSize", "must be positive", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &repositoryCardLoader{
		cards:          cards,
		decks:          decks,
		collectionSize: collectionSize,
		logger:         logger.With(slog.String("component", "card_loader")),
	}, nil
}

// LoadCards implements CardLoader.
func (l *repositoryCardLoader) LoadCards(ctx context.Context, scope study.Scope) (study.Pool, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)
	pool := study.Pool{Scope: scope}

	switch scope.Kind {
	case study.ScopeDeck:
		cards, err := l.cards.ListByDeck(ctx, scope.DeckID)
		if err != nil {
			return study.Pool{}, fmt.Errorf("%w: deck %s: %w", ErrScopeResolution, scope.DeckID, err)
		}

		deck, err := l.decks.GetByID(ctx, scope.DeckID)
		switch {
		case err == nil:
			pool.Title = deck.Title
		case store.IsNotFoundError(err):
			log.Debug("deck metadata missing, using empty title",
				slog.String("deck_id", scope.DeckID.String()))
		default:
			return study.Pool{}, fmt.Errorf("%w: deck %s metadata: %w", ErrScopeResolution, scope.DeckID, err)
		}
		pool.Cards = cards

	case study.ScopeUser:
		cards, err := l.cards.ListByUser(ctx, scope.UserID, l.collectionSize)
		if err != nil {
			return study.Pool{}, fmt.Errorf("%w: user %s: %w", ErrScopeResolution, scope.UserID, err)
		}
		pool.Title = CollectionTitle
		pool.Cards = cards

	case study.ScopeNone:
		// nothing to fetch

	default:
		return study.Pool{}, fmt.Errorf("%w: unknown scope kind %q", ErrScopeResolution, scope.Kind)
	}

	log.Debug("loaded card pool",
		slog.String("scope", string(scope.Kind)),
		slog.Int("card_count", pool.Len()))

	return pool, nil
}
