package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/platform/logger"
)

const (
	// DefaultPublicDeckLimit is used when a library listing has no limit.
	DefaultPublicDeckLimit = 20
	// MaxPublicDeckLimit caps one library page.
	MaxPublicDeckLimit = 100
)

// DeckDetail is a deck with all of its cards.
type DeckDetail struct {
	domain.Deck
	Cards []domain.Card `json:"cards"`
}

// DeckService serves the public deck library.
type DeckService interface {
	// ListPublic returns public decks newest first with their card counts.
	ListPublic(ctx context.Context, limit int) ([]domain.DeckSummary, error)

	// GetDeck returns a deck and its cards. Decks are readable by ID
	// whether or not they are public.
	GetDeck(ctx context.Context, id uuid.UUID) (*DeckDetail, error)
}

type deckService struct {
	decks  DeckRepository
	cards  CardRepository
	logger *slog.Logger
}

var _ DeckService = (*deckService)(nil)

// NewDeckService creates a DeckService.
func NewDeckService(decks DeckRepository, cards CardRepository, logger *slog.Logger) (DeckService, error) {
	if decks == nil {
		return nil, domain.NewValidationError("decks", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckService{
		decks:  decks,
		cards:  cards,
		logger: logger.With(slog.String("component", "deck_service")),
	}, nil
}

func (s *deckService) ListPublic(ctx context.Context, limit int) ([]domain.DeckSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch {
	case limit <= 0:
		limit = DefaultPublicDeckLimit
	case limit > MaxPublicDeckLimit:
		limit = MaxPublicDeckLimit
	}

	decks, err := s.decks.ListPublic(ctx, limit)
	if err != nil {
		log.Error("failed to list public decks", slog.String("error", err.Error()))
		return nil, NewServiceError("deck", "list_public", "failed to list decks", err)
	}

	return decks, nil
}

func (s *deckService) GetDeck(ctx context.Context, id uuid.UUID) (*DeckDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.decks.GetByID(ctx, id)
	if err != nil {
		// not-found passes through for the API layer to map
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	cards, err := s.cards.ListByDeck(ctx, id)
	if err != nil {
		log.Error("failed to list deck cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return nil, NewServiceError("deck", "get", "failed to list cards", err)
	}

	return &DeckDetail{Deck: *deck, Cards: cards}, nil
}
