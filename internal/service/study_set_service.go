package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/generation"
	"github.com/kotoba/study-api/internal/platform/logger"
	"github.com/kotoba/study-api/internal/store"
)

// StudySetRequest asks for a deck generated from one sentence.
type StudySetRequest struct {
	Sentence       string
	TargetLanguage string
	IsPublic       bool
}

// StudySetResult is a stored, generated deck.
type StudySetResult struct {
	Deck        domain.Deck   `json:"deck"`
	Cards       []domain.Card `json:"cards"`
	Translation string        `json:"translation"`
}

// StudySetService generates decks from sentences.
type StudySetService interface {
	// Create generates a study set for the sentence and stores the deck and
	// its cards for userID in one transaction.
	Create(ctx context.Context, userID uuid.UUID, req StudySetRequest) (*StudySetResult, error)
}

type studySetService struct {
	generator generation.Generator
	decks     DeckRepository
	cards     CardRepository
	logger    *slog.Logger
}

var _ StudySetService = (*studySetService)(nil)

// NewStudySetService creates a StudySetService.
func NewStudySetService(
	generator generation.Generator,
	decks DeckRepository,
	cards CardRepository,
	logger *slog.Logger,
) (StudySetService, error) {
	if generator == nil {
		return nil, domain.NewValidationError("generator", "cannot be nil", domain.ErrValidation)
	}
	if decks == nil {
		return nil, domain.NewValidationError("decks", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studySetService{
		generator: generator,
		decks:     decks,
		cards:     cards,
		logger:    logger.With(slog.String("component", "study_set_service")),
	}, nil
}

func (s *studySetService) Create(
	ctx context.Context,
	userID uuid.UUID,
	req StudySetRequest,
) (*StudySetResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	sentence, err := generation.ValidateSentence(req.Sentence)
	if err != nil {
		return nil, err
	}

	language := req.TargetLanguage
	if language == "" {
		language = domain.DefaultTargetLanguage
	}

	set, err := s.generator.GenerateStudySet(ctx, sentence, language)
	if err != nil {
		if !errors.Is(err, generation.ErrDisabled) {
			log.Error("study set generation failed", slog.String("error", err.Error()))
		}
		return nil, err
	}

	deck, err := domain.NewDeck(userID, domain.DeckTitleFromSource(sentence), language)
	if err != nil {
		return nil, NewServiceError("study_set", "create", "invalid deck", err)
	}
	deck.IsPublic = req.IsPublic
	deck.SourceText = sentence
	deck.GrammarText = set.GrammarExplanation

	cards := make([]*domain.Card, 0, len(set.Flashcards))
	for i, fc := range set.Flashcards {
		card, err := domain.NewCard(userID, deck.ID, domain.CardContent{
			Front:           fc.Front,
			Back:            fc.Back,
			Reading:         fc.Reading,
			ExampleSentence: fc.Example,
		})
		if err != nil {
			log.Warn("generated flashcard rejected",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			return nil, NewServiceError("study_set", "create", "generated card is invalid", err)
		}
		cards = append(cards, card)
	}

	err = store.RunInTransaction(ctx, s.decks.DB(), func(ctx context.Context, tx *sql.Tx) error {
		if err := s.decks.WithTx(tx).Create(ctx, deck); err != nil {
			return err
		}
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		log.Error("failed to save study set", slog.String("error", err.Error()))
		return nil, NewServiceError("study_set", "create", "failed to save deck", err)
	}

	log.Info("study set created",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("card_count", len(cards)))

	result := &StudySetResult{
		Deck:        *deck,
		Cards:       make([]domain.Card, len(cards)),
		Translation: set.Translation,
	}
	for i, card := range cards {
		result.Cards[i] = *card
	}
	return result, nil
}
