package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/platform/logger"
	"github.com/kotoba/study-api/internal/store"
)

const cardColumns = `id, user_id, deck_id, front, back, reading, example_sentence, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// CreateMultiple implements store.CardStore.CreateMultiple.
// Every card is validated before the first insert runs.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return store.NewStoreError("card", "create", "validation failed",
				fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
		}
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, card := range cards {
		_, err := s.db.ExecContext(ctx, query,
			card.ID,
			nullUUID(card.UserID),
			nullUUID(card.DeckID),
			card.Front,
			card.Back,
			card.Reading,
			card.ExampleSentence,
			card.CreatedAt,
			card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to insert card",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return MapError(err)
		}
	}

	log.Info("cards created", slog.Int("count", len(cards)))
	return nil
}

// ListByDeck implements store.CardStore.ListByDeck.
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing cards by deck", slog.String("deck_id", deckID.String()))

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE deck_id = $1
		ORDER BY created_at ASC, id ASC
	`
	cards, err := s.queryCards(ctx, query, deckID)
	if err != nil {
		log.Error("failed to list cards by deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, err
	}
	return cards, nil
}

// ListByUser implements store.CardStore.ListByUser.
func (s *PostgresCardStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing cards by user",
		slog.String("user_id", userID.String()),
		slog.Int("limit", limit))

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`
	cards, err := s.queryCards(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list cards by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	return cards, nil
}

// WithTx implements store.CardStore.WithTx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresCardStore) queryCards(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]domain.Card, 0)
	for rows.Next() {
		var (
			card   domain.Card
			userID uuid.NullUUID
			deckID uuid.NullUUID
		)
		if err := rows.Scan(
			&card.ID,
			&userID,
			&deckID,
			&card.Front,
			&card.Back,
			&card.Reading,
			&card.ExampleSentence,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		card.UserID = uuidOrNil(userID)
		card.DeckID = uuidOrNil(deckID)
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}
