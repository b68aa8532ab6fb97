package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/platform/logger"
	"github.com/kotoba/study-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// Create implements store.DeckStore.Create.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return store.NewStoreError("deck", "create", "validation failed",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	query := `
		INSERT INTO decks (id, user_id, title, is_public, target_language,
			grammar_text, source_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		deck.ID,
		nullUUID(deck.UserID),
		deck.Title,
		deck.IsPublic,
		deck.TargetLanguage,
		deck.GrammarText,
		deck.SourceText,
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during deck creation",
				slog.String("deck_id", deck.ID.String()),
				slog.String("user_id", deck.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, deck.UserID)
		}
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", deck.UserID.String()))
	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, is_public, target_language, grammar_text,
			source_text, created_at, updated_at
		FROM decks
		WHERE id = $1
	`
	var (
		deck   domain.Deck
		userID uuid.NullUUID
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&userID,
		&deck.Title,
		&deck.IsPublic,
		&deck.TargetLanguage,
		&deck.GrammarText,
		&deck.SourceText,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.String("deck_id", id.String()))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return nil, MapError(err)
	}

	deck.UserID = uuidOrNil(userID)
	return &deck, nil
}

// ListPublic implements store.DeckStore.ListPublic.
func (s *PostgresDeckStore) ListPublic(ctx context.Context, limit int) ([]domain.DeckSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT d.id, d.user_id, d.title, d.is_public, d.target_language,
			d.grammar_text, d.source_text, d.created_at, d.updated_at,
			COUNT(c.id) AS card_count
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		WHERE d.is_public
		GROUP BY d.id
		ORDER BY d.created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to list public decks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := make([]domain.DeckSummary, 0)
	for rows.Next() {
		var (
			summary domain.DeckSummary
			userID  uuid.NullUUID
		)
		if err := rows.Scan(
			&summary.ID,
			&userID,
			&summary.Title,
			&summary.IsPublic,
			&summary.TargetLanguage,
			&summary.GrammarText,
			&summary.SourceText,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.CardCount,
		); err != nil {
			return nil, fmt.Errorf("scan deck summary: %w", err)
		}
		summary.UserID = uuidOrNil(userID)
		decks = append(decks, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("listed public decks", slog.Int("count", len(decks)))
	return decks, nil
}

// WithTx implements store.DeckStore.WithTx.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}
