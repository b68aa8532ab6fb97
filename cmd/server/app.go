package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kotoba/study-api/internal/config"
	"github.com/kotoba/study-api/internal/generation"
	"github.com/kotoba/study-api/internal/platform/gemini"
	"github.com/kotoba/study-api/internal/platform/postgres"
	"github.com/kotoba/study-api/internal/service"
	"github.com/kotoba/study-api/internal/service/auth"
)

// application holds the shared dependencies and owns their cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService      auth.JWTService
	userService     service.UserService
	quizService     service.QuizService
	reviewService   service.ReviewService
	deckService     service.DeckService
	studySetService service.StudySetService
}

// newApplication wires stores, services and the generator. The database
// connection must already be open.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	userStore := postgres.NewPostgresUserStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	deckStore := postgres.NewPostgresDeckStore(db, logger)

	cardRepo := service.NewCardRepositoryAdapter(cardStore, db)
	deckRepo := service.NewDeckRepositoryAdapter(deckStore, db)

	app.userService, err = service.NewUserService(userStore, auth.NewBcryptVerifier(cfg.Auth.BCryptCost), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	loader, err := service.NewCardLoader(cardRepo, deckRepo, cfg.Study.CollectionCardLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card loader: %w", err)
	}

	app.quizService, err = service.NewQuizService(loader, cfg.Study, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz service: %w", err)
	}

	app.reviewService, err = service.NewReviewService(loader, cfg.Study, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	app.deckService, err = service.NewDeckService(deckRepo, cardRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	generator, err := newGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	app.studySetService, err = service.NewStudySetService(generator, deckRepo, cardRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create study set service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// newGenerator returns the Gemini generator, or a disabled one when no API
// key is configured.
func newGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error) {
	if !cfg.Enabled() {
		logger.Warn("no Gemini API key configured, study set generation disabled")
		return generation.DisabledGenerator{}, nil
	}

	generator, err := gemini.NewGeminiGenerator(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "model", cfg.ModelName)
	return generator, nil
}

// Run serves HTTP until ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
}
