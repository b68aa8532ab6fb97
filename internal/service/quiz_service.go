package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/config"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/domain/study"
	"github.com/kotoba/study-api/internal/platform/logger"
)

// QuizView is a quiz snapshot addressed by its session.
type QuizView struct {
	ID    uuid.UUID   `json:"id"`
	Scope study.Scope `json:"scope"`
	study.QuizSnapshot
}

// AnswerView is the outcome of one answer plus the quiz after it.
type AnswerView struct {
	Result study.AnswerResult `json:"result"`
	Quiz   QuizView           `json:"quiz"`
}

// QuizService runs multiple-choice quiz sessions.
type QuizService interface {
	// Start creates a quiz for deckID, or for the caller's collection when
	// deckID is uuid.Nil, and loads its questions.
	Start(ctx context.Context, deckID uuid.UUID, auth study.AuthContext) (*QuizView, error)

	// Get returns the current state of a quiz.
	Get(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*QuizView, error)

	// Answer submits a choice for the current question. Outside the active
	// state it fails with study.ErrQuizNotActive.
	Answer(ctx context.Context, id uuid.UUID, auth study.AuthContext, choice string) (*AnswerView, error)

	// Retry reloads the same scope with a fresh question set. Only finished,
	// failed and empty quizzes can be retried.
	Retry(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*QuizView, error)

	// ChangeScope points the quiz at a new deck and reloads it. Any load
	// still in flight is discarded. Without a deck the scope falls back to
	// the session owner's collection, or to none for anonymous sessions.
	ChangeScope(ctx context.Context, id uuid.UUID, deckID uuid.UUID, auth study.AuthContext) (*QuizView, error)

	// SweepIdle drops sessions idle for longer than the configured timeout.
	SweepIdle() int
}

type quizService struct {
	loader    CardLoader
	config    study.QuizConfig
	idle      time.Duration
	sessions  *Registry[*study.Quiz]
	newSource func() study.Source
	logger    *slog.Logger
}

var _ QuizService = (*quizService)(nil)

// NewQuizService creates a QuizService.
func NewQuizService(loader CardLoader, cfg config.StudyConfig, logger *slog.Logger) (QuizService, error) {
	return newQuizService(loader, cfg, logger)
}

func newQuizService(loader CardLoader, cfg config.StudyConfig, logger *slog.Logger) (*quizService, error) {
	if loader == nil {
		return nil, domain.NewValidationError("loader", "cannot be nil", domain.ErrValidation)
	}

	quizConfig := study.QuizConfig{
		QuestionCount: cfg.QuizQuestionCount,
		MinPoolSize:   cfg.QuizMinPoolSize,
	}
	if err := quizConfig.Validate(); err != nil {
		return nil, domain.NewValidationError("config", err.Error(), err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &quizService{
		loader:    loader,
		config:    quizConfig,
		idle:      cfg.SessionIdleTimeout(),
		sessions:  NewRegistry[*study.Quiz](),
		newSource: study.NewRandomSource,
		logger:    logger.With(slog.String("component", "quiz_service")),
	}, nil
}

// Start implements QuizService.
func (s *quizService) Start(ctx context.Context, deckID uuid.UUID, auth study.AuthContext) (*QuizView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	quiz, err := study.NewQuiz(s.config, s.newSource())
	if err != nil {
		return nil, NewServiceError("quiz", "start", "failed to create quiz", err)
	}

	scope := study.ResolveScope(deckID, auth)
	sess := s.sessions.Add(auth.UserID, scope, quiz)

	log.Info("quiz session started",
		slog.String("session_id", sess.ID.String()),
		slog.String("scope", string(scope.Kind)))

	return s.reload(ctx, sess, scope), nil
}

// Get implements QuizService.
func (s *quizService) Get(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*QuizView, error) {
	sess, err := s.sessions.Get(id, auth)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return quizView(sess), nil
}

// Answer implements QuizService.
func (s *quizService) Answer(
	ctx context.Context,
	id uuid.UUID,
	auth study.AuthContext,
	choice string,
) (*AnswerView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sess, err := s.sessions.Get(id, auth)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	result, err := sess.state.SubmitAnswer(choice)
	if err != nil {
		log.Debug("answer rejected",
			slog.String("session_id", id.String()),
			slog.String("state", string(sess.state.State())))
		return nil, err
	}

	if result.Finished {
		log.Info("quiz finished",
			slog.String("session_id", id.String()),
			slog.Int("score", result.Score))
	}

	return &AnswerView{Result: result, Quiz: *quizView(sess)}, nil
}

// Retry implements QuizService.
func (s *quizService) Retry(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*QuizView, error) {
	sess, err := s.sessions.Get(id, auth)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if !sess.state.CanRetry() {
		state := sess.state.State()
		sess.mu.Unlock()
		return nil, fmt.Errorf("%w: state is %s", study.ErrRetryNotAllowed, state)
	}
	loadCtx, ticket := sess.startLoad(ctx, sess.scope)
	scope := sess.scope
	sess.mu.Unlock()

	return s.complete(loadCtx, sess, ticket, scope), nil
}

// ChangeScope implements QuizService.
func (s *quizService) ChangeScope(
	ctx context.Context,
	id uuid.UUID,
	deckID uuid.UUID,
	auth study.AuthContext,
) (*QuizView, error) {
	sess, err := s.sessions.Get(id, auth)
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, sess, study.ResolveScope(deckID, sess.ownerAuth())), nil
}

// SweepIdle implements QuizService.
func (s *quizService) SweepIdle() int {
	removed := s.sessions.Sweep(s.idle)
	if removed > 0 {
		s.logger.Debug("swept idle quiz sessions", slog.Int("removed", removed))
	}
	return removed
}

func (s *quizService) reload(ctx context.Context, sess *Session[*study.Quiz], scope study.Scope) *QuizView {
	sess.mu.Lock()
	loadCtx, ticket := sess.startLoad(ctx, scope)
	sess.mu.Unlock()

	return s.complete(loadCtx, sess, ticket, scope)
}

func (s *quizService) complete(
	loadCtx context.Context,
	sess *Session[*study.Quiz],
	ticket study.Ticket,
	scope study.Scope,
) *QuizView {
	fetchPool(loadCtx, sess, ticket, scope, s.loader, s.logger)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return quizView(sess)
}

// quizView must be called with sess.mu held.
func quizView(sess *Session[*study.Quiz]) *QuizView {
	return &QuizView{
		ID:           sess.ID,
		Scope:        sess.scope,
		QuizSnapshot: sess.state.Snapshot(),
	}
}
