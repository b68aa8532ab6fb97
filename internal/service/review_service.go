package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/config"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/domain/study"
	"github.com/kotoba/study-api/internal/platform/logger"
)

// ReviewView is a review snapshot addressed by its session.
type ReviewView struct {
	ID    uuid.UUID   `json:"id"`
	Scope study.Scope `json:"scope"`
	study.ReviewSnapshot
}

// ReviewService runs flashcard review sessions.
type ReviewService interface {
	// Start creates a review for deckID, or for the caller's collection, and
	// loads its cards.
	Start(ctx context.Context, deckID uuid.UUID, auth study.AuthContext) (*ReviewView, error)
	Get(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error)

	// Next, Previous and Toggle move the cursor. They fail with
	// study.ErrReviewNotActive until cards have loaded.
	Next(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error)
	Previous(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error)
	Toggle(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error)

	// Reload fetches the session's scope again.
	Reload(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error)

	// ChangeScope points the review at a new deck, or at the owner's
	// collection when deckID is uuid.Nil, and reloads it.
	ChangeScope(ctx context.Context, id uuid.UUID, deckID uuid.UUID, auth study.AuthContext) (*ReviewView, error)

	SweepIdle() int
}

type reviewService struct {
	loader   CardLoader
	idle     time.Duration
	sessions *Registry[*study.Review]
	logger   *slog.Logger
}

var _ ReviewService = (*reviewService)(nil)

// NewReviewService creates a ReviewService.
func NewReviewService(loader CardLoader, cfg config.StudyConfig, logger *slog.Logger) (ReviewService, error) {
	if loader == nil {
		return nil, domain.NewValidationError("loader", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewService{
		loader:   loader,
		idle:     cfg.SessionIdleTimeout(),
		sessions: NewRegistry[*study.Review](),
		logger:   logger.With(slog.String("component", "review_service")),
	}, nil
}

// Start implements ReviewService.
func (s *reviewService) Start(ctx context.Context, deckID uuid.UUID, auth study.AuthContext) (*ReviewView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	scope := study.ResolveScope(deckID, auth)
	sess := s.sessions.Add(auth.UserID, scope, study.NewReview())

	log.Info("review session started",
		slog.String("session_id", sess.ID.String()),
		slog.String("scope", string(scope.Kind)))

	return s.load(ctx, sess, nil), nil
}

// Get implements ReviewService.
func (s *reviewService) Get(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error) {
	return s.apply(id, auth, nil)
}

// Next implements ReviewService.
func (s *reviewService) Next(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error) {
	return s.apply(id, auth, (*study.Review).Next)
}

// Previous implements ReviewService.
func (s *reviewService) Previous(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error) {
	return s.apply(id, auth, (*study.Review).Previous)
}

// Toggle implements ReviewService.
func (s *reviewService) Toggle(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error) {
	return s.apply(id, auth, (*study.Review).Toggle)
}

// Reload implements ReviewService.
func (s *reviewService) Reload(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*ReviewView, error) {
	sess, err := s.sessions.Get(id, auth)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, sess, nil), nil
}

// ChangeScope implements ReviewService.
func (s *reviewService) ChangeScope(
	ctx context.Context,
	id uuid.UUID,
	deckID uuid.UUID,
	auth study.AuthContext,
) (*ReviewView, error) {
	sess, err := s.sessions.Get(id, auth)
	if err != nil {
		return nil, err
	}

	scope := study.ResolveScope(deckID, sess.ownerAuth())
	return s.load(ctx, sess, &scope), nil
}

// SweepIdle implements ReviewService.
func (s *reviewService) SweepIdle() int {
	removed := s.sessions.Sweep(s.idle)
	if removed > 0 {
		s.logger.Debug("swept idle review sessions", slog.Int("removed", removed))
	}
	return removed
}

func (s *reviewService) apply(
	id uuid.UUID,
	auth study.AuthContext,
	move func(*study.Review) error,
) (*ReviewView, error) {
	sess, err := s.sessions.Get(id, auth)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if move != nil {
		if err := move(sess.state); err != nil {
			return nil, err
		}
	}
	return reviewView(sess), nil
}

// load starts a ticketed fetch for next, or for the current scope when next
// is nil.
func (s *reviewService) load(ctx context.Context, sess *Session[*study.Review], next *study.Scope) *ReviewView {
	sess.mu.Lock()
	scope := sess.scope
	if next != nil {
		scope = *next
	}
	loadCtx, ticket := sess.startLoad(ctx, scope)
	sess.mu.Unlock()

	fetchPool(loadCtx, sess, ticket, scope, s.loader, s.logger)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return reviewView(sess)
}

// reviewView must be called with sess.mu held.
func reviewView(sess *Session[*study.Review]) *ReviewView {
	return &ReviewView{
		ID:             sess.ID,
		Scope:          sess.scope,
		ReviewSnapshot: sess.state.Snapshot(),
	}
}
