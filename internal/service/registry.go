package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain/study"
	"github.com/kotoba/study-api/internal/platform/logger"
)

// errLoadFailed is the message a session shows after a failed fetch. The
// underlying error is logged, never shown.
var errLoadFailed = errors.New("could not load cards, please retry")

// Loadable is a session state machine driven by ticketed card loads.
// *study.Quiz and *study.Review satisfy it.
type Loadable interface {
	BeginLoad() study.Ticket
	Complete(t study.Ticket, pool study.Pool) bool
	Fail(t study.Ticket, err error) bool
}

// Session is one live study session. Its mutex serializes every request
// for the session; card fetches run without it.
type Session[S Loadable] struct {
	ID    uuid.UUID
	Owner uuid.UUID

	mu         sync.Mutex
	scope      study.Scope
	state      S
	loadTicket study.Ticket
	cancelLoad context.CancelFunc
	lastUsed   atomic.Int64
}

// ownerAuth is the identity scopes are resolved against: the session owner,
// never the caller.
func (s *Session[S]) ownerAuth() study.AuthContext {
	return study.AuthContext{UserID: s.Owner}
}

// startLoad enters the loading state for scope, cancelling any fetch still in
// flight. The caller must hold s.mu.
func (s *Session[S]) startLoad(ctx context.Context, scope study.Scope) (context.Context, study.Ticket) {
	if s.cancelLoad != nil {
		s.cancelLoad()
	}

	loadCtx, cancel := context.WithCancel(ctx)
	s.scope = scope
	s.cancelLoad = cancel
	s.loadTicket = s.state.BeginLoad()
	return loadCtx, s.loadTicket
}

// finishLoad applies a fetch result. It reports false when the ticket was
// superseded and the result dropped.
func (s *Session[S]) finishLoad(ticket study.Ticket, pool study.Pool, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadTicket == ticket && s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	if err != nil {
		return s.state.Fail(ticket, errLoadFailed)
	}
	return s.state.Complete(ticket, pool)
}

// fetchPool runs a ticketed load for sess outside its lock.
func fetchPool[S Loadable](
	ctx context.Context,
	sess *Session[S],
	ticket study.Ticket,
	scope study.Scope,
	loader CardLoader,
	fallback *slog.Logger,
) {
	log := logger.FromContextOrDefault(ctx, fallback).With(
		slog.String("session_id", sess.ID.String()),
		slog.String("scope", string(scope.Kind)),
	)

	pool, err := loader.LoadCards(ctx, scope)
	switch {
	case !sess.finishLoad(ticket, pool, err):
		log.Debug("discarded stale card load", slog.Uint64("ticket", uint64(ticket)))
	case err != nil:
		log.Error("failed to load card pool", slog.String("error", err.Error()))
	}
}

// Registry holds live sessions keyed by ID.
type Registry[S Loadable] struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session[S]
	now      func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry[S Loadable]() *Registry[S] {
	return &Registry[S]{
		sessions: make(map[uuid.UUID]*Session[S]),
		now:      time.Now,
	}
}

// Add registers a new session for owner. uuid.Nil marks an anonymous owner.
func (r *Registry[S]) Add(owner uuid.UUID, scope study.Scope, state S) *Session[S] {
	sess := &Session[S]{
		ID:    uuid.New(),
		Owner: owner,
		scope: scope,
		state: state,
	}
	sess.lastUsed.Store(r.now().UnixNano())

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	return sess
}

// Get returns the session with id, refreshing its idle timer. Sessions
// created by a signed-in user are only visible to that user.
func (r *Registry[S]) Get(id uuid.UUID, auth study.AuthContext) (*Session[S], error) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.Owner != uuid.Nil && sess.Owner != auth.UserID {
		return nil, ErrNotOwned
	}

	sess.lastUsed.Store(r.now().UnixNano())
	return sess, nil
}

// Sweep removes sessions unused for longer than idle and returns how many
// were removed.
func (r *Registry[S]) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle).UnixNano()

	r.mu.Lock()
	var expired []*Session[S]
	for id, sess := range r.sessions {
		if sess.lastUsed.Load() < cutoff {
			expired = append(expired, sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range expired {
		sess.mu.Lock()
		if sess.cancelLoad != nil {
			sess.cancelLoad()
			sess.cancelLoad = nil
		}
		sess.mu.Unlock()
	}

	return len(expired)
}

// Len returns the number of live sessions.
func (r *Registry[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
