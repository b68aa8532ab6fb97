package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/config"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/domain/study"
	"github.com/kotoba/study-api/internal/store"
	"github.com/stretchr/testify/require"
)

func makeDeckCards(deckID uuid.UUID, n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{
			ID:     uuid.New(),
			DeckID: deckID,
			Front:  fmt.Sprintf("word-%d", i),
			Back:   fmt.Sprintf("meaning-%d", i),
		}
	}
	return cards
}

func testStudyConfig() config.StudyConfig {
	return config.StudyConfig{
		QuizQuestionCount:         5,
		QuizMinPoolSize:           4,
		CollectionCardLimit:       50,
		SessionIdleTimeoutMinutes: 30,
	}
}

// fakeCardRepo serves cards from memory and records calls.
type fakeCardRepo struct {
	mu sync.Mutex

	byDeck  map[uuid.UUID][]domain.Card
	byUser  map[uuid.UUID][]domain.Card
	listErr error
	saveErr error

	deckCalls int
	userCalls int
	userLimit int
	created   []*domain.Card
	db        *sql.DB
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{
		byDeck: make(map[uuid.UUID][]domain.Card),
		byUser: make(map[uuid.UUID][]domain.Card),
	}
}

func (r *fakeCardRepo) CreateMultiple(_ context.Context, cards []*domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.created = append(r.created, cards...)
	return nil
}

func (r *fakeCardRepo) ListByDeck(_ context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deckCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.byDeck[deckID], nil
}

func (r *fakeCardRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userCalls++
	r.userLimit = limit
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.byUser[userID], nil
}

func (r *fakeCardRepo) WithTx(*sql.Tx) CardRepository { return r }

func (r *fakeCardRepo) DB() *sql.DB { return r.db }

func (r *fakeCardRepo) setListErr(err error) {
	r.mu.Lock()
	r.listErr = err
	r.mu.Unlock()
}

// fakeDeckRepo serves decks from memory.
type fakeDeckRepo struct {
	decks   map[uuid.UUID]*domain.Deck
	public  []domain.DeckSummary
	getErr  error
	saveErr error

	publicLimit int
	created     []*domain.Deck
	db          *sql.DB
}

func newFakeDeckRepo(decks ...*domain.Deck) *fakeDeckRepo {
	r := &fakeDeckRepo{decks: make(map[uuid.UUID]*domain.Deck)}
	for _, d := range decks {
		r.decks[d.ID] = d
	}
	return r
}

func (r *fakeDeckRepo) Create(_ context.Context, deck *domain.Deck) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.created = append(r.created, deck)
	return nil
}

func (r *fakeDeckRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	deck, ok := r.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (r *fakeDeckRepo) ListPublic(_ context.Context, limit int) ([]domain.DeckSummary, error) {
	r.publicLimit = limit
	return r.public, nil
}

func (r *fakeDeckRepo) WithTx(*sql.Tx) DeckRepository { return r }

func (r *fakeDeckRepo) DB() *sql.DB { return r.db }

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	byEmail map[string]*domain.User
	getErr  error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*domain.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, ok := s.byEmail[user.Email]; ok {
		return store.ErrEmailExists
	}
	s.byEmail[user.Email] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

// loaderFunc adapts a function to CardLoader.
type loaderFunc func(ctx context.Context, scope study.Scope) (study.Pool, error)

func (f loaderFunc) LoadCards(ctx context.Context, scope study.Scope) (study.Pool, error) {
	return f(ctx, scope)
}

func newTestLoader(t *testing.T, cards *fakeCardRepo, decks *fakeDeckRepo) CardLoader {
	t.Helper()
	loader, err := NewCardLoader(cards, decks, 50, nil)
	require.NoError(t, err)
	return loader
}

func newTestQuizService(t *testing.T, loader CardLoader) *quizService {
	t.Helper()
	svc, err := newQuizService(loader, testStudyConfig(), nil)
	require.NoError(t, err)
	var seed uint64
	svc.newSource = func() study.Source {
		seed++
		return study.NewSource(seed)
	}
	return svc
}

// onlySession returns the single session in r.
func onlySession[S Loadable](t *testing.T, r *Registry[S]) *Session[S] {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.sessions, 1)
	for _, sess := range r.sessions {
		return sess
	}
	return nil
}
