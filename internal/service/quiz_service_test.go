package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/domain/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quizFixture struct {
	svc    *quizService
	cards  *fakeCardRepo
	deckID uuid.UUID
}

func newQuizFixture(t *testing.T, cardCount int) quizFixture {
	t.Helper()

	deck := &domain.Deck{ID: uuid.New(), Title: "Travel"}
	cards := newFakeCardRepo()
	cards.byDeck[deck.ID] = makeDeckCards(deck.ID, cardCount)

	return quizFixture{
		svc:    newTestQuizService(t, newTestLoader(t, cards, newFakeDeckRepo(deck))),
		cards:  cards,
		deckID: deck.ID,
	}
}

func answerAllCorrectly(t *testing.T, svc QuizService, view *QuizView) *AnswerView {
	t.Helper()

	var last *AnswerView
	for view.State == study.QuizActive {
		require.NotNil(t, view.Question)
		result, err := svc.Answer(context.Background(), view.ID, study.AuthContext{}, view.Question.CorrectAnswer)
		require.NoError(t, err)
		require.True(t, result.Result.Correct)
		last = result
		view = &result.Quiz
	}
	return last
}

func TestQuizService_AllCorrectFinishesWithFullScore(t *testing.T) {
	t.Parallel()

	f := newQuizFixture(t, 5)
	view, err := f.svc.Start(context.Background(), f.deckID, study.AuthContext{})
	require.NoError(t, err)
	require.Equal(t, study.QuizActive, view.State)
	assert.Equal(t, "Travel", view.Title)
	assert.Equal(t, 5, view.Total)

	last := answerAllCorrectly(t, f.svc, view)
	require.NotNil(t, last)
	assert.True(t, last.Result.Finished)
	assert.Equal(t, 5, last.Result.Score)
	assert.Equal(t, study.QuizFinished, last.Quiz.State)
	assert.Nil(t, last.Quiz.Question)

	_, err = f.svc.Answer(context.Background(), view.ID, study.AuthContext{}, "anything")
	assert.ErrorIs(t, err, study.ErrQuizNotActive)
}

func TestQuizService_SmallDeckIsEmptyWithTitle(t *testing.T) {
	t.Parallel()

	f := newQuizFixture(t, 3)
	view, err := f.svc.Start(context.Background(), f.deckID, study.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, study.QuizEmpty, view.State)
	assert.Equal(t, "Travel", view.Title)
	assert.Zero(t, view.Total)
}

func TestQuizService_AnonymousWithoutDeckSkipsStore(t *testing.T) {
	t.Parallel()

	f := newQuizFixture(t, 5)
	view, err := f.svc.Start(context.Background(), uuid.Nil, study.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, study.QuizEmpty, view.State)
	assert.Equal(t, study.ScopeNone, view.Scope.Kind)
	assert.Zero(t, f.cards.userCalls)
	assert.Zero(t, f.cards.deckCalls)
}

func TestQuizService_SignedInUsesCollection(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	f := newQuizFixture(t, 0)
	f.cards.byUser[userID] = makeDeckCards(uuid.Nil, 8)
	auth := study.AuthContext{UserID: userID}

	view, err := f.svc.Start(context.Background(), uuid.Nil, auth)
	require.NoError(t, err)
	assert.Equal(t, study.QuizActive, view.State)
	assert.Equal(t, CollectionTitle, view.Title)
	assert.Equal(t, study.ScopeUser, view.Scope.Kind)
	assert.Equal(t, 1, f.cards.userCalls)
}

func TestQuizService_RetryFromFinished(t *testing.T) {
	t.Parallel()

	f := newQuizFixture(t, 5)
	view, err := f.svc.Start(context.Background(), f.deckID, study.AuthContext{})
	require.NoError(t, err)

	_, err = f.svc.Retry(context.Background(), view.ID, study.AuthContext{})
	assert.ErrorIs(t, err, study.ErrRetryNotAllowed)

	answerAllCorrectly(t, f.svc, view)

	retried, err := f.svc.Retry(context.Background(), view.ID, study.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, study.QuizActive, retried.State)
	assert.Equal(t, view.ID, retried.ID)
	assert.Zero(t, retried.Score)
	assert.Zero(t, retried.Index)
	assert.Equal(t, 5, retried.Total)
	assert.Equal(t, 2, f.cards.deckCalls)
}

func TestQuizService_LoadFailureIsRecoverable(t *testing.T) {
	t.Parallel()

	f := newQuizFixture(t, 5)
	f.cards.setListErr(errors.New("db down"))

	view, err := f.svc.Start(context.Background(), f.deckID, study.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, study.QuizFailed, view.State)
	assert.Equal(t, errLoadFailed.Error(), view.Error)
	assert.NotContains(t, view.Error, "db down")

	_, err = f.svc.Answer(context.Background(), view.ID, study.AuthContext{}, "x")
	assert.ErrorIs(t, err, study.ErrQuizNotActive)

	f.cards.setListErr(nil)
	retried, err := f.svc.Retry(context.Background(), view.ID, study.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, study.QuizActive, retried.State)
	assert.Empty(t, retried.Error)
}

func TestQuizService_ChangeScope(t *testing.T) {
	t.Parallel()

	f := newQuizFixture(t, 5)
	view, err := f.svc.Start(context.Background(), uuid.Nil, study.AuthContext{})
	require.NoError(t, err)
	require.Equal(t, study.QuizEmpty, view.State)

	changed, err := f.svc.ChangeScope(context.Background(), view.ID, f.deckID, study.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, study.QuizActive, changed.State)
	assert.Equal(t, f.deckID, changed.Scope.DeckID)
}

func TestQuizService_ChangeScopeResolvesAgainstSessionOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	anon := study.AuthContext{}
	signedIn := study.AuthContext{UserID: uuid.New()}

	f := newQuizFixture(t, 5)
	f.cards.byUser[signedIn.UserID] = makeDeckCards(uuid.New(), 6)

	view, err := f.svc.Start(ctx, f.deckID, anon)
	require.NoError(t, err)
	require.Equal(t, study.QuizActive, view.State)

	changed, err := f.svc.ChangeScope(ctx, view.ID, uuid.Nil, signedIn)
	require.NoError(t, err)
	assert.Equal(t, study.ScopeNone, changed.Scope.Kind)
	assert.Equal(t, uuid.Nil, changed.Scope.UserID)
	assert.Equal(t, study.QuizEmpty, changed.State)
	assert.Zero(t, f.cards.userCalls, "an anonymous session never reads a user collection")

	got, err := f.svc.Get(ctx, view.ID, anon)
	require.NoError(t, err)
	assert.NotEqual(t, study.ScopeUser, got.Scope.Kind)
	assert.Nil(t, got.Question)
}

func TestQuizService_ChangeScopeRequiresOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := study.AuthContext{UserID: uuid.New()}
	other := study.AuthContext{UserID: uuid.New()}

	f := newQuizFixture(t, 5)
	f.cards.byUser[owner.UserID] = makeDeckCards(uuid.New(), 5)
	f.cards.byUser[other.UserID] = makeDeckCards(uuid.New(), 5)

	view, err := f.svc.Start(ctx, f.deckID, owner)
	require.NoError(t, err)

	_, err = f.svc.ChangeScope(ctx, view.ID, uuid.Nil, other)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = f.svc.ChangeScope(ctx, view.ID, uuid.Nil, study.AuthContext{})
	assert.ErrorIs(t, err, ErrNotOwned)

	changed, err := f.svc.ChangeScope(ctx, view.ID, uuid.Nil, owner)
	require.NoError(t, err)
	assert.Equal(t, study.ScopeUser, changed.Scope.Kind)
	assert.Equal(t, owner.UserID, changed.Scope.UserID)
	assert.Equal(t, study.QuizActive, changed.State)
	assert.Equal(t, CollectionTitle, changed.Title)
}

func TestQuizService_StaleLoadIsDiscarded(t *testing.T) {
	t.Parallel()

	deckA, deckB := uuid.New(), uuid.New()
	started := make(chan struct{})
	release := make(chan struct{})
	ctxErr := make(chan error, 1)

	loader := loaderFunc(func(ctx context.Context, scope study.Scope) (study.Pool, error) {
		if scope.DeckID == deckA {
			close(started)
			<-release
			ctxErr <- ctx.Err()
			return study.Pool{Scope: scope, Title: "A", Cards: makeDeckCards(deckA, 5)}, nil
		}
		return study.Pool{Scope: scope, Title: "B", Cards: makeDeckCards(deckB, 5)}, nil
	})
	svc := newTestQuizService(t, loader)

	done := make(chan *QuizView)
	go func() {
		view, err := svc.Start(context.Background(), deckA, study.AuthContext{})
		assert.NoError(t, err)
		done <- view
	}()

	<-started
	sess := onlySession(t, svc.sessions)

	loading, err := svc.Get(context.Background(), sess.ID, study.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, study.QuizLoading, loading.State)

	_, err = svc.Answer(context.Background(), sess.ID, study.AuthContext{}, "x")
	assert.ErrorIs(t, err, study.ErrQuizNotActive)

	changed, err := svc.ChangeScope(context.Background(), sess.ID, deckB, study.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, "B", changed.Title)

	close(release)
	assert.ErrorIs(t, <-ctxErr, context.Canceled)
	staleView := <-done
	assert.Equal(t, "B", staleView.Title)

	final, err := svc.Get(context.Background(), sess.ID, study.AuthContext{})
	require.NoError(t, err)
	assert.Equal(t, study.QuizActive, final.State)
	assert.Equal(t, "B", final.Title)
	assert.Equal(t, deckB, final.Scope.DeckID)
}

func TestQuizService_SessionAccess(t *testing.T) {
	t.Parallel()

	owner := study.AuthContext{UserID: uuid.New()}
	f := newQuizFixture(t, 5)

	view, err := f.svc.Start(context.Background(), f.deckID, owner)
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), view.ID, study.AuthContext{})
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = f.svc.Get(context.Background(), view.ID, study.AuthContext{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = f.svc.Get(context.Background(), view.ID, owner)
	assert.NoError(t, err)

	_, err = f.svc.Get(context.Background(), uuid.New(), owner)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizService_SweepIdle(t *testing.T) {
	t.Parallel()

	f := newQuizFixture(t, 5)
	now := time.Now()
	f.svc.sessions.now = func() time.Time { return now }

	view, err := f.svc.Start(context.Background(), f.deckID, study.AuthContext{})
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	assert.Zero(t, f.svc.SweepIdle())

	now = now.Add(31 * time.Minute)
	assert.Equal(t, 1, f.svc.SweepIdle())

	_, err = f.svc.Get(context.Background(), view.ID, study.AuthContext{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestNewQuizService_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testStudyConfig()
	cfg.QuizMinPoolSize = 2
	_, err := NewQuizService(loaderFunc(nil), cfg, nil)
	assert.ErrorIs(t, err, study.ErrInvalidConfig)

	_, err = NewQuizService(nil, testStudyConfig(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
