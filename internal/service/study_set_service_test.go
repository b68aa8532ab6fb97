package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	set      *generation.StudySet
	err      error
	sentence string
	language string
}

func (g *fakeGenerator) GenerateStudySet(_ context.Context, sentence, language string) (*generation.StudySet, error) {
	g.sentence = sentence
	g.language = language
	return g.set, g.err
}

func sampleStudySet() *generation.StudySet {
	return &generation.StudySet{
		Translation:        "I eat sushi every day.",
		GrammarExplanation: "を marks the direct object.",
		Flashcards: []generation.Flashcard{
			{Front: "毎日", Back: "every day", Reading: "まいにち"},
			{Front: "寿司", Back: "sushi", Reading: "すし"},
			{Front: "食べる", Back: "to eat", Reading: "たべる", Example: "寿司を食べる"},
		},
	}
}

func newStudySetFixture(t *testing.T, gen generation.Generator) (StudySetService, *fakeDeckRepo, *fakeCardRepo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	decks := newFakeDeckRepo()
	decks.db = db
	cards := newFakeCardRepo()
	cards.db = db

	svc, err := NewStudySetService(gen, decks, cards, nil)
	require.NoError(t, err)
	return svc, decks, cards, mock
}

func TestStudySetService_Create(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{set: sampleStudySet()}
	svc, decks, cards, mock := newStudySetFixture(t, gen)
	mock.ExpectBegin()
	mock.ExpectCommit()

	userID := uuid.New()
	sentence := "私は毎日寿司を食べます。それはとても美味しいと思います。"
	result, err := svc.Create(context.Background(), userID, StudySetRequest{
		Sentence: "  " + sentence + " ",
		IsPublic: true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, sentence, gen.sentence)
	assert.Equal(t, domain.DefaultTargetLanguage, gen.language)

	assert.Equal(t, "I eat sushi every day.", result.Translation)
	assert.Equal(t, domain.DeckTitleFromSource(sentence), result.Deck.Title)
	assert.Equal(t, sentence, result.Deck.SourceText)
	assert.Equal(t, "を marks the direct object.", result.Deck.GrammarText)
	assert.True(t, result.Deck.IsPublic)
	assert.Equal(t, userID, result.Deck.UserID)

	require.Len(t, result.Cards, 3)
	for _, card := range result.Cards {
		assert.Equal(t, result.Deck.ID, card.DeckID)
		assert.Equal(t, userID, card.UserID)
	}
	assert.Equal(t, "寿司を食べる", result.Cards[2].ExampleSentence)

	assert.Len(t, decks.created, 1)
	assert.Len(t, cards.created, 3)
}

func TestStudySetService_SaveFailureRollsBack(t *testing.T) {
	t.Parallel()

	svc, _, cards, mock := newStudySetFixture(t, &fakeGenerator{set: sampleStudySet()})
	saveErr := errors.New("insert failed")
	cards.saveErr = saveErr
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), uuid.New(), StudySetRequest{Sentence: "猫が好きです。"})
	assert.ErrorIs(t, err, saveErr)

	var svcErr *ServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudySetService_Rejections(t *testing.T) {
	t.Parallel()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		svc, _, _, _ := newStudySetFixture(t, &fakeGenerator{set: sampleStudySet()})
		_, err := svc.Create(context.Background(), uuid.Nil, StudySetRequest{Sentence: "猫"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("blank sentence", func(t *testing.T) {
		t.Parallel()
		gen := &fakeGenerator{set: sampleStudySet()}
		svc, _, _, _ := newStudySetFixture(t, gen)
		_, err := svc.Create(context.Background(), uuid.New(), StudySetRequest{Sentence: "   "})
		assert.ErrorIs(t, err, generation.ErrEmptySentence)
		assert.Empty(t, gen.sentence)
	})

	t.Run("generation disabled", func(t *testing.T) {
		t.Parallel()
		svc, decks, _, _ := newStudySetFixture(t, generation.DisabledGenerator{})
		_, err := svc.Create(context.Background(), uuid.New(), StudySetRequest{Sentence: "猫が好きです。"})
		assert.ErrorIs(t, err, generation.ErrDisabled)
		assert.Empty(t, decks.created)
	})
}
