package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck, err := NewDeck(userID, " Greetings ", "")
	require.NoError(t, err)

	assert.Equal(t, "Greetings", deck.Title)
	assert.Equal(t, DefaultTargetLanguage, deck.TargetLanguage)
	assert.False(t, deck.IsPublic, "new decks start private")
	assert.Equal(t, userID, deck.UserID)

	_, err = NewDeck(userID, "  ", "ja")
	assert.ErrorIs(t, err, ErrDeckTitleEmpty)

	_, err = NewDeck(userID, strings.Repeat("あ", MaxDeckTitleLength+1), "ja")
	assert.ErrorIs(t, err, ErrDeckTitleTooLong)
}

func TestDeckTitleFromSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "おはよう", DeckTitleFromSource("  おはよう "))

	long := strings.Repeat("日", 40)
	title := DeckTitleFromSource(long)
	assert.Equal(t, strings.Repeat("日", 30)+"...", title)
}
