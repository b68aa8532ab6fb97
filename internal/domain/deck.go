package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckTitleEmpty is returned when a deck has a blank title.
	ErrDeckTitleEmpty = errors.New("deck title cannot be empty")

	// ErrDeckTitleTooLong is returned when a deck title exceeds MaxDeckTitleLength.
	ErrDeckTitleTooLong = errors.New("deck title is too long")
)

const (
	// MaxDeckTitleLength is the maximum number of runes in a deck title.
	MaxDeckTitleLength = 200

	// DefaultTargetLanguage is used when a deck is created without one.
	DefaultTargetLanguage = "ja"

	deckTitleExcerptLength = 30
)

// Deck groups cards created together, usually from one source sentence.
// Public decks appear in the shared library and can be studied by anyone
// holding the deck ID; private decks are still reachable by link.
type Deck struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Title          string    `json:"title"`
	IsPublic       bool      `json:"is_public"`
	TargetLanguage string    `json:"target_language,omitempty"`
	GrammarText    string    `json:"grammar_text,omitempty"`
	SourceText     string    `json:"source_text,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DeckSummary is a deck listed in the library together with its card count.
type DeckSummary struct {
	Deck
	CardCount int `json:"card_count"`
}

// NewDeck creates a private deck owned by userID.
func NewDeck(userID uuid.UUID, title, targetLanguage string) (*Deck, error) {
	if targetLanguage == "" {
		targetLanguage = DefaultTargetLanguage
	}

	now := time.Now().UTC()
	deck := &Deck{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          strings.TrimSpace(title),
		TargetLanguage: targetLanguage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if strings.TrimSpace(d.Title) == "" {
		return ErrDeckTitleEmpty
	}

	if utf8.RuneCountInString(d.Title) > MaxDeckTitleLength {
		return ErrDeckTitleTooLong
	}

	return nil
}

// DeckTitleFromSource derives a deck title from the text it was generated
// from: the first 30 runes followed by an ellipsis.
func DeckTitleFromSource(source string) string {
	source = strings.TrimSpace(source)
	if utf8.RuneCountInString(source) <= deckTitleExcerptLength {
		return source
	}

	runes := []rune(source)
	return string(runes[:deckTitleExcerptLength]) + "..."
}
