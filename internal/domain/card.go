package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardScopeEmpty is returned when a card has neither an owner nor a deck.
	ErrCardScopeEmpty = errors.New("card must belong to a user or a deck")

	// ErrCardFrontEmpty is returned when a card's front text is blank.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card's back text is blank.
	ErrCardBackEmpty = errors.New("card back cannot be empty")
)

// Card is a vocabulary flashcard. Front is the prompt shown to the learner,
// Back is the meaning being tested. Reading and ExampleSentence are optional
// study aids shown during review.
//
// A card belongs to a deck, a user, or both. uuid.Nil marks an absent owner.
type Card struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	DeckID          uuid.UUID `json:"deck_id"`
	Front           string    `json:"front"`
	Back            string    `json:"back"`
	Reading         string    `json:"reading,omitempty"`
	ExampleSentence string    `json:"example_sentence,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CardContent holds the text fields used to create a card.
type CardContent struct {
	Front           string `json:"front"`
	Back            string `json:"back"`
	Reading         string `json:"reading,omitempty"`
	ExampleSentence string `json:"example_sentence,omitempty"`
}

// NewCard creates a new Card owned by userID inside deckID.
// Either ID may be uuid.Nil, but not both.
func NewCard(userID, deckID uuid.UUID, content CardContent) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:              uuid.New(),
		UserID:          userID,
		DeckID:          deckID,
		Front:           strings.TrimSpace(content.Front),
		Back:            strings.TrimSpace(content.Back),
		Reading:         strings.TrimSpace(content.Reading),
		ExampleSentence: strings.TrimSpace(content.ExampleSentence),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil && c.DeckID == uuid.Nil {
		return ErrCardScopeEmpty
	}

	if strings.TrimSpace(c.Front) == "" {
		return ErrCardFrontEmpty
	}

	if strings.TrimSpace(c.Back) == "" {
		return ErrCardBackEmpty
	}

	return nil
}

// InDeck reports whether the card is filed under a deck.
func (c *Card) InDeck() bool {
	return c.DeckID != uuid.Nil
}
