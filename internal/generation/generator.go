package generation

import (
	"context"
	"fmt"
	"strings"
)

const (
	// MinFlashcards and MaxFlashcards bound the size of a generated set.
	MinFlashcards = 1
	MaxFlashcards = 10

	// MaxSentenceLength caps the input passed to the model, in runes.
	MaxSentenceLength = 500
)

// Flashcard is one generated vocabulary item.
type Flashcard struct {
	Front   string `json:"front"`
	Back    string `json:"back"`
	Reading string `json:"reading,omitempty"`
	Example string `json:"example,omitempty"`
}

// StudySet is the full result of analysing one sentence.
type StudySet struct {
	Translation        string      `json:"translation"`
	GrammarExplanation string      `json:"grammar_explanation"`
	Flashcards         []Flashcard `json:"flashcards"`
}

// Generator turns a sentence into a study set.
type Generator interface {
	// GenerateStudySet analyses sentence, written in targetLanguage, and
	// returns its translation, a grammar explanation and vocabulary cards.
	// Errors wrap the sentinels in errors.go.
	GenerateStudySet(ctx context.Context, sentence, targetLanguage string) (*StudySet, error)
}

// Validate normalises whitespace and checks that the set can be stored.
func (s *StudySet) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: study set is nil", ErrInvalidResponse)
	}

	s.Translation = strings.TrimSpace(s.Translation)
	s.GrammarExplanation = strings.TrimSpace(s.GrammarExplanation)

	if len(s.Flashcards) < MinFlashcards {
		return fmt.Errorf("%w: no flashcards in response", ErrInvalidResponse)
	}
	if len(s.Flashcards) > MaxFlashcards {
		s.Flashcards = s.Flashcards[:MaxFlashcards]
	}

	for i := range s.Flashcards {
		card := &s.Flashcards[i]
		card.Front = strings.TrimSpace(card.Front)
		card.Back = strings.TrimSpace(card.Back)
		card.Reading = strings.TrimSpace(card.Reading)
		card.Example = strings.TrimSpace(card.Example)

		if card.Front == "" {
			return fmt.Errorf("%w: card %d missing front side", ErrInvalidResponse, i)
		}
		if card.Back == "" {
			return fmt.Errorf("%w: card %d missing back side", ErrInvalidResponse, i)
		}
	}
	return nil
}

// ValidateSentence trims sentence and enforces the length limit.
func ValidateSentence(sentence string) (string, error) {
	trimmed := strings.TrimSpace(sentence)
	if trimmed == "" {
		return "", ErrEmptySentence
	}
	if n := len([]rune(trimmed)); n > MaxSentenceLength {
		return "", fmt.Errorf("%w: sentence has %d characters, limit is %d",
			ErrGenerationFailed, n, MaxSentenceLength)
	}
	return trimmed, nil
}

// DisabledGenerator is wired when no LLM is configured.
type DisabledGenerator struct{}

var _ Generator = DisabledGenerator{}

// GenerateStudySet always fails with ErrDisabled.
func (DisabledGenerator) GenerateStudySet(context.Context, string, string) (*StudySet, error) {
	return nil, ErrDisabled
}
