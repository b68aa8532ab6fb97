package study

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
)

const (
	// OptionCount is the number of answer options per question.
	OptionCount = DistractorCount + 1

	// maxResampleAttempts bounds how often distractors are redrawn when their
	// backs collide with the correct answer or with each other.
	maxResampleAttempts = 5
)

// Question is one multiple-choice item. Options holds OptionCount strings in
// presentation order, one of which equals CorrectAnswer.
type Question struct {
	CardID        uuid.UUID `json:"card_id"`
	Prompt        string    `json:"prompt"`
	CorrectAnswer string    `json:"correct_answer"`
	Options       []string  `json:"options"`
}

// HasDuplicateOptions reports whether the bounded resampling gave up and left
// repeated option strings in the question.
func (q Question) HasDuplicateOptions() bool {
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, ok := seen[opt]; ok {
			return true
		}
		seen[opt] = struct{}{}
	}
	return false
}

// IsCorrect reports whether choice is the right answer.
func (q Question) IsCorrect(choice string) bool {
	return choice == q.CorrectAnswer
}

// PromptFor returns the question text asked for card.
func PromptFor(card domain.Card) string {
	return `What is the meaning of "` + card.Front + `"?`
}

// BuildQuestion picks a target card uniformly from pool and surrounds its
// back with DistractorCount other backs in random order.
func BuildQuestion(pool []domain.Card, rng Source) (Question, error) {
	if len(pool) < OptionCount {
		return Question{}, fmt.Errorf("%w: need %d cards for a question, have %d",
			ErrInsufficientPool, OptionCount, len(pool))
	}

	target := pool[rng.IntN(len(pool))]

	options, err := collectOptions(pool, target, rng)
	if err != nil {
		return Question{}, err
	}
	shuffle(options, rng)

	return Question{
		CardID:        target.ID,
		Prompt:        PromptFor(target),
		CorrectAnswer: target.Back,
		Options:       options,
	}, nil
}

// BuildQuestions builds n questions from pool. Each target is drawn
// independently, so one card can be asked about more than once.
func BuildQuestions(pool []domain.Card, n int, rng Source) ([]Question, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: question count must be positive, got %d", ErrInvalidConfig, n)
	}

	questions := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		q, err := BuildQuestion(pool, rng)
		if err != nil {
			return nil, fmt.Errorf("build question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// collectOptions returns the correct answer followed by distinct distractor
// backs. Samples are redrawn while backs collide; once the attempts run out
// the remaining slots are filled with colliding backs instead of failing.
func collectOptions(pool []domain.Card, target domain.Card, rng Source) ([]string, error) {
	options := make([]string, 0, OptionCount)
	options = append(options, target.Back)
	seen := map[string]struct{}{target.Back: {}}

	var collisions []string
	for attempt := 0; attempt < maxResampleAttempts && len(options) < OptionCount; attempt++ {
		distractors, err := SampleDistractors(pool, target, DistractorCount, rng)
		if err != nil {
			return nil, err
		}

		collisions = collisions[:0]
		for _, d := range distractors {
			if _, dup := seen[d.Back]; dup {
				collisions = append(collisions, d.Back)
				continue
			}
			if len(options) < OptionCount {
				seen[d.Back] = struct{}{}
				options = append(options, d.Back)
			}
		}
	}

	for i := 0; len(options) < OptionCount; i++ {
		options = append(options, collisions[i])
	}
	return options, nil
}
