package study

import (
	"fmt"

	"github.com/kotoba/study-api/internal/domain"
)

// DistractorCount is the number of wrong answers shown with each question.
const DistractorCount = 3

// SampleDistractors draws k distinct cards from pool, never returning
// exclude. The remainder is shuffled and truncated, so every k-subset is
// equally likely. The pool itself is not modified.
func SampleDistractors(pool []domain.Card, exclude domain.Card, k int, rng Source) ([]domain.Card, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: negative distractor count %d", ErrInvalidConfig, k)
	}

	remainder := make([]domain.Card, 0, len(pool))
	for _, card := range pool {
		if card.ID == exclude.ID {
			continue
		}
		remainder = append(remainder, card)
	}

	if len(remainder) < k {
		return nil, fmt.Errorf("%w: need %d distractors, have %d candidates",
			ErrInsufficientPool, k, len(remainder))
	}

	shuffle(remainder, rng)
	return remainder[:k:k], nil
}
