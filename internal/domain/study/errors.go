package study

import "errors"

var (
	// ErrInsufficientPool is returned when a pool is too small for the
	// requested number of questions or distractors.
	ErrInsufficientPool = errors.New("not enough cards in pool")

	// ErrEmptyPool is returned when a review cursor is requested for no cards.
	ErrEmptyPool = errors.New("pool has no cards")

	// ErrQuizNotActive is returned when an answer arrives outside the active state.
	ErrQuizNotActive = errors.New("quiz is not accepting answers")

	// ErrReviewNotActive is returned when navigation arrives outside the active state.
	ErrReviewNotActive = errors.New("review has no cards to navigate")

	// ErrRetryNotAllowed is returned when a retry is requested while a quiz is
	// loading or still in progress.
	ErrRetryNotAllowed = errors.New("quiz cannot be retried in its current state")

	// ErrInvalidConfig is returned for quiz settings that cannot produce a question.
	ErrInvalidConfig = errors.New("invalid quiz configuration")
)
