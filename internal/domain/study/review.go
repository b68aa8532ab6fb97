package study

import (
	"fmt"

	"github.com/kotoba/study-api/internal/domain"
)

// ReviewCursor walks a card list in both directions, wrapping at the ends.
// Moving always hides the back of the new card.
type ReviewCursor struct {
	cards    []domain.Card
	index    int
	revealed bool
}

// NewReviewCursor returns a cursor on the first card. An empty list has no
// cursor and yields ErrEmptyPool.
func NewReviewCursor(cards []domain.Card) (*ReviewCursor, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyPool
	}
	owned := make([]domain.Card, len(cards))
	copy(owned, cards)
	return &ReviewCursor{cards: owned}, nil
}

// Next moves to the following card, wrapping to the first.
func (c *ReviewCursor) Next() {
	c.index = (c.index + 1) % len(c.cards)
	c.revealed = false
}

// Previous moves to the preceding card, wrapping to the last.
func (c *ReviewCursor) Previous() {
	c.index = (c.index - 1 + len(c.cards)) % len(c.cards)
	c.revealed = false
}

// Toggle flips between front and back.
func (c *ReviewCursor) Toggle() {
	c.revealed = !c.revealed
}

// Current returns the card under the cursor.
func (c *ReviewCursor) Current() domain.Card {
	return c.cards[c.index]
}

// Index returns the zero-based position.
func (c *ReviewCursor) Index() int { return c.index }

// Len returns the number of cards.
func (c *ReviewCursor) Len() int { return len(c.cards) }

// Revealed reports whether the back is showing.
func (c *ReviewCursor) Revealed() bool { return c.revealed }

// ReviewState is a stage in the review lifecycle.
type ReviewState string

const (
	ReviewLoading ReviewState = "loading"
	ReviewEmpty   ReviewState = "empty"
	ReviewActive  ReviewState = "active"
	ReviewFailed  ReviewState = "failed"
)

// ReviewSnapshot is the read model exposed to callers.
type ReviewSnapshot struct {
	State    ReviewState  `json:"state"`
	Title    string       `json:"title"`
	Card     *domain.Card `json:"card,omitempty"`
	Index    int          `json:"index"`
	Total    int          `json:"total"`
	Revealed bool         `json:"revealed"`
	Error    string       `json:"error,omitempty"`
}

// Review wraps a ReviewCursor with the same load lifecycle as Quiz, so
// navigation is refused until cards have arrived.
type Review struct {
	guard   loadGuard
	state   ReviewState
	title   string
	cursor  *ReviewCursor
	failure string
}

// NewReview returns a review waiting for its first load.
func NewReview() *Review {
	return &Review{state: ReviewLoading}
}

// BeginLoad drops the current cursor and returns the ticket for the next fetch.
func (r *Review) BeginLoad() Ticket {
	r.state = ReviewLoading
	r.title = ""
	r.cursor = nil
	r.failure = ""
	return r.guard.next()
}

// Complete applies a loaded pool unless the ticket is stale.
func (r *Review) Complete(t Ticket, pool Pool) bool {
	if !r.guard.isCurrent(t) || r.state != ReviewLoading {
		return false
	}

	r.title = pool.Title
	cursor, err := NewReviewCursor(pool.Cards)
	if err != nil {
		r.state = ReviewEmpty
		return true
	}

	r.cursor = cursor
	r.state = ReviewActive
	return true
}

// Fail records a load failure unless the ticket is stale.
func (r *Review) Fail(t Ticket, err error) bool {
	if !r.guard.isCurrent(t) || r.state != ReviewLoading {
		return false
	}
	r.state = ReviewFailed
	if err != nil {
		r.failure = err.Error()
	}
	return true
}

// Next moves the cursor forward.
func (r *Review) Next() error {
	return r.navigate((*ReviewCursor).Next)
}

// Previous moves the cursor backward.
func (r *Review) Previous() error {
	return r.navigate((*ReviewCursor).Previous)
}

// Toggle flips the current card.
func (r *Review) Toggle() error {
	return r.navigate((*ReviewCursor).Toggle)
}

func (r *Review) navigate(move func(*ReviewCursor)) error {
	if r.state != ReviewActive {
		return fmt.Errorf("%w: state is %s", ErrReviewNotActive, r.state)
	}
	move(r.cursor)
	return nil
}

// State returns the current lifecycle state.
func (r *Review) State() ReviewState {
	return r.state
}

// Snapshot returns the current read model.
func (r *Review) Snapshot() ReviewSnapshot {
	snap := ReviewSnapshot{
		State: r.state,
		Title: r.title,
		Error: r.failure,
	}
	if r.cursor != nil {
		card := r.cursor.Current()
		snap.Card = &card
		snap.Index = r.cursor.Index()
		snap.Total = r.cursor.Len()
		snap.Revealed = r.cursor.Revealed()
	}
	return snap
}
