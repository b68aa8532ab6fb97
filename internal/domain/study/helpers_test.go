package study

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
)

// makeCards returns n deck cards whose backs are meaning-0, meaning-1, ...
func makeCards(n int) []domain.Card {
	deckID := uuid.New()
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{
			ID:     uuid.New(),
			DeckID: deckID,
			Front:  fmt.Sprintf("word-%d", i),
			Back:   fmt.Sprintf("meaning-%d", i),
		}
	}
	return cards
}

// countingSource records how often randomness was requested.
type countingSource struct {
	inner Source
	calls int
}

func (s *countingSource) IntN(n int) int {
	s.calls++
	return s.inner.IntN(n)
}
