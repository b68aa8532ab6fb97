package study

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveScope(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name   string
		deckID uuid.UUID
		auth   AuthContext
		want   Scope
	}{
		{"deck wins over user", deckID, AuthContext{UserID: userID}, Scope{Kind: ScopeDeck, DeckID: deckID}},
		{"deck for anonymous", deckID, AuthContext{}, Scope{Kind: ScopeDeck, DeckID: deckID}},
		{"signed-in collection", uuid.Nil, AuthContext{UserID: userID}, Scope{Kind: ScopeUser, UserID: userID}},
		{"anonymous without deck", uuid.Nil, AuthContext{}, Scope{Kind: ScopeNone}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveScope(tc.deckID, tc.auth))
		})
	}
}
