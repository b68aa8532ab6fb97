package study

import (
	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
)

// ScopeKind identifies how a session's cards are selected.
type ScopeKind string

const (
	// ScopeDeck selects every card in one deck, whoever owns it.
	ScopeDeck ScopeKind = "deck"

	// ScopeUser selects the signed-in user's own collection.
	ScopeUser ScopeKind = "user"

	// ScopeNone is the anonymous state: no deck and nobody signed in.
	ScopeNone ScopeKind = "none"
)

// AuthContext carries the caller's identity. The zero value is anonymous.
type AuthContext struct {
	UserID uuid.UUID
}

// SignedIn reports whether the context carries a user.
func (a AuthContext) SignedIn() bool {
	return a.UserID != uuid.Nil
}

// Scope is a resolved card selection.
type Scope struct {
	Kind   ScopeKind `json:"kind"`
	DeckID uuid.UUID `json:"deck_id,omitempty"`
	UserID uuid.UUID `json:"user_id,omitempty"`
}

// ResolveScope picks the scope for a session. An explicit deck wins over the
// signed-in user; with neither the scope is ScopeNone.
func ResolveScope(deckID uuid.UUID, auth AuthContext) Scope {
	switch {
	case deckID != uuid.Nil:
		return Scope{Kind: ScopeDeck, DeckID: deckID}
	case auth.SignedIn():
		return Scope{Kind: ScopeUser, UserID: auth.UserID}
	default:
		return Scope{Kind: ScopeNone}
	}
}

// Pool is the candidate card set loaded for one scope, plus the title shown
// for it.
type Pool struct {
	Scope Scope
	Title string
	Cards []domain.Card
}

// Len returns the number of cards in the pool.
func (p Pool) Len() int {
	return len(p.Cards)
}
