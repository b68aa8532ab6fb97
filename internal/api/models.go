package api

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/domain/study"
	"github.com/kotoba/study-api/internal/generation"
	"github.com/kotoba/study-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// ScopeRequest selects a deck for a session. A missing deck_id falls back to
// the caller's collection.
type ScopeRequest struct {
	DeckID *uuid.UUID `json:"deck_id,omitempty"`
}

func (r ScopeRequest) deckID() uuid.UUID {
	if r.DeckID == nil {
		return uuid.Nil
	}
	return *r.DeckID
}

// AnswerRequest submits a quiz choice.
type AnswerRequest struct {
	Choice string `json:"choice" validate:"required,max=500"`
}

// CreateStudySetRequest asks for a deck generated from a sentence.
type CreateStudySetRequest struct {
	Sentence       string `json:"sentence"                  validate:"required"`
	TargetLanguage string `json:"target_language,omitempty" validate:"omitempty,alpha,len=2"`
	IsPublic       bool   `json:"is_public"`
}

// Validate checks the sentence length rules before the struct tags.
func (r CreateStudySetRequest) Validate() error {
	if _, err := generation.ValidateSentence(r.Sentence); err != nil {
		if errors.Is(err, generation.ErrEmptySentence) {
			return err
		}
		return domain.NewValidationError("sentence", "is too long", domain.ErrValidation)
	}
	return validate.Struct(r)
}

// QuestionResponse is a quiz question without its answer.
type QuestionResponse struct {
	CardID  uuid.UUID `json:"card_id"`
	Prompt  string    `json:"prompt"`
	Options []string  `json:"options"`
}

// QuizResponse is the client view of a quiz session.
type QuizResponse struct {
	ID       uuid.UUID         `json:"id"`
	State    study.QuizState   `json:"state"`
	Title    string            `json:"title"`
	Scope    study.Scope       `json:"scope"`
	Question *QuestionResponse `json:"question,omitempty"`
	Index    int               `json:"index"`
	Total    int               `json:"total"`
	Score    int               `json:"score"`
	Error    string            `json:"error,omitempty"`
}

// AnswerResponse reports one answer and the quiz after it.
type AnswerResponse struct {
	Correct       bool         `json:"correct"`
	CorrectAnswer string       `json:"correct_answer"`
	Score         int          `json:"score"`
	Finished      bool         `json:"finished"`
	Quiz          QuizResponse `json:"quiz"`
}

// CardResponse is a card as shown to a learner.
type CardResponse struct {
	ID              uuid.UUID `json:"id"`
	Front           string    `json:"front"`
	Back            string    `json:"back,omitempty"`
	Reading         string    `json:"reading,omitempty"`
	ExampleSentence string    `json:"example_sentence,omitempty"`
}

// ReviewResponse is the client view of a review session. The card's back is
// only included once revealed.
type ReviewResponse struct {
	ID       uuid.UUID         `json:"id"`
	State    study.ReviewState `json:"state"`
	Title    string            `json:"title"`
	Scope    study.Scope       `json:"scope"`
	Card     *CardResponse     `json:"card,omitempty"`
	Index    int               `json:"index"`
	Total    int               `json:"total"`
	Revealed bool              `json:"revealed"`
	Error    string            `json:"error,omitempty"`
}

// DeckResponse describes a deck.
type DeckResponse struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	IsPublic       bool           `json:"is_public"`
	TargetLanguage string         `json:"target_language,omitempty"`
	GrammarText    string         `json:"grammar_text,omitempty"`
	SourceText     string         `json:"source_text,omitempty"`
	CardCount      int            `json:"card_count"`
	CreatedAt      time.Time      `json:"created_at"`
	Cards          []CardResponse `json:"cards,omitempty"`
}

// StudySetResponse is a freshly generated deck.
type StudySetResponse struct {
	Deck        DeckResponse `json:"deck"`
	Translation string       `json:"translation"`
}

func quizToResponse(v *service.QuizView) QuizResponse {
	resp := QuizResponse{
		ID:    v.ID,
		State: v.State,
		Title: v.Title,
		Scope: v.Scope,
		Index: v.Index,
		Total: v.Total,
		Score: v.Score,
		Error: v.Error,
	}
	if q := v.Question; q != nil {
		resp.Question = &QuestionResponse{
			CardID:  q.CardID,
			Prompt:  q.Prompt,
			Options: q.Options,
		}
	}
	return resp
}

func answerToResponse(v *service.AnswerView) AnswerResponse {
	return AnswerResponse{
		Correct:       v.Result.Correct,
		CorrectAnswer: v.Result.CorrectAnswer,
		Score:         v.Result.Score,
		Finished:      v.Result.Finished,
		Quiz:          quizToResponse(&v.Quiz),
	}
}

func cardToResponse(c domain.Card) CardResponse {
	return CardResponse{
		ID:              c.ID,
		Front:           c.Front,
		Back:            c.Back,
		Reading:         c.Reading,
		ExampleSentence: c.ExampleSentence,
	}
}

func reviewToResponse(v *service.ReviewView) ReviewResponse {
	resp := ReviewResponse{
		ID:       v.ID,
		State:    v.State,
		Title:    v.Title,
		Scope:    v.Scope,
		Index:    v.Index,
		Total:    v.Total,
		Revealed: v.Revealed,
		Error:    v.Error,
	}
	if v.Card != nil {
		card := CardResponse{ID: v.Card.ID, Front: v.Card.Front}
		if v.Revealed {
			card = cardToResponse(*v.Card)
		}
		resp.Card = &card
	}
	return resp
}

func deckToResponse(d domain.Deck, cards []domain.Card, cardCount int) DeckResponse {
	resp := DeckResponse{
		ID:             d.ID,
		Title:          d.Title,
		IsPublic:       d.IsPublic,
		TargetLanguage: d.TargetLanguage,
		GrammarText:    d.GrammarText,
		SourceText:     d.SourceText,
		CardCount:      cardCount,
		CreatedAt:      d.CreatedAt,
	}
	if len(cards) > 0 {
		resp.Cards = make([]CardResponse, len(cards))
		for i, c := range cards {
			resp.Cards[i] = cardToResponse(c)
		}
	}
	return resp
}
