package api

import (
	"github.com/go-chi/chi/v5"
	apiMiddleware "github.com/kotoba/study-api/internal/api/middleware"
)

// Handlers groups every HTTP handler mounted under /api.
type Handlers struct {
	Auth     *AuthHandler
	Quiz     *QuizHandler
	Review   *ReviewHandler
	Deck     *DeckHandler
	StudySet *StudySetHandler
}

// RegisterRoutes mounts the API on r. Session and library routes accept
// anonymous callers; study-set creation requires a token.
func RegisterRoutes(r chi.Router, h Handlers, authMiddleware *apiMiddleware.AuthMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Get("/decks/public", h.Deck.ListPublic)
		r.Get("/decks/{id}", h.Deck.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuthenticate)

			r.Post("/quizzes", h.Quiz.Start)
			r.Get("/quizzes/{id}", h.Quiz.Get)
			r.Post("/quizzes/{id}/answers", h.Quiz.Answer)
			r.Post("/quizzes/{id}/retry", h.Quiz.Retry)
			r.Put("/quizzes/{id}/scope", h.Quiz.ChangeScope)

			r.Post("/reviews", h.Review.Start)
			r.Get("/reviews/{id}", h.Review.Get)
			r.Post("/reviews/{id}/next", h.Review.Next)
			r.Post("/reviews/{id}/previous", h.Review.Previous)
			r.Post("/reviews/{id}/toggle", h.Review.Toggle)
			r.Post("/reviews/{id}/reload", h.Review.Reload)
			r.Put("/reviews/{id}/scope", h.Review.ChangeScope)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/study-sets", h.StudySet.Create)
		})
	})
}

