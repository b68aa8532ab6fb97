package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kotoba/study-api/internal/api"
	apiMiddleware "github.com/kotoba/study-api/internal/api/middleware"
)

// setupRouter builds the chi router with middleware, API routes and health
// checks.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	handlers := api.Handlers{
		Auth:     api.NewAuthHandler(app.userService, app.jwtService, app.config.Auth.TokenLifetime(), app.logger),
		Quiz:     api.NewQuizHandler(app.quizService, app.logger),
		Review:   api.NewReviewHandler(app.reviewService, app.logger),
		Deck:     api.NewDeckHandler(app.deckService, app.logger),
		StudySet: api.NewStudySetHandler(app.studySetService, app.logger),
	}
	api.RegisterRoutes(r, handlers, apiMiddleware.NewAuthMiddleware(app.jwtService))

	health := api.HealthHandler(app.db)
	r.Get("/health", health)
	r.Get("/api/health", health)

	return r
}
