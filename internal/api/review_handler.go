package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/api/shared"
	"github.com/kotoba/study-api/internal/domain/study"
	"github.com/kotoba/study-api/internal/service"
)

// ReviewHandler exposes flashcard review sessions.
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

type reviewAction func(ctx context.Context, id uuid.UUID, auth study.AuthContext) (*service.ReviewView, error)

// Start handles POST /reviews.
func (h *ReviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req ScopeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.reviewService.Start(r.Context(), req.deckID(), authContext(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, reviewToResponse(view))
}

// Get handles GET /reviews/{id}.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.reviewService.Get)
}

// Next handles POST /reviews/{id}/next.
func (h *ReviewHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.reviewService.Next)
}

// Previous handles POST /reviews/{id}/previous.
func (h *ReviewHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.reviewService.Previous)
}

// Toggle handles POST /reviews/{id}/toggle.
func (h *ReviewHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.reviewService.Toggle)
}

// Reload handles POST /reviews/{id}/reload.
func (h *ReviewHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.reviewService.Reload)
}

// ChangeScope handles PUT /reviews/{id}/scope.
func (h *ReviewHandler) ChangeScope(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req ScopeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.reviewService.ChangeScope(r.Context(), id, req.deckID(), authContext(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change review scope")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(view))
}

func (h *ReviewHandler) run(w http.ResponseWriter, r *http.Request, action reviewAction) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := action(r.Context(), id, authContext(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(view))
}
