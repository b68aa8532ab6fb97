package api

import (
	"log/slog"
	"net/http"

	"github.com/kotoba/study-api/internal/api/shared"
	"github.com/kotoba/study-api/internal/service"
)

// QuizHandler exposes quiz sessions.
type QuizHandler struct {
	quizService service.QuizService
	logger      *slog.Logger
}

// NewQuizHandler creates a QuizHandler.
func NewQuizHandler(quizService service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		quizService: quizService,
		logger:      logger.With(slog.String("component", "quiz_handler")),
	}
}

// Start handles POST /quizzes. Load failures are reported in the quiz state,
// not as an HTTP error.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req ScopeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.quizService.Start(r.Context(), req.deckID(), authContext(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start quiz")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, quizToResponse(view))
}

// Get handles GET /quizzes/{id}.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.quizService.Get(r.Context(), id, authContext(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get quiz")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quizToResponse(view))
}

// Answer handles POST /quizzes/{id}/answers.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.quizService.Answer(r.Context(), id, authContext(r), req.Choice)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, answerToResponse(view))
}

// Retry handles POST /quizzes/{id}/retry.
func (h *QuizHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.quizService.Retry(r.Context(), id, authContext(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retry quiz")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quizToResponse(view))
}

// ChangeScope handles PUT /quizzes/{id}/scope.
func (h *QuizHandler) ChangeScope(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req ScopeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.quizService.ChangeScope(r.Context(), id, req.deckID(), authContext(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change quiz scope")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quizToResponse(view))
}
