package api

import (
	"log/slog"
	"net/http"

	"github.com/kotoba/study-api/internal/api/shared"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/service"
)

// StudySetHandler creates decks from sentences.
type StudySetHandler struct {
	studySetService service.StudySetService
	logger          *slog.Logger
}

// NewStudySetHandler creates a StudySetHandler.
func NewStudySetHandler(studySetService service.StudySetService, logger *slog.Logger) *StudySetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudySetHandler{
		studySetService: studySetService,
		logger:          logger.With(slog.String("component", "study_set_handler")),
	}
}

// Create handles POST /study-sets. It requires an authenticated user.
func (h *StudySetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateStudySetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.studySetService.Create(r.Context(), userID, service.StudySetRequest{
		Sentence:       req.Sentence,
		TargetLanguage: req.TargetLanguage,
		IsPublic:       req.IsPublic,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create study set")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, StudySetResponse{
		Deck:        deckToResponse(result.Deck, result.Cards, len(result.Cards)),
		Translation: result.Translation,
	})
}
