package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kotoba/study-api/internal/api/shared"
	"github.com/kotoba/study-api/internal/domain"
	"github.com/kotoba/study-api/internal/service"
)

// DeckHandler serves the deck library.
type DeckHandler struct {
	deckService service.DeckService
	logger      *slog.Logger
}

// NewDeckHandler creates a DeckHandler.
func NewDeckHandler(deckService service.DeckService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		deckService: deckService,
		logger:      logger.With(slog.String("component", "deck_handler")),
	}
}

// ListPublic handles GET /decks/public?limit=n.
func (h *DeckHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			HandleAPIError(w, r,
				domain.NewValidationError("limit", "must be a positive integer", domain.ErrValidation), "")
			return
		}
		limit = n
	}

	decks, err := h.deckService.ListPublic(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	resp := make([]DeckResponse, len(decks))
	for i, d := range decks {
		resp[i] = deckToResponse(d.Deck, nil, d.CardCount)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Get handles GET /decks/{id}.
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	detail, err := h.deckService.GetDeck(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(detail.Deck, detail.Cards, len(detail.Cards)))
}
