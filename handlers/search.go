package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Search runs the recipe search chain for ?q=. A failed search is a 502 so
// clients can tell it apart from an empty result.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.respondError(w, http.StatusBadRequest, "missing 'q' query parameter")
		return
	}

	recipes, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		h.log.Error("search failed", zap.String("query", query), zap.Error(err))
		h.respondError(w, http.StatusBadGateway, "search failed")
		return
	}
	respondJSON(w, http.StatusOK, recipes)
}
