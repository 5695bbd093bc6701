package handler

import (
	"errors"
	"net/http"

	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/actuallystonmai/product-search-service/internal/logging"
)

// GET /api/queries/top
func (h *Handler) TopQueries(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, 10, 100)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}

	stats, err := h.service.TopQueries(r.Context(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrQueryLogDisabled) {
			writeError(w, http.StatusServiceUnavailable, "query_log_disabled",
				"Search query log is not configured")
			return
		}
		logging.Error().Err(err).Msg("top queries failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
