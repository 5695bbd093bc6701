package handler

import (
	"net/http"
	"strconv"
)

const (
	headerTier  = "X-Search-Tier"
	headerCache = "X-Cache"
)

// GET /api/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	result := h.service.Search(r.Context(), r.URL.Query().Get("q"))

	w.Header().Set(headerTier, string(result.Tier))
	if result.CacheHit {
		w.Header().Set(headerCache, "HIT")
	} else {
		w.Header().Set(headerCache, "MISS")
	}

	writeJSON(w, http.StatusOK, result.Products)
}

// GET /api/products/top
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.TopProducts())
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	deps := h.service.Dependencies(r.Context())

	status := "ok"
	for _, s := range deps {
		if s != "ok" {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          status,
		Products:        h.service.ProductCount(),
		Recommendations: h.service.RecommendationCount(),
		Dependencies:    deps,
	})
}

func parseLimit(r *http.Request, fallback, maxLimit int) (int, bool) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(limitStr)
	if err != nil || parsed < 1 || parsed > maxLimit {
		return 0, false
	}
	return parsed, true
}
