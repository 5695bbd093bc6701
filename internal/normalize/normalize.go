// Package normalize shapes catalog records into the public product response.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/goccy/go-json"
)

const (
	defaultName        = "Unknown"
	defaultBrand       = "Generic"
	defaultProductLink = "#"
)

// ParseFloatOr converts a loosely typed numeric value to float64, returning def
// when the value is absent or cannot be read as a finite number.
func ParseFloatOr(v any, def float64) float64 {
	f, ok := parseFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func parseFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Normalize never fails: every missing or malformed field resolves to its default.
// A discounted price that cannot be parsed falls back to the list price.
func Normalize(r *domain.CatalogRecord) domain.NormalizedProduct {
	price := ParseFloatOr(r.ActualPrice, 0)
	discounted := ParseFloatOr(r.DiscountedPrice, price)

	// Only an absent rating is defaulted; an explicit null stays null.
	var rating any = 0
	if r.HasRating {
		rating = r.Rating
	}

	return domain.NormalizedProduct{
		ID:              r.ID,
		Name:            stringOr(r.Name, defaultName),
		Brand:           stringOr(r.Brand, defaultBrand),
		Rating:          rating,
		Price:           price,
		DiscountedPrice: discounted,
		ImageLink:       stringOr(r.ImageLink, ""),
		ProductLink:     stringOr(r.ProductLink, defaultProductLink),
	}
}

// All normalizes records in order. The result is never nil.
func All(records []*domain.CatalogRecord) []domain.NormalizedProduct {
	out := make([]domain.NormalizedProduct, 0, len(records))
	for _, r := range records {
		out = append(out, Normalize(r))
	}
	return out
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
