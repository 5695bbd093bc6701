package normalize

import (
	"testing"

	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestParseFloatOr(t *testing.T) {
	tests := []struct {
		name string
		in   any
		def  float64
		want float64
	}{
		{"float", 12.5, 0, 12.5},
		{"json number", json.Number("399"), 0, 399},
		{"numeric string", " 42.10 ", 0, 42.1},
		{"currency string", "₹1,099", 0, 0},
		{"empty string", "", 7, 7},
		{"nil", nil, 3, 3},
		{"bool", true, 0, 1},
		{"nan string", "NaN", 5, 5},
		{"inf string", "inf", 5, 5},
		{"object", map[string]any{"a": 1}, 9, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseFloatOr(tt.in, tt.def), 1e-9)
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	got := Normalize(&domain.CatalogRecord{ID: "7"})

	assert.Equal(t, "7", got.ID)
	assert.Equal(t, "Unknown", got.Name)
	assert.Equal(t, "Generic", got.Brand)
	assert.Equal(t, 0, got.Rating)
	assert.Equal(t, 0.0, got.Price)
	assert.Equal(t, 0.0, got.DiscountedPrice)
	assert.Equal(t, "", got.ImageLink)
	assert.Equal(t, "#", got.ProductLink)
}

func TestNormalize_BadDiscountFallsBackToPrice(t *testing.T) {
	got := Normalize(&domain.CatalogRecord{
		ID:              "1",
		ActualPrice:     json.Number("1299"),
		DiscountedPrice: "n/a",
	})

	assert.Equal(t, 1299.0, got.Price)
	assert.Equal(t, 1299.0, got.DiscountedPrice)
}

func TestNormalize_BadPriceIsZero(t *testing.T) {
	got := Normalize(&domain.CatalogRecord{ID: "1", ActualPrice: "free?"})

	assert.Equal(t, 0.0, got.Price)
	assert.Equal(t, got.Price, got.DiscountedPrice)
}

func TestNormalize_PassThrough(t *testing.T) {
	rec := &domain.CatalogRecord{
		ID:              "3",
		Name:            ptr("Blue Widget"),
		Brand:           ptr("Acme"),
		Rating:          "4.2 out of 5",
		HasRating:       true,
		ActualPrice:     "500",
		DiscountedPrice: 450.0,
		ImageLink:       ptr("http://img/3.png"),
		ProductLink:     ptr("http://shop/3"),
	}

	got := Normalize(rec)

	assert.Equal(t, domain.NormalizedProduct{
		ID:              "3",
		Name:            "Blue Widget",
		Brand:           "Acme",
		Rating:          "4.2 out of 5",
		Price:           500,
		DiscountedPrice: 450,
		ImageLink:       "http://img/3.png",
		ProductLink:     "http://shop/3",
	}, got)
}

func TestAll_NeverNil(t *testing.T) {
	assert.NotNil(t, All(nil))
	assert.Len(t, All([]*domain.CatalogRecord{{ID: "1"}, {ID: "2"}}), 2)
}

func TestNormalize_NullRatingStaysNull(t *testing.T) {
	got := Normalize(&domain.CatalogRecord{ID: "1", Rating: nil, HasRating: true})
	assert.Nil(t, got.Rating)

	data, err := json.Marshal(got)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"rating":null`)
}
