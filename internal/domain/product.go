package domain

import "github.com/goccy/go-json"

// CatalogRecord is one product as loaded from the catalog artifact.
// Optional text fields are nil when the source record did not carry them;
// numeric fields keep the raw decoded value and are coerced by the normalizer.
type CatalogRecord struct {
	ID              string
	Name            *string
	Brand           *string
	Rating          any
	HasRating       bool
	ActualPrice     any
	DiscountedPrice any
	ImageLink       *string
	ProductLink     *string
}

// NameText is the display name used for matching. A missing name matches nothing.
func (r *CatalogRecord) NameText() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}

// BrandText is the brand as seen by the search tiers. A missing brand renders
// as "None", not the "Generic" display default.
func (r *CatalogRecord) BrandText() string {
	if r.Brand == nil {
		return "None"
	}
	return *r.Brand
}

// Stub references a recommended product by display name.
type Stub struct {
	ProductName *string `json:"product_name"`
}

// UnmarshalJSON accepts any product_name value and keeps it only when it is
// a string, so one mistyped stub leaves the rest of the table intact.
func (s *Stub) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	s.ProductName = nil
	if name, ok := fields["product_name"].(string); ok {
		s.ProductName = &name
	}
	return nil
}

type NormalizedProduct struct {
	ID              string  `json:"p_id"`
	Name            string  `json:"name"`
	Brand           string  `json:"brand"`
	Rating          any     `json:"rating"`
	Price           float64 `json:"prices"`
	DiscountedPrice float64 `json:"discounted_price"`
	ImageLink       string  `json:"img_link"`
	ProductLink     string  `json:"p_link"`
}
