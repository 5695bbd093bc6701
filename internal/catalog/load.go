package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/actuallystonmai/product-search-service/internal/logging"
	"github.com/goccy/go-json"
)

// Raw catalog field names.
const (
	fieldNumericID   = "product_id_numeric"
	fieldID          = "product_id"
	fieldName        = "product_name"
	fieldBrand       = "Brand"
	fieldRating      = "rating"
	fieldActualPrice = "actual_price"
	fieldDiscounted  = "discounted_price"
	fieldImageLink   = "img_link"
	fieldProductLink = "product_link"
)

var errUnexpectedDelim = errors.New("unexpected closing delimiter")

// Resolve returns the first candidate file that exists under dir, or "".
func Resolve(dir string, candidates []string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads the catalog from the first existing candidate in dir. Missing
// data and malformed files are logged and yield an empty index.
func Load(dir string, candidates []string) *Index {
	logger := logging.WithComponent("catalog")

	if _, err := os.Stat(dir); err != nil {
		logger.Warn().Str("dir", dir).Msg("data directory not found, catalog is empty")
		return Empty()
	}

	path := Resolve(dir, candidates)
	if path == "" {
		logger.Warn().Str("dir", dir).Strs("candidates", candidates).Msg("no catalog file found, catalog is empty")
		return Empty()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to read catalog")
		return Empty()
	}

	ix, err := Parse(data)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to parse catalog")
		return Empty()
	}

	logger.Info().Str("path", path).Int("products", ix.Len()).Msg("catalog loaded")
	return ix
}

// Parse builds an index from a JSON list of records or a JSON object whose
// values are records. Keys of the object form are discarded, entries that are
// not objects are skipped, and records without an identifier are dropped.
func Parse(data []byte) (*Index, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// A scalar document holds no records.
		return Empty(), nil
	}
	if delim != '[' && delim != '{' {
		return nil, errUnexpectedDelim
	}

	var records []*domain.CatalogRecord
	for n := 0; dec.More(); n++ {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("read catalog key: %w", err)
			}
		}

		var item any
		if err := dec.Decode(&item); err != nil {
			return nil, fmt.Errorf("decode catalog entry %d: %w", n, err)
		}

		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if r, ok := recordFromFields(fields); ok {
			records = append(records, r)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read catalog end: %w", err)
	}

	return Build(records), nil
}

func recordFromFields(f map[string]any) (*domain.CatalogRecord, bool) {
	id, ok := deriveID(f)
	if !ok {
		return nil, false
	}

	rating, hasRating := f[fieldRating]

	return &domain.CatalogRecord{
		ID:              id,
		Name:            optionalText(f, fieldName),
		Brand:           optionalText(f, fieldBrand),
		Rating:          rating,
		HasRating:       hasRating,
		ActualPrice:     f[fieldActualPrice],
		DiscountedPrice: f[fieldDiscounted],
		ImageLink:       optionalText(f, fieldImageLink),
		ProductLink:     optionalText(f, fieldProductLink),
	}, true
}

// deriveID prefers the numeric product id. A present but null field does not
// fall through to the next one.
func deriveID(f map[string]any) (string, bool) {
	v, found := f[fieldNumericID]
	if !found {
		v, found = f[fieldID]
	}
	if !found || v == nil {
		return "", false
	}
	return text(v), true
}

func optionalText(f map[string]any, key string) *string {
	v, ok := f[key]
	if !ok || v == nil {
		return nil
	}
	s := text(v)
	return &s
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return string(t)
	case bool:
		if t {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(t)
	}
}
