package search

import (
	"fmt"
	"testing"

	"github.com/actuallystonmai/product-search-service/internal/catalog"
	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/actuallystonmai/product-search-service/internal/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func product(id, name, brand string) *domain.CatalogRecord {
	return &domain.CatalogRecord{ID: id, Name: ptr(name), Brand: ptr(brand)}
}

func resultIDs(res Result) []string {
	out := make([]string, 0, len(res.Records))
	for _, r := range res.Records {
		out = append(out, r.ID)
	}
	return out
}

func stubs(names ...string) []domain.Stub {
	out := make([]domain.Stub, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Stub{ProductName: ptr(n)})
	}
	return out
}

func widgetEngine(recs map[string][]domain.Stub) *Engine {
	ix := catalog.Build([]*domain.CatalogRecord{
		product("1", "Blue Widget", "Acme"),
		product("2", "Red Widget", "Acme"),
	})
	return NewEngine(ix, recommend.New(recs))
}

func TestSearch_BrandTier(t *testing.T) {
	res := widgetEngine(nil).Search("acme")

	assert.Equal(t, domain.TierBrand, res.Tier)
	assert.Equal(t, []string{"1", "2"}, resultIDs(res))
}

func TestSearch_BrandTierIsExactNotSubstring(t *testing.T) {
	res := widgetEngine(nil).Search("acm")

	// "acm" only reaches the fallback through the brand substring.
	assert.Equal(t, domain.TierFallback, res.Tier)
	assert.Equal(t, []string{"1", "2"}, resultIDs(res))
}

func TestSearch_HybridTier(t *testing.T) {
	e := widgetEngine(map[string][]domain.Stub{"1": stubs("Red Widget")})

	res := e.Search("blue")

	assert.Equal(t, domain.TierHybrid, res.Tier)
	assert.Equal(t, []string{"2"}, resultIDs(res))
}

func TestSearch_HybridSkipsUnresolvedStubs(t *testing.T) {
	e := widgetEngine(map[string][]domain.Stub{
		"1": append(stubs("Gone Widget", "Red Widget"), domain.Stub{}),
	})

	res := e.Search("blue")

	assert.Equal(t, domain.TierHybrid, res.Tier)
	assert.Equal(t, []string{"2"}, resultIDs(res))
}

func TestSearch_HybridUsesFirstAnchorOnly(t *testing.T) {
	// Both names contain "widget"; only the first anchor's stubs count, and it has none.
	e := widgetEngine(map[string][]domain.Stub{"2": stubs("Blue Widget")})

	res := e.Search("widget")

	assert.Equal(t, domain.TierFallback, res.Tier)
	assert.Equal(t, []string{"1", "2"}, resultIDs(res))
}

func TestSearch_HybridNoResolvedStubsFallsThrough(t *testing.T) {
	e := widgetEngine(map[string][]domain.Stub{"1": stubs("Nothing Like It")})

	res := e.Search("blue")

	assert.Equal(t, domain.TierFallback, res.Tier)
	assert.Equal(t, []string{"1"}, resultIDs(res))
}

func TestSearch_NoMatch(t *testing.T) {
	res := widgetEngine(nil).Search("zzz")

	assert.Equal(t, domain.TierNone, res.Tier)
	assert.Empty(t, res.Records)
}

func TestSearch_EmptyQuery(t *testing.T) {
	e := widgetEngine(nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		res := e.Search(q)
		assert.Equal(t, domain.TierNone, res.Tier)
		assert.Empty(t, res.Records)
	}
}

func TestSearch_QueryIsTrimmedAndFolded(t *testing.T) {
	res := widgetEngine(nil).Search("  ACME ")

	assert.Equal(t, domain.TierBrand, res.Tier)
	assert.Len(t, res.Records, 2)
}

func TestSearch_EmptyCatalog(t *testing.T) {
	e := NewEngine(catalog.Empty(), recommend.Empty())

	for _, q := range []string{"acme", "widget", "x"} {
		assert.Empty(t, e.Search(q).Records)
	}
	assert.Empty(t, NewEngine(nil, nil).Search("acme").Records)
}

func TestSearch_BrandShortCircuitsNameMatches(t *testing.T) {
	ix := catalog.Build([]*domain.CatalogRecord{
		product("1", "Sony Headphones", "Boat"),
		product("2", "Speaker", "Sony"),
	})
	e := NewEngine(ix, recommend.New(map[string][]domain.Stub{"1": stubs("Speaker")}))

	res := e.Search("sony")

	assert.Equal(t, domain.TierBrand, res.Tier)
	assert.Equal(t, []string{"2"}, resultIDs(res))
}

func TestSearch_FallbackScoring(t *testing.T) {
	ix := catalog.Build([]*domain.CatalogRecord{
		product("1", "Cable", "Boat"),
		product("2", "Boat Rockerz", "Boatman"),
		product("3", "Boat Airdopes", "Imagine"),
		product("4", "Charger", "Anker"),
	})
	e := NewEngine(ix, recommend.Empty())

	res := e.Search("oat")

	assert.Equal(t, domain.TierFallback, res.Tier)
	assert.Equal(t, []string{"2", "3", "1"}, resultIDs(res))

	r, _ := ix.Get("2")
	assert.Equal(t, 15, score(r, "oat"))
}

func TestSearch_FallbackStableTies(t *testing.T) {
	ix := catalog.Build([]*domain.CatalogRecord{
		product("a", "Lamp One", "X"),
		product("b", "Desk", "Lampco"),
		product("c", "Lamp Two", "Y"),
		product("d", "Lamp Three", "Z"),
	})

	res := NewEngine(ix, recommend.Empty()).Search("lamp")

	assert.Equal(t, domain.TierFallback, res.Tier)
	assert.Equal(t, []string{"a", "c", "d", "b"}, resultIDs(res))
}

func TestSearch_ResultsCapped(t *testing.T) {
	var records []*domain.CatalogRecord
	var names []string
	for i := range 50 {
		name := fmt.Sprintf("Gadget %02d", i)
		records = append(records, product(fmt.Sprint(i), name, "Mega"))
		names = append(names, name)
	}
	ix := catalog.Build(records)
	e := NewEngine(ix, recommend.New(map[string][]domain.Stub{"0": stubs(names...)}))

	brand := e.Search("mega")
	require.Equal(t, domain.TierBrand, brand.Tier)
	assert.Len(t, brand.Records, MaxResults)
	assert.Equal(t, "0", brand.Records[0].ID)

	hybrid := e.Search("gadget 00")
	require.Equal(t, domain.TierHybrid, hybrid.Tier)
	assert.Len(t, hybrid.Records, MaxResults)

	fallback := e.Search("ega")
	require.Equal(t, domain.TierFallback, fallback.Tier)
	assert.Len(t, fallback.Records, MaxResults)
	assert.Equal(t, "0", fallback.Records[0].ID)
}

func TestSearch_MissingBrandRendersAsNone(t *testing.T) {
	ix := catalog.Build([]*domain.CatalogRecord{
		{ID: "1", Name: ptr("Mystery Box")},
		product("2", "Known Box", "Acme"),
	})

	res := NewEngine(ix, recommend.Empty()).Search("none")

	assert.Equal(t, domain.TierBrand, res.Tier)
	assert.Equal(t, []string{"1"}, resultIDs(res))
}

func TestScore(t *testing.T) {
	r := product("1", "Acme Anvil", "Acme")

	assert.Equal(t, 15, score(r, "acme"))
	assert.Equal(t, 10, score(r, "anvil"))
	assert.Equal(t, 0, score(r, "rocket"))
}
