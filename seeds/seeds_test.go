package seeds

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/actuallystonmai/product-search-service/internal/catalog"
	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/actuallystonmai/product-search-service/internal/recommend"
	"github.com/actuallystonmai/product-search-service/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_LoadsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Setup(dir, "product_matrix.json", "precomputed_hybrid.json"))

	ix := catalog.Load(dir, []string{"product_matrix.json"})
	recs := recommend.Load(filepath.Join(dir, "precomputed_hybrid.json"))

	assert.Equal(t, productCount, ix.Len())
	assert.Equal(t, productCount, recs.Len())

	stubs, ok := recs.For("1")
	require.True(t, ok)
	assert.Len(t, stubs, recommendationsPer)
	for _, s := range stubs {
		_, ok := ix.Lookup(*s.ProductName)
		assert.True(t, ok, "stub %q should resolve", *s.ProductName)
	}

	first := ix.First(1)[0]
	res := search.NewEngine(ix, recs).Search(first.NameText())
	assert.Equal(t, domain.TierHybrid, res.Tier)
	assert.Len(t, res.Records, recommendationsPer)
}

func TestSetup_Deterministic(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, Setup(a, "c.json", "r.json"))
	require.NoError(t, Setup(b, "c.json", "r.json"))

	for _, name := range []string{"c.json", "r.json"} {
		da, err := os.ReadFile(filepath.Join(a, name))
		require.NoError(t, err)
		db, err := os.ReadFile(filepath.Join(b, name))
		require.NoError(t, err)
		assert.Equal(t, da, db, name)
	}
}

func TestWeightedChoice(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	counts := map[string]int{}
	for range 1000 {
		counts[weightedChoice(rng, []string{"a", "b"}, []float64{0.9, 0.1})]++
	}
	assert.Greater(t, counts["a"], counts["b"])
}

func TestPowerLawScore(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 100 {
		s := powerLawScore(rng)
		assert.GreaterOrEqual(t, s, 0.01)
		assert.LessOrEqual(t, s, 1.0)
	}
}
