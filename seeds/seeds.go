package seeds

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/actuallystonmai/product-search-service/internal/logging"
	"github.com/goccy/go-json"
)

const (
	productCount       = 60
	recommendationsPer = 5
)

type category struct {
	name    string
	brands  []string
	weights []float64
	items   []string
	minMRP  int
	maxMRP  int
}

var categories = []category{
	{
		name:    "Headphones",
		brands:  []string{"boAt", "Sony", "JBL"},
		weights: []float64{0.5, 0.3, 0.2},
		items:   []string{"Wireless Earbuds", "Over-Ear Headphones", "Bluetooth Neckband"},
		minMRP:  999,
		maxMRP:  14999,
	},
	{
		name:    "Chargers",
		brands:  []string{"Anker", "Ambrane", "Mi"},
		weights: []float64{0.3, 0.4, 0.3},
		items:   []string{"Fast Charger", "Power Bank", "USB-C Cable"},
		minMRP:  299,
		maxMRP:  3999,
	},
	{
		name:    "Smartwatches",
		brands:  []string{"Noise", "Fire-Boltt", "Amazfit"},
		weights: []float64{0.4, 0.4, 0.2},
		items:   []string{"Smartwatch", "Fitness Band"},
		minMRP:  1999,
		maxMRP:  12999,
	},
	{
		name:    "Kitchen",
		brands:  []string{"Prestige", "Pigeon", "Philips"},
		weights: []float64{0.4, 0.3, 0.3},
		items:   []string{"Electric Kettle", "Mixer Grinder", "Induction Cooktop"},
		minMRP:  799,
		maxMRP:  6999,
	},
}

type product struct {
	NumericID       int     `json:"product_id_numeric"`
	ProductID       string  `json:"product_id"`
	Name            string  `json:"product_name"`
	Brand           string  `json:"Brand"`
	Category        string  `json:"category"`
	Rating          string  `json:"rating"`
	ActualPrice     string  `json:"actual_price"`
	DiscountedPrice string  `json:"discounted_price"`
	ImageLink       string  `json:"img_link"`
	ProductLink     string  `json:"product_link"`
	popularity      float64
}

type stub struct {
	Name  string  `json:"product_name"`
	Score float64 `json:"score"`
}

// Setup writes a deterministic demo catalog and hybrid recommendation table into dir.
func Setup(dir, catalogFile, recommendationsFile string) error {
	logger := logging.WithComponent("seed")
	rng := rand.New(rand.NewSource(42))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logger.Info().Int("products", productCount).Msg("generating catalog")
	products := seedProducts(rng, productCount)
	if err := writeJSON(filepath.Join(dir, catalogFile), products); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	logger.Info().Msg("generating hybrid recommendations")
	recs := seedRecommendations(products, recommendationsPer)
	if err := writeJSON(filepath.Join(dir, recommendationsFile), recs); err != nil {
		return fmt.Errorf("seed recommendations: %w", err)
	}

	logger.Info().Str("dir", dir).Msg("seeding complete")
	return nil
}

func seedProducts(rng *rand.Rand, n int) []product {
	products := make([]product, 0, n)
	for i := range n {
		cat := categories[i%len(categories)]
		brand := weightedChoice(rng, cat.brands, cat.weights)
		item := cat.items[rng.Intn(len(cat.items))]
		id := i + 1

		mrp := cat.minMRP + rng.Intn(cat.maxMRP-cat.minMRP+1)
		discount := 0.1 + rng.Float64()*0.6
		sale := int(math.Round(float64(mrp) * (1 - discount)))

		products = append(products, product{
			NumericID:       id,
			ProductID:       fmt.Sprintf("B0%08X", rng.Uint32()),
			Name:            fmt.Sprintf("%s %s %d", brand, item, 100+id),
			Brand:           brand,
			Category:        cat.name,
			Rating:          fmt.Sprintf("%.1f", 3.0+rng.Float64()*2.0),
			ActualPrice:     fmt.Sprintf("%d", mrp),
			DiscountedPrice: fmt.Sprintf("%d", sale),
			ImageLink:       fmt.Sprintf("https://img.example.com/products/%d.jpg", id),
			ProductLink:     fmt.Sprintf("https://shop.example.com/p/%d", id),
			popularity:      powerLawScore(rng),
		})
	}
	return products
}

// seedRecommendations ranks same-category products by popularity for each product.
func seedRecommendations(products []product, k int) map[string][]stub {
	byCategory := make(map[string][]product)
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}
	for _, ps := range byCategory {
		sort.SliceStable(ps, func(i, j int) bool {
			return ps[i].popularity > ps[j].popularity
		})
	}

	recs := make(map[string][]stub, len(products))
	for _, p := range products {
		var list []stub
		for _, c := range byCategory[p.Category] {
			if c.NumericID == p.NumericID {
				continue
			}
			list = append(list, stub{Name: c.Name, Score: c.popularity})
			if len(list) == k {
				break
			}
		}
		recs[fmt.Sprint(p.NumericID)] = list
	}
	return recs
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func powerLawScore(rng *rand.Rand) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.001
	}
	raw := math.Pow(u, 2.0)
	if raw < 0.01 {
		raw = 0.01
	}
	return math.Round(raw*100) / 100
}

func weightedChoice(rng *rand.Rand, choices []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
