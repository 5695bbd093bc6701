// Package search implements the tiered product query: exact brand match,
// then hybrid recommendations around a name anchor, then a scored keyword
// fallback. The first tier with any result wins.
package search

import (
	"sort"
	"strings"

	"github.com/actuallystonmai/product-search-service/internal/catalog"
	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/actuallystonmai/product-search-service/internal/recommend"
)

// MaxResults caps every tier.
const MaxResults = 20

const (
	nameMatchScore  = 10
	brandMatchScore = 5
)

type strategy struct {
	tier domain.Tier
	run  func(query string) []*domain.CatalogRecord
}

// Engine reads the index and table without mutating them, so one Engine can
// serve concurrent queries.
type Engine struct {
	index *catalog.Index
	recs  *recommend.Table
	tiers []strategy
}

type Result struct {
	Tier    domain.Tier
	Records []*domain.CatalogRecord
}

func NewEngine(index *catalog.Index, recs *recommend.Table) *Engine {
	if index == nil {
		index = catalog.Empty()
	}
	if recs == nil {
		recs = recommend.Empty()
	}

	e := &Engine{index: index, recs: recs}
	e.tiers = []strategy{
		{tier: domain.TierBrand, run: e.brandMatch},
		{tier: domain.TierHybrid, run: e.hybridMatch},
		{tier: domain.TierFallback, run: e.scoredFallback},
	}
	return e
}

// NormalizeQuery case-folds and trims a raw query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Search runs the tiers in priority order. An empty query returns TierNone
// without scanning.
func (e *Engine) Search(query string) Result {
	q := NormalizeQuery(query)
	if q == "" {
		return Result{Tier: domain.TierNone}
	}

	for _, t := range e.tiers {
		if records := t.run(q); len(records) > 0 {
			return Result{Tier: t.tier, Records: truncate(records)}
		}
	}
	return Result{Tier: domain.TierNone}
}

// brandMatch returns records whose whole brand equals the query.
func (e *Engine) brandMatch(q string) []*domain.CatalogRecord {
	var out []*domain.CatalogRecord
	for r := range e.index.All() {
		if strings.ToLower(r.BrandText()) == q {
			out = append(out, r)
			if len(out) == MaxResults {
				break
			}
		}
	}
	return out
}

// hybridMatch anchors on the first record whose name contains the query and
// resolves its recommendation stubs by display name. Unresolvable stubs are skipped.
func (e *Engine) hybridMatch(q string) []*domain.CatalogRecord {
	anchor := e.anchor(q)
	if anchor == nil {
		return nil
	}

	stubs, ok := e.recs.For(anchor.ID)
	if !ok {
		return nil
	}

	var out []*domain.CatalogRecord
	for _, stub := range stubs {
		if stub.ProductName == nil {
			continue
		}
		if r, ok := e.index.Lookup(*stub.ProductName); ok {
			out = append(out, r)
		}
	}
	return out
}

func (e *Engine) anchor(q string) *domain.CatalogRecord {
	for r := range e.index.All() {
		if strings.Contains(strings.ToLower(r.NameText()), q) {
			return r
		}
	}
	return nil
}

type scored struct {
	score  int
	record *domain.CatalogRecord
}

func (e *Engine) scoredFallback(q string) []*domain.CatalogRecord {
	var hits []scored
	for r := range e.index.All() {
		if s := score(r, q); s > 0 {
			hits = append(hits, scored{score: s, record: r})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]*domain.CatalogRecord, 0, min(len(hits), MaxResults))
	for _, h := range truncate(hits) {
		out = append(out, h.record)
	}
	return out
}

// score adds the name and brand substring weights.
func score(r *domain.CatalogRecord, q string) int {
	s := 0
	if strings.Contains(strings.ToLower(r.NameText()), q) {
		s += nameMatchScore
	}
	if strings.Contains(strings.ToLower(r.BrandText()), q) {
		s += brandMatchScore
	}
	return s
}

func truncate[T any](s []T) []T {
	if len(s) > MaxResults {
		return s[:MaxResults]
	}
	return s
}
