package service

import (
	"context"
	"time"

	"github.com/actuallystonmai/product-search-service/internal/catalog"
	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/actuallystonmai/product-search-service/internal/logging"
	"github.com/actuallystonmai/product-search-service/internal/metrics"
	"github.com/actuallystonmai/product-search-service/internal/normalize"
	"github.com/actuallystonmai/product-search-service/internal/recommend"
	"github.com/actuallystonmai/product-search-service/internal/search"
	"github.com/rs/zerolog"
)

const (
	topProductsLimit  = search.MaxResults
	defaultTopQueries = 10
	maxTopQueries     = 100
)

type ResultCache interface {
	Get(ctx context.Context, query string) (*domain.SearchResult, bool, error)
	Set(ctx context.Context, query string, res *domain.SearchResult) error
}

type QueryRecorder interface {
	Record(ev domain.QueryEvent)
}

type QueryStats interface {
	TopQueries(ctx context.Context, limit int) ([]domain.QueryStat, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the optional collaborators of a Service. Nil fields disable the feature.
type Deps struct {
	Cache    ResultCache
	Recorder QueryRecorder
	Stats    QueryStats

	// Database and CacheBackend are pinged by Dependencies.
	Database     Pinger
	CacheBackend Pinger
}

type Service struct {
	index  *catalog.Index
	recs   *recommend.Table
	engine *search.Engine
	deps   Deps
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(index *catalog.Index, recs *recommend.Table, deps Deps) *Service {
	if index == nil {
		index = catalog.Empty()
	}
	if recs == nil {
		recs = recommend.Empty()
	}

	return &Service{
		index:  index,
		recs:   recs,
		engine: search.NewEngine(index, recs),
		deps:   deps,
		logger: logging.WithComponent("service"),
		now:    time.Now,
	}
}

// Search answers a raw query. It always returns a result; cache and query
// log failures are logged and otherwise ignored.
func (s *Service) Search(ctx context.Context, query string) *domain.SearchResult {
	q := search.NormalizeQuery(query)
	if q == "" {
		return &domain.SearchResult{Products: []domain.NormalizedProduct{}, Tier: domain.TierNone}
	}

	start := s.now()
	res := s.lookup(ctx, q)
	metrics.RecordSearch(string(res.Tier), len(res.Products), s.now().Sub(start).Seconds())

	if s.deps.Recorder != nil {
		s.deps.Recorder.Record(domain.QueryEvent{
			Query:       q,
			Tier:        res.Tier,
			ResultCount: len(res.Products),
			SeenAt:      start.UTC(),
		})
	}
	return res
}

func (s *Service) lookup(ctx context.Context, q string) *domain.SearchResult {
	if s.deps.Cache != nil {
		cached, found, err := s.deps.Cache.Get(ctx, q)
		if err != nil {
			metrics.CacheErrors.WithLabelValues("get").Inc()
			s.logger.Warn().Err(err).Str("query", q).Msg("cache get error")
		}
		if found {
			metrics.CacheHits.Inc()
			if cached.Products == nil {
				cached.Products = []domain.NormalizedProduct{}
			}
			cached.CacheHit = true
			return cached
		}
		metrics.CacheMisses.Inc()
	}

	r := s.engine.Search(q)
	res := &domain.SearchResult{
		Products: normalize.All(r.Records),
		Tier:     r.Tier,
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, q, res); err != nil {
			metrics.CacheErrors.WithLabelValues("set").Inc()
			s.logger.Warn().Err(err).Str("query", q).Msg("cache set error")
		}
	}
	return res
}

// TopProducts returns the first products of the catalog in load order.
func (s *Service) TopProducts() []domain.NormalizedProduct {
	return normalize.All(s.index.First(topProductsLimit))
}

// TopQueries returns the most frequent recorded searches.
func (s *Service) TopQueries(ctx context.Context, limit int) ([]domain.QueryStat, error) {
	if s.deps.Stats == nil {
		return nil, domain.ErrQueryLogDisabled
	}
	if limit <= 0 {
		limit = defaultTopQueries
	} else if limit > maxTopQueries {
		limit = maxTopQueries
	}
	return s.deps.Stats.TopQueries(ctx, limit)
}

// Dependencies reports "ok" or "unavailable" for each configured backend.
// It returns nil when none is configured.
func (s *Service) Dependencies(ctx context.Context) map[string]string {
	checks := map[string]Pinger{
		"database": s.deps.Database,
		"cache":    s.deps.CacheBackend,
	}

	var status map[string]string
	for name, p := range checks {
		if p == nil {
			continue
		}
		if status == nil {
			status = make(map[string]string, len(checks))
		}
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
			status[name] = "unavailable"
			continue
		}
		status[name] = "ok"
	}
	return status
}

func (s *Service) ProductCount() int {
	return s.index.Len()
}

func (s *Service) RecommendationCount() int {
	return s.recs.Len()
}
