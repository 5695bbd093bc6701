package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/product-search-service/internal/domain"
)

// RecordQuery adds one hit to the (query, tier) aggregate.
func (r *Repository) RecordQuery(ctx context.Context, ev domain.QueryEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO search_queries (query, tier, hits, last_results, last_seen_at)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (query, tier) DO UPDATE
			SET hits = search_queries.hits + 1,
			    last_results = EXCLUDED.last_results,
			    last_seen_at = GREATEST(search_queries.last_seen_at, EXCLUDED.last_seen_at)`,
		ev.Query, string(ev.Tier), ev.ResultCount, ev.SeenAt,
	)
	if err != nil {
		return fmt.Errorf("record query %q: %w", ev.Query, err)
	}
	return nil
}

// TopQueries returns the most frequent queries, most hits first.
func (r *Repository) TopQueries(ctx context.Context, limit int) ([]domain.QueryStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT query, tier, hits, last_results, last_seen_at
		FROM search_queries
		ORDER BY hits DESC, last_seen_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top searches: %w", err)
	}
	defer rows.Close()

	stats := []domain.QueryStat{}
	for rows.Next() {
		var s domain.QueryStat
		var tier string
		if err := rows.Scan(&s.Query, &tier, &s.Hits, &s.LastResults, &s.LastSeenAt); err != nil {
			return nil, fmt.Errorf("scan search query: %w", err)
		}
		s.Tier = domain.Tier(tier)
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search queries: %w", err)
	}
	return stats, nil
}
