package domain

import "time"

// Tier names the search strategy that produced a result.
type Tier string

const (
	TierBrand    Tier = "brand"
	TierHybrid   Tier = "hybrid"
	TierFallback Tier = "fallback"
	TierNone     Tier = "none"
)

type SearchResult struct {
	Products []NormalizedProduct `json:"products"`
	Tier     Tier                `json:"tier"`
	CacheHit bool                `json:"-"`
}

// QueryEvent is one served search, recorded for query analytics.
type QueryEvent struct {
	Query       string
	Tier        Tier
	ResultCount int
	SeenAt      time.Time
}

// QueryStat aggregates recorded searches for one query and tier.
type QueryStat struct {
	Query       string    `json:"query"`
	Tier        Tier      `json:"tier"`
	Hits        int64     `json:"hits"`
	LastResults int       `json:"last_results"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}
