package contracts

// MarketSignal is one deduplicated market intelligence observation.
// Ingestion (and SignalKey assignment) happens upstream; the engine only
// reads signals and writes relevance targets.
type MarketSignal struct {
	ID              string  `json:"id"`
	OrgID           string  `json:"org_id"`
	SourceType      string  `json:"source_type"`
	Source          string  `json:"source"`
	Type            string  `json:"type"`
	GeoType         string  `json:"geo_type"`
	GeoID           string  `json:"geo_id"`
	GeoName         string  `json:"geo_name"`
	Segment         string  `json:"segment"`
	Metric          string  `json:"metric"`
	Timeframe       string  `json:"timeframe"`
	CurrentValue    float64 `json:"current_value"`
	PrevValue       float64 `json:"prev_value"`
	DeltaPct        float64 `json:"delta_pct"`
	ConfidenceScore float64 `json:"confidence_score"`
	MatchCount      int     `json:"match_count"` // externally computed listing matches
	SignalKey       string  `json:"signal_key"`  // unique per logical observation
}

// RelevanceTier classifies how pertinent a signal is to an investor
type RelevanceTier string

const (
	TierPortfolio RelevanceTier = "portfolio" // signal touches an owned area
	TierMandate   RelevanceTier = "mandate"   // signal touches a preferred area
	TierGeneral   RelevanceTier = "general"   // broadly relevant via match count
)

// TargetStatus is the lifecycle state of a signal target row
type TargetStatus string

const (
	TargetStatusPending TargetStatus = "pending"
	TargetStatusSeen    TargetStatus = "seen"
)

// SignalTarget maps a signal to a relevant investor. At most one row per
// (OrgID, SignalID, InvestorID); later runs upsert in place.
type SignalTarget struct {
	OrgID          string       `json:"org_id"`
	SignalID       string       `json:"signal_id"`
	InvestorID     string       `json:"investor_id"`
	RelevanceScore float64      `json:"relevance_score"`
	Reason         string       `json:"reason"`
	Status         TargetStatus `json:"status"`
}

// MatchStats summarizes one signal matcher pass.
// NextCursor is nil when the feed is exhausted.
type MatchStats struct {
	WrittenCount int     `json:"written_count"`
	Scanned      int     `json:"scanned"`
	Unmapped     int     `json:"unmapped"`
	NextCursor   *string `json:"next_cursor"`
}
