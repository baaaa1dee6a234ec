package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/propmatch/internal/contracts"
)

// SignalRepository implements contracts.SignalFeed over PostgreSQL
// ⭐ SSOT: signal reads live here only
type SignalRepository struct {
	pool *pgxpool.Pool
}

// NewSignalRepository creates a new signal repository
func NewSignalRepository(pool *pgxpool.Pool) *SignalRepository {
	return &SignalRepository{pool: pool}
}

// ListSignalsAfter returns up to limit signals with id > afterID, ascending
// by id. The caller drives cursor pagination with the last id it saw.
func (r *SignalRepository) ListSignalsAfter(ctx context.Context, orgID, afterID string, limit int) ([]contracts.MarketSignal, error) {
	query := `
		SELECT
			id, org_id, source_type, source, type,
			geo_type, geo_id, geo_name, segment, metric, timeframe,
			current_value, prev_value, delta_pct,
			confidence_score, match_count, signal_key
		FROM market_signals
		WHERE org_id = $1 AND id > $2
		ORDER BY id
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, orgID, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []contracts.MarketSignal
	for rows.Next() {
		var s contracts.MarketSignal
		err := rows.Scan(
			&s.ID, &s.OrgID, &s.SourceType, &s.Source, &s.Type,
			&s.GeoType, &s.GeoID, &s.GeoName, &s.Segment, &s.Metric, &s.Timeframe,
			&s.CurrentValue, &s.PrevValue, &s.DeltaPct,
			&s.ConfidenceScore, &s.MatchCount, &s.SignalKey,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal row: %w", err)
		}
		signals = append(signals, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signal rows: %w", err)
	}

	return signals, nil
}

// MappedSignalIDs returns the subset of signalIDs that already have at
// least one target row for the org. One round trip per page.
func (r *SignalRepository) MappedSignalIDs(ctx context.Context, orgID string, signalIDs []string) (map[string]bool, error) {
	if len(signalIDs) == 0 {
		return map[string]bool{}, nil
	}

	query := `
		SELECT DISTINCT signal_id
		FROM signal_targets
		WHERE org_id = $1 AND signal_id = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, orgID, signalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query mapped signals: %w", err)
	}
	defer rows.Close()

	mapped := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan mapped signal id: %w", err)
		}
		mapped[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mapped signal rows: %w", err)
	}

	return mapped, nil
}
