package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/propmatch/internal/contracts"
)

// TargetRepository implements contracts.TargetSink over PostgreSQL
// ⭐ SSOT: signal target writes live here only
type TargetRepository struct {
	pool *pgxpool.Pool
}

// NewTargetRepository creates a new target repository
func NewTargetRepository(pool *pgxpool.Pool) *TargetRepository {
	return &TargetRepository{pool: pool}
}

// UpsertTargets writes a batch of signal targets in one transaction. The
// conflict target is the (org_id, signal_id, investor_id) primary key:
// re-running the same batch updates in place and never duplicates rows.
// Existence is never checked first; the storage layer's conflict
// resolution does the work.
func (r *TargetRepository) UpsertTargets(ctx context.Context, targets []contracts.SignalTarget) (int, error) {
	if len(targets) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO signal_targets (
			org_id, signal_id, investor_id,
			relevance_score, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (org_id, signal_id, investor_id) DO UPDATE SET
			relevance_score = EXCLUDED.relevance_score,
			reason = EXCLUDED.reason,
			status = EXCLUDED.status,
			updated_at = NOW()
	`

	written := 0
	for _, t := range targets {
		_, err := tx.Exec(ctx, query,
			t.OrgID, t.SignalID, t.InvestorID,
			t.RelevanceScore, t.Reason, t.Status,
		)
		if err != nil {
			return written, fmt.Errorf("failed to upsert target %s/%s/%s: %w",
				t.OrgID, t.SignalID, t.InvestorID, err)
		}
		written++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit targets: %w", err)
	}

	return written, nil
}

// CountTargets returns the number of target rows for an org. Used by
// operational tooling to verify idempotent re-runs.
func (r *TargetRepository) CountTargets(ctx context.Context, orgID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM signal_targets WHERE org_id = $1", orgID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count targets: %w", err)
	}
	return count, nil
}

// ListOrgIDs returns the distinct org ids present in the signal feed.
// The scheduler walks this list on each recurring run.
func ListOrgIDs(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx, "SELECT DISTINCT org_id FROM market_signals ORDER BY org_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query org ids: %w", err)
	}
	defer rows.Close()

	var orgs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan org id: %w", err)
		}
		orgs = append(orgs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating org ids: %w", err)
	}

	return orgs, nil
}
