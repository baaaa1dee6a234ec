package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/propmatch/internal/contracts"
)

// CandidateRepository implements contracts.CandidateSource over PostgreSQL
// ⭐ SSOT: candidate reads live here only
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// ListCandidates returns all evaluable properties for a tenant, ordered by
// id for reproducible matching runs.
func (r *CandidateRepository) ListCandidates(ctx context.Context, orgID string) ([]contracts.Candidate, error) {
	query := `
		SELECT
			id, org_id, title, price,
			roi_pct, trust_score,
			readiness_status, area, property_type, source
		FROM properties
		WHERE org_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []contracts.Candidate
	for rows.Next() {
		var c contracts.Candidate
		err := rows.Scan(
			&c.ID, &c.OrgID, &c.Title, &c.Price,
			&c.ROIPct, &c.TrustScore,
			&c.ReadinessStatus, &c.Area, &c.PropertyType, &c.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}

	return candidates, nil
}
