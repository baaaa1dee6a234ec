package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/propmatch/internal/contracts"
)

// ErrInvestorNotFound is returned when an investor id has no record
var ErrInvestorNotFound = errors.New("investor not found")

// InvestorRepository implements contracts.InvestorSource over PostgreSQL.
// Mandate columns are nullable; partial mandates come back as raw records
// with nil fields rather than errors, and the resolver applies defaults.
type InvestorRepository struct {
	pool *pgxpool.Pool
}

// NewInvestorRepository creates a new investor repository
func NewInvestorRepository(pool *pgxpool.Pool) *InvestorRepository {
	return &InvestorRepository{pool: pool}
}

// GetInvestor returns one investor with raw mandate and holdings
func (r *InvestorRepository) GetInvestor(ctx context.Context, investorID string) (*contracts.Investor, error) {
	query := `
		SELECT
			id, org_id, name,
			preferred_areas, property_types,
			budget_min, budget_max, yield_target,
			risk_tolerance, min_trust_score, require_verification
		FROM investors
		WHERE id = $1
	`

	inv, err := r.scanInvestor(r.pool.QueryRow(ctx, query, investorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrInvestorNotFound, investorID)
		}
		return nil, fmt.Errorf("failed to get investor %s: %w", investorID, err)
	}

	holdings, err := r.loadHoldings(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Holdings = holdings

	return inv, nil
}

// ListInvestors returns all investors for a tenant with their holdings
func (r *InvestorRepository) ListInvestors(ctx context.Context, orgID string) ([]contracts.Investor, error) {
	query := `
		SELECT
			id, org_id, name,
			preferred_areas, property_types,
			budget_min, budget_max, yield_target,
			risk_tolerance, min_trust_score, require_verification
		FROM investors
		WHERE org_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investors: %w", err)
	}
	defer rows.Close()

	var investors []contracts.Investor
	for rows.Next() {
		inv, err := r.scanInvestor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investor row: %w", err)
		}
		investors = append(investors, *inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investor rows: %w", err)
	}

	for i := range investors {
		holdings, err := r.loadHoldings(ctx, investors[i].ID)
		if err != nil {
			return nil, err
		}
		investors[i].Holdings = holdings
	}

	return investors, nil
}

func (r *InvestorRepository) scanInvestor(row pgx.Row) (*contracts.Investor, error) {
	var inv contracts.Investor
	var yieldTarget, riskTolerance *string

	err := row.Scan(
		&inv.ID, &inv.OrgID, &inv.Name,
		&inv.Mandate.PreferredAreas, &inv.Mandate.PropertyTypes,
		&inv.Mandate.BudgetMin, &inv.Mandate.BudgetMax, &yieldTarget,
		&riskTolerance, &inv.Mandate.MinTrustScore, &inv.Mandate.RequireVerification,
	)
	if err != nil {
		return nil, err
	}

	if yieldTarget != nil {
		inv.Mandate.YieldTarget = *yieldTarget
	}
	if riskTolerance != nil {
		inv.Mandate.RiskTolerance = *riskTolerance
	}

	return &inv, nil
}

func (r *InvestorRepository) loadHoldings(ctx context.Context, investorID string) ([]contracts.Holding, error) {
	query := `
		SELECT property_id, area
		FROM investor_holdings
		WHERE investor_id = $1
		ORDER BY property_id
	`

	rows, err := r.pool.Query(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings for %s: %w", investorID, err)
	}
	defer rows.Close()

	var holdings []contracts.Holding
	for rows.Next() {
		var h contracts.Holding
		if err := rows.Scan(&h.PropertyID, &h.Area); err != nil {
			return nil, fmt.Errorf("failed to scan holding row: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding rows: %w", err)
	}

	return holdings, nil
}
