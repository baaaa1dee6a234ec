package store

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/propmatch/internal/contracts"
)

// testPool connects to the database named by TEST_DATABASE_URL, skipping
// the test when it is unset or when -short is given.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	return pool
}

func TestTargetRepository_UpsertIdempotent(t *testing.T) {
	pool := testPool(t)
	repo := NewTargetRepository(pool)
	ctx := context.Background()

	targets := []contracts.SignalTarget{
		{
			OrgID: "test_org", SignalID: "test_sig_1", InvestorID: "test_inv_1",
			RelevanceScore: 0.7, Reason: "test", Status: contracts.TargetStatusPending,
		},
		{
			OrgID: "test_org", SignalID: "test_sig_1", InvestorID: "test_inv_2",
			RelevanceScore: 0.9, Reason: "test", Status: contracts.TargetStatusPending,
		},
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "DELETE FROM signal_targets WHERE org_id = 'test_org'")
	})

	written, err := repo.UpsertTargets(ctx, targets)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	countAfterFirst, err := repo.CountTargets(ctx, "test_org")
	require.NoError(t, err)

	// Same batch again: rows update in place, count stays put
	_, err = repo.UpsertTargets(ctx, targets)
	require.NoError(t, err)

	countAfterSecond, err := repo.CountTargets(ctx, "test_org")
	require.NoError(t, err)
	assert.Equal(t, countAfterFirst, countAfterSecond, "re-running an upsert batch must not add rows")
}

func TestTargetRepository_UpsertEmptyBatch(t *testing.T) {
	pool := testPool(t)
	repo := NewTargetRepository(pool)

	written, err := repo.UpsertTargets(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}

func TestSignalRepository_Pagination(t *testing.T) {
	pool := testPool(t)
	repo := NewSignalRepository(pool)
	ctx := context.Background()

	// Walk whatever is in the table; ids must come back ascending and
	// strictly after the cursor.
	cursor := ""
	for i := 0; i < 10; i++ {
		page, err := repo.ListSignalsAfter(ctx, "test_org", cursor, 50)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, sig := range page {
			assert.Greater(t, sig.ID, cursor)
			cursor = sig.ID
		}
	}
}
