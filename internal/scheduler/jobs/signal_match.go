package jobs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/propmatch/internal/signals"
	"github.com/wonny/propmatch/internal/store"
	"github.com/wonny/propmatch/pkg/logger"
)

// SignalMatchJob drains unmapped market signals for every org
// ⭐ SSOT: scheduled signal matching lives in this Job only
type SignalMatchJob struct {
	matcher *signals.Matcher
	pool    *pgxpool.Pool
	limit   int
	logger  *logger.Logger
}

// NewSignalMatchJob creates a new signal match job
func NewSignalMatchJob(matcher *signals.Matcher, pool *pgxpool.Pool, limit int, log *logger.Logger) *SignalMatchJob {
	return &SignalMatchJob{
		matcher: matcher,
		pool:    pool,
		limit:   limit,
		logger:  log,
	}
}

// Name returns the job name
func (j *SignalMatchJob) Name() string {
	return "signal_match"
}

// Schedule returns the cron schedule (every hour, on the hour)
func (j *SignalMatchJob) Schedule() string {
	return "0 0 * * * *" // Hourly (with seconds)
}

// Run walks every org and drains its unmapped signal backlog
func (j *SignalMatchJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled signal matching")

	orgIDs, err := store.ListOrgIDs(ctx, j.pool)
	if err != nil {
		return fmt.Errorf("list orgs: %w", err)
	}

	totalWritten := 0
	totalScanned := 0

	for _, orgID := range orgIDs {
		stats, err := j.matcher.Drain(ctx, orgID, j.limit)
		if err != nil {
			j.logger.WithFields(map[string]interface{}{
				"org_id": orgID,
				"error":  err.Error(),
			}).Error("Signal matching failed for org")
			continue
		}

		totalWritten += stats.WrittenCount
		totalScanned += stats.Scanned
	}

	j.logger.WithFields(map[string]interface{}{
		"orgs":    len(orgIDs),
		"written": totalWritten,
		"scanned": totalScanned,
	}).Info("Scheduled signal matching completed")

	return nil
}
