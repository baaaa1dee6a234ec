package signals

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/wonny/propmatch/internal/contracts"
	"github.com/wonny/propmatch/internal/mandate"
	"github.com/wonny/propmatch/pkg/logger"
)

// MatcherConfig tunes the batch scan behavior
type MatcherConfig struct {
	// ScanFloor is the minimum page size when over-scanning. Mapped signals
	// are filtered out after the read, so the feed is always read in larger
	// batches than the requested limit.
	ScanFloor int

	// UpsertRatePerSec throttles upsert batches against the shared store.
	// Zero means unlimited.
	UpsertRatePerSec int

	// DefaultLimit applies when a caller passes limit <= 0
	DefaultLimit int

	Tiers TierScores
}

// DefaultMatcherConfig returns the default scan policy
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		ScanFloor:        200,
		UpsertRatePerSec: 20,
		DefaultLimit:     50,
		Tiers:            DefaultTierScores(),
	}
}

// Matcher maps unmapped market signals to relevant investors in batches
// ⭐ SSOT: the signal relevance pipeline lives here only
type Matcher struct {
	cfg       MatcherConfig
	feed      contracts.SignalFeed
	sink      contracts.TargetSink
	investors contracts.InvestorSource
	resolver  *mandate.Resolver
	limiter   *rate.Limiter
	logger    *logger.Logger
}

// NewMatcher creates a signal relevance matcher
func NewMatcher(
	cfg MatcherConfig,
	feed contracts.SignalFeed,
	sink contracts.TargetSink,
	investors contracts.InvestorSource,
	resolver *mandate.Resolver,
	log *logger.Logger,
) *Matcher {
	limit := rate.Inf
	if cfg.UpsertRatePerSec > 0 {
		limit = rate.Limit(cfg.UpsertRatePerSec)
	}

	return &Matcher{
		cfg:       cfg,
		feed:      feed,
		sink:      sink,
		investors: investors,
		resolver:  resolver,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    log,
	}
}

type investorState struct {
	id      string
	mandate contracts.Mandate
	conc    map[string]int
}

// MatchUnmapped collects up to limit unmapped signals for the org, maps
// each against every investor, and upserts the resulting targets. The
// returned cursor resumes the scan; nil means the feed is exhausted.
//
// Each page's upserts are issued before the cursor derived from that page
// is surfaced, so a crash mid-run resumes from a safe cursor rather than
// skipping unmapped signals. The upsert conflict key makes re-runs and
// concurrent runs idempotent in effect.
func (m *Matcher) MatchUnmapped(ctx context.Context, orgID string, limit int, cursor string) (*contracts.MatchStats, error) {
	if limit <= 0 {
		limit = m.cfg.DefaultLimit
	}

	runID := uuid.NewString()
	log := m.logger.WithFields(map[string]interface{}{
		"run": runID,
		"org": orgID,
	})

	states, err := m.loadInvestorStates(ctx, orgID)
	if err != nil {
		return nil, err
	}

	// Over-scan: the feed itself has no "unmapped" index, so pages are read
	// larger than the limit and filtered after the fact.
	batchSize := limit * 3
	if batchSize < m.cfg.ScanFloor {
		batchSize = m.cfg.ScanFloor
	}

	stats := &contracts.MatchStats{}
	seen := make(map[string]bool) // target keys written this run
	collected := 0

	for {
		page, err := m.feed.ListSignalsAfter(ctx, orgID, cursor, batchSize)
		if err != nil {
			return stats, fmt.Errorf("failed to read signal page after %q: %w", cursor, err)
		}
		if len(page) == 0 {
			stats.NextCursor = nil
			break
		}

		ids := make([]string, len(page))
		for i, sig := range page {
			ids[i] = sig.ID
		}
		mapped, err := m.feed.MappedSignalIDs(ctx, orgID, ids)
		if err != nil {
			return stats, fmt.Errorf("failed to check mapped signals: %w", err)
		}

		var pageTargets []contracts.SignalTarget
		lastScanned := cursor
		reachedLimit := false

		for _, sig := range page {
			lastScanned = sig.ID
			stats.Scanned++

			if mapped[sig.ID] {
				continue
			}
			stats.Unmapped++
			collected++

			for _, st := range states {
				rel, ok := Classify(&sig, &st.mandate, st.conc, m.cfg.Tiers)
				if !ok {
					continue
				}
				key := TargetKey(orgID, sig.ID, st.id)
				if seen[key] {
					continue
				}
				seen[key] = true

				pageTargets = append(pageTargets, contracts.SignalTarget{
					OrgID:          orgID,
					SignalID:       sig.ID,
					InvestorID:     st.id,
					RelevanceScore: rel.Score,
					Reason:         rel.Reason,
					Status:         contracts.TargetStatusPending,
				})
			}

			if collected >= limit {
				reachedLimit = true
				break
			}
		}

		// Issue this page's writes before the cursor moves past it
		if len(pageTargets) > 0 {
			if err := m.limiter.Wait(ctx); err != nil {
				return stats, err
			}
			n, err := m.sink.UpsertTargets(ctx, pageTargets)
			if err != nil {
				// Already-written rows within the batch stay; the upsert key
				// makes a retry of this page safe.
				return stats, fmt.Errorf("failed to upsert targets: %w", err)
			}
			stats.WrittenCount += n
		}

		cursor = lastScanned

		if reachedLimit {
			next := cursor
			stats.NextCursor = &next
			break
		}
		if len(page) < batchSize {
			// Feed exhausted
			stats.NextCursor = nil
			break
		}
	}

	log.WithFields(map[string]interface{}{
		"scanned":  stats.Scanned,
		"unmapped": stats.Unmapped,
		"written":  stats.WrittenCount,
		"done":     stats.NextCursor == nil,
	}).Info("Signal matching pass completed")

	return stats, nil
}

// Drain runs MatchUnmapped repeatedly until the feed is exhausted.
// Used by the scheduler; partial progress is always a valid outcome.
func (m *Matcher) Drain(ctx context.Context, orgID string, pageLimit int) (*contracts.MatchStats, error) {
	total := &contracts.MatchStats{}
	cursor := ""

	for {
		stats, err := m.MatchUnmapped(ctx, orgID, pageLimit, cursor)
		if stats != nil {
			total.WrittenCount += stats.WrittenCount
			total.Scanned += stats.Scanned
			total.Unmapped += stats.Unmapped
		}
		if err != nil {
			return total, err
		}
		if stats.NextCursor == nil {
			return total, nil
		}
		cursor = *stats.NextCursor
	}
}

func (m *Matcher) loadInvestorStates(ctx context.Context, orgID string) ([]investorState, error) {
	investors, err := m.investors.ListInvestors(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load investors for org %s: %w", orgID, err)
	}

	states := make([]investorState, 0, len(investors))
	for i := range investors {
		inv := investors[i]
		mnd, conc := m.resolver.Resolve(&inv)
		states = append(states, investorState{
			id:      inv.ID,
			mandate: mnd,
			conc:    conc,
		})
	}
	return states, nil
}
