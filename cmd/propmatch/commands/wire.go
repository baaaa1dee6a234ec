package commands

import (
	"fmt"

	"github.com/wonny/propmatch/internal/mandate"
	"github.com/wonny/propmatch/internal/matching"
	"github.com/wonny/propmatch/internal/signals"
	"github.com/wonny/propmatch/internal/store"
	"github.com/wonny/propmatch/pkg/config"
	"github.com/wonny/propmatch/pkg/database"
	"github.com/wonny/propmatch/pkg/logger"
	"github.com/wonny/propmatch/pkg/redis"
)

// deps holds the shared wiring every command starts from
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	rdb      *redis.Client
	resolver *mandate.Resolver
}

// initDeps loads config and connects config, logger, database and redis.
// Redis failures are non-fatal; caching and rate limiting degrade to off.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without cache")
		rdb = nil
	}

	return &deps{
		cfg:      cfg,
		log:      log,
		db:       db,
		rdb:      rdb,
		resolver: mandate.NewResolver(cfg.Engine.DefaultYieldTargetPct),
	}, nil
}

// close releases the connections held by deps
func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.rdb != nil {
		d.rdb.Close()
	}
}

// engineConfig maps the env-driven policy onto the matching config
func engineConfig(cfg *config.Config) matching.Config {
	mc := matching.DefaultConfig()
	mc.TrustWeight = cfg.Engine.TrustWeight
	mc.YieldWeight = cfg.Engine.YieldWeight
	mc.TypeMatchBonus = cfg.Engine.TypeMatchBonus
	mc.DefaultTrustScore = cfg.Engine.DefaultTrustScore
	mc.DefaultYieldPct = cfg.Engine.DefaultYieldPct
	mc.MaxRecommended = cfg.Engine.MaxRecommended
	mc.MaxCounterfactuals = cfg.Engine.MaxCounterfactuals
	mc.MaxReasons = cfg.Engine.MaxReasons
	mc.MinCounterfactualScore = cfg.Engine.MinCounterfactualScore
	mc.MaxViolationCodes = cfg.Engine.MaxViolationCodes
	mc.AreaConcentrationLimit = cfg.Engine.AreaConcentrationLimit
	return mc
}

// matcherConfig maps the env-driven policy onto the signal matcher config
func matcherConfig(cfg *config.Config) signals.MatcherConfig {
	sc := signals.DefaultMatcherConfig()
	sc.ScanFloor = cfg.Engine.SignalScanFloor
	sc.UpsertRatePerSec = cfg.Engine.UpsertRatePerSec
	return sc
}

// buildEngine wires the recommendation engine on top of the pgx repositories
func buildEngine(d *deps) *matching.Engine {
	eng := matching.NewEngine(
		engineConfig(d.cfg),
		d.resolver,
		store.NewCandidateRepository(d.db.Pool),
		store.NewInvestorRepository(d.db.Pool),
		d.log,
	)

	if d.rdb != nil && d.rdb.Enabled() {
		eng = eng.WithCache(redis.NewCache(d.rdb, "propmatch"), d.cfg.Engine.BundleCacheTTL)
	}

	return eng
}

// buildMatcher wires the signal matcher on top of the pgx repositories
func buildMatcher(d *deps) *signals.Matcher {
	return signals.NewMatcher(
		matcherConfig(d.cfg),
		store.NewSignalRepository(d.db.Pool),
		store.NewTargetRepository(d.db.Pool),
		store.NewInvestorRepository(d.db.Pool),
		d.resolver,
		d.log,
	)
}
