package matching

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wonny/propmatch/internal/contracts"
	"github.com/wonny/propmatch/internal/mandate"
	"github.com/wonny/propmatch/pkg/logger"
	"github.com/wonny/propmatch/pkg/redis"
)

// Overrides carries optional per-run inputs for BuildRecommendationBundle.
// Anything left nil falls back to the investor's resolved state.
type Overrides struct {
	Mandate     *contracts.Mandate
	Holdings    []contracts.Holding
	Candidates  []contracts.Candidate
	TrustPolicy *contracts.TrustPolicy
	Budget      *contracts.BudgetRange
}

func (o *Overrides) empty() bool {
	return o == nil ||
		(o.Mandate == nil && o.Holdings == nil && o.Candidates == nil &&
			o.TrustPolicy == nil && o.Budget == nil)
}

// Engine runs one matching pass per investor: resolve mandate, score and
// check every candidate, assemble the bundle. Pure and single-threaded per
// run; safe to run concurrently across investors.
type Engine struct {
	cfg        Config
	resolver   *mandate.Resolver
	candidates contracts.CandidateSource
	investors  contracts.InvestorSource
	scorer     *Scorer
	checker    *Checker
	assembler  *Assembler
	cache      *redis.Cache // nil disables caching
	cacheTTL   time.Duration
	logger     *logger.Logger
}

// NewEngine creates a matching engine
func NewEngine(
	cfg Config,
	resolver *mandate.Resolver,
	candidates contracts.CandidateSource,
	investors contracts.InvestorSource,
	log *logger.Logger,
) *Engine {
	return &Engine{
		cfg:        cfg,
		resolver:   resolver,
		candidates: candidates,
		investors:  investors,
		scorer:     NewScorer(cfg),
		checker:    NewChecker(cfg),
		assembler:  NewAssembler(cfg, NewExplainer()),
		logger:     log,
	}
}

// WithCache enables bundle caching. Cached bundles are only served for
// override-free runs; any override bypasses the cache entirely.
func (e *Engine) WithCache(cache *redis.Cache, ttl time.Duration) *Engine {
	e.cache = cache
	e.cacheTTL = ttl
	return e
}

// BuildRecommendationBundle produces the ranked, capped recommendation
// bundle for an investor. An empty candidate set yields an empty bundle,
// not an error. Deterministic for identical inputs.
func (e *Engine) BuildRecommendationBundle(ctx context.Context, investorID string, ov *Overrides) (*contracts.RecommendationBundle, error) {
	cacheKey := "bundle:" + investorID
	if e.cache != nil && ov.empty() {
		var cached contracts.RecommendationBundle
		if hit, err := e.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	inv, err := e.investors.GetInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load investor %s: %w", investorID, err)
	}

	m, conc := e.resolveInputs(inv, ov)

	candidates := ov.candidatesOr(nil)
	if candidates == nil {
		candidates, err = e.candidates.ListCandidates(ctx, inv.OrgID)
		if err != nil {
			return nil, fmt.Errorf("failed to load candidates for org %s: %w", inv.OrgID, err)
		}
	}

	evals := make([]Evaluation, 0, len(candidates))
	skipped := 0
	for i := range candidates {
		c := candidates[i]
		if malformed(&c) {
			// One bad record must never block the rest of the run
			skipped++
			e.logger.WithFields(map[string]interface{}{
				"candidate": c.ID,
				"price":     c.Price,
			}).Warn("Skipping malformed candidate")
			continue
		}

		evals = append(evals, Evaluation{
			Candidate:  c,
			RawScore:   e.scorer.Score(&c, &m),
			Reasons:    e.scorer.Reasons(&c, &m),
			Violations: e.checker.Check(&c, &m, conc),
		})
	}

	bundle := e.assembler.Assemble(investorID, &m, evals)

	e.logger.WithFields(map[string]interface{}{
		"investor":        investorID,
		"candidates":      len(candidates),
		"skipped":         skipped,
		"recommended":     len(bundle.Recommended),
		"counterfactuals": len(bundle.Counterfactuals),
	}).Info("Recommendation bundle built")

	if e.cache != nil && ov.empty() {
		if err := e.cache.Set(ctx, cacheKey, &bundle, e.cacheTTL); err != nil {
			e.logger.WithError(err).Warn("Failed to cache bundle")
		}
	}

	return &bundle, nil
}

// resolveInputs applies overrides on top of the investor's resolved mandate
// and holdings. Trust and budget overrides layer onto whichever mandate is
// in effect.
func (e *Engine) resolveInputs(inv *contracts.Investor, ov *Overrides) (contracts.Mandate, map[string]int) {
	var m contracts.Mandate
	var conc map[string]int

	if ov != nil && ov.Mandate != nil {
		m = *ov.Mandate
		conc = mandate.AreaConcentration(inv.Holdings)
	} else {
		m, conc = e.resolver.Resolve(inv)
	}

	if ov != nil && ov.Holdings != nil {
		conc = mandate.AreaConcentration(ov.Holdings)
	}
	if ov != nil && ov.TrustPolicy != nil {
		m.MinTrustScore = ov.TrustPolicy.MinTrustScore
		m.RequireVerification = ov.TrustPolicy.RequireVerification
	}
	if ov != nil && ov.Budget != nil {
		m.BudgetMin = ov.Budget.Min
		m.BudgetMax = ov.Budget.Max
	}

	return m, conc
}

func (o *Overrides) candidatesOr(def []contracts.Candidate) []contracts.Candidate {
	if o != nil && o.Candidates != nil {
		return o.Candidates
	}
	return def
}

// malformed reports whether a candidate's numeric fields are unusable.
// Records like this are excluded from scoring rather than aborting the run.
func malformed(c *contracts.Candidate) bool {
	if badNum(c.Price) || c.Price < 0 {
		return true
	}
	if c.ROIPct != nil && badNum(*c.ROIPct) {
		return true
	}
	if c.TrustScore != nil && badNum(*c.TrustScore) {
		return true
	}
	return c.ID == ""
}

func badNum(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
