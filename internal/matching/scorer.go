package matching

import (
	"math"

	"github.com/wonny/propmatch/internal/contracts"
)

// Scorer computes a continuous suitability score per candidate
// ⭐ SSOT: the scoring formula lives here only
type Scorer struct {
	cfg Config
}

// NewScorer creates a new scorer
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the raw suitability score for a candidate against a
// mandate. Deterministic: same inputs, same output. The raw value is used
// for ordering; DisplayScore rounds it for presentation.
func (s *Scorer) Score(c *contracts.Candidate, m *contracts.Mandate) float64 {
	trust := c.Trust(s.cfg.DefaultTrustScore)
	roi := c.ROI(s.cfg.DefaultYieldPct)

	score := trust*s.cfg.TrustWeight + roi*s.cfg.YieldWeight
	if m.HasPropertyType(c.PropertyType) {
		score += s.cfg.TypeMatchBonus
	}
	return score
}

// Reasons returns soft-match reason labels in priority order, capped at
// the configured maximum. These are additive context, never blocking.
func (s *Scorer) Reasons(c *contracts.Candidate, m *contracts.Mandate) []string {
	var reasons []string

	if c.TrustScore != nil && *c.TrustScore >= s.cfg.HighTrustThreshold {
		reasons = append(reasons, "High trust score")
	}
	if c.ROIPct != nil && *c.ROIPct >= s.cfg.StrongYieldThreshold {
		reasons = append(reasons, "Strong yield")
	}
	if m.HasPreferredArea(c.Area) {
		reasons = append(reasons, "Matches preferred area")
	}
	if m.HasPropertyType(c.PropertyType) {
		reasons = append(reasons, "Matches mandate type")
	}

	if s.cfg.MaxReasons > 0 && len(reasons) > s.cfg.MaxReasons {
		reasons = reasons[:s.cfg.MaxReasons]
	}
	return reasons
}

// DisplayScore rounds a raw score to the nearest integer for presentation.
// Internal comparisons always use the raw value to avoid rank collisions
// from rounding.
func DisplayScore(raw float64) int {
	return int(math.Round(raw))
}
