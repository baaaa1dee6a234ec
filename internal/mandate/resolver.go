package mandate

import (
	"strconv"
	"strings"

	"github.com/wonny/propmatch/internal/contracts"
)

// Resolver normalizes a raw investor record and holdings into a canonical
// mandate plus area concentration counts
// ⭐ SSOT: the permissive-default policy lives here only
type Resolver struct {
	defaultYieldTargetPct float64
}

// NewResolver creates a resolver with the baseline yield target applied to
// investors who never stated one.
func NewResolver(defaultYieldTargetPct float64) *Resolver {
	return &Resolver{defaultYieldTargetPct: defaultYieldTargetPct}
}

// Resolve produces an immutable mandate snapshot for one matching run.
// Missing numeric fields default to permissive values so a partially-filled
// mandate never excludes an investor from all candidates: no budget ceiling,
// baseline yield target, zero trust floor.
func (r *Resolver) Resolve(inv *contracts.Investor) (contracts.Mandate, map[string]int) {
	raw := inv.Mandate

	m := contracts.Mandate{
		PreferredAreas:      cleanList(raw.PreferredAreas),
		PropertyTypes:       cleanList(raw.PropertyTypes),
		YieldTargetPct:      r.parseYieldTarget(raw.YieldTarget),
		RiskTolerance:       parseRiskTolerance(raw.RiskTolerance),
		RequireVerification: raw.RequireVerification,
	}

	if raw.BudgetMin != nil && *raw.BudgetMin > 0 {
		m.BudgetMin = *raw.BudgetMin
	}
	if raw.BudgetMax != nil && *raw.BudgetMax > 0 {
		m.BudgetMax = *raw.BudgetMax
	}
	if raw.MinTrustScore != nil && *raw.MinTrustScore > 0 {
		m.MinTrustScore = *raw.MinTrustScore
	}

	return m, AreaConcentration(inv.Holdings)
}

// AreaConcentration counts current holdings per normalized area. All current
// holdings are counted, not just recent acquisitions.
func AreaConcentration(holdings []contracts.Holding) map[string]int {
	counts := make(map[string]int, len(holdings))
	for _, h := range holdings {
		area := NormalizeArea(h.Area)
		if area == "" {
			continue
		}
		counts[area]++
	}
	return counts
}

// NormalizeArea lowers and trims an area name for map keys and comparisons
func NormalizeArea(area string) string {
	return strings.ToLower(strings.TrimSpace(area))
}

// parseYieldTarget extracts the lower bound from a yield target string.
// Accepts "8", "8%", "8-10", "8 - 10%". Unparseable input falls back to
// the baseline.
func (r *Resolver) parseYieldTarget(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return r.defaultYieldTargetPct
	}

	// Lower bound of a range
	if idx := strings.IndexAny(s, "-–"); idx > 0 {
		s = s[:idx]
	}

	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return r.defaultYieldTargetPct
	}
	return v
}

func parseRiskTolerance(s string) contracts.RiskTolerance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return contracts.RiskLow
	case "high":
		return contracts.RiskHigh
	default:
		return contracts.RiskMedium
	}
}

func cleanList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
