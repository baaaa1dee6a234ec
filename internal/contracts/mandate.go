package contracts

import "strings"

// RiskTolerance classifies an investor's appetite for risk
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Mandate is an investor's canonical matching profile
// ⭐ SSOT: resolved mandate shape passed to scorer/checker/matcher
type Mandate struct {
	PreferredAreas []string      `json:"preferred_areas"`
	PropertyTypes  []string      `json:"property_types"`
	BudgetMin      float64       `json:"budget_min"`
	BudgetMax      float64       `json:"budget_max"` // 0 = no ceiling
	YieldTargetPct float64       `json:"yield_target_pct"`
	RiskTolerance  RiskTolerance `json:"risk_tolerance"`

	// Trust policy
	MinTrustScore       float64 `json:"min_trust_score"`
	RequireVerification bool    `json:"require_verification"`
}

// HasPreferredArea reports whether area is in the mandate's preferred areas
// (case-insensitive). An empty preferred list matches nothing.
func (m *Mandate) HasPreferredArea(area string) bool {
	return containsFold(m.PreferredAreas, area)
}

// HasPropertyType reports whether t is in the mandate's property types
// (case-insensitive). An empty type list matches nothing.
func (m *Mandate) HasPropertyType(t string) bool {
	return containsFold(m.PropertyTypes, t)
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

// RawMandate is the unresolved mandate shape as stored on the investor
// record. Optional fields are pointers; the mandate resolver applies
// permissive defaults.
type RawMandate struct {
	PreferredAreas      []string `json:"preferred_areas"`
	PropertyTypes       []string `json:"property_types"`
	BudgetMin           *float64 `json:"budget_min"`
	BudgetMax           *float64 `json:"budget_max"`
	YieldTarget         string   `json:"yield_target"` // e.g. "8%", "8-10%"
	RiskTolerance       string   `json:"risk_tolerance"`
	MinTrustScore       *float64 `json:"min_trust_score"`
	RequireVerification bool     `json:"require_verification"`
}

// TrustPolicy overrides the mandate's trust requirements for one run
type TrustPolicy struct {
	MinTrustScore       float64 `json:"min_trust_score"`
	RequireVerification bool    `json:"require_verification"`
}

// BudgetRange overrides the mandate's budget bounds for one run.
// Max of 0 means no ceiling.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Holding is a property the investor already owns. Only the area is used
// by the engine, to derive concentration counts.
type Holding struct {
	PropertyID string `json:"property_id"`
	Area       string `json:"area"`
}

// Investor is the raw investor record as returned by the investor source.
type Investor struct {
	ID       string     `json:"id"`
	OrgID    string     `json:"org_id"`
	Name     string     `json:"name"`
	Mandate  RawMandate `json:"mandate"`
	Holdings []Holding  `json:"holdings"`
}
