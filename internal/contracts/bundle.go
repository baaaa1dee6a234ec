package contracts

// ConstraintKey identifies one of the fixed mandate constraints
type ConstraintKey string

const (
	ConstraintBudgetMax         ConstraintKey = "budget_max"
	ConstraintBudgetMin         ConstraintKey = "budget_min"
	ConstraintYieldTarget       ConstraintKey = "yield_target"
	ConstraintTrustScore        ConstraintKey = "trust_score"
	ConstraintNeedsVerification ConstraintKey = "needs_verification"
	ConstraintAreaConcentration ConstraintKey = "area_concentration"
	ConstraintAreaMismatch      ConstraintKey = "area_mismatch"
	ConstraintTypeMismatch      ConstraintKey = "type_mismatch"
	ConstraintLiquidityRisk     ConstraintKey = "liquidity_risk"
)

// ConstraintViolation records one failed constraint check. Never persisted
// on its own; always attached to a per-candidate evaluation.
type ConstraintViolation struct {
	Key      ConstraintKey `json:"key"`
	Expected string        `json:"expected"`
	Actual   string        `json:"actual"`
}

// Recommendation is one qualifying candidate in a bundle
type Recommendation struct {
	CandidateID string   `json:"candidate_id"`
	Title       string   `json:"title"`
	Score       int      `json:"score"` // rounded for display; ordering uses the raw value
	Reasons     []string `json:"reasons"`
}

// Counterfactual is a strong candidate excluded by one or two constraints,
// with a machine-derived explanation of what would need to change.
type Counterfactual struct {
	CandidateID           string                `json:"candidate_id"`
	Title                 string                `json:"title"`
	ReasonCodes           []string              `json:"reason_codes"`
	ReasonLabels          []string              `json:"reason_labels"` // 1:1 with ReasonCodes
	ViolatedConstraints   []ConstraintViolation `json:"violated_constraints"`
	WhatWouldChangeMyMind []string              `json:"what_would_change_my_mind"`
	Score                 int                   `json:"score"`
}

// RecommendationBundle is the terminal output of one matching run.
// Stateless, rebuilt on demand; deterministic for identical inputs.
// ⭐ SSOT: engine → API/CLI result shape
type RecommendationBundle struct {
	InvestorID      string           `json:"investor_id"`
	Recommended     []Recommendation `json:"recommended"`
	Counterfactuals []Counterfactual `json:"counterfactuals"`
	Source          string           `json:"source"`
}
