package matching

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/propmatch/internal/contracts"
	"github.com/wonny/propmatch/internal/mandate"
)

// hardConstraints marks which constraint keys block qualification when
// violated. Everything else is informational only.
var hardConstraints = map[contracts.ConstraintKey]bool{
	contracts.ConstraintBudgetMax:         true,
	contracts.ConstraintYieldTarget:       true,
	contracts.ConstraintTrustScore:        true,
	contracts.ConstraintNeedsVerification: true,
	contracts.ConstraintAreaConcentration: true,
}

// IsHardConstraint reports whether a violation of key excludes a candidate
// from the recommended tier.
func IsHardConstraint(key contracts.ConstraintKey) bool {
	return hardConstraints[key]
}

// Checker evaluates the fixed constraint sequence per candidate
// ⭐ SSOT: constraint semantics live here only
type Checker struct {
	cfg Config
}

// NewChecker creates a new constraint checker
func NewChecker(cfg Config) *Checker {
	return &Checker{cfg: cfg}
}

// constraintFn evaluates one constraint and returns a violation or nil
type constraintFn func(c *contracts.Candidate, m *contracts.Mandate, conc map[string]int) *contracts.ConstraintViolation

// Check runs every constraint in the fixed order and accumulates
// violations. All constraints are evaluated independently; the order only
// matters for presentation.
func (ch *Checker) Check(c *contracts.Candidate, m *contracts.Mandate, conc map[string]int) []contracts.ConstraintViolation {
	evaluators := []constraintFn{
		ch.checkBudgetMax,
		ch.checkBudgetMin,
		ch.checkYieldTarget,
		ch.checkTrustScore,
		ch.checkNeedsVerification,
		ch.checkAreaConcentration,
		ch.checkAreaMismatch,
		ch.checkTypeMismatch,
		ch.checkLiquidityRisk,
	}

	var violations []contracts.ConstraintViolation
	for _, eval := range evaluators {
		if v := eval(c, m, conc); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

// HasHardViolation reports whether any violation in the list is blocking.
// A candidate is fully qualifying iff this returns false.
func HasHardViolation(violations []contracts.ConstraintViolation) bool {
	for _, v := range violations {
		if IsHardConstraint(v.Key) {
			return true
		}
	}
	return false
}

func (ch *Checker) checkBudgetMax(c *contracts.Candidate, m *contracts.Mandate, _ map[string]int) *contracts.ConstraintViolation {
	if m.BudgetMax > 0 && c.Price > m.BudgetMax {
		return &contracts.ConstraintViolation{
			Key:      contracts.ConstraintBudgetMax,
			Expected: formatNum(m.BudgetMax),
			Actual:   formatNum(c.Price),
		}
	}
	return nil
}

func (ch *Checker) checkBudgetMin(c *contracts.Candidate, m *contracts.Mandate, _ map[string]int) *contracts.ConstraintViolation {
	if m.BudgetMin > 0 && c.Price < m.BudgetMin {
		return &contracts.ConstraintViolation{
			Key:      contracts.ConstraintBudgetMin,
			Expected: formatNum(m.BudgetMin),
			Actual:   formatNum(c.Price),
		}
	}
	return nil
}

func (ch *Checker) checkYieldTarget(c *contracts.Candidate, m *contracts.Mandate, _ map[string]int) *contracts.ConstraintViolation {
	roi := c.ROI(ch.cfg.DefaultYieldPct)
	if roi < m.YieldTargetPct {
		return &contracts.ConstraintViolation{
			Key:      contracts.ConstraintYieldTarget,
			Expected: formatNum(m.YieldTargetPct),
			Actual:   formatNum(roi),
		}
	}
	return nil
}

func (ch *Checker) checkTrustScore(c *contracts.Candidate, m *contracts.Mandate, _ map[string]int) *contracts.ConstraintViolation {
	trust := c.Trust(ch.cfg.DefaultTrustScore)
	if trust < m.MinTrustScore {
		return &contracts.ConstraintViolation{
			Key:      contracts.ConstraintTrustScore,
			Expected: formatNum(m.MinTrustScore),
			Actual:   formatNum(trust),
		}
	}
	return nil
}

func (ch *Checker) checkNeedsVerification(c *contracts.Candidate, m *contracts.Mandate, _ map[string]int) *contracts.ConstraintViolation {
	if m.RequireVerification && c.ReadinessStatus == contracts.ReadinessNeedsVerification {
		return &contracts.ConstraintViolation{
			Key:      contracts.ConstraintNeedsVerification,
			Expected: string(contracts.ReadinessReady),
			Actual:   string(c.ReadinessStatus),
		}
	}
	return nil
}

// checkAreaConcentration is a portfolio-level risk control, not a
// candidate-level one: it blocks when the investor already holds enough
// properties in the candidate's area.
func (ch *Checker) checkAreaConcentration(c *contracts.Candidate, _ *contracts.Mandate, conc map[string]int) *contracts.ConstraintViolation {
	count := conc[mandate.NormalizeArea(c.Area)]
	if count >= ch.cfg.AreaConcentrationLimit {
		return &contracts.ConstraintViolation{
			Key:      contracts.ConstraintAreaConcentration,
			Expected: fmt.Sprintf("< %d holdings in %s", ch.cfg.AreaConcentrationLimit, c.Area),
			Actual:   strconv.Itoa(count),
		}
	}
	return nil
}

func (ch *Checker) checkAreaMismatch(c *contracts.Candidate, m *contracts.Mandate, _ map[string]int) *contracts.ConstraintViolation {
	if len(m.PreferredAreas) > 0 && !m.HasPreferredArea(c.Area) {
		return &contracts.ConstraintViolation{
			Key:      contracts.ConstraintAreaMismatch,
			Expected: strings.Join(m.PreferredAreas, ", "),
			Actual:   c.Area,
		}
	}
	return nil
}

func (ch *Checker) checkTypeMismatch(c *contracts.Candidate, m *contracts.Mandate, _ map[string]int) *contracts.ConstraintViolation {
	if len(m.PropertyTypes) > 0 && !m.HasPropertyType(c.PropertyType) {
		return &contracts.ConstraintViolation{
			Key:      contracts.ConstraintTypeMismatch,
			Expected: strings.Join(m.PropertyTypes, ", "),
			Actual:   c.PropertyType,
		}
	}
	return nil
}

func (ch *Checker) checkLiquidityRisk(c *contracts.Candidate, _ *contracts.Mandate, _ map[string]int) *contracts.ConstraintViolation {
	if c.Source == contracts.SourcePortal && c.TrustScore == nil {
		return &contracts.ConstraintViolation{
			Key:      contracts.ConstraintLiquidityRisk,
			Expected: "trust score present",
			Actual:   "missing",
		}
	}
	return nil
}

// formatNum renders a numeric threshold without trailing zeros
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
