package matching

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/propmatch/internal/contracts"
)

// reasonLabels maps constraint keys to human-readable labels, 1:1 with the
// codes surfaced on counterfactuals.
var reasonLabels = map[contracts.ConstraintKey]string{
	contracts.ConstraintBudgetMax:         "Over budget",
	contracts.ConstraintBudgetMin:         "Below minimum budget",
	contracts.ConstraintYieldTarget:       "Below yield target",
	contracts.ConstraintTrustScore:        "Trust score below threshold",
	contracts.ConstraintNeedsVerification: "Requires verification",
	contracts.ConstraintAreaConcentration: "Portfolio concentrated in area",
	contracts.ConstraintAreaMismatch:      "Outside preferred areas",
	contracts.ConstraintTypeMismatch:      "Outside mandate property types",
	contracts.ConstraintLiquidityRisk:     "Liquidity risk from portal source",
}

// ReasonLabel returns the human label for a constraint key
func ReasonLabel(key contracts.ConstraintKey) string {
	if label, ok := reasonLabels[key]; ok {
		return label
	}
	return string(key)
}

// Explainer derives "what would change my mind" sentences from violations
// ⭐ SSOT: counterfactual sentence templates live here only
type Explainer struct{}

// NewExplainer creates a new explainer
func NewExplainer() *Explainer {
	return &Explainer{}
}

// Explain produces one deterministic sentence per hard violation, in the
// order violations were discovered. Soft violations explain context but are
// not fixable thresholds, so they contribute nothing here.
func (e *Explainer) Explain(violations []contracts.ConstraintViolation, m *contracts.Mandate, c *contracts.Candidate) []string {
	var out []string
	for _, v := range violations {
		if !IsHardConstraint(v.Key) {
			continue
		}
		switch v.Key {
		case contracts.ConstraintBudgetMax:
			out = append(out, fmt.Sprintf("If price < AED %s", FormatAmount(m.BudgetMax)))
		case contracts.ConstraintYieldTarget:
			out = append(out, fmt.Sprintf("If yield >= %s%%", trimFloat(m.YieldTargetPct)))
		case contracts.ConstraintTrustScore:
			out = append(out, fmt.Sprintf("If trust score >= %s", trimFloat(m.MinTrustScore)))
		case contracts.ConstraintNeedsVerification:
			out = append(out, "If trust verified")
		case contracts.ConstraintAreaConcentration:
			out = append(out, fmt.Sprintf("If portfolio exposure in %s reduced", c.Area))
		}
	}
	return out
}

// FormatAmount renders a monetary amount with thousands separators,
// e.g. 5000000 -> "5,000,000". Fractions are dropped; listing prices are
// whole dirhams.
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
