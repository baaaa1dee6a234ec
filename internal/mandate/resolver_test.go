package mandate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/propmatch/internal/contracts"
)

func f(v float64) *float64 { return &v }

func TestResolver_Resolve_Defaults(t *testing.T) {
	r := NewResolver(8.0)

	// Investor with a completely empty mandate
	inv := &contracts.Investor{ID: "inv_1", OrgID: "org_1"}

	m, conc := r.Resolve(inv)

	assert.Equal(t, 0.0, m.BudgetMax, "missing budget max should mean no ceiling")
	assert.Equal(t, 0.0, m.BudgetMin)
	assert.Equal(t, 8.0, m.YieldTargetPct, "yield target should fall back to baseline")
	assert.Equal(t, 0.0, m.MinTrustScore)
	assert.Equal(t, contracts.RiskMedium, m.RiskTolerance)
	assert.False(t, m.RequireVerification)
	assert.Empty(t, conc)
}

func TestResolver_Resolve_FullMandate(t *testing.T) {
	r := NewResolver(8.0)

	inv := &contracts.Investor{
		ID:    "inv_2",
		OrgID: "org_1",
		Mandate: contracts.RawMandate{
			PreferredAreas:      []string{"Dubai Marina", " Business Bay ", ""},
			PropertyTypes:       []string{"apartment"},
			BudgetMin:           f(1_000_000),
			BudgetMax:           f(5_000_000),
			YieldTarget:         "8-10%",
			RiskTolerance:       "HIGH",
			MinTrustScore:       f(70),
			RequireVerification: true,
		},
		Holdings: []contracts.Holding{
			{PropertyID: "p1", Area: "Dubai Marina"},
			{PropertyID: "p2", Area: "dubai marina "},
			{PropertyID: "p3", Area: "JVC"},
		},
	}

	m, conc := r.Resolve(inv)

	assert.Equal(t, []string{"Dubai Marina", "Business Bay"}, m.PreferredAreas)
	assert.Equal(t, 1_000_000.0, m.BudgetMin)
	assert.Equal(t, 5_000_000.0, m.BudgetMax)
	assert.Equal(t, 8.0, m.YieldTargetPct, "range yield target should use the lower bound")
	assert.Equal(t, contracts.RiskHigh, m.RiskTolerance)
	assert.Equal(t, 70.0, m.MinTrustScore)
	assert.True(t, m.RequireVerification)

	// Concentration counts are case-insensitive per area
	assert.Equal(t, 2, conc["dubai marina"])
	assert.Equal(t, 1, conc["jvc"])
}

func TestResolver_parseYieldTarget(t *testing.T) {
	r := NewResolver(8.0)

	tests := []struct {
		input string
		want  float64
	}{
		{"", 8.0},
		{"9", 9.0},
		{"9%", 9.0},
		{"6.5%", 6.5},
		{"8-10", 8.0},
		{"8 - 10%", 8.0},
		{"7%-9%", 7.0},
		{"not a number", 8.0},
		{"0", 8.0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.parseYieldTarget(tt.input))
		})
	}
}

func TestMandate_HasPreferredArea(t *testing.T) {
	m := contracts.Mandate{PreferredAreas: []string{"Dubai Marina"}}

	assert.True(t, m.HasPreferredArea("dubai marina"))
	assert.True(t, m.HasPreferredArea(" Dubai Marina "))
	assert.False(t, m.HasPreferredArea("Business Bay"))

	empty := contracts.Mandate{}
	assert.False(t, empty.HasPreferredArea("Dubai Marina"), "empty preferred list matches nothing")
}
