package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/propmatch/internal/contracts"
)

func TestClassify(t *testing.T) {
	scores := DefaultTierScores()
	m := contracts.Mandate{PreferredAreas: []string{"Business Bay"}}
	conc := map[string]int{"dubai marina": 1}

	tests := []struct {
		name     string
		signal   contracts.MarketSignal
		wantTier contracts.RelevanceTier
		wantOK   bool
	}{
		{
			name:     "portfolio tier when investor holds in the area",
			signal:   contracts.MarketSignal{ID: "s1", GeoName: "Dubai Marina"},
			wantTier: contracts.TierPortfolio,
			wantOK:   true,
		},
		{
			name:     "mandate tier for preferred area",
			signal:   contracts.MarketSignal{ID: "s2", GeoName: "Business Bay"},
			wantTier: contracts.TierMandate,
			wantOK:   true,
		},
		{
			name:     "general tier needs a nonzero match count",
			signal:   contracts.MarketSignal{ID: "s3", GeoName: "JVC", MatchCount: 12},
			wantTier: contracts.TierGeneral,
			wantOK:   true,
		},
		{
			name:   "irrelevant signal writes nothing",
			signal: contracts.MarketSignal{ID: "s4", GeoName: "JVC"},
			wantOK: false,
		},
		{
			name:   "signal without geo writes nothing",
			signal: contracts.MarketSignal{ID: "s5", MatchCount: 3},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, ok := Classify(&tt.signal, &m, conc, scores)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantTier, rel.Tier)
				assert.NotEmpty(t, rel.Reason)
			}
		})
	}
}

func TestClassify_PortfolioBeatsMandate(t *testing.T) {
	// An area both held and preferred classifies as portfolio, the higher tier
	m := contracts.Mandate{PreferredAreas: []string{"Dubai Marina"}}
	conc := map[string]int{"dubai marina": 2}

	sig := contracts.MarketSignal{ID: "s1", GeoName: "Dubai Marina", MatchCount: 5}
	rel, ok := Classify(&sig, &m, conc, DefaultTierScores())

	assert.True(t, ok)
	assert.Equal(t, contracts.TierPortfolio, rel.Tier)
	assert.Equal(t, 0.9, rel.Score)
}

func TestClassify_CaseInsensitiveGeo(t *testing.T) {
	m := contracts.Mandate{PreferredAreas: []string{"Business Bay"}}

	sig := contracts.MarketSignal{ID: "s1", GeoName: "BUSINESS BAY"}
	rel, ok := Classify(&sig, &m, nil, DefaultTierScores())

	assert.True(t, ok)
	assert.Equal(t, contracts.TierMandate, rel.Tier)
}
