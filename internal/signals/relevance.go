package signals

import (
	"fmt"

	"github.com/wonny/propmatch/internal/contracts"
	"github.com/wonny/propmatch/internal/mandate"
)

// TierScores maps relevance tiers to the scores written on target rows.
// Policy constants, tunable without touching the classification logic.
type TierScores struct {
	Portfolio float64
	Mandate   float64
	General   float64
}

// DefaultTierScores returns the default tier scoring policy
func DefaultTierScores() TierScores {
	return TierScores{
		Portfolio: 0.9,
		Mandate:   0.7,
		General:   0.4,
	}
}

// Relevance is the outcome of classifying one (signal, investor) pair
type Relevance struct {
	Tier   contracts.RelevanceTier
	Score  float64
	Reason string
}

// Classify determines how relevant a signal is to an investor. Tiers are
// checked highest first: portfolio (the signal touches an owned area), then
// mandate (a preferred area), then general (the signal already carries a
// nonzero external match count). The false return means the pair gets no
// target row at all — absence means "not relevant".
func Classify(sig *contracts.MarketSignal, m *contracts.Mandate, areaConcentration map[string]int, scores TierScores) (Relevance, bool) {
	geo := mandate.NormalizeArea(sig.GeoName)
	if geo == "" {
		return Relevance{}, false
	}

	if areaConcentration[geo] > 0 {
		return Relevance{
			Tier:   contracts.TierPortfolio,
			Score:  scores.Portfolio,
			Reason: fmt.Sprintf("Investor holds property in %s", sig.GeoName),
		}, true
	}

	if m.HasPreferredArea(sig.GeoName) {
		return Relevance{
			Tier:   contracts.TierMandate,
			Score:  scores.Mandate,
			Reason: fmt.Sprintf("%s is a preferred area in the investor's mandate", sig.GeoName),
		}, true
	}

	if sig.MatchCount > 0 {
		return Relevance{
			Tier:   contracts.TierGeneral,
			Score:  scores.General,
			Reason: fmt.Sprintf("Broad market signal with %d matching listings", sig.MatchCount),
		}, true
	}

	return Relevance{}, false
}
