package matching

import (
	"sort"

	"github.com/wonny/propmatch/internal/contracts"
)

// BundleSource identifies this engine as the origin of a bundle
const BundleSource = "mandate_engine"

// Evaluation is the per-candidate result of one scoring + constraint pass
type Evaluation struct {
	Candidate  contracts.Candidate
	RawScore   float64
	Reasons    []string
	Violations []contracts.ConstraintViolation
}

// Assembler partitions evaluated candidates into recommended,
// counterfactual, and excluded tiers
// ⭐ SSOT: the three-way partition rule lives here only
type Assembler struct {
	cfg       Config
	explainer *Explainer
}

// NewAssembler creates a new assembler
func NewAssembler(cfg Config, explainer *Explainer) *Assembler {
	return &Assembler{cfg: cfg, explainer: explainer}
}

// Assemble builds the recommendation bundle from evaluations.
//
// Recommended requires zero violations of any kind: "no violations" is a
// strictly higher bar than "high score", so a low-trust, high-yield
// candidate is never promoted just because its number is big.
// Counterfactuals are near misses: one or two violation codes and a score
// above the floor. Everything else is dropped from the bundle entirely.
func (a *Assembler) Assemble(investorID string, mandate *contracts.Mandate, evals []Evaluation) contracts.RecommendationBundle {
	bundle := contracts.RecommendationBundle{
		InvestorID:      investorID,
		Recommended:     []contracts.Recommendation{},
		Counterfactuals: []contracts.Counterfactual{},
		Source:          BundleSource,
	}

	var clean, nearMiss []Evaluation
	for _, ev := range evals {
		switch {
		case len(ev.Violations) == 0:
			clean = append(clean, ev)
		case len(ev.Violations) <= a.cfg.MaxViolationCodes && ev.RawScore > a.cfg.MinCounterfactualScore:
			nearMiss = append(nearMiss, ev)
		}
		// Everything else is excluded: a weak, heavily-violating candidate
		// is not a useful near miss.
	}

	// Score descending, candidate id ascending on ties, so repeated runs
	// over identical input produce identical bundles.
	sortEvals(clean)
	sortEvals(nearMiss)

	recommendedIDs := make(map[string]bool, a.cfg.MaxRecommended)
	for _, ev := range clean {
		if len(bundle.Recommended) >= a.cfg.MaxRecommended {
			break
		}
		recommendedIDs[ev.Candidate.ID] = true
		bundle.Recommended = append(bundle.Recommended, contracts.Recommendation{
			CandidateID: ev.Candidate.ID,
			Title:       ev.Candidate.Title,
			Score:       DisplayScore(ev.RawScore),
			Reasons:     ev.Reasons,
		})
	}

	for _, ev := range nearMiss {
		if len(bundle.Counterfactuals) >= a.cfg.MaxCounterfactuals {
			break
		}
		// No entity appears in both lists
		if recommendedIDs[ev.Candidate.ID] {
			continue
		}
		bundle.Counterfactuals = append(bundle.Counterfactuals, a.buildCounterfactual(ev, mandate))
	}

	return bundle
}

func (a *Assembler) buildCounterfactual(ev Evaluation, mandate *contracts.Mandate) contracts.Counterfactual {
	codes := make([]string, 0, len(ev.Violations))
	labels := make([]string, 0, len(ev.Violations))
	for _, v := range ev.Violations {
		codes = append(codes, string(v.Key))
		labels = append(labels, ReasonLabel(v.Key))
	}

	return contracts.Counterfactual{
		CandidateID:           ev.Candidate.ID,
		Title:                 ev.Candidate.Title,
		ReasonCodes:           codes,
		ReasonLabels:          labels,
		ViolatedConstraints:   ev.Violations,
		WhatWouldChangeMyMind: a.explainer.Explain(ev.Violations, mandate, &ev.Candidate),
		Score:                 DisplayScore(ev.RawScore),
	}
}

func sortEvals(evals []Evaluation) {
	sort.Slice(evals, func(i, j int) bool {
		if evals[i].RawScore != evals[j].RawScore {
			return evals[i].RawScore > evals[j].RawScore
		}
		return evals[i].Candidate.ID < evals[j].Candidate.ID
	})
}
