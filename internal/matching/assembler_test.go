package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/propmatch/internal/contracts"
)

func newAssembler() *Assembler {
	return NewAssembler(DefaultConfig(), NewExplainer())
}

func cleanEval(id string, score float64) Evaluation {
	return Evaluation{
		Candidate: contracts.Candidate{ID: id, Title: "Listing " + id},
		RawScore:  score,
	}
}

func violatedEval(id string, score float64, keys ...contracts.ConstraintKey) Evaluation {
	ev := cleanEval(id, score)
	for _, k := range keys {
		ev.Violations = append(ev.Violations, contracts.ConstraintViolation{Key: k})
	}
	return ev
}

func TestAssembler_Partition(t *testing.T) {
	a := newAssembler()
	m := contracts.Mandate{BudgetMax: 5_000_000, YieldTargetPct: 8}

	evals := []Evaluation{
		cleanEval("c1", 90),
		violatedEval("c2", 80, contracts.ConstraintBudgetMax),
		violatedEval("c3", 40, contracts.ConstraintBudgetMax),                                                              // score too low
		violatedEval("c4", 85, contracts.ConstraintBudgetMax, contracts.ConstraintYieldTarget, contracts.ConstraintTrustScore), // too many codes
		cleanEval("c5", 95),
	}

	bundle := a.Assemble("inv_1", &m, evals)

	assert.Equal(t, "inv_1", bundle.InvestorID)
	assert.Equal(t, BundleSource, bundle.Source)

	require.Len(t, bundle.Recommended, 2)
	assert.Equal(t, "c5", bundle.Recommended[0].CandidateID, "recommended ordered by score desc")
	assert.Equal(t, "c1", bundle.Recommended[1].CandidateID)

	require.Len(t, bundle.Counterfactuals, 1)
	assert.Equal(t, "c2", bundle.Counterfactuals[0].CandidateID)
}

func TestAssembler_MutualExclusion(t *testing.T) {
	a := newAssembler()
	m := contracts.Mandate{}

	evals := []Evaluation{
		cleanEval("c1", 90),
		violatedEval("c1", 80, contracts.ConstraintBudgetMax), // duplicate id, near miss
	}

	bundle := a.Assemble("inv_1", &m, evals)

	assert.Len(t, bundle.Recommended, 1)
	assert.Empty(t, bundle.Counterfactuals, "no candidate id appears in both lists")
}

func TestAssembler_Caps(t *testing.T) {
	a := newAssembler()
	m := contracts.Mandate{}

	var evals []Evaluation
	for i := 0; i < 20; i++ {
		evals = append(evals, cleanEval(fmt.Sprintf("rec_%02d", i), float64(100+i)))
	}
	for i := 0; i < 20; i++ {
		evals = append(evals, violatedEval(fmt.Sprintf("cf_%02d", i), float64(60+i), contracts.ConstraintBudgetMax))
	}

	bundle := a.Assemble("inv_1", &m, evals)

	assert.Len(t, bundle.Recommended, 6)
	assert.Len(t, bundle.Counterfactuals, 10)

	// Highest scores survive the cap
	assert.Equal(t, "rec_19", bundle.Recommended[0].CandidateID)
	assert.Equal(t, "cf_19", bundle.Counterfactuals[0].CandidateID)
}

func TestAssembler_TieBreakByID(t *testing.T) {
	a := newAssembler()
	m := contracts.Mandate{}

	evals := []Evaluation{
		cleanEval("c_b", 90),
		cleanEval("c_a", 90),
		cleanEval("c_c", 90),
	}

	bundle := a.Assemble("inv_1", &m, evals)

	require.Len(t, bundle.Recommended, 3)
	assert.Equal(t, "c_a", bundle.Recommended[0].CandidateID)
	assert.Equal(t, "c_b", bundle.Recommended[1].CandidateID)
	assert.Equal(t, "c_c", bundle.Recommended[2].CandidateID)
}

func TestAssembler_CounterfactualScoreFloor(t *testing.T) {
	a := newAssembler()
	m := contracts.Mandate{}

	evals := []Evaluation{
		violatedEval("c1", 50, contracts.ConstraintBudgetMax),   // exactly 50 is not enough
		violatedEval("c2", 50.1, contracts.ConstraintBudgetMax), // just over
	}

	bundle := a.Assemble("inv_1", &m, evals)

	require.Len(t, bundle.Counterfactuals, 1)
	assert.Equal(t, "c2", bundle.Counterfactuals[0].CandidateID)
}

func TestAssembler_CounterfactualShape(t *testing.T) {
	a := newAssembler()
	m := contracts.Mandate{BudgetMax: 5_000_000, YieldTargetPct: 8}

	evals := []Evaluation{
		violatedEval("c1", 80, contracts.ConstraintBudgetMax, contracts.ConstraintAreaMismatch),
	}

	bundle := a.Assemble("inv_1", &m, evals)
	require.Len(t, bundle.Counterfactuals, 1)

	cf := bundle.Counterfactuals[0]
	assert.Equal(t, []string{"budget_max", "area_mismatch"}, cf.ReasonCodes)
	assert.Equal(t, []string{"Over budget", "Outside preferred areas"}, cf.ReasonLabels)
	assert.Len(t, cf.ViolatedConstraints, 2)
	// Only the hard violation is fixable
	assert.Equal(t, []string{"If price < AED 5,000,000"}, cf.WhatWouldChangeMyMind)
}

func TestAssembler_EmptyInput(t *testing.T) {
	a := newAssembler()
	m := contracts.Mandate{}

	bundle := a.Assemble("inv_1", &m, nil)

	assert.NotNil(t, bundle.Recommended)
	assert.NotNil(t, bundle.Counterfactuals)
	assert.Empty(t, bundle.Recommended)
	assert.Empty(t, bundle.Counterfactuals)
}
