package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/propmatch/internal/contracts"
)

func f(v float64) *float64 { return &v }

func TestScorer_Score(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	tests := []struct {
		name      string
		candidate contracts.Candidate
		mandate   contracts.Mandate
		want      float64
	}{
		{
			name: "full inputs with type match",
			candidate: contracts.Candidate{
				TrustScore:   f(90),
				ROIPct:       f(9),
				PropertyType: "apartment",
			},
			mandate: contracts.Mandate{PropertyTypes: []string{"apartment"}},
			// 90*0.55 + 9*3.5 + 10
			want: 90*0.55 + 9*3.5 + 10,
		},
		{
			name:      "defaults when fields absent",
			candidate: contracts.Candidate{},
			mandate:   contracts.Mandate{},
			// 60*0.55 + 7*3.5
			want: 60*0.55 + 7*3.5,
		},
		{
			name: "no type bonus without mandate types",
			candidate: contracts.Candidate{
				TrustScore:   f(80),
				ROIPct:       f(8),
				PropertyType: "villa",
			},
			mandate: contracts.Mandate{},
			want:    80*0.55 + 8*3.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(&tt.candidate, &tt.mandate)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScorer_ScoreDeterministic(t *testing.T) {
	scorer := NewScorer(DefaultConfig())
	c := contracts.Candidate{TrustScore: f(87.3), ROIPct: f(8.9), PropertyType: "apartment"}
	m := contracts.Mandate{PropertyTypes: []string{"apartment"}}

	first := scorer.Score(&c, &m)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, scorer.Score(&c, &m), "score must be reproducible bit-for-bit")
	}
}

func TestScorer_Reasons(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	m := contracts.Mandate{
		PreferredAreas: []string{"Dubai Marina"},
		PropertyTypes:  []string{"apartment"},
	}

	// All four reasons fire; cap keeps the top three by priority
	c := contracts.Candidate{
		TrustScore:   f(90),
		ROIPct:       f(9.5),
		Area:         "Dubai Marina",
		PropertyType: "apartment",
	}
	reasons := scorer.Reasons(&c, &m)
	assert.Equal(t, []string{"High trust score", "Strong yield", "Matches preferred area"}, reasons)

	// Absent trust score never counts as high trust
	c2 := contracts.Candidate{Area: "JVC", PropertyType: "villa"}
	assert.Empty(t, scorer.Reasons(&c2, &m))
}

func TestDisplayScore(t *testing.T) {
	assert.Equal(t, 81, DisplayScore(81.4))
	assert.Equal(t, 82, DisplayScore(81.5))
	assert.Equal(t, -2, DisplayScore(-1.5))
}
