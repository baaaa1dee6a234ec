package matching

// Config defines scoring weights and assembly policy for one engine
// instance. The values are product policy, preserved as-is from the
// mandate playbook rather than derived.
type Config struct {
	// Linear score: trust*TrustWeight + roi*YieldWeight + type bonus
	TrustWeight    float64
	YieldWeight    float64
	TypeMatchBonus float64

	// Defaults applied when a candidate omits the field
	DefaultTrustScore float64
	DefaultYieldPct   float64

	// Soft-match reason thresholds
	HighTrustThreshold   float64
	StrongYieldThreshold float64

	// Assembly
	MaxRecommended         int
	MaxCounterfactuals     int
	MaxReasons             int
	MinCounterfactualScore float64
	MaxViolationCodes      int

	// Portfolio risk: block when holdings in the candidate's area reach this
	AreaConcentrationLimit int
}

// DefaultConfig returns the default engine policy
func DefaultConfig() Config {
	return Config{
		TrustWeight:            0.55,
		YieldWeight:            3.5,
		TypeMatchBonus:         10,
		DefaultTrustScore:      60,
		DefaultYieldPct:        7,
		HighTrustThreshold:     85,
		StrongYieldThreshold:   9,
		MaxRecommended:         6,
		MaxCounterfactuals:     10,
		MaxReasons:             3,
		MinCounterfactualScore: 50,
		MaxViolationCodes:      2,
		AreaConcentrationLimit: 2,
	}
}
