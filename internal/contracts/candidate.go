package contracts

// ReadinessStatus is a candidate's listing readiness state
type ReadinessStatus string

const (
	ReadinessReady             ReadinessStatus = "READY"
	ReadinessNeedsVerification ReadinessStatus = "NEEDS_VERIFICATION"
	ReadinessDraft             ReadinessStatus = "DRAFT"
)

// SourceKind distinguishes where a candidate was sourced from
type SourceKind string

const (
	SourcePortal   SourceKind = "portal"
	SourceVerified SourceKind = "verified"
)

// Candidate is an evaluable entity for one matching pass. Read-only input;
// optional numerics are pointers so the scorer can tell "absent" from zero.
type Candidate struct {
	ID              string          `json:"id"`
	OrgID           string          `json:"org_id"`
	Title           string          `json:"title"`
	Price           float64         `json:"price"`
	ROIPct          *float64        `json:"roi_pct"`
	TrustScore      *float64        `json:"trust_score"`
	ReadinessStatus ReadinessStatus `json:"readiness_status"`
	Area            string          `json:"area"`
	PropertyType    string          `json:"property_type"`
	Source          SourceKind      `json:"source"`
}

// ROI returns the candidate's yield percent, or def when absent.
func (c *Candidate) ROI(def float64) float64 {
	if c.ROIPct == nil {
		return def
	}
	return *c.ROIPct
}

// Trust returns the candidate's trust score, or def when absent.
func (c *Candidate) Trust(def float64) float64 {
	if c.TrustScore == nil {
		return def
	}
	return *c.TrustScore
}
