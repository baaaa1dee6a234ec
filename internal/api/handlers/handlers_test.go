package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/propmatch/internal/contracts"
	"github.com/wonny/propmatch/internal/mandate"
	"github.com/wonny/propmatch/internal/matching"
	"github.com/wonny/propmatch/internal/signals"
	"github.com/wonny/propmatch/internal/store"
	"github.com/wonny/propmatch/pkg/config"
	"github.com/wonny/propmatch/pkg/logger"
	"github.com/wonny/propmatch/pkg/redis"
)

type fakeCandidateSource struct {
	candidates []contracts.Candidate
}

func (s *fakeCandidateSource) ListCandidates(_ context.Context, _ string) ([]contracts.Candidate, error) {
	return s.candidates, nil
}

type fakeInvestorSource struct {
	investor *contracts.Investor
}

func (s *fakeInvestorSource) GetInvestor(_ context.Context, id string) (*contracts.Investor, error) {
	if s.investor == nil || s.investor.ID != id {
		return nil, store.ErrInvestorNotFound
	}
	return s.investor, nil
}

func (s *fakeInvestorSource) ListInvestors(_ context.Context, _ string) ([]contracts.Investor, error) {
	if s.investor == nil {
		return nil, nil
	}
	return []contracts.Investor{*s.investor}, nil
}

type fakeSignalStore struct {
	signals []contracts.MarketSignal
	targets map[string]contracts.SignalTarget
}

func (s *fakeSignalStore) ListSignalsAfter(_ context.Context, orgID, afterID string, limit int) ([]contracts.MarketSignal, error) {
	var out []contracts.MarketSignal
	for _, sig := range s.signals {
		if sig.OrgID != orgID || sig.ID <= afterID {
			continue
		}
		out = append(out, sig)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeSignalStore) MappedSignalIDs(_ context.Context, orgID string, signalIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, t := range s.targets {
		if t.OrgID == orgID {
			out[t.SignalID] = true
		}
	}
	return out, nil
}

func (s *fakeSignalStore) UpsertTargets(_ context.Context, targets []contracts.SignalTarget) (int, error) {
	for _, t := range targets {
		s.targets[signals.TargetKey(t.OrgID, t.SignalID, t.InvestorID)] = t
	}
	return len(targets), nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	lastKey string
}

func (l *fakeLimiter) Allow(_ context.Context, cfg redis.RateLimitConfig) (bool, int, error) {
	l.lastKey = cfg.Key
	if l.err != nil {
		return false, 0, l.err
	}
	return l.allowed, cfg.Limit - 1, nil
}

func decodeBody(rec *httptest.ResponseRecorder, v interface{}) error {
	return json.NewDecoder(rec.Body).Decode(v)
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func f(v float64) *float64 { return &v }

func testInvestor() *contracts.Investor {
	return &contracts.Investor{
		ID:    "inv_1",
		OrgID: "org_1",
		Mandate: contracts.RawMandate{
			PreferredAreas: []string{"Dubai Marina"},
			PropertyTypes:  []string{"apartment"},
			BudgetMax:      f(5_000_000),
			YieldTarget:    "8%",
		},
	}
}

func testRecHandler(inv *contracts.Investor, candidates []contracts.Candidate) *RecommendationHandler {
	engine := matching.NewEngine(
		matching.DefaultConfig(),
		mandate.NewResolver(8.0),
		&fakeCandidateSource{candidates: candidates},
		&fakeInvestorSource{investor: inv},
		testLogger(),
	)
	return NewRecommendationHandler(engine, testLogger())
}

func testSigHandler(feedSigs []contracts.MarketSignal, inv *contracts.Investor, limiter MatchLimiter) (*SignalHandler, *fakeSignalStore) {
	st := &fakeSignalStore{
		signals: feedSigs,
		targets: make(map[string]contracts.SignalTarget),
	}

	cfg := signals.DefaultMatcherConfig()
	cfg.ScanFloor = 10
	cfg.UpsertRatePerSec = 0

	matcher := signals.NewMatcher(
		cfg,
		st, st,
		&fakeInvestorSource{investor: inv},
		mandate.NewResolver(8.0),
		testLogger(),
	)
	return NewSignalHandler(matcher, limiter, 10, time.Minute, testLogger()), st
}

func recRouter(h *RecommendationHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/investors/{id}/recommendations", h.GetBundle).Methods("GET")
	r.HandleFunc("/api/investors/{id}/recommendations/preview", h.PreviewBundle).Methods("POST")
	return r
}

func sigRouter(h *SignalHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/orgs/{id}/signals/match", h.MatchSignals).Methods("POST")
	return r
}

func TestGetBundle(t *testing.T) {
	c := contracts.Candidate{
		ID: "c1", Title: "Marina Gate 1BR",
		Price: 4_000_000, ROIPct: f(9), TrustScore: f(90),
		ReadinessStatus: contracts.ReadinessReady,
		Area:            "Dubai Marina", PropertyType: "apartment",
		Source: contracts.SourceVerified,
	}
	h := testRecHandler(testInvestor(), []contracts.Candidate{c})

	req := httptest.NewRequest("GET", "/api/investors/inv_1/recommendations", nil)
	rec := httptest.NewRecorder()
	recRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var bundle contracts.RecommendationBundle
	require.NoError(t, decodeBody(rec, &bundle))
	require.Len(t, bundle.Recommended, 1)
	assert.Equal(t, "c1", bundle.Recommended[0].CandidateID)
	assert.Empty(t, bundle.Counterfactuals)
}

func TestGetBundle_InvestorNotFound(t *testing.T) {
	h := testRecHandler(testInvestor(), nil)

	req := httptest.NewRequest("GET", "/api/investors/missing/recommendations", nil)
	rec := httptest.NewRecorder()
	recRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, decodeBody(rec, &body))
	assert.Equal(t, "Investor not found", body["error"])
}

func TestPreviewBundle_BudgetOverride(t *testing.T) {
	// Over budget against the stored mandate, clean under the override
	c := contracts.Candidate{
		ID: "c1", Title: "Marina Heights 2BR",
		Price: 5_200_000, ROIPct: f(9), TrustScore: f(90),
		ReadinessStatus: contracts.ReadinessReady,
		Area:            "Dubai Marina", PropertyType: "apartment",
		Source: contracts.SourceVerified,
	}
	h := testRecHandler(testInvestor(), []contracts.Candidate{c})

	body := `{"budget": {"min": 0, "max": 6000000}}`
	req := httptest.NewRequest("POST", "/api/investors/inv_1/recommendations/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	recRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var bundle contracts.RecommendationBundle
	require.NoError(t, decodeBody(rec, &bundle))
	require.Len(t, bundle.Recommended, 1)
	assert.Equal(t, "c1", bundle.Recommended[0].CandidateID)
}

func TestMatchSignals(t *testing.T) {
	sigs := []contracts.MarketSignal{
		{ID: "sig_001", OrgID: "org_1", GeoName: "Dubai Marina"},
		{ID: "sig_002", OrgID: "org_1", GeoName: "Nowhere"},
	}
	h, st := testSigHandler(sigs, testInvestor(), nil)

	req := httptest.NewRequest("POST", "/api/orgs/org_1/signals/match", strings.NewReader(`{"limit": 10}`))
	rec := httptest.NewRecorder()
	sigRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats contracts.MatchStats
	require.NoError(t, decodeBody(rec, &stats))
	assert.Equal(t, 1, stats.WrittenCount)
	assert.Equal(t, 2, stats.Scanned)
	assert.Nil(t, stats.NextCursor)
	assert.Len(t, st.targets, 1)
}

// An empty body is a valid request; limit falls back to the default.
func TestMatchSignals_EmptyBody(t *testing.T) {
	h, _ := testSigHandler(nil, testInvestor(), nil)

	req := httptest.NewRequest("POST", "/api/orgs/org_1/signals/match", nil)
	rec := httptest.NewRecorder()
	sigRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMatchSignals_InvalidBody(t *testing.T) {
	h, _ := testSigHandler(nil, testInvestor(), nil)

	req := httptest.NewRequest("POST", "/api/orgs/org_1/signals/match", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	sigRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchSignals_RateLimited(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	h, st := testSigHandler([]contracts.MarketSignal{
		{ID: "sig_001", OrgID: "org_1", GeoName: "Dubai Marina"},
	}, testInvestor(), limiter)

	req := httptest.NewRequest("POST", "/api/orgs/org_1/signals/match", strings.NewReader(`{"limit": 10}`))
	rec := httptest.NewRecorder()
	sigRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "signal_match:org_1", limiter.lastKey)
	assert.Empty(t, st.targets, "a throttled request must not write targets")
}

// A limiter backend failure lets the request through rather than blocking
// the business operation on infrastructure.
func TestMatchSignals_LimiterErrorAllows(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	h, st := testSigHandler([]contracts.MarketSignal{
		{ID: "sig_001", OrgID: "org_1", GeoName: "Dubai Marina"},
	}, testInvestor(), limiter)

	req := httptest.NewRequest("POST", "/api/orgs/org_1/signals/match", strings.NewReader(`{"limit": 10}`))
	rec := httptest.NewRecorder()
	sigRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, st.targets, 1)
}
