package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/propmatch/internal/signals"
	"github.com/wonny/propmatch/pkg/logger"
	"github.com/wonny/propmatch/pkg/redis"
)

// MatchLimiter throttles match runs per org. Satisfied by *redis.RateLimiter.
type MatchLimiter interface {
	Allow(ctx context.Context, cfg redis.RateLimitConfig) (bool, int, error)
}

// SignalHandler serves signal-to-investor matching runs
// ⭐ SSOT: signal matching API endpoints live on this struct only
type SignalHandler struct {
	matcher     *signals.Matcher
	rateLimiter MatchLimiter
	rateLimit   int
	rateWindow  time.Duration
	logger      *logger.Logger
}

// NewSignalHandler creates a new signal handler. rateLimiter may be nil when
// redis is disabled, in which case match runs are not throttled.
func NewSignalHandler(matcher *signals.Matcher, rl MatchLimiter, limit int, window time.Duration, log *logger.Logger) *SignalHandler {
	return &SignalHandler{
		matcher:     matcher,
		rateLimiter: rl,
		rateLimit:   limit,
		rateWindow:  window,
		logger:      log,
	}
}

// MatchRequest is the body for a match run. Both fields are optional.
type MatchRequest struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor"`
}

// MatchSignals runs one page of unmapped-signal matching for an org
// POST /api/orgs/{id}/signals/match
func (h *SignalHandler) MatchSignals(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["id"]

	if h.rateLimiter != nil {
		allowed, _, err := h.rateLimiter.Allow(r.Context(), redis.RateLimitConfig{
			Key:    "signal_match:" + orgID,
			Limit:  h.rateLimit,
			Window: h.rateWindow,
		})
		if err != nil {
			h.logger.WithError(err).Warn("Rate limit check failed, allowing request")
		} else if !allowed {
			respondError(w, http.StatusTooManyRequests, "Too many match runs, try again later")
			return
		}
	}

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stats, err := h.matcher.MatchUnmapped(r.Context(), orgID, req.Limit, req.Cursor)
	if err != nil {
		h.logger.WithError(err).WithField("org_id", orgID).Error("Signal match run failed")
		respondError(w, http.StatusInternalServerError, "Signal match run failed")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
