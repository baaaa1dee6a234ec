package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/propmatch/internal/contracts"
	"github.com/wonny/propmatch/internal/matching"
	"github.com/wonny/propmatch/internal/store"
	"github.com/wonny/propmatch/pkg/logger"
)

// RecommendationHandler serves recommendation bundles
// ⭐ SSOT: recommendation API endpoints live on this struct only
type RecommendationHandler struct {
	engine *matching.Engine
	logger *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(engine *matching.Engine, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		engine: engine,
		logger: log,
	}
}

// BundleRequest carries optional per-run overrides. Anything omitted falls
// back to the investor's stored mandate and holdings.
type BundleRequest struct {
	Mandate     *contracts.Mandate     `json:"mandate,omitempty"`
	Holdings    []contracts.Holding    `json:"holdings,omitempty"`
	Candidates  []contracts.Candidate  `json:"candidates,omitempty"`
	TrustPolicy *contracts.TrustPolicy `json:"trust_policy,omitempty"`
	Budget      *contracts.BudgetRange `json:"budget,omitempty"`
}

// GetBundle builds a recommendation bundle for an investor
// GET /api/investors/{id}/recommendations
func (h *RecommendationHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	investorID := mux.Vars(r)["id"]

	bundle, err := h.engine.BuildRecommendationBundle(r.Context(), investorID, nil)
	if err != nil {
		if errors.Is(err, store.ErrInvestorNotFound) {
			respondError(w, http.StatusNotFound, "Investor not found")
			return
		}
		h.logger.WithError(err).Error("Failed to build recommendation bundle")
		respondError(w, http.StatusInternalServerError, "Failed to build recommendations")
		return
	}

	respondJSON(w, http.StatusOK, bundle)
}

// PreviewBundle builds a bundle with caller-supplied overrides, for "what
// if" runs from the deal desk UI
// POST /api/investors/{id}/recommendations/preview
func (h *RecommendationHandler) PreviewBundle(w http.ResponseWriter, r *http.Request) {
	investorID := mux.Vars(r)["id"]

	var req BundleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	bundle, err := h.engine.BuildRecommendationBundle(r.Context(), investorID, &matching.Overrides{
		Mandate:     req.Mandate,
		Holdings:    req.Holdings,
		Candidates:  req.Candidates,
		TrustPolicy: req.TrustPolicy,
		Budget:      req.Budget,
	})
	if err != nil {
		if errors.Is(err, store.ErrInvestorNotFound) {
			respondError(w, http.StatusNotFound, "Investor not found")
			return
		}
		h.logger.WithError(err).Error("Failed to build preview bundle")
		respondError(w, http.StatusInternalServerError, "Failed to build recommendations")
		return
	}

	respondJSON(w, http.StatusOK, bundle)
}
