// Package handlers contains the HTTP API handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/screening"
	"github.com/finsignal/screener/pkg/logger"
	redisclient "github.com/finsignal/screener/pkg/redis"
)

// ScreeningHandler handles screening-related API endpoints
// SSOT: screening API handlers live only in this struct.
type ScreeningHandler struct {
	orch   *screening.Orchestrator
	runs   contracts.ScreeningRunRepository
	cache  *redisclient.Cache
	logger *logger.Logger
}

// NewScreeningHandler creates a new screening handler
func NewScreeningHandler(orch *screening.Orchestrator, runs contracts.ScreeningRunRepository, cache *redisclient.Cache, log *logger.Logger) *ScreeningHandler {
	return &ScreeningHandler{
		orch:   orch,
		runs:   runs,
		cache:  cache,
		logger: log,
	}
}

// opportunitiesResponse is the wire shape for opportunity listings.
type opportunitiesResponse struct {
	Date           string                     `json:"date"`
	TickersScanned int                        `json:"tickers_scanned"`
	Suppressed     int                        `json:"suppressed"`
	Count          int                        `json:"count"`
	Opportunities  []contracts.Opportunity    `json:"opportunities"`
	ByStrategy     map[contracts.Strategy]int `json:"by_strategy"`
}

func buildOpportunitiesResponse(result *screening.Result) opportunitiesResponse {
	counts := make(map[contracts.Strategy]int, len(result.ByStrategy))
	for s, opps := range result.ByStrategy {
		counts[s] = len(opps)
	}
	return opportunitiesResponse{
		Date:           result.Date.Format("2006-01-02"),
		TickersScanned: result.TickersScanned,
		Suppressed:     result.Suppressed,
		Count:          result.Count(),
		Opportunities:  result.Opportunities(),
		ByStrategy:     counts,
	}
}

// GetOpportunities returns the screening results for a date, cached in
// Redis when available.
// GET /api/opportunities?date=YYYY-MM-DD&strategy=dividend
func (h *ScreeningHandler) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := parseDateParam(r, "date")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}

	strategyParam := r.URL.Query().Get("strategy")
	if strategyParam != "" && !contracts.Strategy(strategyParam).Valid() {
		respondError(w, http.StatusBadRequest, "Invalid 'strategy' (valid: dividend, volatility, week52_low, golden_cross)")
		return
	}

	var resp opportunitiesResponse
	key := redisclient.OpportunitiesKey("all", date.Format("2006-01-02"))
	err := h.cache.GetOrSet(ctx, key, &resp, redisclient.TTLMedium, func() (interface{}, error) {
		result, err := h.orch.Screen(ctx, date)
		if err != nil {
			return nil, err
		}
		return buildOpportunitiesResponse(result), nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to screen")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve opportunities")
		return
	}

	if strategyParam != "" {
		filtered := resp.Opportunities[:0:0]
		for _, opp := range resp.Opportunities {
			if opp.Strategy == contracts.Strategy(strategyParam) {
				filtered = append(filtered, opp)
			}
		}
		resp.Opportunities = filtered
		resp.Count = len(filtered)
	}

	respondJSON(w, http.StatusOK, resp)
}

// Screen triggers a fresh screening pass, bypassing the cache.
// POST /api/screen?date=YYYY-MM-DD
func (h *ScreeningHandler) Screen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := parseDateParam(r, "date")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}

	result, err := h.orch.Screen(ctx, date)
	if err != nil {
		h.logger.WithError(err).Error("Screening failed")
		respondError(w, http.StatusInternalServerError, "Screening failed")
		return
	}

	resp := buildOpportunitiesResponse(result)

	// Refresh the cache so subsequent reads see this run
	key := redisclient.OpportunitiesKey("all", date.Format("2006-01-02"))
	if err := h.cache.Set(ctx, key, resp, redisclient.TTLMedium); err != nil {
		h.logger.WithError(err).Warn("Failed to cache screening result")
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetRuns returns recent screening run records.
// GET /api/runs?limit=20
func (h *ScreeningHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' (expected 1-200)")
			return
		}
		limit = n
	}

	runs, err := h.runs.GetRecent(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get screening runs")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve screening runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}
