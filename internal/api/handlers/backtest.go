package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finsignal/screener/internal/backtest"
	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/pkg/logger"
)

// BacktestHandler handles backtest API endpoints
type BacktestHandler struct {
	sim    *backtest.Simulator
	logger *logger.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(sim *backtest.Simulator, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{
		sim:    sim,
		logger: log,
	}
}

// BacktestRequest represents a backtest request. Zero values fall back
// to the configured defaults.
type BacktestRequest struct {
	MonthsBack        int `json:"months_back"`
	HoldingPeriodDays int `json:"holding_period_days"`
}

// Run executes a backtest simulation.
// POST /api/backtest
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BacktestRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.MonthsBack < 0 || req.HoldingPeriodDays < 0 {
		respondError(w, http.StatusBadRequest, "months_back and holding_period_days must not be negative")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"months_back":         req.MonthsBack,
		"holding_period_days": req.HoldingPeriodDays,
	}).Info("Backtest triggered")

	result, err := h.sim.Run(ctx, backtest.Params{
		MonthsBack:        req.MonthsBack,
		HoldingPeriodDays: req.HoldingPeriodDays,
	})
	if err != nil {
		if errors.Is(err, contracts.ErrNoQualifyingDate) {
			respondError(w, http.StatusUnprocessableEntity, "No snapshot date with sufficient coverage near the requested entry point")
			return
		}
		h.logger.WithError(err).Error("Backtest failed")
		respondError(w, http.StatusInternalServerError, "Backtest failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
