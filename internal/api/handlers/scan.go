package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/swingrank/internal/scan"
	"github.com/wonny/swingrank/internal/scoring"
	"github.com/wonny/swingrank/pkg/logger"
)

// ScanHandler triggers scoring runs over HTTP.
type ScanHandler struct {
	runner *scan.Runner
	logger *logger.Logger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(runner *scan.Runner, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		runner: runner,
		logger: log,
	}
}

// ScanRequest is the body of a scan trigger.
type ScanRequest struct {
	List string `json:"list"`
}

// TriggerScan runs the scoring pipeline for one list synchronously
// and returns the ranked batch.
// POST /api/scan {"list": "leading_stocks"}
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.List == "" {
		respondError(w, http.StatusBadRequest, "list is required")
		return
	}

	batch, err := h.runner.RunList(r.Context(), req.List)
	if err != nil {
		h.logger.WithError(err).WithField("list", req.List).Error("Scan trigger failed")

		// Benchmark failures are a data problem, not a server bug
		status := http.StatusInternalServerError
		if errors.Is(err, scoring.ErrBenchmarkData) {
			status = http.StatusBadGateway
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"list":        req.List,
			"count":       len(batch.Results),
			"benchmark":   batch.Benchmark,
			"results":     batch.Results,
			"computed_at": batch.ComputedAt,
		},
	})
}
