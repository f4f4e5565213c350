package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/swingrank/internal/contracts"
	"github.com/wonny/swingrank/pkg/logger"
	"github.com/wonny/swingrank/pkg/redis"
)

// RankingHandler serves persisted scoring results.
type RankingHandler struct {
	rankings contracts.RankingRepository
	cache    *redis.Cache
	logger   *logger.Logger
}

// NewRankingHandler creates a new ranking handler. cache may be nil.
func NewRankingHandler(rankings contracts.RankingRepository, cache *redis.Cache, log *logger.Logger) *RankingHandler {
	return &RankingHandler{
		rankings: rankings,
		cache:    cache,
		logger:   log,
	}
}

// GetRankings returns the batch result for a list.
// GET /api/rankings/{list}?date=2026-08-21&top=20
// Without a date the latest scan is returned.
func (h *RankingHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listName := mux.Vars(r)["list"]
	dateParam := r.URL.Query().Get("date")

	var batch *contracts.BatchResult
	var scanDate time.Time
	var err error

	if dateParam == "" {
		// Latest scan: try the cache before Postgres
		if h.cache != nil {
			var cached contracts.BatchResult
			if found, _ := h.cache.Get(ctx, "rankings:"+listName, &cached); found {
				h.respondBatch(w, listName, "", &cached)
				return
			}
		}

		batch, scanDate, err = h.rankings.GetLatest(ctx, listName)
	} else {
		scanDate, err = time.Parse("2006-01-02", dateParam)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		batch, err = h.rankings.GetByDate(ctx, listName, scanDate)
	}

	if err != nil {
		h.logger.WithError(err).WithField("list", listName).Warn("Rankings lookup failed")
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if topParam := r.URL.Query().Get("top"); topParam != "" {
		if n, err := strconv.Atoi(topParam); err == nil && n > 0 {
			trimmed := *batch
			trimmed.Results = batch.Top(n)
			batch = &trimmed
		}
	}

	h.respondBatch(w, listName, scanDate.Format("2006-01-02"), batch)
}

// GetScanDates returns recent scan dates for a list.
// GET /api/rankings/{list}/dates?limit=30
func (h *RankingHandler) GetScanDates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listName := mux.Vars(r)["list"]

	limit := 30
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 {
			limit = n
		}
	}

	dates, err := h.rankings.ListDates(ctx, listName, limit)
	if err != nil {
		h.logger.WithError(err).WithField("list", listName).Error("Scan date lookup failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	formatted := make([]string, len(dates))
	for i, d := range dates {
		formatted[i] = d.Format("2006-01-02")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"list":  listName,
			"dates": formatted,
		},
	})
}

func (h *RankingHandler) respondBatch(w http.ResponseWriter, listName, scanDate string, batch *contracts.BatchResult) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"list":        listName,
			"scan_date":   scanDate,
			"count":       len(batch.Results),
			"benchmark":   batch.Benchmark,
			"results":     batch.Results,
			"computed_at": batch.ComputedAt,
		},
	})
}
