package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"nycarrests/internal/httputil"
	"nycarrests/internal/model"
	"nycarrests/internal/service"
	"nycarrests/internal/validate"
)

type StatsHandler struct {
	statsService  *service.StatsService
	trendsService *service.TrendsService
}

func NewStatsHandler(statsService *service.StatsService, trendsService *service.TrendsService) *StatsHandler {
	return &StatsHandler{statsService: statsService, trendsService: trendsService}
}

// CrimeRanking handles GET /stats/crime-ranking?limit=.
func (h *StatsHandler) CrimeRanking(w http.ResponseWriter, r *http.Request) {
	limit := model.DefaultRankingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteFieldError(w, "limit", "must be an integer")
			return
		}
		limit = n
	}

	ranking, err := h.statsService.CrimeRanking(r.Context(), limit)
	if err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			httputil.WriteFieldError(w, verr.Field, verr.Reason)
			return
		}
		log.Printf("[ERROR] Crime ranking handler: err=%v", err)
		httputil.WriteInternalError(w, "Storage operation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"ranking": ranking})
}

// Demographics handles GET /stats/demographics.
func (h *StatsHandler) Demographics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.statsService.Demographics(r.Context())
	if err != nil {
		log.Printf("[ERROR] Demographics handler: err=%v", err)
		httputil.WriteInternalError(w, "Storage operation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// MonthlyTrend handles GET /stats/trends/monthly.
func (h *StatsHandler) MonthlyTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.trendsService.Monthly(r.Context())
	if err != nil {
		log.Printf("[ERROR] Monthly trend handler: err=%v", err)
		httputil.WriteInternalError(w, "Storage operation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"trend": trend})
}

// WeeklyTrend handles GET /stats/trends/weekly.
func (h *StatsHandler) WeeklyTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.trendsService.Weekly(r.Context())
	if err != nil {
		log.Printf("[ERROR] Weekly trend handler: err=%v", err)
		httputil.WriteInternalError(w, "Storage operation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"trend": trend})
}
