package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	log       *logrus.Logger
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, log *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log}
}

func (h *AnalyticsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/summary", h.MonthlySummary).Methods("GET")
	router.HandleFunc("/debts", h.DebtSummary).Methods("GET")
	router.HandleFunc("/trends/cash-flow", h.CashFlowTrend).Methods("GET")
	router.HandleFunc("/trends/net-worth", h.NetWorthTrend).Methods("GET")
}

// MonthlySummary reports income/expense totals for ?year= and ?month=,
// defaulting to the current month.
func (h *AnalyticsHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = time.Month(parsed)
	}

	summary, err := h.analytics.MonthlySummary(r.Context(), userID, year, month)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AnalyticsHandler) CashFlowTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	points, err := h.analytics.CashFlowTrend(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *AnalyticsHandler) NetWorthTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	points, err := h.analytics.NetWorthTrend(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *AnalyticsHandler) DebtSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	summary, err := h.analytics.DebtSummary(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
