package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// RateSource provides the current reference interest rate
type RateSource interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

// RateHandler exposes the central bank reference rate used when quoting
// new loans.
type RateHandler struct {
	source RateSource
	log    *logrus.Logger
}

func NewRateHandler(source RateSource, log *logrus.Logger) *RateHandler {
	return &RateHandler{source: source, log: log}
}

func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reference-rate", h.ReferenceRate).Methods("GET")
}

func (h *RateHandler) ReferenceRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.source.GetKeyRate(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to get reference rate")
		writeError(w, http.StatusBadGateway, "reference rate unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"reference_rate": rate})
}
