package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/service"
)

type RecurringHandler struct {
	recurring *service.RecurringService
	log       *logrus.Logger
}

func NewRecurringHandler(recurring *service.RecurringService, log *logrus.Logger) *RecurringHandler {
	return &RecurringHandler{recurring: recurring, log: log}
}

func (h *RecurringHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Create).Methods("POST")
	router.HandleFunc("", h.List).Methods("GET")
	router.HandleFunc("/{recurringId}", h.Update).Methods("PUT")
	router.HandleFunc("/{recurringId}", h.Delete).Methods("DELETE")
	router.HandleFunc("/{recurringId}/execute", h.Execute).Methods("POST")
}

func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	var req models.RecurringTransactionRequest
	if !decode(w, r, &req) {
		return
	}

	recurring, err := h.recurring.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, recurring)
}

func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	recurring, err := h.recurring.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, recurring)
}

func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	recurringID, err := pathID(r, "recurringId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recurring transaction id")
		return
	}
	var req models.RecurringTransactionRequest
	if !decode(w, r, &req) {
		return
	}

	recurring, err := h.recurring.Update(r.Context(), userID, recurringID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, recurring)
}

func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	recurringID, err := pathID(r, "recurringId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recurring transaction id")
		return
	}

	if err := h.recurring.Delete(r.Context(), userID, recurringID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *RecurringHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	recurringID, err := pathID(r, "recurringId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recurring transaction id")
		return
	}

	transaction, err := h.recurring.Execute(r.Context(), userID, recurringID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, transaction)
}
