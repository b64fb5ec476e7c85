package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/service"
)

type TransactionHandler struct {
	transactions *service.TransactionService
	log          *logrus.Logger
}

func NewTransactionHandler(transactions *service.TransactionService, log *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, log: log}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Create).Methods("POST")
	router.HandleFunc("", h.List).Methods("GET")
	router.HandleFunc("/{transactionId}", h.Update).Methods("PUT")
	router.HandleFunc("/{transactionId}", h.Delete).Methods("DELETE")
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	var req models.TransactionRequest
	if !decode(w, r, &req) {
		return
	}

	transaction, err := h.transactions.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, transaction)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	transactions, err := h.transactions.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	transactionID, err := pathID(r, "transactionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}
	var req models.TransactionRequest
	if !decode(w, r, &req) {
		return
	}

	transaction, err := h.transactions.Update(r.Context(), userID, transactionID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	transactionID, err := pathID(r, "transactionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := h.transactions.Delete(r.Context(), userID, transactionID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
