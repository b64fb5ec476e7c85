package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/service"
)

type PurchaseHandler struct {
	purchases *service.PurchaseService
	log       *logrus.Logger
}

func NewPurchaseHandler(purchases *service.PurchaseService, log *logrus.Logger) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, log: log}
}

func (h *PurchaseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Create).Methods("POST")
	router.HandleFunc("", h.List).Methods("GET")
	router.HandleFunc("/{purchaseId}", h.Get).Methods("GET")
	router.HandleFunc("/{purchaseId}", h.Update).Methods("PUT")
	router.HandleFunc("/{purchaseId}", h.Delete).Methods("DELETE")
	router.HandleFunc("/{purchaseId}/payments/{paymentId}/pay", h.PayInstallment).Methods("POST")
	router.HandleFunc("/{purchaseId}/payments/{paymentId}/revert", h.RevertInstallment).Methods("POST")
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	var req models.CreatePurchaseRequest
	if !decode(w, r, &req) {
		return
	}

	purchase, err := h.purchases.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	purchases, err := h.purchases.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	purchaseID, err := pathID(r, "purchaseId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	purchase, err := h.purchases.Get(r.Context(), userID, purchaseID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}

func (h *PurchaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	purchaseID, err := pathID(r, "purchaseId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	var req models.UpdatePurchaseRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.purchases.Update(r.Context(), userID, purchaseID, req); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	purchaseID, err := pathID(r, "purchaseId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	if err := h.purchases.Delete(r.Context(), userID, purchaseID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *PurchaseHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	purchaseID, err := pathID(r, "purchaseId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	paymentID, err := pathID(r, "paymentId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	payment, err := h.purchases.PayInstallment(r.Context(), userID, purchaseID, paymentID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *PurchaseHandler) RevertInstallment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	purchaseID, err := pathID(r, "purchaseId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	paymentID, err := pathID(r, "paymentId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	payment, err := h.purchases.RevertInstallment(r.Context(), userID, purchaseID, paymentID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}
