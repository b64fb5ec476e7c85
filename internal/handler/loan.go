package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/service"
)

type LoanHandler struct {
	loans *service.LoanService
	log   *logrus.Logger
}

func NewLoanHandler(loans *service.LoanService, log *logrus.Logger) *LoanHandler {
	return &LoanHandler{loans: loans, log: log}
}

func (h *LoanHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Create).Methods("POST")
	router.HandleFunc("", h.List).Methods("GET")
	// static prefix before the {loanId} routes so mux matches it first
	router.HandleFunc("/principal-payments/{prepaymentId}", h.RevertPrincipalPayment).Methods("DELETE")
	router.HandleFunc("/{loanId}", h.Get).Methods("GET")
	router.HandleFunc("/{loanId}", h.Update).Methods("PUT")
	router.HandleFunc("/{loanId}", h.Delete).Methods("DELETE")
	router.HandleFunc("/{loanId}/payments/{paymentId}/pay", h.PayInstallment).Methods("POST")
	router.HandleFunc("/{loanId}/payments/{paymentId}/revert", h.RevertInstallment).Methods("POST")
	router.HandleFunc("/{loanId}/principal-payments", h.MakePrincipalPayment).Methods("POST")
	router.HandleFunc("/{loanId}/recalculate", h.Recalculate).Methods("POST")
	router.HandleFunc("/{loanId}/recalculate/preview", h.PreviewRecalculation).Methods("POST")
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	var req models.CreateLoanRequest
	if !decode(w, r, &req) {
		return
	}

	loan, err := h.loans.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	loans, err := h.loans.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}
	loan, err := h.loans.Get(r.Context(), userID, loanID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}
	var req models.UpdateLoanRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.loans.Update(r.Context(), userID, loanID, req); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	if err := h.loans.Delete(r.Context(), userID, loanID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type payLoanInstallmentRequest struct {
	FromAccountID uuid.UUID `json:"from_account_id"`
}

func (h *LoanHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}
	paymentID, err := pathID(r, "paymentId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}
	var req payLoanInstallmentRequest
	if !decode(w, r, &req) {
		return
	}

	payment, err := h.loans.PayInstallment(r.Context(), userID, loanID, paymentID, req.FromAccountID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *LoanHandler) RevertInstallment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}
	paymentID, err := pathID(r, "paymentId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	payment, err := h.loans.RevertInstallment(r.Context(), userID, loanID, paymentID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *LoanHandler) MakePrincipalPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}
	var req models.PrincipalPaymentRequest
	if !decode(w, r, &req) {
		return
	}

	prepayment, err := h.loans.MakePrincipalPayment(r.Context(), userID, loanID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, prepayment)
}

func (h *LoanHandler) RevertPrincipalPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	prepaymentID, err := pathID(r, "prepaymentId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid prepayment id")
		return
	}

	if err := h.loans.RevertPrincipalPayment(r.Context(), userID, prepaymentID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *LoanHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}
	var req models.RecalculateRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.loans.Recalculate(r.Context(), userID, loanID, req.Strategy); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *LoanHandler) PreviewRecalculation(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}
	var req models.RecalculateRequest
	if !decode(w, r, &req) {
		return
	}

	installments, err := h.loans.PreviewRecalculation(r.Context(), userID, loanID, req.Strategy)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, installments)
}
