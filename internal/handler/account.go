package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/service"
)

type AccountHandler struct {
	accounts *service.AccountService
	log      *logrus.Logger
}

func NewAccountHandler(accounts *service.AccountService, log *logrus.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, log: log}
}

func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Create).Methods("POST")
	router.HandleFunc("", h.List).Methods("GET")
	router.HandleFunc("/{accountId}", h.Update).Methods("PUT")
	router.HandleFunc("/{accountId}", h.Delete).Methods("DELETE")
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	var req models.CreateAccountRequest
	if !decode(w, r, &req) {
		return
	}

	account, err := h.accounts.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	accounts, err := h.accounts.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	accountID, err := pathID(r, "accountId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	var req models.UpdateAccountRequest
	if !decode(w, r, &req) {
		return
	}

	account, err := h.accounts.Update(r.Context(), userID, accountID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	accountID, err := pathID(r, "accountId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	if err := h.accounts.Delete(r.Context(), userID, accountID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
