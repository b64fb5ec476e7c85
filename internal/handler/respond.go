package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/middleware"
	"github.com/wezzertop/zafinan/internal/repository"
	"github.com/wezzertop/zafinan/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service-layer errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, log *logrus.Logger, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, service.ErrPaymentOrderViolation),
		errors.Is(err, service.ErrNoRevertibleTransaction):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotOwned):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		log.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// authedUser pulls the authenticated user ID out of the request context;
// a missing ID means the route was wired outside the auth middleware.
func authedUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}
