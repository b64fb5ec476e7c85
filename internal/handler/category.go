package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/service"
)

type CategoryHandler struct {
	categories *service.CategoryService
	log        *logrus.Logger
}

func NewCategoryHandler(categories *service.CategoryService, log *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: log}
}

func (h *CategoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Create).Methods("POST")
	router.HandleFunc("", h.List).Methods("GET")
	router.HandleFunc("/{categoryId}", h.Update).Methods("PUT")
	router.HandleFunc("/{categoryId}", h.Delete).Methods("DELETE")
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	var req models.CategoryRequest
	if !decode(w, r, &req) {
		return
	}

	category, err := h.categories.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	categories, err := h.categories.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	var req models.CategoryRequest
	if !decode(w, r, &req) {
		return
	}

	category, err := h.categories.Update(r.Context(), userID, categoryID, req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categories.Delete(r.Context(), userID, categoryID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
