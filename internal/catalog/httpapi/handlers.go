package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/onemed1a/backend/internal/catalog"
)

// Read-only catalog lookups. Ingestion happens elsewhere.
type Handler struct {
	cat catalog.Catalog
}

func New(cat catalog.Catalog) *Handler {
	return &Handler{cat: cat}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/media/{id}", h.getMedia)
}

func (h *Handler) getMedia(w http.ResponseWriter, r *http.Request) {
	if h.cat == nil {
		writeErrorJSON(w, http.StatusServiceUnavailable, "catalog not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid media id")
		return
	}

	m, err := h.cat.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeErrorJSON(w, http.StatusNotFound, "not found")
			return
		}
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
