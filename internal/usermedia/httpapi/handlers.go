package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/onemed1a/backend/internal/auth"
	"github.com/onemed1a/backend/internal/catalog"
	"github.com/onemed1a/backend/internal/usermedia/models"
	"github.com/onemed1a/backend/internal/usermedia/service"
	"github.com/onemed1a/backend/internal/validate"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes is mounted under /api/v1/usermedia.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.upsert)
	r.Get("/{mediaId}", h.get)
	r.Patch("/{mediaId}", h.update)
	r.Delete("/{mediaId}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == uuid.Nil {
		writeErrorJSON(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	q := r.URL.Query()

	p := service.ListParams{
		Status: models.Status(q.Get("status")),
		Type:   catalog.MediaType(q.Get("type")),
		Size:   10,
		Sort:   q.Get("sort"),
	}
	if p.Sort == "" {
		p.Sort = "updatedAt,desc"
	}

	var err error
	if v := q.Get("page"); v != "" {
		if p.Page, err = strconv.Atoi(v); err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "page must be an integer")
			return
		}
	}
	if v := q.Get("size"); v != "" {
		if p.Size, err = strconv.Atoi(v); err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "size must be an integer")
			return
		}
	}

	rows, err := h.svc.List(r.Context(), uid, p)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]StatusResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toStatusResponse(&rows[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == uuid.Nil {
		writeErrorJSON(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	mediaID, err := uuid.Parse(chi.URLParam(r, "mediaId"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid media id")
		return
	}

	rec, err := h.svc.GetByUserAndMedia(r.Context(), uid, mediaID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(rec))
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == uuid.Nil {
		writeErrorJSON(w, http.StatusUnauthorized, "missing user identity")
		return
	}
	defer r.Body.Close()

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if errs := validate.Map(req); errs != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	rec, err := h.svc.Upsert(r.Context(), uid, service.UpsertParams{
		MediaID:    req.MediaID,
		Status:     req.Status,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(rec))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == uuid.Nil {
		writeErrorJSON(w, http.StatusUnauthorized, "missing user identity")
		return
	}
	defer r.Body.Close()

	mediaID, err := uuid.Parse(chi.URLParam(r, "mediaId"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid media id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if errs := validate.Map(req); errs != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	p := service.UpdateParams{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	rec, err := h.svc.Update(r.Context(), uid, mediaID, p)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(rec))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == uuid.Nil {
		writeErrorJSON(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	mediaID, err := uuid.Parse(chi.URLParam(r, "mediaId"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid media id")
		return
	}

	deleted, err := h.svc.Delete(r.Context(), uid, mediaID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		writeErrorJSON(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		writeErrorJSON(w, http.StatusBadRequest, "invalid argument")
	case errors.Is(err, models.ErrNotFound):
		writeErrorJSON(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrConflict):
		writeErrorJSON(w, http.StatusConflict, "conflict")
	default:
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
