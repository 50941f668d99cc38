package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nycarrests/internal/httputil"
	"nycarrests/internal/model"
	"nycarrests/internal/service"
	"nycarrests/internal/validate"
)

type ArrestHandler struct {
	arrestService *service.ArrestService
}

func NewArrestHandler(arrestService *service.ArrestService) *ArrestHandler {
	return &ArrestHandler{arrestService: arrestService}
}

// writeArrestError maps the data-layer error taxonomy onto status codes.
func writeArrestError(w http.ResponseWriter, err error, op string) {
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.WriteFieldError(w, verr.Field, verr.Reason)
	case errors.Is(err, model.ErrArrestNotFound):
		httputil.WriteNotFound(w, "Arrest record not found")
	default:
		log.Printf("[ERROR] %s: err=%v", op, err)
		httputil.WriteInternalError(w, "Storage operation failed")
	}
}

// List handles GET /arrests?page=&limit= with pagination metadata.
func (h *ArrestHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := model.DefaultPageLimit

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteFieldError(w, "page", "must be an integer")
			return
		}
		page = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteFieldError(w, "limit", "must be an integer")
			return
		}
		limit = n
	}

	result, err := h.arrestService.List(r.Context(), page, limit)
	if err != nil {
		writeArrestError(w, err, "List arrests handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// Get handles GET /arrests/{id}.
func (h *ArrestHandler) Get(w http.ResponseWriter, r *http.Request) {
	arrest, err := h.arrestService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeArrestError(w, err, "Get arrest handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, arrest)
}

// Create handles POST /arrests (authenticated).
func (h *ArrestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateArrestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	arrest, err := h.arrestService.Create(r.Context(), &req)
	if err != nil {
		writeArrestError(w, err, "Create arrest handler")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, arrest)
}

// Delete handles DELETE /arrests/{id} (authenticated).
func (h *ArrestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.arrestService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeArrestError(w, err, "Delete arrest handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Filter handles GET /arrests/filter with zero or more criteria combined
// conjunctively.
func (h *ArrestHandler) Filter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := model.ArrestFilterParams{
		Borough:            q.Get("borough"),
		Precinct:           q.Get("precinct"),
		OffenseDescription: q.Get("offense_description"),
		LawCategory:        q.Get("law_category"),
		AgeGroup:           q.Get("age_group"),
		Gender:             q.Get("gender"),
		Race:               q.Get("race"),
	}

	arrests, err := h.arrestService.Filter(r.Context(), params)
	if err != nil {
		writeArrestError(w, err, "Filter arrests handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"arrests": arrests})
}

// Search handles GET /arrests/search?keyword=.
func (h *ArrestHandler) Search(w http.ResponseWriter, r *http.Request) {
	arrests, err := h.arrestService.Search(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		writeArrestError(w, err, "Search arrests handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"arrests": arrests})
}
