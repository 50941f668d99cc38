package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nycarrests/internal/httputil"
	"nycarrests/internal/model"
	"nycarrests/internal/service"
	"nycarrests/internal/transport/http/middleware"
	"nycarrests/internal/validate"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func writeCommentError(w http.ResponseWriter, err error, op string) {
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.WriteFieldError(w, verr.Field, verr.Reason)
	case errors.Is(err, model.ErrCommentNotFound):
		httputil.WriteNotFound(w, "Comment not found")
	case errors.Is(err, model.ErrNotCommentOwner):
		httputil.WriteForbidden(w, "You can only modify your own comments")
	case errors.Is(err, model.ErrArrestNotFound):
		httputil.WriteNotFound(w, "Arrest record not found")
	default:
		log.Printf("[ERROR] %s: err=%v", op, err)
		httputil.WriteInternalError(w, "Storage operation failed")
	}
}

// Add handles POST /comments (authenticated).
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Add(r.Context(), userID, req.ArrestID, req.Text)
	if err != nil {
		writeCommentError(w, err, "Add comment handler")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// ListByArrest handles GET /arrests/{id}/comments, newest first.
func (h *CommentHandler) ListByArrest(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.GetByArrest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeCommentError(w, err, "List comments by arrest handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// ListByUser handles GET /users/{id}/comments, newest first.
func (h *CommentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.GetByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeCommentError(w, err, "List comments by user handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// Update handles PUT /comments/{id} (authenticated, owner only).
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Update(r.Context(), chi.URLParam(r, "id"), userID, req.Text)
	if err != nil {
		writeCommentError(w, err, "Update comment handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /comments/{id} (authenticated, owner only).
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.commentService.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeCommentError(w, err, "Delete comment handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
