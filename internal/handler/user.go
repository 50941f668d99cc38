package handler

import (
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

type UserHandler struct {
	userService   *service.UserService
	arrestService *service.ArrestService
}

func NewUserHandler(userService *service.UserService, arrestService *service.ArrestService) *UserHandler {
	return &UserHandler{userService: userService, arrestService: arrestService}
}

func writeUserError(w http.ResponseWriter, err error, op string) {
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.WriteFieldError(w, verr.Field, verr.Reason)
	case errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w, "User not found")
	default:
		log.Printf("[ERROR] %s: err=%v", op, err)
		httputil.WriteInternalError(w, "Storage operation failed")
	}
}

// Get handles GET /users/{id}. The password hash is stripped by the service.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUserError(w, err, "Get user handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// AddFavorite handles POST /users/me/favorites/{arrestId} (authenticated).
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.userService.AddFavorite(r.Context(), userID, chi.URLParam(r, "arrestId")); err != nil {
		writeUserError(w, err, "Add favorite handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"favorited": true})
}

// RemoveFavorite handles DELETE /users/me/favorites/{arrestId} (authenticated).
// Removing an id that was never favorited still succeeds.
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.userService.RemoveFavorite(r.Context(), userID, chi.URLParam(r, "arrestId")); err != nil {
		writeUserError(w, err, "Remove favorite handler")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"favorited": false})
}

// ListFavorites handles GET /users/me/favorites (authenticated). Favorite ids
// with no matching arrest record are skipped, not errors: favorites carry no
// referential integrity.
func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeUserError(w, err, "List favorites handler")
		return
	}

	arrests := make([]model.Arrest, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		arrest, err := h.arrestService.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, model.ErrArrestNotFound) {
				continue
			}
			var verr *validate.ValidationError
			if errors.As(err, &verr) {
				continue
			}
			writeUserError(w, err, "List favorites handler")
			return
		}
		arrests = append(arrests, *arrest)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"favorites": arrests})
}
