package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"nycarrests/internal/httputil"
	"nycarrests/internal/model"
	"nycarrests/internal/service"
	"nycarrests/internal/transport/http/middleware"
	"nycarrests/internal/validate"
)

type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
	}
}

// Register handles POST /auth/register.
// Applies the strict password policy at the boundary, creates the account
// and returns it with an access token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if _, err := validate.Password(req.Password); err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			httputil.WriteFieldError(w, verr.Field, verr.Reason)
			return
		}
		httputil.WriteBadRequest(w, "Invalid password")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		var verr *validate.ValidationError
		switch {
		case errors.As(err, &verr):
			httputil.WriteFieldError(w, verr.Field, verr.Reason)
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, "Username already exists")
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "Email already exists")
		default:
			log.Printf("[ERROR] Register handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to register")
		}
		return
	}

	token, err := h.authService.GenerateAccessToken(user.ID.Hex())
	if err != nil {
		log.Printf("[ERROR] Register handler: token err=%v", err)
		httputil.WriteInternalError(w, "Failed to issue token")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user":         user,
		"access_token": token,
	})
}

// Login handles POST /auth/login.
// Both unknown-username and wrong-password come back as the same generic
// 401 so callers cannot probe for accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound),
			errors.Is(err, model.ErrInvalidPassword),
			errors.Is(err, model.ErrInvalidCredentials):
			log.Printf("[AuthHandler] login failed: username=%q err=%v", req.Username, err)
			httputil.WriteUnauthorized(w, "Invalid username or password")
		default:
			log.Printf("[ERROR] Login handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to log in")
		}
		return
	}

	token, err := h.authService.GenerateAccessToken(user.ID.Hex())
	if err != nil {
		log.Printf("[ERROR] Login handler: token err=%v", err)
		httputil.WriteInternalError(w, "Failed to issue token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"access_token": token,
	})
}

// Me handles GET /me for the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] Me handler: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
