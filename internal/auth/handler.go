package auth

import (
	"encoding/json"
	"log"
	"net/http"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

type LoginResponse struct {
	Success bool       `json:"success"`
	Tokens  *TokenPair `json:"tokens"`
	User    *User      `json:"user"`
}

type UserSuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch err {
		case ErrMissingUsername, ErrMissingEmail, ErrMissingPassword, ErrPasswordTooShort, ErrInvalidRole:
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		case ErrUsernameTaken, ErrEmailTaken:
			respondError(w, http.StatusConflict, "conflict", err.Error())
		default:
			log.Printf("[ERROR] Failed to register user: %v", err)
			respondError(w, http.StatusInternalServerError, "registration_failed", "Failed to register user")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UserSuccessResponse{
		Success: true,
		Message: "User registered successfully",
		User:    user,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	tokens, user, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
		case ErrAccountDisabled:
			respondError(w, http.StatusForbidden, "account_disabled", err.Error())
		default:
			log.Printf("[ERROR] Login failed: %v", err)
			respondError(w, http.StatusInternalServerError, "login_failed", "Failed to log in")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Success: true,
		Tokens:  tokens,
		User:    user,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "Refresh token is required")
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case ErrTokenRevoked:
			respondError(w, http.StatusUnauthorized, "token_revoked", err.Error())
		case ErrAccountDisabled:
			respondError(w, http.StatusForbidden, "account_disabled", err.Error())
		case ErrUserNotFound:
			respondError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		default:
			respondError(w, http.StatusUnauthorized, "invalid_token", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokens)
}

func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	principal, err := h.service.Verify(r.Context(), req.Token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_token", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"valid":    true,
		"user_id":  principal.UserID,
		"username": principal.Username,
		"roles":    principal.Roles,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "Refresh token is required")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_token", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	user, err := h.service.GetProfile(r.Context(), principal.UserID)
	if err != nil {
		if err == ErrUserNotFound {
			respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		log.Printf("[ERROR] Failed to load profile: %v", err)
		respondError(w, http.StatusInternalServerError, "fetch_failed", "Failed to load profile")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UserSuccessResponse{
		Success: true,
		Message: "Profile retrieved successfully",
		User:    user,
	})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), principal.UserID, req)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			respondError(w, http.StatusNotFound, "not_found", err.Error())
		case ErrEmailTaken:
			respondError(w, http.StatusConflict, "conflict", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UserSuccessResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	if err := h.service.ChangePassword(r.Context(), principal.UserID, req); err != nil {
		switch err {
		case ErrWrongPassword:
			respondError(w, http.StatusBadRequest, "wrong_password", err.Error())
		case ErrMissingPassword, ErrPasswordTooShort:
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		case ErrUserNotFound:
			respondError(w, http.StatusNotFound, "not_found", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Password changed successfully",
	})
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}
