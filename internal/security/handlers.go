// internal/security/handlers.go
package security

import (
	"encoding/json"
	"errors"
	"net/http"

	"auctionbackend/internal/logger"
	"auctionbackend/internal/middleware"
)

// LoginHandler authenticates a pre-registered bidder and returns a session token.
func (s *Sessions) LoginHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	if r.Method != http.MethodPost {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	identity, token, err := s.Login(req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		middleware.WriteError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}
	if err != nil {
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		middleware.WriteError(w, r, http.StatusInternalServerError, "internal_error", "login failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    identity,
	})
}

// LogoutHandler invalidates the caller's session token.
func (s *Sessions) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	if token := TokenFromRequest(r); token != "" {
		s.Logout(token)
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UserInfoHandler returns the authenticated bidder's identity.
func (s *Sessions) UserInfoHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	identity, err := s.IdentityFromToken(TokenFromRequest(r))
	if err != nil {
		middleware.WriteError(w, r, http.StatusUnauthorized, "not_authenticated", "Not authenticated")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, identity)
}

// RequireAuth wraps a handler with session authentication.
func (s *Sessions) RequireAuth(next func(http.ResponseWriter, *http.Request, *Identity)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.IdentityFromToken(TokenFromRequest(r))
		if err != nil {
			middleware.WriteError(w, r, http.StatusUnauthorized, "not_authenticated", "Not authenticated")
			return
		}
		next(w, r, identity)
	}
}

// RequireAdmin wraps a handler with session authentication plus a fresh
// admin-role check.
func (s *Sessions) RequireAdmin(next func(http.ResponseWriter, *http.Request, *Identity)) http.HandlerFunc {
	return s.RequireAuth(func(w http.ResponseWriter, r *http.Request, identity *Identity) {
		isAdmin, err := s.IsAdmin(identity.ID)
		if err != nil {
			logger.LogHTTPError(r, http.StatusInternalServerError, err)
			middleware.WriteError(w, r, http.StatusInternalServerError, "internal_error", "role check failed")
			return
		}
		if !isAdmin {
			middleware.WriteError(w, r, http.StatusForbidden, "not_authorized", "administrator role required")
			return
		}
		next(w, r, identity)
	})
}
