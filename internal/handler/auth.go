// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/piwpisz/bip-go/internal/auth"
	"github.com/piwpisz/bip-go/internal/middleware"
	"github.com/piwpisz/bip-go/internal/store"
)

// AuthHandler handles back-office authentication.
type AuthHandler struct {
	queries         *store.Queries
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(queries *store.Queries, sm *scs.SessionManager, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		queries:         queries,
		sessionManager:  sm,
		loginProtection: lp,
		logger:          logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an admin user and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ip := clientIP(r)
	if !h.loginProtection.AllowIP(ip) {
		writeJSONError(w, http.StatusTooManyRequests, "Zbyt wiele prób logowania")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Nieprawidłowe dane wejściowe")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Adres e-mail i hasło są wymagane")
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(req.Email); locked {
		writeJSONError(w, http.StatusTooManyRequests,
			fmt.Sprintf("Konto tymczasowo zablokowane, spróbuj ponownie za %s", remaining.Round(time.Second)))
		return
	}

	user, err := h.queries.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.logger.Error("looking up user", "error", err)
			writeJSONError(w, http.StatusServiceUnavailable, "Baza danych niedostępna")
			return
		}
		// Unknown address still counts as a failed attempt.
		h.loginProtection.RecordFailedAttempt(req.Email)
		writeJSONError(w, http.StatusUnauthorized, "Nieprawidłowy adres e-mail lub hasło")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		h.logger.Error("verifying password", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Błąd serwera")
		return
	}
	if !ok {
		locked, _ := h.loginProtection.RecordFailedAttempt(req.Email)
		if locked {
			h.logger.Warn("account locked after failed logins", "email", req.Email, "ip", ip)
		}
		writeJSONError(w, http.StatusUnauthorized, "Nieprawidłowy adres e-mail lub hasło")
		return
	}

	h.loginProtection.RecordSuccessfulLogin(req.Email)

	// New token on privilege change.
	if err := h.sessionManager.RenewToken(ctx); err != nil {
		h.logger.Error("renewing session token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Błąd serwera")
		return
	}
	h.sessionManager.Put(ctx, middleware.SessionKeyUserID, user.ID)

	h.logger.Info("user logged in", "user_id", user.ID, "ip", ip)
	writeJSONSuccess(w, map[string]any{
		"user": userPayload(user),
	})
}

// Logout destroys the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		h.logger.Error("destroying session", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Błąd serwera")
		return
	}
	writeJSONSuccess(w, nil)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSONSuccess(w, map[string]any{
		"user": userPayload(user),
	})
}

func userPayload(user store.User) map[string]any {
	return map[string]any{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
	}
}

// clientIP extracts the remote address without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
