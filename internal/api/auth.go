package api

import (
	"net/http"
	"time"

	"github.com/finexpress/storefront/internal/domain/admin"
)

type accountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func toAccountResponse(a *admin.Account) accountResponse {
	return accountResponse{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     string(a.Role),
	}
}

type sessionResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	Admin   accountResponse `json:"admin"`
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.admins.Register(r.Context(), admin.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.setSessionCookie(w, session.Token, h.cfg.SessionTTL)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Success: true,
		Token:   session.Token,
		Admin:   toAccountResponse(session.Account),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.setSessionCookie(w, session.Token, h.cfg.SessionTTL)
	writeJSON(w, http.StatusOK, sessionResponse{
		Success: true,
		Token:   session.Token,
		Admin:   toAccountResponse(session.Account),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, _ *http.Request) {
	// Expire the cookie immediately. Stateless tokens cannot be revoked
	// server side; they simply age out.
	h.setSessionCookie(w, "", -time.Second)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "logged out",
	})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	a := AdminFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"admin":   toAccountResponse(a),
	})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	a := AdminFromContext(r.Context())
	if err := h.admins.ChangePassword(r.Context(), a.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "password updated",
	})
}
