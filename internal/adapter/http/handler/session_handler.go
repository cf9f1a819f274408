package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aungmyo/shwebook/internal/adapter/http/dto"
	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/infrastructure/auth"
	"github.com/aungmyo/shwebook/internal/usecase"
)

// SessionService defines the behavior needed by SessionHandler.
type SessionService interface {
	Mode() usecase.Mode
	Profile() *domain.UserProfile
	SignIn(ctx context.Context, profile *domain.UserProfile) error
	SignOut(ctx context.Context) error
}

// SessionHandler handles sign-in, sign-out and session introspection.
type SessionHandler struct {
	session SessionService
	tokens  *auth.JWTManager
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(session SessionService, tokens *auth.JWTManager) *SessionHandler {
	return &SessionHandler{session: session, tokens: tokens}
}

// Get reports the current session mode and profile.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SessionFromDomain(h.session.Mode(), h.session.Profile()))
}

// SignIn verifies the supplied token and switches the session to the
// cloud workspace it identifies.
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if h.tokens == nil {
		writeError(w, http.StatusServiceUnavailable, "sign-in disabled", "no token secret configured")
		return
	}

	var req dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "missing token", "")
		return
	}

	profile, err := h.tokens.Verify(req.Token)
	if err != nil {
		writeError(w, mapDomainError(err), "token rejected", err.Error())
		return
	}

	if err := h.session.SignIn(r.Context(), profile); err != nil {
		status := mapDomainError(err)
		if errors.Is(err, usecase.ErrAlreadySignedIn) {
			status = http.StatusConflict
		}
		writeError(w, status, "sign-in failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(h.session.Mode(), h.session.Profile()))
}

// SignOut leaves the cloud workspace and returns to the local one.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SignOut(r.Context()); err != nil {
		status := mapDomainError(err)
		if errors.Is(err, usecase.ErrNotSignedIn) {
			status = http.StatusConflict
		}
		writeError(w, status, "sign-out failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(h.session.Mode(), h.session.Profile()))
}
