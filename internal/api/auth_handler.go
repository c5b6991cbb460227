package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/atulkamble/ecommerce-devops-project/internal/commerce"
	"github.com/atulkamble/ecommerce-devops-project/internal/domain"
	"github.com/atulkamble/ecommerce-devops-project/internal/session"
)

type AuthHandler struct {
	sessions *session.Store
	timeout  time.Duration
	log      logrus.FieldLogger
}

func NewAuthHandler(sessions *session.Store, timeout time.Duration, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		timeout:  timeout,
		log:      log,
	}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponseDTO struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user,omitempty"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_credentials", "email and password are required")
		return
	}

	if err := h.sessions.Login(ctx, req.Email, req.Password); err != nil {
		h.respondAuthError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.sessionDTO())
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "name, email and password are required")
		return
	}

	if err := h.sessions.Register(ctx, req.Name, req.Email, req.Password); err != nil {
		h.respondAuthError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.sessionDTO())
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.Logout()
	respondJSON(w, http.StatusOK, h.sessionDTO())
}

// GET /api/v1/session
func (h *AuthHandler) Session(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.sessionDTO())
}

func (h *AuthHandler) sessionDTO() SessionResponseDTO {
	if identity, ok := h.sessions.Current(); ok {
		return SessionResponseDTO{Authenticated: true, User: &identity}
	}
	return SessionResponseDTO{Authenticated: false}
}

func (h *AuthHandler) respondAuthError(w http.ResponseWriter, err error) {
	var apiErr *commerce.APIError
	if errors.As(err, &apiErr) {
		respondError(w, apiErr.StatusCode, "auth_failed", apiErr.Message)
		return
	}
	h.log.WithError(err).Error("auth backend call failed")
	respondError(w, http.StatusBadGateway, "backend_unavailable", err.Error())
}
