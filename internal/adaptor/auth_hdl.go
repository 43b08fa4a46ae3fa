package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/usecase"
	"kino-tickets/pkg/i18n"
	"kino-tickets/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service    usecase.AuthService
	translator *i18n.Translator
	log        *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, translator *i18n.Translator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:    service,
		translator: translator,
		log:        log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest

	// Decode request body
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	body, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful", body)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if errors.Is(err, usecase.ErrValidation) {
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}
	writeUpstreamError(w, h.log, localeOf(h.translator, r), err, operation)
}
