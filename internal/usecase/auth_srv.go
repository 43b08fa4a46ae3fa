package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/dto/response"
	"kino-tickets/pkg/utils"

	"go.uber.org/zap"
)

// AuthService proxies account operations to the backend, which owns users.
type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (json.RawMessage, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
}

type authService struct {
	backend Backend
	log     *zap.Logger
}

func NewAuthService(backend Backend, log *zap.Logger) AuthService {
	return &authService{
		backend: backend,
		log:     log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (json.RawMessage, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	body, err := s.backend.Register(ctx, *req)
	if err != nil {
		s.log.Warn("Register rejected", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info("User registered", zap.String("username", req.Username))
	return body, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	resp, err := s.backend.Login(ctx, *req)
	if err != nil {
		s.log.Warn("Login rejected", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info("User logged in", zap.Int64("user_id", resp.User.ID))
	return resp, nil
}
