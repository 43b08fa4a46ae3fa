package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/data/repository"
	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/dto/response"
	"kino-tickets/pkg/broker"
	"kino-tickets/pkg/utils"

	"go.uber.org/zap"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrSelectionNotFound = errors.New("selection not found")
	ErrNoFaceDetected    = errors.New("no face detected")
)

// Backend is the ticketing backend as seen by the services.
type Backend interface {
	booking.Submitter
	Login(ctx context.Context, req request.LoginRequest) (*response.LoginResponse, error)
	Register(ctx context.Context, req request.RegisterRequest) (json.RawMessage, error)
	Films(ctx context.Context, list string) (json.RawMessage, error)
	FilmDetails(ctx context.Context, id int) (json.RawMessage, error)
	FilmSessions(ctx context.Context, id int) (json.RawMessage, error)
	SearchFilms(ctx context.Context, query, lang string) (json.RawMessage, error)
	Vote(ctx context.Context, token string, id int, req request.VoteRequest) (json.RawMessage, error)
	RemoveVote(ctx context.Context, token string, id int) (json.RawMessage, error)
	DetectEmotion(ctx context.Context, filename string, image io.Reader) ([]response.Face, error)
	Recommend(ctx context.Context, token, emotion string, limit int) ([]response.RecommendedFilm, error)
}

type Service struct {
	Auth      AuthService
	Seat      SeatService
	Ticket    TicketService
	Catalog   CatalogService
	Recommend RecommendService
}

func NewService(
	repo *repository.Repository,
	backend Backend,
	publisher broker.Publisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	booker := booking.NewBooker(backend, log,
		booking.WithTimeout(config.Upstream.BookingTimeout),
		booking.WithExpiryCheck(utils.TokenExpired),
	)
	tickets := NewTicketService(repo, publisher, log)

	return &Service{
		Auth:      NewAuthService(backend, log),
		Seat:      NewSeatService(repo, tickets, booker, config.Booking, log),
		Ticket:    tickets,
		Catalog:   NewCatalogService(repo, backend, config.Catalog, log),
		Recommend: NewRecommendService(backend, log),
	}
}
