package usecase

import (
	"context"
	"fmt"
	"time"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/data/entity"
	"kino-tickets/internal/data/repository"
	"kino-tickets/internal/dto/request"
	"kino-tickets/internal/dto/response"
	"kino-tickets/pkg/broker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TicketIssued is published once a confirmed booking is recorded.
type TicketIssued struct {
	TicketID   string                 `json:"ticket_id"`
	BookingID  int64                  `json:"booking_id"`
	SessionID  int                    `json:"session_id"`
	Title      string                 `json:"title"`
	Cinema     string                 `json:"cinema"`
	Date       string                 `json:"date"`
	Time       string                 `json:"time"`
	Seats      []booking.SelectedSeat `json:"seats"`
	TotalPrice decimal.Decimal        `json:"total_price"`
	IssuedAt   time.Time              `json:"issued_at"`
}

type TicketService interface {
	Record(ctx context.Context, owner string, showing booking.Showing, outcome *booking.Outcome) (*entity.Ticket, error)
	ListByOwner(ctx context.Context, owner string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error)
}

type ticketService struct {
	repo      *repository.Repository
	publisher broker.Publisher
	log       *zap.Logger
}

func NewTicketService(
	repo *repository.Repository,
	publisher broker.Publisher,
	log *zap.Logger,
) TicketService {
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	return &ticketService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "ticket")),
	}
}

// Record stores the ticket for a confirmed booking and announces it. A booking
// that already has a ticket is returned as is and not announced again.
func (s *ticketService) Record(ctx context.Context, owner string, showing booking.Showing, outcome *booking.Outcome) (*entity.Ticket, error) {
	existing, err := s.repo.Ticket.FindByBookingID(ctx, outcome.BookingID)
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	if existing != nil {
		s.log.Info("Ticket already recorded", zap.Int64("booking_id", outcome.BookingID))
		return existing, nil
	}

	seats := make([]entity.TicketSeat, 0, len(outcome.Seats))
	for _, seat := range outcome.Seats {
		seats = append(seats, entity.TicketSeat{
			Number:     seat.Number,
			TicketType: string(seat.TicketType),
		})
	}

	ticket := &entity.Ticket{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		BookingID:   outcome.BookingID,
		OwnerKey:    owner,
		SessionID:   outcome.SessionID,
		Title:       showing.Title,
		Cinema:      showing.Cinema,
		ShowDate:    showing.Date,
		ShowTime:    showing.Time,
		PosterImage: showing.PosterImage,
		Seats:       seats,
		TotalPrice:  outcome.TotalPrice,
	}

	if err := s.repo.Ticket.Create(ctx, ticket); err != nil {
		s.log.Error("Failed to create ticket", zap.Error(err), zap.Int64("booking_id", outcome.BookingID))
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	event := TicketIssued{
		TicketID:   ticket.ID.String(),
		BookingID:  ticket.BookingID,
		SessionID:  ticket.SessionID,
		Title:      ticket.Title,
		Cinema:     ticket.Cinema,
		Date:       ticket.ShowDate,
		Time:       ticket.ShowTime,
		Seats:      outcome.Seats,
		TotalPrice: ticket.TotalPrice,
		IssuedAt:   ticket.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish ticket event", zap.Error(err), zap.Int64("booking_id", ticket.BookingID))
	}

	s.log.Info("Ticket recorded",
		zap.String("ticket_id", ticket.ID.String()),
		zap.Int64("booking_id", ticket.BookingID),
		zap.Int("seats", len(seats)),
	)

	return ticket, nil
}

func (s *ticketService) ListByOwner(ctx context.Context, owner string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	tickets, err := s.repo.Ticket.FindByOwner(ctx, owner, limit, offset)
	if err != nil {
		s.log.Error("Failed to get tickets", zap.Error(err), zap.Int("page", req.Page))
		return nil, fmt.Errorf("get tickets: %w", err)
	}

	total, err := s.repo.Ticket.CountByOwner(ctx, owner)
	if err != nil {
		s.log.Error("Failed to count tickets", zap.Error(err))
		return nil, fmt.Errorf("count tickets: %w", err)
	}

	data := make([]response.TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		data = append(data, response.TicketToResponse(ticket))
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}
