package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"kino-tickets/internal/data/entity"
	"kino-tickets/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	FindByBookingID(ctx context.Context, bookingID int64) (*entity.Ticket, error)
	FindByOwner(ctx context.Context, ownerKey string, limit, offset int) ([]*entity.Ticket, error)
	CountByOwner(ctx context.Context, ownerKey string) (int64, error)

	// FindTakenSeats returns every seat number already ticketed for the session.
	FindTakenSeats(ctx context.Context, sessionID int) ([]int, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

const ticketColumns = `id, booking_id, owner_key, session_id, title, cinema, show_date, show_time,
		poster_image, seats, total_price::text, created_at`

// Create is idempotent per booking id: a repeated write for the same booking is ignored.
func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	seats, err := json.Marshal(ticket.Seats)
	if err != nil {
		return fmt.Errorf("marshal seats for booking %d: %w", ticket.BookingID, err)
	}

	query := `
		INSERT INTO tickets (id, booking_id, owner_key, session_id, title, cinema, show_date, show_time,
			poster_image, seats, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::numeric, $12)
		ON CONFLICT (booking_id) DO NOTHING
	`

	_, err = r.db.Exec(ctx, query,
		ticket.ID,
		ticket.BookingID,
		ticket.OwnerKey,
		ticket.SessionID,
		ticket.Title,
		ticket.Cinema,
		ticket.ShowDate,
		ticket.ShowTime,
		ticket.PosterImage,
		seats,
		ticket.TotalPrice.String(),
		ticket.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.Int64("booking_id", ticket.BookingID),
			zap.Int("session_id", ticket.SessionID),
		)
		return fmt.Errorf("create ticket for booking %d: %w", ticket.BookingID, err)
	}

	return nil
}

func (r *ticketRepository) FindByBookingID(ctx context.Context, bookingID int64) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE booking_id = $1`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by booking ID", zap.Error(err), zap.Int64("booking_id", bookingID))
		return nil, fmt.Errorf("find ticket by booking %d: %w", bookingID, err)
	}

	return ticket, nil
}

func (r *ticketRepository) FindByOwner(ctx context.Context, ownerKey string, limit, offset int) ([]*entity.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE owner_key = $1
		ORDER BY created_at DESC, booking_id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, ownerKey, limit, offset)
	if err != nil {
		r.log.Error("Failed to find tickets by owner", zap.Error(err))
		return nil, fmt.Errorf("find tickets by owner: %w", err)
	}
	defer rows.Close()

	tickets := []*entity.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			r.log.Error("Failed to scan ticket", zap.Error(err))
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}

func (r *ticketRepository) CountByOwner(ctx context.Context, ownerKey string) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE owner_key = $1`, ownerKey).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count tickets by owner", zap.Error(err))
		return 0, fmt.Errorf("count tickets by owner: %w", err)
	}
	return total, nil
}

func (r *ticketRepository) FindTakenSeats(ctx context.Context, sessionID int) ([]int, error) {
	query := `
		SELECT DISTINCT (seat->>'number')::int AS number
		FROM tickets, jsonb_array_elements(seats) AS seat
		WHERE session_id = $1
		ORDER BY number
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		r.log.Error("Failed to find taken seats", zap.Error(err), zap.Int("session_id", sessionID))
		return nil, fmt.Errorf("find taken seats for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	numbers := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan seat number: %w", err)
		}
		numbers = append(numbers, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate taken seats: %w", err)
	}

	return numbers, nil
}

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var (
		ticket entity.Ticket
		seats  []byte
		price  string
	)

	err := row.Scan(
		&ticket.ID,
		&ticket.BookingID,
		&ticket.OwnerKey,
		&ticket.SessionID,
		&ticket.Title,
		&ticket.Cinema,
		&ticket.ShowDate,
		&ticket.ShowTime,
		&ticket.PosterImage,
		&seats,
		&price,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(seats, &ticket.Seats); err != nil {
		return nil, fmt.Errorf("decode seats: %w", err)
	}

	ticket.TotalPrice, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("decode total price %q: %w", price, err)
	}

	return &ticket, nil
}
