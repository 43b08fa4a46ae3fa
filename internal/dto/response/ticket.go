package response

import (
	"time"

	"kino-tickets/internal/data/entity"

	"github.com/shopspring/decimal"
)

type TicketResponse struct {
	ID          string              `json:"id"`
	BookingID   int64               `json:"booking_id"`
	SessionID   int                 `json:"session_id"`
	Title       string              `json:"title"`
	Cinema      string              `json:"cinema"`
	Date        string              `json:"date"`
	Time        string              `json:"time"`
	PosterImage string              `json:"poster_image"`
	Seats       []entity.TicketSeat `json:"seats"`
	TotalPrice  decimal.Decimal     `json:"total_price"`
	CreatedAt   time.Time           `json:"created_at"`
}

func TicketToResponse(ticket *entity.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID.String(),
		BookingID:   ticket.BookingID,
		SessionID:   ticket.SessionID,
		Title:       ticket.Title,
		Cinema:      ticket.Cinema,
		Date:        ticket.ShowDate,
		Time:        ticket.ShowTime,
		PosterImage: ticket.PosterImage,
		Seats:       ticket.Seats,
		TotalPrice:  ticket.TotalPrice,
		CreatedAt:   ticket.CreatedAt,
	}
}
