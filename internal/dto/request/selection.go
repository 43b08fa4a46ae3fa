package request

import "kino-tickets/internal/booking"

// OpenSelectionRequest carries the params the film details screen passes to the seat screen.
type OpenSelectionRequest struct {
	SessionID   int     `json:"session_id" validate:"required,min=1"`
	Date        string  `json:"date" validate:"required"`
	Time        string  `json:"time" validate:"required"`
	Cinema      string  `json:"cinema" validate:"required"`
	CinemaID    int     `json:"cinema_id" validate:"required,min=1"`
	Price       float64 `json:"price" validate:"gte=0"`
	PosterImage string  `json:"poster_image" validate:"omitempty,url"`
	BgImage     string  `json:"bg_image" validate:"omitempty,url"`
	Title       string  `json:"title" validate:"required"`
}

func (r OpenSelectionRequest) Showing() booking.Showing {
	return booking.Showing{
		SessionID:   r.SessionID,
		Date:        r.Date,
		Time:        r.Time,
		Cinema:      r.Cinema,
		CinemaID:    r.CinemaID,
		Price:       r.Price,
		PosterImage: r.PosterImage,
		BgImage:     r.BgImage,
		Title:       r.Title,
	}
}

type ConfirmTicketTypeRequest struct {
	TicketType string `json:"ticket_type" validate:"required,oneof=adult child student"`
}
