package response

import (
	"kino-tickets/internal/booking"
	"kino-tickets/pkg/appearance"

	"github.com/shopspring/decimal"
)

type ErrorInfo struct {
	Kind       booking.ErrorKind  `json:"kind"`
	Message    string             `json:"message"`
	Detail     string             `json:"detail,omitempty"`
	Navigation booking.Navigation `json:"navigation"`
}

type Prompt struct {
	Row         int                `json:"row"`
	Col         int                `json:"col"`
	Number      int                `json:"number"`
	Message     string             `json:"message"`
	TicketTypes []TicketTypeOption `json:"ticket_types"`
}

type TicketTypeOption struct {
	Type  booking.TicketType `json:"type"`
	Label string             `json:"label"`
	Price decimal.Decimal    `json:"price"`
}

type SelectionResponse struct {
	ID                string                 `json:"id"`
	State             booking.State          `json:"state"`
	Showing           booking.Showing        `json:"showing"`
	Grid              booking.Grid           `json:"grid"`
	Prompt            *Prompt                `json:"prompt,omitempty"`
	SelectedSeats     []booking.SelectedSeat `json:"selected_seats"`
	TotalPrice        decimal.Decimal        `json:"total_price"`
	TotalPriceDisplay string                 `json:"total_price_display"`
	LastError         *ErrorInfo             `json:"last_error,omitempty"`
	Theme             appearance.Theme       `json:"theme"`
	Navigation        booking.Navigation     `json:"navigation"`
}

type BookingOutcomeResponse struct {
	BookingID         int64                  `json:"booking_id"`
	SessionID         int                    `json:"session_id"`
	Seats             []booking.SelectedSeat `json:"seats"`
	TotalPrice        decimal.Decimal        `json:"total_price"`
	TotalPriceDisplay string                 `json:"total_price_display"`
	Navigation        booking.Navigation     `json:"navigation"`
}
