package entity

import (
	"github.com/shopspring/decimal"
)

// Ticket is the locally kept record of a confirmed booking, shown in "my tickets".
type Ticket struct {
	BaseSimple
	BookingID   int64           `db:"booking_id"`
	OwnerKey    string          `db:"owner_key"`
	SessionID   int             `db:"session_id"`
	Title       string          `db:"title"`
	Cinema      string          `db:"cinema"`
	ShowDate    string          `db:"show_date"`
	ShowTime    string          `db:"show_time"`
	PosterImage string          `db:"poster_image"`
	Seats       []TicketSeat    `db:"seats"`
	TotalPrice  decimal.Decimal `db:"total_price"`
}

type TicketSeat struct {
	Number     int    `json:"number"`
	TicketType string `json:"ticket_type"`
}
