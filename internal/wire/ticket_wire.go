package wire

import (
	"kino-tickets/internal/adaptor"
	"kino-tickets/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTicket(r chi.Router, ticketHandler *adaptor.TicketHandler, log *zap.Logger) {
	// ==================== PROTECTED ROUTES (require token) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireToken(log))

		// GET /api/tickets - Tickets booked with this token
		r.Get("/api/tickets", ticketHandler.GetMyTickets)
	})
}
