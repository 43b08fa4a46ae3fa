package wire

import (
	"kino-tickets/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSelection(r chi.Router, selectionHandler *adaptor.SelectionHandler) {
	// ==================== PUBLIC ROUTES ====================
	// Token opsional: selection tanpa token terbuka untuk pemegang ID-nya
	r.Route("/api/selections", func(r chi.Router) {
		r.Post("/", selectionHandler.Open)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", selectionHandler.Get)
			r.Delete("/", selectionHandler.Close)

			// POST toggles the seat, PUT confirms its ticket type
			r.Post("/seats/{row}/{col}", selectionHandler.SelectSeat)
			r.Put("/seats/{row}/{col}", selectionHandler.ConfirmTicketType)
			r.Delete("/pending", selectionHandler.CancelPending)

			// Missing token is answered by the engine with navigation to login
			r.Post("/submit", selectionHandler.Submit)
		})
	})
}
