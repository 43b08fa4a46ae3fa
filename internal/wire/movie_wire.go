package wire

import (
	"kino-tickets/internal/adaptor"
	"kino-tickets/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler, log *zap.Logger) {
	r.Route("/api/films", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// GET /api/films/search?query=dune - Title search in the request language
		r.Get("/search", movieHandler.Search)

		// GET /api/films/now_playing - List by name; GET /api/films/12 - details
		r.Get("/{key}", movieHandler.GetFilms)

		// GET /api/films/{id}/sessions - Showings of a film
		r.Get("/{key}/sessions", movieHandler.GetSessions)

		// ==================== PROTECTED ROUTES (require token) ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireToken(log))

			// POST /api/films/{id}/vote - Rate a film; DELETE removes the rating
			r.Post("/{key}/vote", movieHandler.Vote)
			r.Delete("/{key}/vote", movieHandler.RemoveVote)
		})
	})
}
