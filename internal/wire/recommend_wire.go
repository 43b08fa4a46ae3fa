package wire

import (
	"kino-tickets/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRecommend(r chi.Router, recommendHandler *adaptor.RecommendHandler) {
	// ==================== PUBLIC ROUTES ====================
	// Film list hanya untuk user yang kirim token; tanpa token hanya mood
	r.Post("/api/recommendations", recommendHandler.Recommend)
}
