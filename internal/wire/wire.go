// internal/wire/wire.go
package wire

import (
	"net/http"

	"kino-tickets/internal/adaptor"
	"kino-tickets/internal/data/repository"
	"kino-tickets/internal/usecase"
	"kino-tickets/pkg/broker"
	"kino-tickets/pkg/i18n"
	"kino-tickets/pkg/middleware"
	"kino-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// Wiring menginisialisasi semua dependencies
func Wiring(
	repo *repository.Repository,
	backend usecase.Backend,
	publisher broker.Publisher,
	translator *i18n.Translator,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	// Initialize services dan handlers
	service := usecase.NewService(repo, backend, publisher, config, logger)
	handler := adaptor.NewHandler(service, translator, logger)

	// Setup router
	router := setupRouter(handler, translator, config, logger)

	return &App{
		Router: router,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	translator *i18n.Translator,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.Locale(translator))
	r.Use(middleware.OptionalBearer(logger))

	// Apply routes
	wireAuth(r, handler.Auth)
	wireMovie(r, handler.Movie, logger)
	wireSelection(r, handler.Selection)
	wireTicket(r, handler.Ticket, logger)
	wireRecommend(r, handler.Recommend)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
