package adaptor

import (
	"errors"
	"net/http"

	"kino-tickets/internal/upstream"
	"kino-tickets/internal/usecase"
	"kino-tickets/pkg/appearance"
	"kino-tickets/pkg/i18n"
	"kino-tickets/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	Selection *SelectionHandler
	Ticket    *TicketHandler
	Movie     *MovieHandler
	Recommend *RecommendHandler
}

func NewHandler(service *usecase.Service, translator *i18n.Translator, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, translator, log),
		Selection: NewSelectionHandler(service.Seat, translator, log),
		Ticket:    NewTicketHandler(service.Ticket, translator, log),
		Movie:     NewMovieHandler(service.Catalog, translator, log),
		Recommend: NewRecommendHandler(service.Recommend, translator, log),
	}
}

// localeOf returns the locale the Locale middleware resolved for r.
func localeOf(translator *i18n.Translator, r *http.Request) i18n.Locale {
	return translator.Locale(utils.GetLocaleFromContext(r.Context()))
}

func themeOf(r *http.Request) appearance.Theme {
	return appearance.For(utils.GetThemeFromContext(r.Context()))
}

// writeUpstreamError maps a backend failure onto the gateway response.
// Client faults keep the backend status; everything else is a bad gateway.
func writeUpstreamError(w http.ResponseWriter, log *zap.Logger, locale i18n.Locale, err error, operation string) {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.Detail
		if msg == "" {
			msg = locale.T("common.invalidRequest")
		}

		switch statusErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			log.Warn(operation+" rejected by backend", zap.Error(err))
			utils.ResponseBadRequest(w, msg, nil)
			return
		case http.StatusUnauthorized:
			log.Warn(operation+" unauthorized", zap.Error(err))
			utils.ResponseUnauthorized(w, locale.T("auth.loginRequired"))
			return
		case http.StatusForbidden:
			log.Warn(operation+" forbidden", zap.Error(err))
			utils.ResponseForbidden(w, locale.T("auth.notAuthorized"))
			return
		case http.StatusNotFound:
			log.Warn(operation+" not found", zap.Error(err))
			utils.ResponseNotFound(w, msg)
			return
		}
	}

	log.Error(operation+" failed", zap.Error(err))
	utils.ResponseBadGateway(w, locale.T("common.upstreamError"))
}
